// Package server provides the thin HTTP layer over the detection pipeline:
// upload validation in, JSON plus a base64 PNG out. The pipeline itself
// owns no wire formats; everything transport-shaped lives here.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"renalscan/internal/config"
	"renalscan/internal/detect"
)

// Server serves the detection API.
type Server struct {
	detector  *detect.Detector
	logger    *slog.Logger
	addr      string
	maxUpload int64
}

// New creates a Server around a detector.
func New(cfg *config.Config, detector *detect.Detector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		detector:  detector,
		logger:    logger,
		addr:      cfg.Server.Addr,
		maxUpload: cfg.Server.MaxUploadBytes,
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict", s.handlePredict)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// ListenAndServe runs the server until the context is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
