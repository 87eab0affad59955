package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"renalscan/internal/analyze"
	"renalscan/internal/meta"
	"renalscan/internal/raster"
	"renalscan/pkg/geometry"
)

// allowedExtensions are the upload formats the server accepts.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
}

// predictResponse is the wire shape of a detection result.
type predictResponse struct {
	StoneDetected  bool               `json:"stone_detected"`
	SizePixels     int                `json:"size_pixels"`
	Location       analyze.Location   `json:"location"`
	Confidence     float64            `json:"confidence"`
	Center         *geometry.PointInt `json:"center,omitempty"`
	ProcessedImage string             `json:"processed_image"`
	Report         string             `json:"report"`
	Metadata       []meta.Tag         `json:"metadata,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handlePredict accepts a multipart image upload, runs the pipeline and
// responds with the analysis plus the annotated image as base64 PNG.
func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile("image")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "no image file provided")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		s.writeError(w, http.StatusBadRequest,
			"invalid file type, upload JPG, PNG or TIFF images")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		s.writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}

	img, err := raster.Decode(bytes.NewReader(data))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "failed to decode image")
		return
	}

	outcome, err := s.detector.Run(img)
	if err != nil {
		if errors.Is(err, raster.ErrInvalidImage) {
			s.writeError(w, http.StatusBadRequest, "invalid image")
			return
		}
		s.logger.Error("detection failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "an error occurred during image processing")
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, outcome.Annotated.ToImage()); err != nil {
		s.logger.Error("failed to encode annotated image", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to encode result image")
		return
	}

	s.logger.Info("image analyzed",
		"filename", header.Filename,
		"stone_detected", outcome.Analysis.StoneDetected,
		"location", outcome.Analysis.Location)

	s.writeJSON(w, http.StatusOK, predictResponse{
		StoneDetected:  outcome.Analysis.StoneDetected,
		SizePixels:     outcome.Analysis.SizePixels,
		Location:       outcome.Analysis.Location,
		Confidence:     outcome.Analysis.Confidence,
		Center:         outcome.Analysis.Center,
		ProcessedImage: base64.StdEncoding.EncodeToString(buf.Bytes()),
		Report:         outcome.Report,
		Metadata:       meta.Extract(data),
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to write response", "error", err)
	}
}
