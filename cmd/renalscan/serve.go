package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"renalscan/internal/detect"
	"renalscan/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the detection HTTP API",
		Long: `Serve starts the HTTP API: POST an image to /predict and receive the
structured analysis, the narrative report and the annotated image as a
base64-encoded PNG.

The listen address comes from the config file; RENALSCAN_ADDR in the
environment (or a .env file) overrides it.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("addr", "a", "", "Listen address (overrides config and env)")
	cmd.Flags().Int64P("seed", "s", 0,
		"Random seed for reproducible runs (0 = time-seeded)")

	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)

	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if env := os.Getenv("RENALSCAN_ADDR"); env != "" {
		cfg.Server.Addr = env
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	seed, _ := cmd.Flags().GetInt64("seed")
	detector, closer, err := detect.FromConfig(cfg, seed)
	if err != nil {
		return err
	}
	defer closer() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, detector, slog.Default())
	return srv.ListenAndServe(ctx)
}
