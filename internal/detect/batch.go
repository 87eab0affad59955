package detect

import (
	"context"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"renalscan/internal/raster"
)

// BatchItem is the outcome of one image in a batch run. A failed image
// records its error and does not abort the rest of the batch.
type BatchItem struct {
	Path    string
	Outcome *Outcome
	Err     error
}

// BatchRunner processes many image files concurrently with a single shared
// Detector. Detections are independent and stateless, so only the
// concurrency limit bounds parallelism.
type BatchRunner struct {
	detector    *Detector
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchRunner.
type BatchOption func(*BatchRunner)

// WithConcurrency sets the maximum number of images processed at once.
// Default is 4 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchRunner) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithLogger sets a custom logger for batch progress.
func WithLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchRunner) {
		b.logger = logger
	}
}

// NewBatchRunner creates a BatchRunner around the given detector.
func NewBatchRunner(detector *Detector, opts ...BatchOption) *BatchRunner {
	b := &BatchRunner{
		detector:    detector,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Run processes every path and returns one item per input, in input order.
// It stops early only on context cancellation; per-image failures are
// recorded on their items.
func (b *BatchRunner) Run(ctx context.Context, paths []string) ([]BatchItem, error) {
	items := make([]BatchItem, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, path := range paths {
		items[i].Path = path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				items[i].Err = err
				return err
			}
			outcome, err := b.runOne(path)
			items[i].Outcome = outcome
			items[i].Err = err
			if err != nil {
				b.logger.Warn("image failed", "path", path, "error", err)
			} else {
				b.logger.Info("image analyzed", "path", path,
					"stone_detected", outcome.Analysis.StoneDetected)
			}
			return nil
		})
	}

	err := g.Wait()
	return items, err
}

// runOne loads and analyzes a single image file.
func (b *BatchRunner) runOne(path string) (*Outcome, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := raster.Decode(f)
	if err != nil {
		return nil, err
	}
	return b.detector.Run(img)
}
