package pixelsort

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"pixelsorter/internal/debug/timing"
	"pixelsorter/internal/logger"
	"pixelsorter/internal/models"
	"pixelsorter/internal/processing/transform"
)

// Options controls one parallel pixelsort
type Options struct {
	Threshold int
	Bands     int

	// MaxWorkers caps concurrently running bands; 0 runs every band at once
	MaxWorkers int

	Mode models.Mode
	Key  models.KeyFunc

	// Seed makes color mode reproducible when Seeded is set
	Seed   uint64
	Seeded bool
}

// BandReport describes one finished band
type BandReport struct {
	Band     models.Band
	Stats    BandStats
	Duration time.Duration
}

// Report summarises a finished sort
type Report struct {
	Bands        []BandReport
	Runs         int
	SortedPixels int
}

type bandFunc func(ctx context.Context, band *models.Raster, intensity int, t transform.Transformer) (*models.Raster, BandStats, error)

// Sorter runs the band pipeline concurrently and reassembles the result
type Sorter struct {
	logger  logger.Logger
	timing  *timing.Tracker
	process bandFunc
}

func NewSorter(log logger.Logger, tracker *timing.Tracker) *Sorter {
	if log == nil {
		log = logger.NewNop()
	}
	return &Sorter{
		logger:  log,
		timing:  tracker,
		process: processBand,
	}
}

// Sort splits img into opts.Bands horizontal bands, processes them in
// parallel and stitches the results into a new raster. img is never
// modified. The first failing band cancels the rest and no raster is
// returned.
func (s *Sorter) Sort(ctx context.Context, img *models.Raster, opts Options) (*models.Raster, *Report, error) {
	bands, err := s.validate(img, opts)
	if err != nil {
		return nil, nil, err
	}

	transformers := make([]transform.Transformer, len(bands))
	for i, band := range bands {
		t, err := transform.New(opts.Mode, opts.Key, bandRand(opts, band))
		if err != nil {
			return nil, nil, err
		}
		transformers[i] = t
	}

	s.logger.Info("Sorter", "sort started", map[string]interface{}{
		"width":       img.Width,
		"height":      img.Height,
		"bands":       len(bands),
		"threshold":   opts.Threshold,
		"mode":        opts.Mode.String(),
		"max_workers": opts.MaxWorkers,
	})

	total := s.timing.Start("sort")
	results := make([]*models.Raster, len(bands))
	reports := make([]BandReport, len(bands))

	g, gctx := errgroup.WithContext(ctx)
	if opts.MaxWorkers > 0 {
		g.SetLimit(opts.MaxWorkers)
	}

	for i, band := range bands {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: band %d panicked: %v", ErrWorkerFailure, band.Index, r)
				}
			}()

			if err := gctx.Err(); err != nil {
				return err
			}

			sub, err := img.SubRaster(band.RowStart, band.RowEnd)
			if err != nil {
				return fmt.Errorf("%w: band %d: %w", ErrWorkerFailure, band.Index, err)
			}

			start := time.Now()
			span := s.timing.Start("band")
			out, stats, err := s.process(gctx, sub, opts.Threshold, transformers[i])
			span.End()
			if err != nil {
				return fmt.Errorf("band %d: %w", band.Index, err)
			}

			results[i] = out
			reports[i] = BandReport{Band: band, Stats: stats, Duration: time.Since(start)}

			s.logger.Debug("Sorter", "band completed", map[string]interface{}{
				"band":      band.Index,
				"rows":      band.Rows(),
				"runs":      stats.Runs,
				"pixels":    stats.SortedPixels,
				"row_start": band.RowStart,
				"duration":  reports[i].Duration.String(),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error("Sorter", err, map[string]interface{}{
			"bands": len(bands),
		})
		return nil, nil, err
	}

	out, err := Stitch(img.Width, img.Height, bands, results)
	if err != nil {
		s.logger.Error("Sorter", err, nil)
		return nil, nil, err
	}

	report := &Report{Bands: reports}
	for _, r := range reports {
		report.Runs += r.Stats.Runs
		report.SortedPixels += r.Stats.SortedPixels
	}

	s.logger.Info("Sorter", "sort completed", map[string]interface{}{
		"runs":     report.Runs,
		"pixels":   report.SortedPixels,
		"duration": total.End().String(),
	})

	return out, report, nil
}

// validate rejects bad input before any goroutine starts
func (s *Sorter) validate(img *models.Raster, opts Options) ([]models.Band, error) {
	if opts.Threshold < 0 {
		return nil, fmt.Errorf("%w: must be non-negative, got %d", ErrInvalidThreshold, opts.Threshold)
	}
	if opts.MaxWorkers < 0 {
		return nil, fmt.Errorf("max workers must be non-negative, got %d", opts.MaxWorkers)
	}
	if err := img.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDimensions, err)
	}
	if img.Width == 0 || img.Height == 0 {
		return nil, fmt.Errorf("%w: empty raster %dx%d", ErrInvalidDimensions, img.Width, img.Height)
	}
	return SplitBands(img.Height, opts.Bands)
}

// bandRand gives each band its own random source so no generator is shared
// between goroutines
func bandRand(opts Options, band models.Band) *rand.Rand {
	if opts.Mode != models.ModeColor {
		return nil
	}
	if opts.Seeded {
		return rand.New(rand.NewPCG(opts.Seed, uint64(band.Index)))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}
