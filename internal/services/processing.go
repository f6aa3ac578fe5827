package services

import (
	"context"
	"fmt"

	"pixelsorter/internal/debug/timing"
	"pixelsorter/internal/logger"
	"pixelsorter/internal/models"
	"pixelsorter/internal/opencv/geometry"
	"pixelsorter/internal/pixelsort"
	"pixelsorter/internal/processing/threshold"
)

// Rotator turns rasters around their centre. Implemented by geometry for
// production and replaced in tests.
type Rotator interface {
	Rotate(src *models.Raster, angle float64, expand bool) (*models.Raster, error)
	CropCenter(src *models.Raster, width, height int) (*models.Raster, error)
}

type opencvRotator struct{}

func (opencvRotator) Rotate(src *models.Raster, angle float64, expand bool) (*models.Raster, error) {
	return geometry.Rotate(src, angle, expand)
}

func (opencvRotator) CropCenter(src *models.Raster, width, height int) (*models.Raster, error) {
	return geometry.CropCenter(src, width, height)
}

// ProcessingService runs the pixelsort with the rotation pre and post steps
type ProcessingService struct {
	logger  logger.Logger
	timing  *timing.Tracker
	sorter  *pixelsort.Sorter
	rotator Rotator
}

// NewProcessingService creates a new processing service backed by OpenCV rotation
func NewProcessingService(log logger.Logger, tracker *timing.Tracker) *ProcessingService {
	return NewProcessingServiceWithRotator(log, tracker, opencvRotator{})
}

// NewProcessingServiceWithRotator creates a processing service with a custom rotator
func NewProcessingServiceWithRotator(log logger.Logger, tracker *timing.Tracker, rotator Rotator) *ProcessingService {
	if log == nil {
		log = logger.NewNop()
	}
	return &ProcessingService{
		logger:  log,
		timing:  tracker,
		sorter:  pixelsort.NewSorter(log, tracker),
		rotator: rotator,
	}
}

// SortOptions converts a configuration into orchestrator options
func SortOptions(cfg *models.SortConfiguration) (pixelsort.Options, error) {
	key, err := models.ParseKey(cfg.Key)
	if err != nil {
		return pixelsort.Options{}, err
	}
	return pixelsort.Options{
		Threshold:  cfg.Threshold,
		Bands:      cfg.Bands,
		MaxWorkers: cfg.MaxWorkers,
		Mode:       cfg.Mode,
		Key:        key,
		Seed:       cfg.Seed,
		Seeded:     cfg.Seeded,
	}, nil
}

// ProcessImage rotates src by cfg.Angle with an expanded canvas, pixelsorts
// it, and rotates it back by -cfg.Angle on the same canvas. With cfg.Crop the
// result is cut back to the source size.
func (ps *ProcessingService) ProcessImage(ctx context.Context, src *models.Raster, cfg *models.SortConfiguration) (*models.Raster, *pixelsort.Report, error) {
	opts, err := SortOptions(cfg)
	if err != nil {
		return nil, nil, err
	}

	working := src
	if cfg.Angle != 0 {
		span := ps.timing.Start("rotate")
		working, err = ps.rotator.Rotate(src, float64(cfg.Angle), true)
		span.End()
		if err != nil {
			return nil, nil, fmt.Errorf("rotation by %d degrees failed: %w", cfg.Angle, err)
		}
		ps.logger.Debug("ProcessingService", "image rotated", map[string]interface{}{
			"angle":  cfg.Angle,
			"width":  working.Width,
			"height": working.Height,
		})
	}

	if cfg.Threshold > threshold.MaxUsefulThreshold {
		ps.logger.Warning("ProcessingService", "intensity filters every pixel, output equals input", map[string]interface{}{
			"intensity": cfg.Threshold,
			"max":       threshold.MaxUsefulThreshold,
		})
	}

	result, report, err := ps.sorter.Sort(ctx, working, opts)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Angle != 0 {
		span := ps.timing.Start("rotate")
		result, err = ps.rotator.Rotate(result, float64(-cfg.Angle), false)
		span.End()
		if err != nil {
			return nil, nil, fmt.Errorf("rotation back by %d degrees failed: %w", -cfg.Angle, err)
		}

		if cfg.Crop {
			result, err = ps.rotator.CropCenter(result, src.Width, src.Height)
			if err != nil {
				return nil, nil, fmt.Errorf("cropping to %dx%d failed: %w", src.Width, src.Height, err)
			}
		}
	}

	return result, report, nil
}

// FilterMask renders the intensity mask of src as a black and white raster
func (ps *ProcessingService) FilterMask(src *models.Raster, intensity int) *models.Raster {
	return threshold.Classify(src, intensity).ToRaster()
}
