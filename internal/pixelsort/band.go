package pixelsort

import (
	"context"

	"pixelsorter/internal/models"
	"pixelsorter/internal/processing/runs"
	"pixelsorter/internal/processing/threshold"
	"pixelsorter/internal/processing/transform"
)

// BandStats summarises the work done on one band
type BandStats struct {
	Rows         int
	Runs         int
	SortedPixels int
}

// ProcessBand classifies band and transforms every row's runs. The input is
// not modified; the returned raster has the same shape.
func ProcessBand(band *models.Raster, intensity int, t transform.Transformer) (*models.Raster, BandStats) {
	out, stats, _ := processBand(context.Background(), band, intensity, t)
	return out, stats
}

// processBand stops between rows once ctx is done
func processBand(ctx context.Context, band *models.Raster, intensity int, t transform.Transformer) (*models.Raster, BandStats, error) {
	out := band.Clone()
	mask := threshold.Classify(out, intensity)

	stats := BandStats{Rows: out.Height}
	for y := 0; y < out.Height; y++ {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		found := t.TransformRow(out, mask, y)
		stats.Runs += len(found)
		stats.SortedPixels += runs.Coverage(found)
	}

	return out, stats, nil
}
