package pixelsort

import (
	"fmt"

	"pixelsorter/internal/models"
)

// SplitBands partitions height rows into count bands of height/count rows.
// The last band also takes the height%count leftover rows, so the bands
// always cover [0, height) exactly once.
func SplitBands(height, count int) ([]models.Band, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: band count must be at least 1, got %d", ErrInvalidDimensions, count)
	}

	size := height / count
	if size == 0 {
		return nil, fmt.Errorf("%w: %d rows cannot be split into %d non-empty bands",
			ErrInvalidDimensions, height, count)
	}

	bands := make([]models.Band, count)
	for i := range bands {
		bands[i] = models.Band{
			Index:    i,
			RowStart: i * size,
			RowEnd:   (i + 1) * size,
		}
	}
	bands[count-1].RowEnd = height

	return bands, nil
}

// Stitch writes every band result into a fresh raster at its original rows
func Stitch(width, height int, bands []models.Band, results []*models.Raster) (*models.Raster, error) {
	if len(bands) != len(results) {
		return nil, fmt.Errorf("%w: %d bands but %d results", ErrWorkerFailure, len(bands), len(results))
	}

	out, err := models.NewRaster(width, height)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDimensions, err)
	}

	for i, band := range bands {
		result := results[i]
		if result == nil || result.Width != width || result.Height != band.Rows() || result.Validate() != nil {
			return nil, fmt.Errorf("%w: band %d returned a malformed raster", ErrWorkerFailure, band.Index)
		}
		if err := out.PasteRows(band.RowStart, result); err != nil {
			return nil, fmt.Errorf("%w: band %d: %w", ErrWorkerFailure, band.Index, err)
		}
	}

	return out, nil
}
