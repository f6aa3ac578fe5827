// Package transform rewrites the unfiltered runs of a raster in place.
package transform

import (
	"fmt"
	"math/rand/v2"

	"pixelsorter/internal/models"
	"pixelsorter/internal/processing/runs"
)

// Transformer rewrites every run of one row and returns the runs it touched
type Transformer interface {
	TransformRow(r *models.Raster, mask *models.Mask, row int) []runs.Run
	Mode() models.Mode
}

// New builds the transformer for mode. rng is only used in color mode and
// must not be shared with another goroutine.
func New(mode models.Mode, key models.KeyFunc, rng *rand.Rand) (Transformer, error) {
	switch mode {
	case models.ModeSort:
		if key == nil {
			key = models.WeightedKey
		}
		return &RunSorter{Key: key}, nil
	case models.ModeColor:
		if rng == nil {
			return nil, fmt.Errorf("color mode requires a random source")
		}
		return &RunColorer{Rand: rng}, nil
	default:
		return nil, fmt.Errorf("unsupported mode: %v", mode)
	}
}
