package transform

import (
	"math/rand/v2"

	"pixelsorter/internal/models"
	"pixelsorter/internal/processing/runs"
)

// RunColorer paints each run with a flat random color
type RunColorer struct {
	Rand *rand.Rand
}

func (c *RunColorer) Mode() models.Mode {
	return models.ModeColor
}

// TransformRow draws one color at the row start and a fresh one for every
// filtered pixel crossed; each run takes the color current at its start.
func (c *RunColorer) TransformRow(r *models.Raster, mask *models.Mask, row int) []runs.Run {
	found := runs.ExtractRow(mask, row)

	color := RandomColor(c.Rand)
	prevEnd := 0
	for _, run := range found {
		for x := prevEnd; x < run.Start; x++ {
			color = RandomColor(c.Rand)
		}
		ColorRun(r, run, color)
		prevEnd = run.End
	}
	// trailing filtered pixels still consume one draw each
	for x := prevEnd; x < mask.Width; x++ {
		RandomColor(c.Rand)
	}

	return found
}

// ColorRun overwrites every pixel of run with color
func ColorRun(r *models.Raster, run runs.Run, color models.Pixel) {
	span := r.Row(run.Row)[run.Start:run.End]
	for i := range span {
		span[i] = color
	}
}

// RandomColor draws each channel from [0, 254]
func RandomColor(rng *rand.Rand) models.Pixel {
	return models.Pixel{
		R: uint8(rng.IntN(255)),
		G: uint8(rng.IntN(255)),
		B: uint8(rng.IntN(255)),
	}
}
