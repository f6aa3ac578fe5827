package transform

import (
	"cmp"
	"slices"

	"pixelsorter/internal/models"
	"pixelsorter/internal/processing/runs"
)

// RunSorter sorts each run ascending by Key
type RunSorter struct {
	Key models.KeyFunc
}

func (s *RunSorter) Mode() models.Mode {
	return models.ModeSort
}

func (s *RunSorter) TransformRow(r *models.Raster, mask *models.Mask, row int) []runs.Run {
	found := runs.ExtractRow(mask, row)
	for _, run := range found {
		SortRun(r, run, s.Key)
	}
	return found
}

// SortRun stable-sorts the pixels of run in place. The run keeps its length
// and position; equal keys keep their original order.
func SortRun(r *models.Raster, run runs.Run, key models.KeyFunc) {
	span := r.Row(run.Row)[run.Start:run.End]
	slices.SortStableFunc(span, func(a, b models.Pixel) int {
		return cmp.Compare(key(a), key(b))
	})
}
