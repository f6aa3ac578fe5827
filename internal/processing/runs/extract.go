package runs

import (
	"fmt"

	"github.com/samber/lo"

	"pixelsorter/internal/models"
)

// Run is a half-open span [Start, End) of unfiltered cells in one row
type Run struct {
	Row   int
	Start int
	End   int
}

// Len returns the number of pixels in the run
func (r Run) Len() int {
	return r.End - r.Start
}

func (r Run) String() string {
	return fmt.Sprintf("row %d [%d,%d)", r.Row, r.Start, r.End)
}

// ExtractRow returns the maximal unfiltered runs of one mask row, left to right
func ExtractRow(mask *models.Mask, row int) []Run {
	var found []Run

	start := -1
	for x, v := range mask.Row(row) {
		switch {
		case v == models.Unfiltered && start < 0:
			start = x
		case v == models.Filtered && start >= 0:
			found = append(found, Run{Row: row, Start: start, End: x})
			start = -1
		}
	}

	// flush a run still open at the row end
	if start >= 0 {
		found = append(found, Run{Row: row, Start: start, End: mask.Width})
	}

	return found
}

// Extract returns the runs of every row in row order
func Extract(mask *models.Mask) []Run {
	var all []Run
	for y := 0; y < mask.Height; y++ {
		all = append(all, ExtractRow(mask, y)...)
	}
	return all
}

// Coverage returns the total number of pixels covered by runs
func Coverage(found []Run) int {
	return lo.SumBy(found, func(r Run) int {
		return r.Len()
	})
}
