package threshold

import (
	"pixelsorter/internal/models"
)

const (
	// MaxIntensity is the summed intensity of a white pixel
	MaxIntensity = 3 * 255

	// MaxUsefulThreshold is the largest threshold that can leave any pixel unfiltered.
	// Anything above it filters every pixel.
	MaxUsefulThreshold = MaxIntensity / 2
)

// Intensity is the plain channel sum r+g+b in [0, 765]
func Intensity(p models.Pixel) int {
	return int(p.R) + int(p.G) + int(p.B)
}

// IsFiltered reports whether p falls in the dark band [0, threshold)
// or the bright band [765-threshold, 765]
func IsFiltered(p models.Pixel, threshold int) bool {
	intensity := Intensity(p)
	return intensity < threshold || intensity >= MaxIntensity-threshold
}

// Classify builds the filter mask for r. Negative thresholds are treated as zero.
func Classify(r *models.Raster, threshold int) *models.Mask {
	if threshold < 0 {
		threshold = 0
	}

	mask := models.NewMask(r.Width, r.Height)
	for i, p := range r.Pix {
		if !IsFiltered(p, threshold) {
			mask.Cells[i] = models.Unfiltered
		}
	}
	return mask
}
