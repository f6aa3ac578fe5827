package threshold

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pixelsorter/internal/models"
)

func gray(v uint8) models.Pixel {
	return models.Pixel{R: v, G: v, B: v}
}

func TestIsFilteredBands(t *testing.T) {
	tests := []struct {
		name      string
		pixel     models.Pixel
		threshold int
		want      bool
	}{
		{"black is dark", gray(0), 100, true},
		{"just below dark edge", models.Pixel{R: 99}, 100, true},
		{"dark edge is unfiltered", models.Pixel{R: 100}, 100, false},
		{"mid gray", gray(128), 100, false},
		{"just below bright edge", models.Pixel{R: 255, G: 255, B: 154}, 100, false},
		{"bright edge is filtered", models.Pixel{R: 255, G: 255, B: 155}, 100, true},
		{"white is bright", gray(255), 100, true},
		{"zero threshold keeps black", gray(0), 0, false},
		{"zero threshold still filters pure white", gray(255), 0, true},
		{"zero threshold keeps near white", models.Pixel{R: 255, G: 255, B: 254}, 0, false},
		{"largest useful threshold keeps middle", models.Pixel{R: 128, G: 127, B: 127}, MaxUsefulThreshold, false},
		{"degenerate threshold filters middle", models.Pixel{R: 128, G: 127, B: 127}, MaxUsefulThreshold + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFiltered(tt.pixel, tt.threshold))
		})
	}
}

func TestClassifyDegenerateThresholdFiltersEverything(t *testing.T) {
	r, err := models.NewRaster(16, 16)
	require.NoError(t, err)
	for i := range r.Pix {
		r.Pix[i] = models.Pixel{R: uint8(i), G: uint8(i * 3), B: uint8(i * 7)}
	}

	for _, threshold := range []int{383, 500, 10000} {
		mask := Classify(r, threshold)
		for i, v := range mask.Cells {
			require.Equal(t, models.Filtered, v, "threshold %d cell %d", threshold, i)
		}
	}
}

func TestClassifyShapeAndPurity(t *testing.T) {
	r, err := models.NewRasterFromPixels(3, 2, []models.Pixel{
		gray(0), gray(100), gray(255),
		gray(60), gray(200), gray(30),
	})
	require.NoError(t, err)
	before := r.Clone()

	mask := Classify(r, 150)

	assert.Equal(t, 3, mask.Width)
	assert.Equal(t, 2, mask.Height)
	assert.Equal(t, []models.MaskValue{
		models.Filtered, models.Unfiltered, models.Filtered,
		models.Unfiltered, models.Unfiltered, models.Filtered,
	}, mask.Cells)
	assert.True(t, before.Equal(r), "classification must not modify its input")
}
