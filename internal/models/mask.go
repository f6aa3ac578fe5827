package models

// MaskValue tags a pixel as filtered or unfiltered
type MaskValue uint8

const (
	Filtered MaskValue = iota
	Unfiltered
)

// Mask is a per-pixel binary classification with the raster's shape
type Mask struct {
	Width  int
	Height int
	Cells  []MaskValue
}

// NewMask allocates a mask with every cell Filtered
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Cells:  make([]MaskValue, width*height),
	}
}

// At returns the cell at (x, y)
func (m *Mask) At(x, y int) MaskValue {
	return m.Cells[y*m.Width+x]
}

// Row returns row y aliasing the mask's storage
func (m *Mask) Row(y int) []MaskValue {
	start := y * m.Width
	return m.Cells[start : start+m.Width : start+m.Width]
}

// ToRaster renders filtered cells black and unfiltered cells white
func (m *Mask) ToRaster() *Raster {
	pix := make([]Pixel, len(m.Cells))
	for i, v := range m.Cells {
		if v == Unfiltered {
			pix[i] = Pixel{R: 255, G: 255, B: 255}
		}
	}
	return &Raster{Width: m.Width, Height: m.Height, Pix: pix}
}
