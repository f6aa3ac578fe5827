package models

import (
	"fmt"
)

// Pixel is a single 8-bit RGB sample
type Pixel struct {
	R, G, B uint8
}

// Raster is a row-major rectangular pixel buffer.
// len(Pix) is always Width*Height.
type Raster struct {
	Width  int
	Height int
	Pix    []Pixel
}

// NewRaster allocates a zeroed raster
func NewRaster(width, height int) (*Raster, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid raster dimensions: %dx%d", width, height)
	}
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]Pixel, width*height),
	}, nil
}

// NewRasterFromPixels wraps pix without copying after checking its length
func NewRasterFromPixels(width, height int, pix []Pixel) (*Raster, error) {
	r := &Raster{Width: width, Height: height, Pix: pix}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the length invariant
func (r *Raster) Validate() error {
	if r == nil {
		return fmt.Errorf("raster is nil")
	}
	if r.Width < 0 || r.Height < 0 {
		return fmt.Errorf("invalid raster dimensions: %dx%d", r.Width, r.Height)
	}
	if len(r.Pix) != r.Width*r.Height {
		return fmt.Errorf("raster has %d pixels, expected %dx%d=%d",
			len(r.Pix), r.Width, r.Height, r.Width*r.Height)
	}
	return nil
}

func (r *Raster) index(x, y int) int {
	return y*r.Width + x
}

// At returns the pixel at (x, y)
func (r *Raster) At(x, y int) Pixel {
	return r.Pix[r.index(x, y)]
}

// Set stores p at (x, y)
func (r *Raster) Set(x, y int, p Pixel) {
	r.Pix[r.index(x, y)] = p
}

// Row returns row y as a slice aliasing the raster's storage
func (r *Raster) Row(y int) []Pixel {
	start := r.index(0, y)
	return r.Pix[start : start+r.Width : start+r.Width]
}

// Clone returns a deep copy
func (r *Raster) Clone() *Raster {
	pix := make([]Pixel, len(r.Pix))
	copy(pix, r.Pix)
	return &Raster{Width: r.Width, Height: r.Height, Pix: pix}
}

// SubRaster copies rows [rowStart, rowEnd) into a new raster
func (r *Raster) SubRaster(rowStart, rowEnd int) (*Raster, error) {
	if rowStart < 0 || rowEnd > r.Height || rowStart > rowEnd {
		return nil, fmt.Errorf("row range [%d,%d) outside raster height %d", rowStart, rowEnd, r.Height)
	}

	pix := make([]Pixel, (rowEnd-rowStart)*r.Width)
	copy(pix, r.Pix[r.index(0, rowStart):r.index(0, rowEnd)])

	return &Raster{Width: r.Width, Height: rowEnd - rowStart, Pix: pix}, nil
}

// PasteRows writes src into the rows starting at rowStart
func (r *Raster) PasteRows(rowStart int, src *Raster) error {
	if src.Width != r.Width {
		return fmt.Errorf("width mismatch: destination %d, source %d", r.Width, src.Width)
	}
	if rowStart < 0 || rowStart+src.Height > r.Height {
		return fmt.Errorf("rows [%d,%d) outside raster height %d", rowStart, rowStart+src.Height, r.Height)
	}

	copy(r.Pix[r.index(0, rowStart):], src.Pix)
	return nil
}

// Equal reports whether both rasters have the same shape and pixels
func (r *Raster) Equal(other *Raster) bool {
	if r.Width != other.Width || r.Height != other.Height || len(r.Pix) != len(other.Pix) {
		return false
	}
	for i := range r.Pix {
		if r.Pix[i] != other.Pix[i] {
			return false
		}
	}
	return true
}

func (r *Raster) String() string {
	return fmt.Sprintf("<raster %dx%d>", r.Width, r.Height)
}

// Band is a half-open row range [RowStart, RowEnd) of an image
type Band struct {
	Index    int
	RowStart int
	RowEnd   int
}

// Rows returns the band height
func (b Band) Rows() int {
	return b.RowEnd - b.RowStart
}
