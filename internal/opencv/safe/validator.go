package safe

import (
	"fmt"
)

// MaxDimension bounds either side of a Mat handed to OpenCV
const MaxDimension = 32768

// Validate checks that m is open, non-empty and has the given channel count
func Validate(m *Mat, channels int, operation string) error {
	if m == nil {
		return fmt.Errorf("%s: Mat is nil", operation)
	}
	if !m.IsValid() {
		return fmt.Errorf("%s: %w", operation, ErrClosed)
	}

	cols, rows, got := m.Size()
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("%s: Mat is empty (%dx%d)", operation, cols, rows)
	}
	if channels > 0 && got != channels {
		return fmt.Errorf("%s: requires %d channels, got %d", operation, channels, got)
	}
	return nil
}

// ValidateDimensions rejects empty or oversized output sizes
func ValidateDimensions(width, height int, operation string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%s: invalid dimensions %dx%d", operation, width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%s: dimensions %dx%d exceed %d", operation, width, height, MaxDimension)
	}
	return nil
}
