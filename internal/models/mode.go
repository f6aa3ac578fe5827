package models

import (
	"fmt"
	"strings"
)

// Mode selects what happens to each run
type Mode int

const (
	ModeSort Mode = iota
	ModeColor
)

func (m Mode) String() string {
	switch m {
	case ModeSort:
		return "sort"
	case ModeColor:
		return "color"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts short names as well as the long usage spellings
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sort", "sorting", "pixelsort", "pixelsorting":
		return ModeSort, nil
	case "color", "colour", "coloring", "colouring":
		return ModeColor, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want pixelsorting or coloring)", s)
	}
}
