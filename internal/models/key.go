package models

import (
	"fmt"
	"strings"
)

// KeyFunc maps a pixel to its sort key
type KeyFunc func(Pixel) int

// WeightedKey is 65025*r + 255*g + b.
// Channel weights use base 255, so a full green+blue contribution (65280)
// outweighs one step of red; ties such as (1,0,0) and (0,255,0) exist.
func WeightedKey(p Pixel) int {
	return 65025*int(p.R) + 255*int(p.G) + int(p.B)
}

// LexicographicKey orders by red, then green, then blue
func LexicographicKey(p Pixel) int {
	return int(p.R)<<16 | int(p.G)<<8 | int(p.B)
}

const (
	KeyWeighted      = "weighted"
	KeyLexicographic = "lexicographic"
)

// ParseKey resolves a key function by name; empty selects the weighted key
func ParseKey(name string) (KeyFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", KeyWeighted:
		return WeightedKey, nil
	case KeyLexicographic, "lex", "rgb":
		return LexicographicKey, nil
	default:
		return nil, fmt.Errorf("unknown sort key %q (want %s or %s)", name, KeyWeighted, KeyLexicographic)
	}
}
