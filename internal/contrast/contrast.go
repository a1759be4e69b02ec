// Package contrast picks legible text colors for colored backgrounds.
package contrast

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidColorFormat is returned for color strings that are not exactly
// six hex digits with an optional leading "#".
var ErrInvalidColorFormat = errors.New("invalid color format")

// TextColor is the foreground chosen for text on a colored box.
type TextColor uint8

const (
	White TextColor = iota
	Black
)

func (c TextColor) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// RGB returns the concrete drawing color.
func (c TextColor) RGB() color.NRGBA {
	if c == Black {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{R: 255, G: 255, B: 255, A: 255}
}

// luminanceThreshold sits on the 0..255 brightness scale. Backgrounds
// strictly brighter than this get black text, everything else white, so a
// background exactly on the threshold keeps white.
const luminanceThreshold = 127.5

// ParseHex decodes "#RRGGBB" or "RRGGBB" into an opaque color. Shorthand
// forms like "#abc" are rejected.
func ParseHex(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(hex, "#")
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, hex)
	}
	return color.NRGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}

// FormatHex renders a color back to lowercase "#rrggbb".
func FormatHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Luminance computes perceived brightness with the BT.601 luma weights
// (0.299 R + 0.587 G + 0.114 B). The integer numerator keeps the result
// exact, so colors landing precisely on the threshold compare predictably.
func Luminance(c color.NRGBA) float64 {
	return float64(299*int(c.R)+587*int(c.G)+114*int(c.B)) / 1000
}

// ForBackground picks black or white text for a background color.
func ForBackground(c color.NRGBA) TextColor {
	if Luminance(c) > luminanceThreshold {
		return Black
	}
	return White
}

// TextColorFor picks black or white text for the given background hex so
// labels stay legible. The background normally comes from a validated preset
// or custom color; garbage input fails loudly rather than producing an
// arbitrary choice.
func TextColorFor(hex string) (TextColor, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return White, err
	}
	return ForBackground(c), nil
}
