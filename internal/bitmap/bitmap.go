package bitmap

import (
	"errors"
	"image/color"
)

var (
	// ErrEmptyBitmap marks a bitmap without any pixels.
	ErrEmptyBitmap = errors.New("empty bitmap")
	// ErrNoContent marks a bitmap whose text bounding box has zero area.
	ErrNoContent = errors.New("no text content")
	// ErrPaletteIndex marks a pixel that references a missing palette entry.
	ErrPaletteIndex = errors.New("palette index out of range")
	// ErrMalformed marks a pixel buffer that does not match the declared size.
	ErrMalformed = errors.New("malformed bitmap")
)

// Bitmap is a row-major pixel buffer. Each byte is a palette index, or an
// opaque gray level when the accompanying palette is nil.
type Bitmap struct {
	Width  int
	Height int
	Pix    []uint8
}

// Empty reports whether the bitmap has no pixels at all.
func (b Bitmap) Empty() bool {
	return b.Width <= 0 || b.Height <= 0 || len(b.Pix) == 0
}

// Palette is the colour table referenced by Bitmap pixels.
type Palette []color.NRGBA

// Polarity selects which opaque pixels are treated as text.
type Polarity string

const (
	// PolarityAuto picks the text class with a deterministic heuristic.
	PolarityAuto Polarity = "auto"
	// PolarityLight treats bright opaque pixels as text.
	PolarityLight Polarity = "light"
	// PolarityDark treats dark opaque pixels as text.
	PolarityDark Polarity = "dark"
)

// ParsePolarity validates a polarity name. An empty value means auto.
func ParsePolarity(value string) (Polarity, bool) {
	switch Polarity(value) {
	case "", PolarityAuto:
		return PolarityAuto, true
	case PolarityLight:
		return PolarityLight, true
	case PolarityDark:
		return PolarityDark, true
	default:
		return "", false
	}
}

// Options controls preprocessing.
type Options struct {
	// AlphaThreshold is the minimum alpha for a pixel to count as opaque.
	AlphaThreshold uint8
	// LumaThreshold splits bright from dark pixels, in linear luminance [0,1].
	LumaThreshold float64
	// Border is the white margin added around the cropped text, in pixels.
	Border int
	Polarity Polarity
}

// DefaultOptions returns the thresholds used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		AlphaThreshold: 100,
		LumaThreshold:  0.5,
		Border:         5,
		Polarity:       PolarityAuto,
	}
}
