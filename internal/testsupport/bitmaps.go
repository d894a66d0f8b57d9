package testsupport

import (
	"image/color"

	"subocr/internal/bitmap"
)

// Palette indices used by SubtitlePalette.
const (
	Transparent uint8 = iota
	Fill
	Outline
)

// SubtitlePalette is the classic DVD/PGS layout: transparent background,
// white glyph fill, black outline.
func SubtitlePalette() bitmap.Palette {
	return bitmap.Palette{
		{R: 0, G: 0, B: 0, A: 0},
		{R: 255, G: 255, B: 255, A: 255},
		{R: 0, G: 0, B: 0, A: 255},
	}
}

// OutlinedBitmap draws a fillW x fillH bar of Fill surrounded by a one pixel
// Outline ring, centred on a transparent width x height canvas.
func OutlinedBitmap(width, height, fillW, fillH int) bitmap.Bitmap {
	pix := make([]uint8, width*height)
	x0 := (width - (fillW + 2)) / 2
	y0 := (height - (fillH + 2)) / 2
	for y := y0; y < y0+fillH+2; y++ {
		for x := x0; x < x0+fillW+2; x++ {
			if x < 0 || y < 0 || x >= width || y >= height {
				continue
			}
			value := Outline
			if x > x0 && x < x0+fillW+1 && y > y0 && y < y0+fillH+1 {
				value = Fill
			}
			pix[y*width+x] = value
		}
	}
	return bitmap.Bitmap{Width: width, Height: height, Pix: pix}
}

// GrayColor is a fully opaque palette entry with the given gray level.
func GrayColor(level uint8) color.NRGBA {
	return color.NRGBA{R: level, G: level, B: level, A: 255}
}
