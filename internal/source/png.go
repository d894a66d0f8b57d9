package source

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"subocr/internal/bitmap"
)

// LoadPNG decodes one subtitle image into indexed form.
func LoadPNG(path string) (bitmap.Bitmap, bitmap.Palette, error) {
	file, err := os.Open(path)
	if err != nil {
		return bitmap.Bitmap{}, nil, fmt.Errorf("open subtitle image: %w", err)
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return bitmap.Bitmap{}, nil, fmt.Errorf("%w: decode %s: %w", ErrMalformed, path, err)
	}
	bm, palette := Indexed(img)
	return bm, palette, nil
}

// Indexed converts img to a palette-indexed bitmap. Paletted images keep their
// palette; anything else is quantised with QuantisedPalette.
func Indexed(img image.Image) (bitmap.Bitmap, bitmap.Palette) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pix := make([]uint8, w*h)

	if paletted, ok := img.(*image.Paletted); ok {
		for y := 0; y < h; y++ {
			row := paletted.Pix[y*paletted.Stride : y*paletted.Stride+w]
			copy(pix[y*w:], row)
		}
		palette := make(bitmap.Palette, len(paletted.Palette))
		for i, c := range paletted.Palette {
			palette[i] = color.NRGBAModel.Convert(c).(color.NRGBA)
		}
		return bitmap.Bitmap{Width: w, Height: h, Pix: pix}, palette
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			pix[y*w+x] = quantise(c)
		}
	}
	return bitmap.Bitmap{Width: w, Height: h, Pix: pix}, QuantisedPalette()
}

// Image renders bm back into an image: paletted when a palette is given,
// grayscale otherwise. Out-of-range indices keep their raw value and render
// with the zero palette colour.
func Image(bm bitmap.Bitmap, palette bitmap.Palette) image.Image {
	rect := image.Rect(0, 0, bm.Width, bm.Height)
	if palette == nil {
		img := image.NewGray(rect)
		copy(img.Pix, bm.Pix)
		return img
	}
	colors := make(color.Palette, len(palette))
	for i, c := range palette {
		colors[i] = c
	}
	img := image.NewPaletted(rect, colors)
	copy(img.Pix, bm.Pix)
	return img
}

// QuantisedPalette has 256 entries: index a<<4|g holds gray level g*17 at
// alpha a*17.
func QuantisedPalette() bitmap.Palette {
	palette := make(bitmap.Palette, 256)
	for i := range palette {
		level := uint8(i&0x0f) * 17
		alpha := uint8(i>>4) * 17
		palette[i] = color.NRGBA{R: level, G: level, B: level, A: alpha}
	}
	return palette
}

func quantise(c color.NRGBA) uint8 {
	gray := color.GrayModel.Convert(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}).(color.Gray).Y
	return (c.A>>4)<<4 | gray>>4
}
