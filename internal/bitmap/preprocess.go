package bitmap

import (
	"fmt"
	"image"
)

type pixelClass uint8

const (
	classBackground pixelClass = iota
	classBright
	classDark
)

type resolvedColor struct {
	luma   float64
	opaque bool
}

// Preprocess converts bm into a black-on-white grayscale image cropped to its
// text. Identical inputs always produce byte-identical output.
func Preprocess(bm Bitmap, palette Palette, opts Options) (*image.Gray, error) {
	if bm.Empty() {
		return nil, fmt.Errorf("%w: %dx%d with %d pixels", ErrEmptyBitmap, bm.Width, bm.Height, len(bm.Pix))
	}
	if len(bm.Pix) != bm.Width*bm.Height {
		return nil, fmt.Errorf("%w: %dx%d needs %d pixels, got %d", ErrMalformed, bm.Width, bm.Height, bm.Width*bm.Height, len(bm.Pix))
	}

	lut, err := resolvePalette(palette, opts.AlphaThreshold)
	if err != nil {
		return nil, err
	}

	classes := make([]pixelClass, len(bm.Pix))
	for i, value := range bm.Pix {
		if palette != nil && int(value) >= len(palette) {
			return nil, fmt.Errorf("%w: pixel (%d,%d) uses index %d, palette has %d entries",
				ErrPaletteIndex, i%bm.Width, i/bm.Width, value, len(palette))
		}
		resolved := lut[value]
		switch {
		case !resolved.opaque:
			classes[i] = classBackground
		case resolved.luma >= opts.LumaThreshold:
			classes[i] = classBright
		default:
			classes[i] = classDark
		}
	}

	text := textClass(classes, bm.Width, bm.Height, opts.Polarity)
	bounds, ok := contentBounds(classes, bm.Width, bm.Height, text)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%d bitmap", ErrNoContent, bm.Width, bm.Height)
	}
	return render(classes, bm.Width, bounds, text, max(opts.Border, 0)), nil
}

func resolvePalette(palette Palette, alphaThreshold uint8) ([256]resolvedColor, error) {
	var lut [256]resolvedColor
	if palette == nil {
		for i := range lut {
			lut[i] = resolvedColor{luma: srgbToLinear(uint8(i)), opaque: true}
		}
		return lut, nil
	}
	if len(palette) == 0 {
		return lut, fmt.Errorf("%w: palette has no entries", ErrPaletteIndex)
	}
	for i := 0; i < len(palette) && i < len(lut); i++ {
		entry := palette[i]
		lut[i] = resolvedColor{luma: Luminance(entry), opaque: entry.A >= alphaThreshold}
	}
	return lut, nil
}

func contentBounds(classes []pixelClass, width, height int, text pixelClass) (image.Rectangle, bool) {
	minX, minY := width, height
	maxX, maxY := -1, -1
	for y := 0; y < height; y++ {
		row := classes[y*width : (y+1)*width]
		for x, class := range row {
			if class != text {
				continue
			}
			minX = min(minX, x)
			maxX = max(maxX, x)
			minY = min(minY, y)
			maxY = max(maxY, y)
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

func render(classes []pixelClass, width int, bounds image.Rectangle, text pixelClass, border int) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, bounds.Dx()+2*border, bounds.Dy()+2*border))
	for i := range out.Pix {
		out.Pix[i] = 0xff
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if classes[y*width+x] == text {
				out.Pix[(y-bounds.Min.Y+border)*out.Stride+(x-bounds.Min.X+border)] = 0
			}
		}
	}
	return out
}
