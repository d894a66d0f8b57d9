package bitmap

import (
	"image/color"
	"math"
)

// srgbToLinear converts one sRGB channel to linear light.
func srgbToLinear(channel uint8) float64 {
	value := float64(channel) / 255
	if value <= 0.04045 {
		return value / 12.92
	}
	return math.Pow((value+0.055)/1.055, 2.4)
}

// Luminance returns the Rec. 709 relative luminance of c, ignoring alpha.
func Luminance(c color.NRGBA) float64 {
	return 0.2126*srgbToLinear(c.R) + 0.7152*srgbToLinear(c.G) + 0.0722*srgbToLinear(c.B)
}
