package bitmap

// textClass decides which opaque pixels form the glyphs.
//
// For auto: when the bitmap has transparency, the class with the larger share
// of pixels touching the background (or the image edge) is the outline and the
// other class is text. Without transparency the minority class is text. Ties
// resolve to bright text.
func textClass(classes []pixelClass, width, height int, polarity Polarity) pixelClass {
	switch polarity {
	case PolarityLight:
		return classBright
	case PolarityDark:
		return classDark
	}

	var count, touching [3]int
	transparent := false
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			class := classes[y*width+x]
			if class == classBackground {
				transparent = true
				continue
			}
			count[class]++
			if touchesBackground(classes, width, height, x, y) {
				touching[class]++
			}
		}
	}

	switch {
	case count[classBright] == 0 && count[classDark] > 0:
		return classDark
	case count[classDark] == 0:
		return classBright
	}

	if !transparent {
		if count[classDark] < count[classBright] {
			return classDark
		}
		return classBright
	}

	// touching[dark]/count[dark] >= touching[bright]/count[bright], without division.
	if touching[classDark]*count[classBright] >= touching[classBright]*count[classDark] {
		return classBright
	}
	return classDark
}

func touchesBackground(classes []pixelClass, width, height, x, y int) bool {
	if x == 0 || y == 0 || x == width-1 || y == height-1 {
		return true
	}
	return classes[y*width+x-1] == classBackground ||
		classes[y*width+x+1] == classBackground ||
		classes[(y-1)*width+x] == classBackground ||
		classes[(y+1)*width+x] == classBackground
}
