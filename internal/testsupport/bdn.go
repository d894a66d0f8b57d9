package testsupport

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subocr/internal/bitmap"
)

// BDNEvent describes one event of a generated BDN export.
type BDNEvent struct {
	InTC   string
	OutTC  string
	Images []image.Image
}

// PalettedImage renders bm with palette as an *image.Paletted.
func PalettedImage(bm bitmap.Bitmap, palette bitmap.Palette) *image.Paletted {
	colors := make(color.Palette, len(palette))
	for i, c := range palette {
		colors[i] = c
	}
	img := image.NewPaletted(image.Rect(0, 0, bm.Width, bm.Height), colors)
	copy(img.Pix, bm.Pix)
	return img
}

// WriteBDN writes a BDN index and its PNGs into dir and returns the index path.
func WriteBDN(t testing.TB, dir string, frameRate string, events []BDNEvent) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<BDN Version="0.93" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` + "\n")
	b.WriteString("  <Description>\n")
	b.WriteString(`    <Name Title="test" Content=""/>` + "\n")
	b.WriteString(`    <Language Code="eng"/>` + "\n")
	fmt.Fprintf(&b, `    <Format VideoFormat="1080p" FrameRate="%s" DropFrame="False"/>`+"\n", frameRate)
	b.WriteString("  </Description>\n  <Events>\n")

	count := 0
	for _, ev := range events {
		fmt.Fprintf(&b, `    <Event Forced="False" InTC="%s" OutTC="%s">`+"\n", ev.InTC, ev.OutTC)
		for j, img := range ev.Images {
			count++
			name := fmt.Sprintf("%08d.png", count)
			writePNG(t, filepath.Join(dir, name), img)
			bounds := img.Bounds()
			fmt.Fprintf(&b, `      <Graphic Width="%d" Height="%d" X="100" Y="%d">%s</Graphic>`+"\n",
				bounds.Dx(), bounds.Dy(), 800+j*100, name)
		}
		b.WriteString("    </Event>\n")
	}
	b.WriteString("  </Events>\n</BDN>\n")

	path := filepath.Join(dir, "subtitles.xml")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write BDN index: %v", err)
	}
	return path
}

func writePNG(t testing.TB, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}
