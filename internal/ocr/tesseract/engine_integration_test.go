//go:build integration

package tesseract_test

import (
	"context"
	"image"
	"strings"
	"sync"
	"testing"

	"golang.org/x/sys/unix"

	"subocr/internal/bitmap"
	"subocr/internal/ocr"
	"subocr/internal/ocr/tessdata"
	"subocr/internal/ocr/tesseract"
)

// blockLetterL draws a thick "L" that any English model reads.
func blockLetterL() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, 60, 80))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	for y := 10; y < 70; y++ {
		for x := 15; x < 25; x++ {
			img.Pix[y*img.Stride+x] = 0
		}
	}
	for y := 60; y < 70; y++ {
		for x := 15; x < 50; x++ {
			img.Pix[y*img.Stride+x] = 0
		}
	}
	return img
}

// blockBitmap is the same glyph as a palette-free gray bitmap.
func blockBitmap() bitmap.Bitmap {
	img := blockLetterL()
	return bitmap.Bitmap{Width: img.Rect.Dx(), Height: img.Rect.Dy(), Pix: img.Pix}
}

func TestEngineRecognizesOnWorkerThread(t *testing.T) {
	cfg := ocr.DefaultRecognitionConfig()
	if err := tessdata.Setup(cfg); err != nil {
		t.Skipf("tesseract unavailable: %v", err)
	}
	engine, err := tesseract.New(0, cfg)
	if err != nil {
		t.Skipf("tesseract unavailable: %v", err)
	}
	defer engine.Close()

	text, err := engine.Recognize(blockLetterL())
	if err != nil {
		t.Fatalf("Recognize returned error: %v", err)
	}
	if strings.ContainsAny(text, "|[]") {
		t.Fatalf("blacklisted character in %q", text)
	}
	if tesseract.Version() == "" {
		t.Fatal("expected a library version")
	}
}

func TestEngineFailsFastOnUnknownLanguage(t *testing.T) {
	cfg := ocr.DefaultRecognitionConfig()
	cfg.Languages = []string{"definitely-not-a-model"}
	cfg.Workers = 2

	orch := ocr.NewOrchestrator(cfg, tesseract.New)
	events := []ocr.Event{{Bitmap: blockBitmap()}, {Bitmap: blockBitmap()}}
	result, err := orch.Run(context.Background(), events)
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.Failed() != 2 {
		t.Fatalf("expected both items to fail, got %d", result.Failed())
	}
	for _, recErr := range result.Errors {
		if recErr.Kind != ocr.KindInit {
			t.Fatalf("expected init failure, got %v", recErr)
		}
	}
}

func TestConcurrentStartupKeepsStderr(t *testing.T) {
	cfg := ocr.DefaultRecognitionConfig()
	if err := tessdata.Setup(cfg); err != nil {
		t.Skipf("tesseract unavailable: %v", err)
	}
	var before unix.Stat_t
	if err := unix.Fstat(2, &before); err != nil {
		t.Fatalf("fstat stderr: %v", err)
	}

	const workers = 8
	engines := make([]ocr.Engine, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engines[i], errs[i] = tesseract.New(i, cfg)
		}()
	}
	wg.Wait()
	for i, engine := range engines {
		if errs[i] != nil {
			t.Skipf("tesseract unavailable: %v", errs[i])
		}
		defer engine.Close()
	}

	var after unix.Stat_t
	if err := unix.Fstat(2, &after); err != nil {
		t.Fatalf("fstat stderr: %v", err)
	}
	if before.Dev != after.Dev || before.Ino != after.Ino {
		t.Fatalf("stderr changed during engine start-up: %d:%d -> %d:%d", before.Dev, before.Ino, after.Dev, after.Ino)
	}
}
