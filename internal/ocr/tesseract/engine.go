package tesseract

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/otiai10/gosseract/v2"

	"subocr/internal/ocr"
	"subocr/internal/textutil"
)

// Engine recognises text with a dedicated Tesseract instance.
type Engine struct {
	client *gosseract.Client
	worker int
	buf    bytes.Buffer
}

// warmupImage is a 1x1 white PNG. gosseract initialises lazily on the first
// recognition, so New runs one to surface start-up failures immediately.
var warmupImage = func() []byte {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.Pix[0] = 0xff
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

// initMu serialises engine start-up. gosseract's Init points the process-wide
// stderr at /dev/null and restores it afterwards, so overlapping inits can
// leave fd 2 closed to /dev/null. Recognition does not take the lock.
var initMu sync.Mutex

// New builds and initialises an engine for one worker. It matches
// ocr.EngineFactory and must run on the thread that will use the engine.
func New(worker int, cfg ocr.RecognitionConfig) (ocr.Engine, error) {
	initMu.Lock()
	defer initMu.Unlock()

	client := gosseract.NewClient()
	engine := &Engine{client: client, worker: worker}
	if err := engine.configure(cfg); err != nil {
		_ = client.Close()
		return nil, err
	}
	if err := client.SetImageFromBytes(warmupImage); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("tesseract warm-up image: %w", err)
	}
	if _, err := client.Text(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("tesseract init (lang %s): %w", cfg.Language(), err)
	}
	return engine, nil
}

func (e *Engine) configure(cfg ocr.RecognitionConfig) error {
	if cfg.TessdataDir != "" {
		if err := e.client.SetTessdataPrefix(cfg.TessdataDir); err != nil {
			return fmt.Errorf("tesseract tessdata prefix: %w", err)
		}
	}
	if err := e.client.SetLanguage(cfg.Languages...); err != nil {
		return fmt.Errorf("tesseract language: %w", err)
	}
	// Page segmentation travels as tessedit_pageseg_mode: gosseract applies
	// variables after Init, while SetPageSegMode before Init is discarded.
	for _, v := range cfg.EngineVariables() {
		if err := e.client.SetVariable(gosseract.SettableVariable(v.Name), v.Value); err != nil {
			return fmt.Errorf("tesseract variable %s=%q: %w", v.Name, v.Value, err)
		}
	}
	return nil
}

// Recognize runs OCR on img and returns normalized text.
func (e *Engine) Recognize(img *image.Gray) (string, error) {
	e.buf.Reset()
	if err := png.Encode(&e.buf, img); err != nil {
		return "", fmt.Errorf("encode image: %w", err)
	}
	if err := e.client.SetImageFromBytes(e.buf.Bytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("get text: %w", err)
	}
	return textutil.NormalizeRecognized(text), nil
}

// Close releases the Tesseract instance.
func (e *Engine) Close() error {
	return e.client.Close()
}

// Version reports the linked Tesseract library version.
func Version() string {
	return gosseract.Version()
}
