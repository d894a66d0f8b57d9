// Package tessdata prepares the process for Tesseract and checks that the
// requested language models exist before any engine is started.
package tessdata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"subocr/internal/ocr"
)

// ErrUnavailable reports a missing tessdata directory or language model.
var ErrUnavailable = errors.New("tessdata unavailable")

// Setup runs once per process before the worker pool starts. Tesseract's
// OpenMP pool is limited to one thread because parallelism comes from the
// workers; an operator-provided OMP_THREAD_LIMIT is left alone.
func Setup(cfg ocr.RecognitionConfig) error {
	if _, ok := os.LookupEnv("OMP_THREAD_LIMIT"); !ok {
		if err := os.Setenv("OMP_THREAD_LIMIT", "1"); err != nil {
			return fmt.Errorf("set OMP_THREAD_LIMIT: %w", err)
		}
	}
	return CheckLanguages(cfg.TessdataDir, cfg.Languages)
}

// CheckLanguages verifies that dir holds a traineddata file per language. An
// empty dir defers to Tesseract's compiled-in search path.
func CheckLanguages(dir string, languages []string) error {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrUnavailable, dir)
	}
	var missing []string
	for _, lang := range languages {
		if _, err := os.Stat(filepath.Join(dir, lang+".traineddata")); err != nil {
			missing = append(missing, lang)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: no model for %s in %s", ErrUnavailable, strings.Join(missing, ", "), dir)
	}
	return nil
}

// Languages lists the models available in dir, sorted by name.
func Languages(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.traineddata"))
	if err != nil {
		return nil, err
	}
	langs := make([]string, 0, len(matches))
	for _, match := range matches {
		langs = append(langs, strings.TrimSuffix(filepath.Base(match), ".traineddata"))
	}
	return langs, nil
}
