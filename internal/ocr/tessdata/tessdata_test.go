package tessdata_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subocr/internal/ocr"
	"subocr/internal/ocr/tessdata"
)

func writeModels(t *testing.T, dir string, langs ...string) {
	t.Helper()
	for _, lang := range langs {
		if err := os.WriteFile(filepath.Join(dir, lang+".traineddata"), []byte("model"), 0o644); err != nil {
			t.Fatalf("write model: %v", err)
		}
	}
}

func TestCheckLanguagesReportsMissingModels(t *testing.T) {
	dir := t.TempDir()
	writeModels(t, dir, "eng")

	if err := tessdata.CheckLanguages(dir, []string{"eng"}); err != nil {
		t.Fatalf("expected eng to be found: %v", err)
	}
	err := tessdata.CheckLanguages(dir, []string{"eng", "fra", "deu"})
	if !errors.Is(err, tessdata.ErrUnavailable) {
		t.Fatalf("expected tessdata error, got %v", err)
	}
	if want := "no model for fra, deu"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected %q in %q", want, err)
	}
	if err := tessdata.CheckLanguages(filepath.Join(dir, "missing"), []string{"eng"}); !errors.Is(err, tessdata.ErrUnavailable) {
		t.Fatalf("expected missing dir to fail, got %v", err)
	}
	if err := tessdata.CheckLanguages("", []string{"xyz"}); err != nil {
		t.Fatalf("empty dir must defer to tesseract: %v", err)
	}
}

func TestSetupLimitsOpenMPThreads(t *testing.T) {
	t.Setenv("OMP_THREAD_LIMIT", "")
	os.Unsetenv("OMP_THREAD_LIMIT")
	if err := tessdata.Setup(ocr.RecognitionConfig{Languages: []string{"eng"}}); err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if got := os.Getenv("OMP_THREAD_LIMIT"); got != "1" {
		t.Fatalf("expected OMP_THREAD_LIMIT=1, got %q", got)
	}

	t.Setenv("OMP_THREAD_LIMIT", "4")
	if err := tessdata.Setup(ocr.RecognitionConfig{}); err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if got := os.Getenv("OMP_THREAD_LIMIT"); got != "4" {
		t.Fatalf("operator setting overwritten: %q", got)
	}
}

func TestSetupFailsForMissingModel(t *testing.T) {
	cfg := ocr.RecognitionConfig{TessdataDir: t.TempDir(), Languages: []string{"eng"}}
	if err := tessdata.Setup(cfg); !errors.Is(err, tessdata.ErrUnavailable) {
		t.Fatalf("expected missing model to fail setup, got %v", err)
	}
}

func TestLanguagesListsModels(t *testing.T) {
	dir := t.TempDir()
	writeModels(t, dir, "fra", "eng", "osd")
	langs, err := tessdata.Languages(dir)
	if err != nil {
		t.Fatalf("Languages returned error: %v", err)
	}
	if strings.Join(langs, ",") != "eng,fra,osd" {
		t.Fatalf("unexpected languages %v", langs)
	}
}
