package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subocr/internal/config"
)

func TestLoadWithoutFileUsesDefaultsAndEnv(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("TESSDATA_PREFIX", "~/tessdata")
	t.Setenv("SUBOCR_LOG_LEVEL", "DEBUG")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "subocr", "config.toml"); resolved != want {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, want)
	}
	if cfg.OCR.TessdataDir != filepath.Join(tempHome, "tessdata") {
		t.Fatalf("expected tessdata dir from env, got %q", cfg.OCR.TessdataDir)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected level from env, got %q", cfg.Logging.Level)
	}
	if cfg.OCR.Blacklist != "|[]" {
		t.Fatalf("unexpected default blacklist %q", cfg.OCR.Blacklist)
	}
	if cfg.OCR.Workers != 0 {
		t.Fatalf("expected auto workers by default, got %d", cfg.OCR.Workers)
	}
	if len(cfg.OCR.Languages) != 1 || cfg.OCR.Languages[0] != "eng" {
		t.Fatalf("unexpected languages %v", cfg.OCR.Languages)
	}
}

func TestLoadParsesFileOverDefaults(t *testing.T) {
	t.Setenv("SUBOCR_LOG_LEVEL", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "subocr.toml")
	content := `
[ocr]
languages = ["eng+fre", " ger ", "fra"]
blacklist = ""
workers = 3

[ocr.variables]
preserve_interword_spaces = "1"

[preprocess]
polarity = "Dark"
border = 2

[logging]
format = "JSON"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected %q to be loaded, got %q (exists=%v)", path, resolved, exists)
	}
	if got := strings.Join(cfg.OCR.Languages, ","); got != "eng,fra,deu" {
		t.Fatalf("unexpected languages %q", got)
	}
	if cfg.OCR.Blacklist != "" {
		t.Fatalf("expected explicit empty blacklist to survive, got %q", cfg.OCR.Blacklist)
	}
	if cfg.OCR.Workers != 3 || cfg.Preprocess.Border != 2 {
		t.Fatalf("unexpected values: workers=%d border=%d", cfg.OCR.Workers, cfg.Preprocess.Border)
	}
	if cfg.OCR.DPI != 150 || cfg.Preprocess.AlphaThreshold != 100 {
		t.Fatal("expected untouched keys to keep defaults")
	}
	if cfg.Preprocess.Polarity != "dark" || cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized casing, got %q/%q", cfg.Preprocess.Polarity, cfg.Logging.Format)
	}
	if cfg.OCR.Variables["preserve_interword_spaces"] != "1" {
		t.Fatalf("unexpected variables %v", cfg.OCR.Variables)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("SUBOCR_LOG_LEVEL", "")
	cases := map[string]string{
		"negative workers": "[ocr]\nworkers = -1\n",
		"bad polarity":     "[preprocess]\npolarity = \"inverted\"\n",
		"luma range":       "[preprocess]\nluma_threshold = 1.5\n",
		"alpha range":      "[preprocess]\nalpha_threshold = 300\n",
		"page seg mode":    "[ocr]\npage_seg_mode = 42\n",
		"log format":       "[logging]\nformat = \"xml\"\n",
		"unknown key":      "[ocr]\nthreads = 4\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected Load to fail")
			}
		})
	}
}

func TestCreateSampleLoadsCleanly(t *testing.T) {
	t.Setenv("SUBOCR_LOG_LEVEL", "")
	t.Setenv("TESSDATA_PREFIX", "")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	def := config.Default()
	if cfg.OCR.DPI != def.OCR.DPI || cfg.OCR.Blacklist != def.OCR.Blacklist || cfg.Preprocess.Border != def.Preprocess.Border {
		t.Fatal("sample config drifted from defaults")
	}
}

func TestEnsureDirectoriesCreatesConfiguredPaths(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.DumpDir = filepath.Join(base, "dump")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.DumpDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s", dir)
		}
	}
}
