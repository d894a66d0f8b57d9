package testsupport

import (
	"path/filepath"
	"testing"

	"subocr/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a normalized config whose directories live under a
// per-test temp dir.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.DumpDir = filepath.Join(base, "dump")
	cfgVal.OCR.TessdataDir = filepath.Join(base, "tessdata")

	builder := &configBuilder{t: t, baseDir: base, cfg: &cfgVal}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.Normalize(); err != nil {
		t.Fatalf("normalize test config: %v", err)
	}
	return builder.cfg
}

// WithWorkers sets the recognition pool size.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) { b.cfg.OCR.Workers = n }
}

// WithBorder sets the preprocessing border.
func WithBorder(px int) ConfigOption {
	return func(b *configBuilder) { b.cfg.Preprocess.Border = px }
}

// WithoutLogDir keeps logs off disk.
func WithoutLogDir() ConfigOption {
	return func(b *configBuilder) { b.cfg.Paths.LogDir = "" }
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DumpDir)
}
