package convert

import (
	"fmt"
	"slices"
	"strings"

	"subocr/internal/bitmap"
	"subocr/internal/config"
	"subocr/internal/ocr"
)

// RecognitionConfig maps loaded configuration onto the orchestrator settings.
// Engine variables from the config map are applied in name order.
func RecognitionConfig(cfg *config.Config) (ocr.RecognitionConfig, error) {
	if cfg == nil {
		return ocr.DefaultRecognitionConfig(), nil
	}
	polarity, ok := bitmap.ParsePolarity(cfg.Preprocess.Polarity)
	if !ok {
		return ocr.RecognitionConfig{}, wrap(ErrConfiguration, "preprocess", fmt.Sprintf("unknown polarity %q", cfg.Preprocess.Polarity), nil)
	}
	if cfg.Preprocess.AlphaThreshold < 0 || cfg.Preprocess.AlphaThreshold > 255 {
		return ocr.RecognitionConfig{}, wrap(ErrConfiguration, "preprocess", fmt.Sprintf("alpha threshold %d out of range", cfg.Preprocess.AlphaThreshold), nil)
	}

	names := make([]string, 0, len(cfg.OCR.Variables))
	for name := range cfg.OCR.Variables {
		names = append(names, name)
	}
	slices.Sort(names)
	vars := make([]ocr.Variable, 0, len(names))
	for _, name := range names {
		vars = append(vars, ocr.Variable{Name: strings.TrimSpace(name), Value: cfg.OCR.Variables[name]})
	}

	return ocr.RecognitionConfig{
		Languages:   slices.Clone(cfg.OCR.Languages),
		TessdataDir: cfg.OCR.TessdataDir,
		DPI:         cfg.OCR.DPI,
		PageSegMode: cfg.OCR.PageSegMode,
		Blacklist:   cfg.OCR.Blacklist,
		Whitelist:   cfg.OCR.Whitelist,
		Variables:   vars,
		Workers:     cfg.OCR.Workers,
		Preprocess: bitmap.Options{
			AlphaThreshold: uint8(cfg.Preprocess.AlphaThreshold),
			LumaThreshold:  cfg.Preprocess.LumaThreshold,
			Border:         cfg.Preprocess.Border,
			Polarity:       polarity,
		},
	}, nil
}
