package config

import (
	"errors"
	"fmt"
	"strings"

	"subocr/internal/bitmap"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOCR(); err != nil {
		return err
	}
	if err := c.validatePreprocess(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateOCR() error {
	if c.OCR.Workers < 0 {
		return errors.New("ocr.workers must be 0 (auto) or positive")
	}
	if c.OCR.DPI < 0 {
		return errors.New("ocr.dpi must not be negative")
	}
	if c.OCR.PageSegMode < 0 || c.OCR.PageSegMode > 13 {
		return fmt.Errorf("ocr.page_seg_mode must be between 0 and 13, got %d", c.OCR.PageSegMode)
	}
	for name := range c.OCR.Variables {
		if strings.TrimSpace(name) == "" {
			return errors.New("ocr.variables contains an empty name")
		}
	}
	return nil
}

func (c *Config) validatePreprocess() error {
	if c.Preprocess.AlphaThreshold < 0 || c.Preprocess.AlphaThreshold > 255 {
		return fmt.Errorf("preprocess.alpha_threshold must be between 0 and 255, got %d", c.Preprocess.AlphaThreshold)
	}
	if c.Preprocess.LumaThreshold < 0 || c.Preprocess.LumaThreshold > 1 {
		return fmt.Errorf("preprocess.luma_threshold must be between 0 and 1, got %v", c.Preprocess.LumaThreshold)
	}
	if c.Preprocess.Border < 0 {
		return errors.New("preprocess.border must not be negative")
	}
	if _, ok := bitmap.ParsePolarity(c.Preprocess.Polarity); !ok {
		return fmt.Errorf("preprocess.polarity must be auto, light or dark, got %q", c.Preprocess.Polarity)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
