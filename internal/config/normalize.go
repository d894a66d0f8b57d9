package config

import (
	"fmt"
	"os"
	"strings"

	"subocr/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeOCR(); err != nil {
		return err
	}
	c.normalizePreprocess()
	c.normalizeLogging()
	return nil
}

// Normalize applies defaults, environment fallbacks and path expansion. Load
// calls it; callers that build a Config by hand should too.
func (c *Config) Normalize() error {
	return c.normalize()
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.DumpDir, err = expandPath(strings.TrimSpace(c.Paths.DumpDir)); err != nil {
		return fmt.Errorf("paths.dump_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOCR() error {
	languages := make([]string, 0, len(c.OCR.Languages))
	for _, lang := range c.OCR.Languages {
		// Accept "eng+fra" as well as a list.
		for _, part := range strings.Split(lang, "+") {
			if part = strings.TrimSpace(part); part != "" {
				languages = append(languages, part)
			}
		}
	}
	languages = language.Models(languages)
	if len(languages) == 0 {
		languages = []string{defaultLanguage}
	}
	c.OCR.Languages = languages

	if strings.TrimSpace(c.OCR.TessdataDir) == "" {
		if value, ok := os.LookupEnv("TESSDATA_PREFIX"); ok {
			c.OCR.TessdataDir = value
		}
	}
	var err error
	if c.OCR.TessdataDir, err = expandPath(strings.TrimSpace(c.OCR.TessdataDir)); err != nil {
		return fmt.Errorf("ocr.tessdata_dir: %w", err)
	}
	if c.OCR.PageSegMode == 0 {
		c.OCR.PageSegMode = defaultPageSegMode
	}
	return nil
}

func (c *Config) normalizePreprocess() {
	c.Preprocess.Polarity = strings.ToLower(strings.TrimSpace(c.Preprocess.Polarity))
	if c.Preprocess.Polarity == "" {
		c.Preprocess.Polarity = "auto"
	}
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("SUBOCR_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
