package ocr

import (
	"slices"
	"strconv"
	"strings"

	"subocr/internal/bitmap"
)

// DefaultBlacklist keeps Tesseract from reading I and l as bars or brackets.
const DefaultBlacklist = "|[]"

// PageSegSingleBlock tells Tesseract the input is one uniform block of text.
const PageSegSingleBlock = 6

// Variable is a named engine setting.
type Variable struct {
	Name  string
	Value string
}

// RecognitionConfig is shared read-only by every worker of a batch.
type RecognitionConfig struct {
	Languages   []string
	TessdataDir string
	DPI         int
	PageSegMode int
	Blacklist   string
	Whitelist   string
	// Variables are applied after the built-in settings and override them.
	Variables  []Variable
	Preprocess bitmap.Options
	// Workers is the pool size; 0 selects the available parallelism.
	Workers int
}

// DefaultRecognitionConfig returns the settings used when nothing is configured.
func DefaultRecognitionConfig() RecognitionConfig {
	return RecognitionConfig{
		Languages:   []string{"eng"},
		DPI:         150,
		PageSegMode: PageSegSingleBlock,
		Blacklist:   DefaultBlacklist,
		Preprocess:  bitmap.DefaultOptions(),
	}
}

// Language joins the configured languages the way Tesseract expects them.
func (c RecognitionConfig) Language() string {
	return strings.Join(c.Languages, "+")
}

// EngineVariables lists the settings every engine applies at construction, in
// order. Adaptive learning is disabled because it makes output depend on which
// worker saw which image first, and inversion is disabled because
// preprocessing already produces dark text on white.
func (c RecognitionConfig) EngineVariables() []Variable {
	mode := c.PageSegMode
	if mode == 0 {
		mode = PageSegSingleBlock
	}
	vars := []Variable{
		{Name: "classify_enable_learning", Value: "0"},
		{Name: "tessedit_do_invert", Value: "0"},
		{Name: "tessedit_pageseg_mode", Value: strconv.Itoa(mode)},
	}
	if c.Blacklist != "" {
		vars = append(vars, Variable{Name: "tessedit_char_blacklist", Value: c.Blacklist})
	}
	if c.Whitelist != "" {
		vars = append(vars, Variable{Name: "tessedit_char_whitelist", Value: c.Whitelist})
	}
	if c.DPI > 0 {
		vars = append(vars, Variable{Name: "user_defined_dpi", Value: strconv.Itoa(c.DPI)})
	}
	return append(vars, c.Variables...)
}

func (c RecognitionConfig) clone() RecognitionConfig {
	c.Languages = slices.Clone(c.Languages)
	c.Variables = slices.Clone(c.Variables)
	return c
}

// ParseVariable splits a "name=value" engine setting.
func ParseVariable(raw string) (Variable, bool) {
	name, value, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Variable{}, false
	}
	return Variable{Name: name, Value: strings.TrimSpace(value)}, true
}
