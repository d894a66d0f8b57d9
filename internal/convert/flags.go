package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"subocr/internal/config"
	"subocr/internal/ocr"
)

// Flags holds the convert command line. Register binds it to a command; Apply
// and Request turn the parsed values into configuration and a Request.
type Flags struct {
	Output    string
	Lang      string
	Workers   string
	Blacklist string
	Whitelist string
	Variables []string
	DPI       int
	Border    int
	Polarity  string
	Dump      bool
	DumpRaw   bool
	DumpDir   string
	Strict    bool
}

// Register declares the convert flags on cmd.
func (f *Flags) Register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.Output, "output", "o", "", "SubRip output path (default stdout)")
	fs.StringVar(&f.Lang, "lang", "", "Tesseract languages, e.g. eng or eng+fra")
	fs.StringVar(&f.Workers, "workers", "", "Recognition workers: auto or a positive number")
	fs.StringVar(&f.Blacklist, "blacklist", "", "Characters the engine must never produce")
	fs.StringVar(&f.Whitelist, "whitelist", "", "Restrict recognition to these characters")
	fs.StringArrayVarP(&f.Variables, "var", "c", nil, "Tesseract variable as key=value (repeatable)")
	fs.IntVar(&f.DPI, "dpi", 0, "Resolution hint passed to the engine")
	fs.IntVar(&f.Border, "border", 0, "White margin around cropped text, in pixels")
	fs.StringVar(&f.Polarity, "polarity", "", "Glyph fill colour: auto, light or dark")
	fs.BoolVar(&f.Dump, "dump", false, "Write every preprocessed image as NNNNNN.png")
	fs.BoolVar(&f.DumpRaw, "dump-raw", false, "Write every source image before preprocessing as NNNNNN-raw.png")
	fs.StringVar(&f.DumpDir, "dump-dir", "", "Directory for --dump and --dump-raw (default paths.dump_dir); implies --dump")
	fs.BoolVar(&f.Strict, "strict", false, "Write nothing if any subtitle fails")
}

// Apply returns a copy of base with every changed flag applied, validated.
func (f *Flags) Apply(cmd *cobra.Command, base *config.Config) (*config.Config, error) {
	cfg := *base
	cfg.OCR.Languages = append([]string(nil), base.OCR.Languages...)
	cfg.OCR.Variables = make(map[string]string, len(base.OCR.Variables)+len(f.Variables))
	for k, v := range base.OCR.Variables {
		cfg.OCR.Variables[k] = v
	}

	changed := cmd.Flags().Changed
	if changed("lang") {
		cfg.OCR.Languages = []string{f.Lang}
	}
	if changed("workers") {
		workers, err := parseWorkers(f.Workers)
		if err != nil {
			return nil, err
		}
		cfg.OCR.Workers = workers
	}
	if changed("blacklist") {
		cfg.OCR.Blacklist = f.Blacklist
	}
	if changed("whitelist") {
		cfg.OCR.Whitelist = f.Whitelist
	}
	for _, raw := range f.Variables {
		v, ok := ocr.ParseVariable(raw)
		if !ok {
			return nil, wrap(ErrValidation, "flags", fmt.Sprintf("invalid engine variable %q: expected key=value", raw), nil)
		}
		cfg.OCR.Variables[v.Name] = v.Value
	}
	if changed("dpi") {
		cfg.OCR.DPI = f.DPI
	}
	if changed("border") {
		cfg.Preprocess.Border = f.Border
	}
	if changed("polarity") {
		cfg.Preprocess.Polarity = f.Polarity
	}

	// Normalize re-reads SUBOCR_LOG_LEVEL; keep the level already resolved.
	level := cfg.Logging.Level
	if err := cfg.Normalize(); err != nil {
		return nil, wrap(ErrConfiguration, "flags", "", err)
	}
	cfg.Logging.Level = level
	if err := cfg.Validate(); err != nil {
		return nil, wrap(ErrConfiguration, "flags", "", err)
	}
	return &cfg, nil
}

// Request builds the conversion request for input.
func (f *Flags) Request(input string, cfg *config.Config) Request {
	req := Request{Input: input, Output: f.Output, Strict: f.Strict}
	dir := strings.TrimSpace(f.DumpDir)
	dump := f.Dump || (dir != "" && !f.DumpRaw)
	if !dump && !f.DumpRaw {
		return req
	}
	if dir == "" {
		dir = cfg.Paths.DumpDir
	}
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "subocr-dump")
	}
	if dump {
		req.DumpDir = dir
	}
	if f.DumpRaw {
		req.RawDumpDir = dir
	}
	return req
}

func parseWorkers(value string) (int, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" || value == "auto" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, wrap(ErrValidation, "flags", fmt.Sprintf("invalid --workers %q: expected auto or a positive number", value), nil)
	}
	return n, nil
}
