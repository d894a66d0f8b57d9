package convert

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"subocr/internal/config"
	"subocr/internal/fileutil"
	"subocr/internal/language"
	"subocr/internal/logging"
	"subocr/internal/ocr"
	"subocr/internal/source"
	"subocr/internal/srt"
)

// Request describes one conversion.
type Request struct {
	Input string
	// Output is the SRT path; empty or "-" writes to the service's stdout.
	Output string
	// DumpDir, when set, receives every preprocessed image as NNNNNN.png.
	DumpDir string
	// RawDumpDir, when set, receives every source image as NNNNNN-raw.png
	// before preprocessing.
	RawDumpDir string
	// Strict refuses to write any output when a subtitle fails.
	Strict bool
}

// Result summarises a conversion.
type Result struct {
	BatchID  string
	Input    string
	Output   string
	Events   int
	Cues     int
	Workers  int
	Written  bool
	Duration time.Duration
	Batch    *ocr.BatchResult
}

// Failed returns the number of subtitles that were not recognised.
func (r *Result) Failed() int {
	if r == nil {
		return 0
	}
	return r.Batch.Failed()
}

// Service converts subtitle exports to SubRip.
type Service struct {
	cfg      ocr.RecognitionConfig
	factory  ocr.EngineFactory
	setup    func(ocr.RecognitionConfig) error
	logger   *slog.Logger
	stdout   io.Writer
	progress func(done, total int)
}

// Option customises a Service.
type Option func(*Service)

// WithSetup registers the one-time engine preparation run before each batch.
func WithSetup(setup func(ocr.RecognitionConfig) error) Option {
	return func(s *Service) { s.setup = setup }
}

// WithStdout redirects "-" output.
func WithStdout(w io.Writer) Option {
	return func(s *Service) {
		if w != nil {
			s.stdout = w
		}
	}
}

// WithProgress receives (done, total) after each subtitle.
func WithProgress(progress func(done, total int)) Option {
	return func(s *Service) { s.progress = progress }
}

// NewService builds a conversion service from configuration.
func NewService(cfg *config.Config, factory ocr.EngineFactory, logger *slog.Logger, opts ...Option) (*Service, error) {
	if factory == nil {
		return nil, wrap(ErrConfiguration, "engine", "no engine factory", nil)
	}
	recognition, err := RecognitionConfig(cfg)
	if err != nil {
		return nil, err
	}
	s := &Service{
		cfg:     recognition,
		factory: factory,
		logger:  logging.NewComponentLogger(logger, "convert"),
		stdout:  os.Stdout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Convert runs req. A non-nil Result is returned whenever recognition ran,
// even alongside an error: ErrIncomplete when some subtitles failed (output is
// still written unless req.Strict), or the context error when cancelled.
func (s *Service) Convert(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()
	batchID := uuid.NewString()
	ctx = logging.WithBatchID(ctx, batchID)
	logger := logging.WithContext(ctx, s.logger)

	input := strings.TrimSpace(req.Input)
	if input == "" {
		return nil, wrap(ErrValidation, "load source", "input path is required", nil)
	}
	output := strings.TrimSpace(req.Output)
	toStdout := output == "" || output == "-"

	track, err := source.Open(input)
	if err != nil {
		return nil, wrap(ErrValidation, "load source", input, err)
	}

	if !toStdout {
		unlock, err := lockOutput(output)
		if err != nil {
			return nil, err
		}
		defer unlock()
	}

	opts := []ocr.Option{ocr.WithLogger(s.logger)}
	if s.setup != nil {
		opts = append(opts, ocr.WithSetup(s.setup))
	}
	if s.progress != nil {
		opts = append(opts, ocr.WithProgress(s.progress))
	}
	if dumpDir := strings.TrimSpace(req.DumpDir); dumpDir != "" {
		if err := os.MkdirAll(dumpDir, 0o755); err != nil {
			return nil, wrap(ErrConfiguration, "dump", "create dump directory", err)
		}
		opts = append(opts, ocr.WithInspector(dumpInspector(dumpDir, logger)))
	}
	if rawDir := strings.TrimSpace(req.RawDumpDir); rawDir != "" {
		if err := os.MkdirAll(rawDir, 0o755); err != nil {
			return nil, wrap(ErrConfiguration, "dump", "create raw dump directory", err)
		}
		dumpRaw(rawDir, track.Events, logger)
	}
	orch := ocr.NewOrchestrator(s.cfg, s.factory, opts...)
	workers, _ := orch.Workers(len(track.Events))

	if !language.Covers(s.cfg.Languages, track.Language) {
		logging.WarnWithContext(logger, "subtitle language not among selected models", "ocr_language_mismatch",
			logging.String("declared", language.DisplayName(track.Language)),
			logging.String("language", s.cfg.Language()),
			logging.String(logging.FieldErrorHint, "pass --lang "+language.Model(track.Language)),
			logging.String(logging.FieldImpact, "recognition accuracy will suffer"),
		)
	}

	logger.Info("conversion started",
		logging.String("input", input),
		logging.Int("subtitles", len(track.Events)),
		logging.Int("workers", workers),
		logging.String("language", s.cfg.Language()),
	)

	batch, err := orch.Run(ctx, track.Events)
	if err != nil {
		return nil, wrap(ErrConfiguration, "start recognition", "", err)
	}

	result := &Result{
		BatchID: batchID,
		Input:   input,
		Events:  len(track.Events),
		Workers: workers,
		Batch:   batch,
	}
	s.reportFailures(logger, batch)

	if err := ctx.Err(); err != nil {
		result.Duration = time.Since(started)
		return result, err
	}
	if req.Strict && batch.Failed() > 0 {
		result.Duration = time.Since(started)
		return result, fmt.Errorf("%w: %d of %d subtitles failed; no output written (strict)", ErrIncomplete, batch.Failed(), batch.Total)
	}

	cues, err := s.writeOutput(output, toStdout, batch.Lines)
	if err != nil {
		return result, wrap(ErrConfiguration, "write output", output, err)
	}
	result.Cues = cues
	result.Written = true
	if !toStdout {
		result.Output = output
	}
	result.Duration = time.Since(started)

	logger.Info("conversion complete",
		logging.String("output", displayOutput(result.Output)),
		logging.Int("cues", cues),
		logging.Int("failed", batch.Failed()),
		logging.Duration("elapsed", result.Duration),
	)
	if batch.Failed() > 0 {
		return result, fmt.Errorf("%w: %d of %d subtitles failed", ErrIncomplete, batch.Failed(), batch.Total)
	}
	return result, nil
}

func (s *Service) reportFailures(logger *slog.Logger, batch *ocr.BatchResult) {
	cancelled := 0
	for _, recErr := range batch.SortedErrors() {
		if recErr.Kind == ocr.KindCancelled {
			cancelled++
			continue
		}
		logging.WarnWithContext(logger, "subtitle recognition failed", "ocr_item_failed",
			logging.Int(logging.FieldSubtitleIndex, recErr.Index+1),
			logging.String("span", srt.FormatTimestamp(recErr.Start)+" --> "+srt.FormatTimestamp(recErr.End)),
			logging.String("kind", string(recErr.Kind)),
			logging.Int("worker", recErr.Worker),
			logging.String("error", ocr.FormatChain(recErr.Cause)),
			logging.String(logging.FieldErrorHint, failureHint(recErr.Kind)),
			logging.String(logging.FieldImpact, "subtitle missing from output"),
		)
	}
	if cancelled > 0 {
		logger.Warn("conversion interrupted",
			logging.Int("cancelled", cancelled),
			logging.String(logging.FieldEventType, "ocr_cancelled"),
		)
	}
}

func failureHint(kind ocr.Kind) string {
	switch kind {
	case ocr.KindPreprocess:
		return "rerun with --dump and inspect the image; try --polarity light or dark"
	case ocr.KindInit:
		return "check tessdata_dir and that the language models are installed"
	default:
		return "rerun with --log-level debug for engine details"
	}
}

func (s *Service) writeOutput(path string, toStdout bool, lines []ocr.RecognizedLine) (int, error) {
	if toStdout {
		return srt.Write(s.stdout, lines)
	}
	var cues int
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		var err error
		cues, err = srt.Write(w, lines)
		return err
	})
	if err != nil {
		return 0, err
	}
	return cues, nil
}

// lockOutput takes an advisory lock next to path so two conversions never
// race on the same file.
func lockOutput(path string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, wrap(ErrConfiguration, "lock output", "create output directory", err)
	}
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, wrap(ErrConfiguration, "lock output", path, err)
	}
	if !locked {
		return nil, wrap(ErrOutputLocked, "lock output", path+" is being written by another subocr process", nil)
	}
	// The lock file stays: removing it would let another process lock the
	// unlinked inode while a third creates a fresh file.
	return func() { _ = lock.Unlock() }, nil
}

func dumpInspector(dir string, logger *slog.Logger) func(int, *image.Gray) {
	return func(index int, img *image.Gray) {
		path := filepath.Join(dir, fmt.Sprintf("%06d.png", index+1))
		if err := writePNG(path, img); err != nil {
			logger.Warn("dump image failed",
				logging.Int(logging.FieldSubtitleIndex, index+1),
				logging.String("path", path),
				logging.Error(err),
			)
		}
	}
}

// dumpRaw writes each decodable source image as it was handed to the
// preprocessor.
func dumpRaw(dir string, events []ocr.Event, logger *slog.Logger) {
	for i, ev := range events {
		if ev.Err != nil || ev.Bitmap.Empty() {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("%06d-raw.png", i+1))
		if err := writePNG(path, source.Image(ev.Bitmap, ev.Palette)); err != nil {
			logger.Warn("dump raw image failed",
				logging.Int(logging.FieldSubtitleIndex, i+1),
				logging.String("path", path),
				logging.Error(err),
			)
		}
	}
}

func writePNG(path string, img image.Image) error {
	return fileutil.CreateFile(path, 0o644, func(w io.Writer) error {
		return png.Encode(w, img)
	})
}

func displayOutput(path string) string {
	if path == "" {
		return "stdout"
	}
	return path
}

// IsIncomplete reports whether err only signals failed subtitles.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncomplete)
}
