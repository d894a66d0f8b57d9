package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"subocr/internal/bitmap"
	"subocr/internal/logging"
)

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for pool and engine lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSetup registers process-wide preparation that must succeed before any
// worker starts. A failure aborts the batch with a PoolError.
func WithSetup(setup func(RecognitionConfig) error) Option {
	return func(o *Orchestrator) { o.setup = setup }
}

// WithProgress registers a callback invoked after each outcome is collected.
// It always runs on the goroutine that called Run.
func WithProgress(progress func(done, total int)) Option {
	return func(o *Orchestrator) { o.progress = progress }
}

// WithInspector registers a hook that sees every preprocessed image before
// recognition. It is called concurrently from worker goroutines.
func WithInspector(inspect func(index int, img *image.Gray)) Option {
	return func(o *Orchestrator) { o.inspect = inspect }
}

// Orchestrator distributes events across a pool of thread-confined engines.
type Orchestrator struct {
	cfg      RecognitionConfig
	factory  EngineFactory
	logger   *slog.Logger
	setup    func(RecognitionConfig) error
	progress func(done, total int)
	inspect  func(index int, img *image.Gray)
}

// NewOrchestrator captures cfg; later changes by the caller are not observed.
func NewOrchestrator(cfg RecognitionConfig, factory EngineFactory, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:     cfg.clone(),
		factory: factory,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	o.logger = logging.NewComponentLogger(o.logger, "ocr")
	return o
}

type outcome struct {
	line *RecognizedLine
	err  *RecognitionError
}

// Run recognises events and returns one outcome per event. Event.Index is
// reassigned to the event's position in the slice. Per-item failures,
// cancellation included, are reported in BatchResult.Errors; the returned
// error is non-nil only when the pool cannot be built.
func (o *Orchestrator) Run(ctx context.Context, events []Event) (*BatchResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	workers, err := o.startPool(len(events))
	if err != nil {
		return nil, err
	}

	started := time.Now()
	o.logger.Debug("ocr pool starting",
		logging.Int("workers", workers),
		logging.Int("items", len(events)),
	)

	jobs := make(chan Event)
	results := make(chan outcome, workers)

	var wg sync.WaitGroup
	for id := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.work(ctx, id, jobs, results)
		}()
	}

	go func() {
		defer close(jobs)
		for i, ev := range events {
			ev.Index = i
			jobs <- ev
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	agg := NewAggregator(len(events))
	var collectErr error
	for res := range results {
		var addErr error
		if res.err != nil {
			addErr = agg.AddError(res.err)
		} else {
			addErr = agg.AddLine(*res.line)
		}
		if addErr != nil && collectErr == nil {
			collectErr = addErr
		}
		if o.progress != nil {
			o.progress(agg.Len(), len(events))
		}
	}
	if collectErr != nil {
		return nil, fmt.Errorf("collect outcomes: %w", collectErr)
	}

	result, err := agg.Result()
	if err != nil {
		return nil, fmt.Errorf("collect outcomes: %w", err)
	}
	o.logger.Debug("ocr pool finished",
		logging.Int("succeeded", result.Succeeded()),
		logging.Int("failed", result.Failed()),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result, nil
}

// Workers reports the pool size Run would use for n events.
func (o *Orchestrator) Workers(n int) (int, error) {
	return resolveWorkers(o.cfg.Workers, n)
}

func (o *Orchestrator) startPool(items int) (int, error) {
	workers, err := resolveWorkers(o.cfg.Workers, items)
	if err != nil {
		return 0, &PoolError{Workers: o.cfg.Workers, Cause: err}
	}
	if o.factory == nil {
		return 0, &PoolError{Workers: workers, Cause: errors.New("no engine factory configured")}
	}
	if o.setup != nil {
		if err := o.setup(o.cfg); err != nil {
			return 0, &PoolError{Workers: workers, Cause: err}
		}
	}
	return workers, nil
}

func resolveWorkers(requested, items int) (int, error) {
	if requested < 0 {
		return 0, fmt.Errorf("worker count must be positive or 0 for auto, got %d", requested)
	}
	n := requested
	if n == 0 {
		n = AvailableParallelism()
	}
	// Idle workers would only cost engine start-ups.
	n = min(n, max(items, 1))
	return max(n, 1), nil
}

func (o *Orchestrator) work(ctx context.Context, id int, jobs <-chan Event, results chan<- outcome) {
	// The engine is created, used and closed on this OS thread only.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	slot := newWorkerEngine(id, &o.cfg, o.factory, o.logger)
	defer slot.close()

	for ev := range jobs {
		results <- o.process(ctx, slot, ev)
	}
}

func (o *Orchestrator) process(ctx context.Context, slot *workerEngine, ev Event) (res outcome) {
	fail := func(kind Kind, cause error) outcome {
		return outcome{err: &RecognitionError{
			Index:  ev.Index,
			Start:  ev.Start,
			End:    ev.End,
			Kind:   kind,
			Worker: slot.id,
			Cause:  cause,
		}}
	}
	defer func() {
		if r := recover(); r != nil {
			res = fail(KindEngine, fmt.Errorf("recognition panicked: %v", r))
		}
	}()

	if err := ctx.Err(); err != nil {
		return fail(KindCancelled, err)
	}

	if ev.Err != nil {
		return fail(KindPreprocess, ev.Err)
	}
	img, err := bitmap.Preprocess(ev.Bitmap, ev.Palette, o.cfg.Preprocess)
	if err != nil {
		return fail(KindPreprocess, err)
	}
	if o.inspect != nil {
		o.inspect(ev.Index, img)
	}

	engine, err := slot.get()
	if err != nil {
		return fail(KindInit, err)
	}
	text, err := engine.Recognize(img)
	if err != nil {
		return fail(KindEngine, err)
	}
	return outcome{line: &RecognizedLine{
		Index: ev.Index,
		Start: ev.Start,
		End:   ev.End,
		Text:  text,
	}}
}
