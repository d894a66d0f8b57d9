package ocr

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"time"

	"subocr/internal/logging"
)

// Engine recognises text in one preprocessed image. Implementations may be
// bound to the OS thread that created them; the Orchestrator only ever calls
// an Engine from that thread.
type Engine interface {
	Recognize(img *image.Gray) (string, error)
	Close() error
}

// EngineFactory builds the Engine for one worker. It runs on the worker's
// locked OS thread, at most once per worker and only when the worker receives
// its first item.
type EngineFactory func(worker int, cfg RecognitionConfig) (Engine, error)

var errNilEngine = errors.New("engine factory returned no engine")

// workerEngine is the per-worker slot. A failed construction is remembered and
// reported for every later item; it is never retried.
type workerEngine struct {
	id      int
	cfg     *RecognitionConfig
	factory EngineFactory
	logger  *slog.Logger

	attempted bool
	engine    Engine
	initErr   error
}

func newWorkerEngine(id int, cfg *RecognitionConfig, factory EngineFactory, logger *slog.Logger) *workerEngine {
	return &workerEngine{id: id, cfg: cfg, factory: factory, logger: logger}
}

func (w *workerEngine) get() (Engine, error) {
	if !w.attempted {
		w.attempted = true
		w.construct()
	}
	return w.engine, w.initErr
}

func (w *workerEngine) construct() {
	started := time.Now()
	engine, err := w.build()
	if err != nil {
		w.initErr = err
		w.logger.Warn("ocr engine unavailable on worker",
			logging.Int("worker", w.id),
			logging.Error(err),
			logging.String(logging.FieldEventType, "engine_init_failed"),
			logging.String(logging.FieldErrorHint, "check tessdata path and language packs"),
			logging.String(logging.FieldImpact, "items routed to this worker fail"),
		)
		return
	}
	w.engine = engine
	w.logger.Debug("ocr engine ready",
		logging.Int("worker", w.id),
		logging.Duration("init_duration", time.Since(started)),
	)
}

func (w *workerEngine) build() (engine Engine, err error) {
	defer func() {
		if r := recover(); r != nil {
			engine, err = nil, fmt.Errorf("engine factory panicked: %v", r)
		}
	}()
	engine, err = w.factory(w.id, *w.cfg)
	if err != nil {
		if engine != nil {
			if closeErr := engine.Close(); closeErr != nil {
				w.logger.Warn("ocr engine close failed", logging.Int("worker", w.id), logging.Error(closeErr))
			}
		}
		return nil, err
	}
	if engine == nil {
		return nil, errNilEngine
	}
	return engine, nil
}

func (w *workerEngine) close() {
	if w.engine == nil {
		return
	}
	if err := w.engine.Close(); err != nil {
		w.logger.Warn("ocr engine close failed", logging.Int("worker", w.id), logging.Error(err))
	}
	w.engine = nil
}
