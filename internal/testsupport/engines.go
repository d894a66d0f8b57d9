package testsupport

import (
	"image"
	"sync"

	"subocr/internal/ocr"
)

// FakeEngine is a scripted ocr.Engine.
type FakeEngine struct {
	Worker    int
	Recognise func(img *image.Gray) (string, error)

	mu     sync.Mutex
	calls  int
	closed bool
}

func (e *FakeEngine) Recognize(img *image.Gray) (string, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	if e.Recognise == nil {
		return "", nil
	}
	return e.Recognise(img)
}

func (e *FakeEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// Calls returns how many times Recognize ran.
func (e *FakeEngine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// Closed reports whether Close ran.
func (e *FakeEngine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// EngineRecorder builds FakeEngines and remembers every construction.
type EngineRecorder struct {
	// Recognise is installed on every engine built.
	Recognise func(img *image.Gray) (string, error)
	// Fail, when set, is consulted before building; a non-nil error is
	// returned from the factory instead of an engine.
	Fail func(worker int) error

	mu       sync.Mutex
	engines  []*FakeEngine
	attempts map[int]int
}

// Factory returns an ocr.EngineFactory backed by the recorder.
func (r *EngineRecorder) Factory() ocr.EngineFactory {
	return func(worker int, _ ocr.RecognitionConfig) (ocr.Engine, error) {
		r.mu.Lock()
		if r.attempts == nil {
			r.attempts = make(map[int]int)
		}
		r.attempts[worker]++
		r.mu.Unlock()

		if r.Fail != nil {
			if err := r.Fail(worker); err != nil {
				return nil, err
			}
		}
		engine := &FakeEngine{Worker: worker, Recognise: r.Recognise}
		r.mu.Lock()
		r.engines = append(r.engines, engine)
		r.mu.Unlock()
		return engine, nil
	}
}

// Attempts returns factory calls per worker.
func (r *EngineRecorder) Attempts() map[int]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[int]int, len(r.attempts))
	for k, v := range r.attempts {
		out[k] = v
	}
	return out
}

// TotalAttempts returns the number of factory calls across all workers.
func (r *EngineRecorder) TotalAttempts() int {
	total := 0
	for _, n := range r.Attempts() {
		total += n
	}
	return total
}

// Engines returns every engine built so far.
func (r *EngineRecorder) Engines() []*FakeEngine {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*FakeEngine(nil), r.engines...)
}
