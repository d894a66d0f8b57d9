//go:build linux

package ocr_test

import (
	"context"
	"fmt"
	"image"
	"sync"
	"testing"

	"golang.org/x/sys/unix"

	"subocr/internal/ocr"
)

// threadBoundEngine fails if it is used from any OS thread other than the one
// that built it.
type threadBoundEngine struct {
	tid int
}

func (e *threadBoundEngine) Recognize(img *image.Gray) (string, error) {
	if tid := unix.Gettid(); tid != e.tid {
		return "", fmt.Errorf("engine built on thread %d used on thread %d", e.tid, tid)
	}
	return echoIndex(img)
}

func (e *threadBoundEngine) Close() error {
	if tid := unix.Gettid(); tid != e.tid {
		return fmt.Errorf("engine built on thread %d closed on thread %d", e.tid, tid)
	}
	return nil
}

func TestEnginesStayOnTheirOSThread(t *testing.T) {
	var (
		mu      sync.Mutex
		threads = map[int]int{}
	)
	factory := func(worker int, _ ocr.RecognitionConfig) (ocr.Engine, error) {
		tid := unix.Gettid()
		mu.Lock()
		defer mu.Unlock()
		for other, otherTid := range threads {
			if otherTid == tid {
				return nil, fmt.Errorf("workers %d and %d share thread %d", other, worker, tid)
			}
		}
		threads[worker] = tid
		return &threadBoundEngine{tid: tid}, nil
	}

	orch := ocr.NewOrchestrator(testConfig(4), factory)
	result, err := orch.Run(context.Background(), makeEvents(40))
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	assertComplete(t, result, 40)
	for _, recErr := range result.Errors {
		t.Errorf("unexpected failure: %s", ocr.FormatChain(recErr))
	}
}
