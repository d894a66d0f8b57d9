package ocr_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"subocr/internal/ocr"
)

func TestFormatChainListsEachCause(t *testing.T) {
	root := errors.New("image too small")
	wrapped := fmt.Errorf("set image: %w", root)
	err := &ocr.RecognitionError{
		Index: 12,
		Start: 61*time.Second + 250*time.Millisecond,
		End:   63 * time.Second,
		Kind:  ocr.KindEngine,
		Cause: wrapped,
	}

	got := ocr.FormatChain(err)
	want := strings.Join([]string{
		"item 12 [00:01:01.250 - 00:01:03.000]: engine failure",
		"  caused by: set image",
		"  caused by: image too small",
	}, "\n")
	if got != want {
		t.Fatalf("unexpected chain:\n%s\nwant:\n%s", got, want)
	}
}

func TestFormatChainHandlesMarkerWrapping(t *testing.T) {
	marker := errors.New("validation failed")
	cause := errors.New("bad header")
	err := fmt.Errorf("%w: read source: %w", marker, cause)

	got := ocr.FormatChain(err)
	if !strings.HasSuffix(got, "\n  caused by: bad header") {
		t.Fatalf("expected cause last, got %q", got)
	}
	if ocr.FormatChain(nil) != "" {
		t.Fatal("nil error must format as empty")
	}
}

func TestPoolErrorMessage(t *testing.T) {
	err := &ocr.PoolError{Workers: 4, Cause: errors.New("no threads")}
	if got := err.Error(); got != "worker pool construction failure (4 workers): no threads" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := ocr.FormatChain(err); got != "worker pool construction failure (4 workers)\n  caused by: no threads" {
		t.Fatalf("unexpected chain %q", got)
	}
}
