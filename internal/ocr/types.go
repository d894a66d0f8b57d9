package ocr

import (
	"slices"
	"time"

	"subocr/internal/bitmap"
)

// Event is one timed subtitle bitmap handed over by a subtitle source.
type Event struct {
	Index   int
	Start   time.Duration
	End     time.Duration
	Bitmap  bitmap.Bitmap
	Palette bitmap.Palette
	// Err reports that the source could not decode this event's image. The
	// item fails with KindPreprocess and Err as its cause.
	Err error
}

// RecognizedLine is the text recognised for one event.
type RecognizedLine struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// BatchResult is the outcome of one Orchestrator.Run.
type BatchResult struct {
	// Lines are sorted by Index.
	Lines []RecognizedLine
	// Errors are in completion order.
	Errors []*RecognitionError
	Total  int
}

// Succeeded returns the number of recognised lines.
func (r *BatchResult) Succeeded() int {
	if r == nil {
		return 0
	}
	return len(r.Lines)
}

// Failed returns the number of items that produced an error.
func (r *BatchResult) Failed() int {
	if r == nil {
		return 0
	}
	return len(r.Errors)
}

// SortedErrors returns a copy of Errors ordered by index, for reporting.
func (r *BatchResult) SortedErrors() []*RecognitionError {
	if r == nil {
		return nil
	}
	sorted := slices.Clone(r.Errors)
	slices.SortFunc(sorted, func(a, b *RecognitionError) int { return a.Index - b.Index })
	return sorted
}

// CountByKind tallies errors per failure kind.
func (r *BatchResult) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	if r == nil {
		return counts
	}
	for _, err := range r.Errors {
		counts[err.Kind]++
	}
	return counts
}
