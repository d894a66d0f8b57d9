package ocr_test

import (
	"errors"
	"testing"

	"subocr/internal/ocr"
)

func TestAggregatorSortsLinesAndKeepsErrors(t *testing.T) {
	agg := ocr.NewAggregator(4)
	for _, index := range []int{3, 0, 2} {
		if err := agg.AddLine(ocr.RecognizedLine{Index: index, Text: textFor(index)}); err != nil {
			t.Fatalf("AddLine(%d): %v", index, err)
		}
	}
	if err := agg.AddError(&ocr.RecognitionError{Index: 1, Kind: ocr.KindEngine}); err != nil {
		t.Fatalf("AddError: %v", err)
	}
	result, err := agg.Result()
	if err != nil {
		t.Fatalf("Result returned error: %v", err)
	}
	for i, want := range []int{0, 2, 3} {
		if result.Lines[i].Index != want {
			t.Fatalf("position %d holds %d", i, result.Lines[i].Index)
		}
	}
	if result.Failed() != 1 || result.Errors[0].Index != 1 {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
}

func TestAggregatorRejectsBadOutcomes(t *testing.T) {
	agg := ocr.NewAggregator(2)
	if err := agg.AddLine(ocr.RecognizedLine{Index: 0}); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if err := agg.AddError(&ocr.RecognitionError{Index: 0}); err == nil {
		t.Fatal("expected duplicate index to be rejected")
	}
	if err := agg.AddLine(ocr.RecognizedLine{Index: 2}); err == nil {
		t.Fatal("expected out-of-range index to be rejected")
	}
	if err := agg.AddLine(ocr.RecognizedLine{Index: -1}); err == nil {
		t.Fatal("expected negative index to be rejected")
	}
	if err := agg.AddError(nil); err == nil {
		t.Fatal("expected nil error to be rejected")
	}
	if _, err := agg.Result(); err == nil {
		t.Fatal("expected missing index to fail the result")
	}
	if agg.Len() != 1 {
		t.Fatalf("rejected outcomes must not count, got %d", agg.Len())
	}
}

func TestBatchResultSortedErrors(t *testing.T) {
	result := &ocr.BatchResult{Errors: []*ocr.RecognitionError{
		{Index: 7, Kind: ocr.KindEngine},
		{Index: 2, Kind: ocr.KindPreprocess},
		{Index: 4, Kind: ocr.KindEngine},
	}}
	sorted := result.SortedErrors()
	for i, want := range []int{2, 4, 7} {
		if sorted[i].Index != want {
			t.Fatalf("position %d holds %d", i, sorted[i].Index)
		}
	}
	if result.Errors[0].Index != 7 {
		t.Fatal("SortedErrors must not reorder the original slice")
	}
	var nilResult *ocr.BatchResult
	if nilResult.Failed() != 0 || nilResult.Succeeded() != 0 {
		t.Fatal("nil result must report zero counts")
	}
}

func TestRecognitionErrorMatchesKindAndCause(t *testing.T) {
	cause := errors.New("tessdata missing")
	err := error(&ocr.RecognitionError{Index: 4, Kind: ocr.KindInit, Cause: cause})
	if !errors.Is(err, ocr.ErrEngineInit) || !errors.Is(err, cause) {
		t.Fatalf("expected kind and cause to match: %v", err)
	}
	if errors.Is(err, ocr.ErrEngine) {
		t.Fatal("init failure must not match the per-call engine sentinel")
	}
	var recErr *ocr.RecognitionError
	if !errors.As(err, &recErr) || recErr.Index != 4 {
		t.Fatalf("errors.As failed for %v", err)
	}
}
