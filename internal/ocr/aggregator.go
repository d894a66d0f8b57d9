package ocr

import (
	"errors"
	"fmt"
	"slices"
)

var (
	errIndexRange     = errors.New("outcome index out of range")
	errDuplicateIndex = errors.New("duplicate outcome for index")
	errMissingIndex   = errors.New("no outcome for index")
)

// Aggregator collects exactly one outcome per index and restores source order.
// It is not safe for concurrent use; the Orchestrator feeds it from a single
// collector goroutine.
type Aggregator struct {
	total  int
	seen   []bool
	count  int
	lines  []RecognizedLine
	errors []*RecognitionError
}

func NewAggregator(total int) *Aggregator {
	return &Aggregator{total: total, seen: make([]bool, max(total, 0))}
}

func (a *Aggregator) mark(index int) error {
	if index < 0 || index >= a.total {
		return fmt.Errorf("%w: %d of %d", errIndexRange, index, a.total)
	}
	if a.seen[index] {
		return fmt.Errorf("%w %d", errDuplicateIndex, index)
	}
	a.seen[index] = true
	a.count++
	return nil
}

// AddLine records a successful item.
func (a *Aggregator) AddLine(line RecognizedLine) error {
	if err := a.mark(line.Index); err != nil {
		return err
	}
	a.lines = append(a.lines, line)
	return nil
}

// AddError records a failed item.
func (a *Aggregator) AddError(err *RecognitionError) error {
	if err == nil {
		return errors.New("nil recognition error")
	}
	if markErr := a.mark(err.Index); markErr != nil {
		return markErr
	}
	a.errors = append(a.errors, err)
	return nil
}

// Len returns the number of outcomes recorded so far.
func (a *Aggregator) Len() int { return a.count }

// Result returns lines sorted by index and errors in arrival order. It fails
// if any index never reported.
func (a *Aggregator) Result() (*BatchResult, error) {
	if a.count != a.total {
		missing := slices.Index(a.seen, false)
		return nil, fmt.Errorf("%w %d (%d of %d reported)", errMissingIndex, missing, a.count, a.total)
	}
	lines := slices.Clone(a.lines)
	slices.SortFunc(lines, func(x, y RecognizedLine) int { return x.Index - y.Index })
	return &BatchResult{
		Lines:  lines,
		Errors: slices.Clone(a.errors),
		Total:  a.total,
	}, nil
}
