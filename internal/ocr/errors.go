package ocr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind classifies why a single item failed.
type Kind string

const (
	KindPreprocess Kind = "preprocess"
	KindEngine     Kind = "engine"
	KindInit       Kind = "init"
	KindCancelled  Kind = "cancelled"
)

var (
	ErrPreprocess       = errors.New("preprocess failure")
	ErrEngine           = errors.New("engine failure")
	ErrEngineInit       = errors.New("engine initialization failure")
	ErrCancelled        = errors.New("recognition cancelled")
	ErrPoolConstruction = errors.New("worker pool construction failure")
)

func (k Kind) sentinel() error {
	switch k {
	case KindPreprocess:
		return ErrPreprocess
	case KindEngine:
		return ErrEngine
	case KindInit:
		return ErrEngineInit
	case KindCancelled:
		return ErrCancelled
	default:
		return nil
	}
}

// RecognitionError reports the failure of one event. It matches the sentinel
// of its Kind with errors.Is and exposes Cause to errors.As.
type RecognitionError struct {
	Index  int
	Start  time.Duration
	End    time.Duration
	Kind   Kind
	Worker int
	Cause  error
}

func (e *RecognitionError) Error() string {
	label := string(e.Kind)
	if sentinel := e.Kind.sentinel(); sentinel != nil {
		label = sentinel.Error()
	}
	msg := fmt.Sprintf("item %d [%s - %s]: %s", e.Index, formatOffset(e.Start), formatOffset(e.End), label)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *RecognitionError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if sentinel := e.Kind.sentinel(); sentinel != nil {
		errs = append(errs, sentinel)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// PoolError aborts a whole batch before any item is processed.
type PoolError struct {
	Workers int
	Cause   error
}

func (e *PoolError) Error() string {
	msg := fmt.Sprintf("%s (%d workers)", ErrPoolConstruction.Error(), e.Workers)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *PoolError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrPoolConstruction}
	}
	return []error{ErrPoolConstruction, e.Cause}
}

// FormatChain renders err and its causes one per line, each layer showing only
// the text it adds over the next one.
func FormatChain(err error) string {
	var b strings.Builder
	for depth := 0; err != nil; depth++ {
		next := chainCause(err)
		msg := err.Error()
		if next != nil {
			msg = strings.TrimSuffix(msg, ": "+next.Error())
		}
		if depth > 0 {
			b.WriteString("\n  caused by: ")
		}
		b.WriteString(msg)
		err = next
	}
	return b.String()
}

func chainCause(err error) error {
	switch e := err.(type) {
	case *RecognitionError:
		return e.Cause
	case *PoolError:
		return e.Cause
	case interface{ Unwrap() error }:
		return e.Unwrap()
	case interface{ Unwrap() []error }:
		// fmt.Errorf("%w: ...: %w", marker, cause) keeps the cause last.
		errs := e.Unwrap()
		if len(errs) == 0 {
			return nil
		}
		return errs[len(errs)-1]
	}
	return nil
}

func formatOffset(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d.%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}
