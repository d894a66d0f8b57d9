package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"subocr/internal/ocr"
)

var (
	// ErrUnsupported reports an input format this package cannot read.
	ErrUnsupported = errors.New("unsupported subtitle source")
	// ErrMalformed reports an index or image that cannot be decoded.
	ErrMalformed = errors.New("malformed subtitle source")
)

// Track is one decoded subtitle stream.
type Track struct {
	Path      string
	Language  string
	FrameRate float64
	Events    []ocr.Event
}

// Open decodes the subtitle export at path, choosing the reader by extension.
func Open(path string) (*Track, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return LoadBDN(path)
	default:
		return nil, fmt.Errorf("%w: %s (expected a BDN .xml index)", ErrUnsupported, filepath.Base(path))
	}
}
