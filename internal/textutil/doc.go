// Package textutil cleans up text produced by the recognition engine.
//
// Engine output carries trailing newlines, form feeds, ragged whitespace and
// sometimes decomposed Unicode. NormalizeRecognized turns it into the compact
// multi-line form a subtitle cue expects.
package textutil
