// Package bitmap turns decoded subtitle bitmaps into OCR-ready grayscale images.
//
// Subtitle streams carry small palette-indexed images: usually light text with a
// dark outline over a transparent background. Preprocess resolves the palette to
// linear luminance, decides which opaque pixels are text (the Polarity option,
// or a deterministic heuristic when set to auto), crops to the text, pads it with
// a white border and renders black text on white, which is what the recognition
// engine expects.
//
// Everything here is pure: no package state, no randomness, safe to call from
// any number of goroutines at once.
package bitmap
