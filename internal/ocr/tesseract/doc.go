// Package tesseract adapts the gosseract client to ocr.Engine.
//
// A gosseract client wraps a TessBaseAPI that keeps per-thread state, so one
// Engine is built per worker and never shared. Run tessdata.Setup once per
// process before any engine is created.
package tesseract
