// Package main hosts the subocr CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, applies flag overrides,
// and hands the work to internal/convert. Engine wiring lives here: the
// Tesseract factory and tessdata checks are injected into the service so the
// internal packages stay testable without libtesseract.
package main
