// Package ocr runs subtitle bitmaps through a recognition engine in parallel.
//
// The engine (Tesseract in production) is costly to start and must never be
// used from more than one OS thread. The Orchestrator therefore runs a fixed
// pool of worker goroutines, each locked to its own OS thread for its whole
// life, and each lazily owning exactly one Engine built by the EngineFactory
// on first use. Engines are never shared, locked, or handed between workers.
//
// Every event produces exactly one outcome: a RecognizedLine or a
// RecognitionError tagged with the event index. Per-item failures
// (preprocessing, engine, engine start-up, cancellation) are data, not
// control flow; only a failure to build the pool aborts a batch. The
// Aggregator restores source order before the BatchResult is returned, so
// completion order never leaks into the output.
package ocr
