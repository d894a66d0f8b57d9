// Package convert runs one subtitle conversion end to end: load the source,
// recognise every event on the worker pool, report failures, and write the
// SubRip output.
//
// The Service owns no engine code. Callers supply the EngineFactory (the CLI
// passes tesseract.New) so the stage can be exercised with fake engines.
package convert
