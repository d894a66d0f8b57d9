// Package source turns subtitle exports on disk into ocr.Events.
//
// The supported input is a BDN XML index (as written by BDSup2Sub, SupRip
// and most Blu-ray authoring tools) plus the PNG images it references.
// Paletted PNGs keep their palette; other PNGs are quantised to a 16 level
// gray by 16 level alpha palette so every event reaches the preprocessor in
// the same indexed form.
package source
