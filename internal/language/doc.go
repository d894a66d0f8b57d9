// Package language maps the language codes found in subtitle exports and on
// the command line (ISO 639-1, ISO 639-2 bibliographic or terminology codes,
// English names) to Tesseract model names.
package language
