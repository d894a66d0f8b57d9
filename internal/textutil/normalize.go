package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// lineBreakReplacer folds every line terminator the engine emits into "\n".
var lineBreakReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	"\f", "\n",
	"\v", "\n",
	"\u2028", "\n",
	"\u2029", "\n",
)

// NormalizeRecognized composes text to NFC, collapses runs of horizontal
// whitespace, trims every line and drops blank lines.
func NormalizeRecognized(text string) string {
	text = norm.NFC.String(lineBreakReplacer.Replace(text))
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = collapseSpaces(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func collapseSpaces(line string) string {
	fields := strings.FieldsFunc(line, unicode.IsSpace)
	return strings.Join(fields, " ")
}
