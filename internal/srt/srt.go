// Package srt reads and writes SubRip subtitle files.
package srt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"subocr/internal/ocr"
)

// Cue is one numbered SubRip entry.
type Cue struct {
	Number int
	Start  time.Duration
	End    time.Duration
	Text   string
}

// Write serialises lines as SubRip cues numbered from 1 in the given order.
// Lines with no text are skipped. It returns the number of cues written.
func Write(w io.Writer, lines []ocr.RecognizedLine) (int, error) {
	bw := bufio.NewWriter(w)
	n := 0
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		n++
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n", n, FormatTimestamp(line.Start), FormatTimestamp(line.End), text); err != nil {
			return n - 1, fmt.Errorf("write srt cue %d: %w", n, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("flush srt: %w", err)
	}
	return n, nil
}

// FormatTimestamp renders d as HH:MM:SS,mmm. Negative offsets clamp to zero.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	return fmt.Sprintf("%02d:%02d:%02d,%03d", ms/3_600_000, ms/60_000%60, ms/1000%60, ms%1000)
}

// ParseTimestamp reads HH:MM:SS,mmm. A period is accepted in place of the comma.
func ParseTimestamp(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	clock, millisText, ok := strings.Cut(strings.ReplaceAll(value, ".", ","), ",")
	if !ok {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(clock, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(millisText)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	total := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond
	return total, nil
}

// Parse reads every cue in r. Blocks without a valid timing line are rejected.
func Parse(r io.Reader) ([]Cue, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read srt: %w", err)
	}
	content := strings.TrimSpace(strings.ReplaceAll(string(data), "\r\n", "\n"))
	if content == "" {
		return nil, nil
	}
	var cues []Cue
	for i, block := range strings.Split(content, "\n\n") {
		lines := strings.Split(strings.TrimSpace(block), "\n")
		if len(lines) < 2 {
			return nil, fmt.Errorf("srt block %d: expected number and timing lines", i+1)
		}
		number, err := strconv.Atoi(strings.TrimSpace(lines[0]))
		if err != nil {
			return nil, fmt.Errorf("srt block %d: invalid cue number %q", i+1, lines[0])
		}
		startText, endText, ok := strings.Cut(lines[1], "-->")
		if !ok {
			return nil, fmt.Errorf("srt block %d: missing timing arrow", i+1)
		}
		start, err := ParseTimestamp(startText)
		if err != nil {
			return nil, fmt.Errorf("srt block %d: %w", i+1, err)
		}
		end, err := ParseTimestamp(endText)
		if err != nil {
			return nil, fmt.Errorf("srt block %d: %w", i+1, err)
		}
		cues = append(cues, Cue{
			Number: number,
			Start:  start,
			End:    end,
			Text:   strings.Join(lines[2:], "\n"),
		})
	}
	return cues, nil
}
