package source

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"subocr/internal/ocr"
)

// Document is the subset of a BDN index subocr reads.
type Document struct {
	XMLName     xml.Name `xml:"BDN"`
	Version     string   `xml:"Version,attr"`
	Description struct {
		Language struct {
			Code string `xml:"Code,attr"`
		} `xml:"Language"`
		Format struct {
			VideoFormat string `xml:"VideoFormat,attr"`
			FrameRate   string `xml:"FrameRate,attr"`
			DropFrame   string `xml:"DropFrame,attr"`
		} `xml:"Format"`
	} `xml:"Description"`
	Events []DocumentEvent `xml:"Events>Event"`
}

// DocumentEvent is one timed display in a BDN index.
type DocumentEvent struct {
	InTC     string    `xml:"InTC,attr"`
	OutTC    string    `xml:"OutTC,attr"`
	Forced   string    `xml:"Forced,attr"`
	Graphics []Graphic `xml:"Graphic"`
}

// Graphic references one PNG placed on the video frame.
type Graphic struct {
	File   string `xml:",chardata"`
	Width  int    `xml:"Width,attr"`
	Height int    `xml:"Height,attr"`
	X      int    `xml:"X,attr"`
	Y      int    `xml:"Y,attr"`
}

// ParseBDN decodes a BDN index without touching the images it references.
func ParseBDN(r io.Reader) (*Document, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: decode BDN index: %w", ErrMalformed, err)
	}
	return &doc, nil
}

// FrameRate returns the declared frame rate.
func (d *Document) FrameRate() (float64, error) {
	raw := strings.TrimSpace(d.Description.Format.FrameRate)
	if raw == "" {
		return 0, fmt.Errorf("%w: BDN index declares no frame rate", ErrMalformed)
	}
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate <= 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
		return 0, fmt.Errorf("%w: invalid frame rate %q", ErrMalformed, raw)
	}
	return rate, nil
}

// LoadBDN reads the index at path and decodes every referenced image. Events
// are returned in document order; an event with several graphics yields one
// event per graphic, top to bottom. An image that cannot be read does not fail
// the track: its event carries the error in Event.Err.
func LoadBDN(path string) (*Track, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open BDN index: %w", err)
	}
	defer file.Close()

	doc, err := ParseBDN(file)
	if err != nil {
		return nil, err
	}
	rate, err := doc.FrameRate()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	track := &Track{
		Path:      path,
		Language:  strings.TrimSpace(doc.Description.Language.Code),
		FrameRate: rate,
		Events:    make([]ocr.Event, 0, len(doc.Events)),
	}
	for i, ev := range doc.Events {
		start, err := ParseTimecode(ev.InTC, rate)
		if err != nil {
			return nil, fmt.Errorf("event %d InTC: %w", i+1, err)
		}
		end, err := ParseTimecode(ev.OutTC, rate)
		if err != nil {
			return nil, fmt.Errorf("event %d OutTC: %w", i+1, err)
		}
		graphics := slices.Clone(ev.Graphics)
		slices.SortStableFunc(graphics, func(a, b Graphic) int { return a.Y - b.Y })
		for _, g := range graphics {
			item := ocr.Event{Start: start, End: end}
			name := strings.TrimSpace(g.File)
			if name == "" {
				item.Err = fmt.Errorf("%w: event %d has an empty graphic reference", ErrMalformed, i+1)
			} else {
				item.Bitmap, item.Palette, item.Err = LoadPNG(filepath.Join(dir, filepath.FromSlash(name)))
				if item.Err != nil {
					item.Err = fmt.Errorf("event %d: %w", i+1, item.Err)
				}
			}
			track.Events = append(track.Events, item)
		}
	}
	return track, nil
}

// ParseTimecode converts an HH:MM:SS:FF timecode at rate frames per second.
// NTSC rates count frames at the nominal integer rate and play back slower,
// so 00:00:01:00 at 23.976 is 1.001s.
func ParseTimecode(tc string, rate float64) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(tc), ":")
	if len(parts) != 4 {
		return 0, fmt.Errorf("%w: timecode %q is not HH:MM:SS:FF", ErrMalformed, tc)
	}
	var values [4]int
	for i, part := range parts {
		v, err := strconv.Atoi(part)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("%w: timecode %q is not HH:MM:SS:FF", ErrMalformed, tc)
		}
		values[i] = v
	}
	nominal := math.Round(rate)
	if float64(values[3]) >= nominal {
		return 0, fmt.Errorf("%w: timecode %q has frame %d at %.3f fps", ErrMalformed, tc, values[3], rate)
	}
	frames := float64((values[0]*3600+values[1]*60+values[2]))*nominal + float64(values[3])
	seconds := frames / rate
	return time.Duration(math.Round(seconds * 1000)) * time.Millisecond, nil
}
