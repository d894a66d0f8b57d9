package language

import "strings"

type entry struct {
	code2   string   // ISO 639-1
	code3   string   // ISO 639-2/T
	alt3    string   // ISO 639-2/B when it differs ("fre" vs "fra")
	model   string   // Tesseract traineddata name
	display string   // Human-readable name
	words   []string // Full word forms
}

var languages = []entry{
	{"en", "eng", "", "eng", "English", []string{"english"}},
	{"es", "spa", "", "spa", "Spanish", []string{"spanish"}},
	{"fr", "fra", "fre", "fra", "French", []string{"french"}},
	{"de", "deu", "ger", "deu", "German", []string{"german"}},
	{"it", "ita", "", "ita", "Italian", []string{"italian"}},
	{"pt", "por", "", "por", "Portuguese", []string{"portuguese"}},
	{"ja", "jpn", "", "jpn", "Japanese", []string{"japanese"}},
	{"ko", "kor", "", "kor", "Korean", []string{"korean"}},
	{"zh", "zho", "chi", "chi_sim", "Chinese", []string{"chinese"}},
	{"ru", "rus", "", "rus", "Russian", []string{"russian"}},
	{"ar", "ara", "", "ara", "Arabic", []string{"arabic"}},
	{"hi", "hin", "", "hin", "Hindi", []string{"hindi"}},
	{"nl", "nld", "dut", "nld", "Dutch", []string{"dutch"}},
	{"pl", "pol", "", "pol", "Polish", []string{"polish"}},
	{"sv", "swe", "", "swe", "Swedish", []string{"swedish"}},
	{"da", "dan", "", "dan", "Danish", []string{"danish"}},
	{"no", "nor", "", "nor", "Norwegian", []string{"norwegian"}},
	{"fi", "fin", "", "fin", "Finnish", []string{"finnish"}},
	{"cs", "ces", "cze", "ces", "Czech", []string{"czech"}},
	{"el", "ell", "gre", "ell", "Greek", []string{"greek"}},
	{"he", "heb", "", "heb", "Hebrew", []string{"hebrew"}},
	{"hu", "hun", "", "hun", "Hungarian", []string{"hungarian"}},
	{"tr", "tur", "", "tur", "Turkish", []string{"turkish"}},
}

var (
	byCode  map[string]*entry
	byModel map[string]*entry
)

func init() {
	byCode = make(map[string]*entry, len(languages)*4)
	byModel = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode[e.code2] = e
		byCode[e.code3] = e
		if e.alt3 != "" {
			byCode[e.alt3] = e
		}
		for _, w := range e.words {
			byCode[w] = e
		}
		byModel[e.model] = e
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byModel[code]; ok {
		return e
	}
	return byCode[code]
}

// Model returns the Tesseract model name for code. Unknown codes are returned
// trimmed and unchanged so models such as "chi_tra" or "osd" still work.
func Model(code string) string {
	if e := lookup(code); e != nil {
		return e.model
	}
	return strings.TrimSpace(code)
}

// Models maps every code with Model and drops blanks and duplicates, keeping
// first-seen order.
func Models(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		model := Model(code)
		if model == "" {
			continue
		}
		if _, ok := seen[model]; ok {
			continue
		}
		seen[model] = struct{}{}
		out = append(out, model)
	}
	return out
}

// DisplayName returns a human-readable name for code, "Unknown" when empty,
// or the code itself when not recognised.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.TrimSpace(code)
}

// Covers reports whether the models list can recognise a track declared as
// code. An empty or unknown declaration is always covered.
func Covers(models []string, code string) bool {
	declared := lookup(code)
	if declared == nil {
		return true
	}
	for _, m := range models {
		if e := lookup(m); e == declared {
			return true
		}
	}
	return false
}
