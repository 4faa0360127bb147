// Package classkey resolves free-text class-name variants to the keys under
// which schedule data may actually be stored. Class names arrive from user
// profiles and admin forms in mixed spellings — "1", "I", "Class 1" — and no
// single canonical spelling is enforced at write time, so every lookup has to
// test all candidate forms rather than one exact value.
package classkey

import "strings"

var toRoman = map[string]string{
	"1": "I", "2": "II", "3": "III", "4": "IV", "5": "V",
	"6": "VI", "7": "VII", "8": "VIII", "9": "IX", "10": "X",
}

var toDigit = map[string]string{
	"I": "1", "II": "2", "III": "3", "IV": "4", "V": "5",
	"VI": "6", "VII": "7", "VIII": "8", "IX": "9", "X": "10",
}

// CandidateKeys derives the ordered, deduplicated set of canonical forms for
// a raw class name: the trimmed/uppercased value, the value with a "CLASS "
// prefix stripped, and the roman-numeral and digit equivalents of the
// stripped form. Lookups match stored rows case-insensitively against every
// candidate.
func CandidateKeys(raw string) []string {
	base := strings.ToUpper(strings.TrimSpace(raw))
	if base == "" {
		return nil
	}

	stripped := strings.TrimSpace(strings.TrimPrefix(base, "CLASS "))

	candidates := []string{base, stripped}
	if r, ok := toRoman[stripped]; ok {
		candidates = append(candidates, r)
	}
	if d, ok := toDigit[stripped]; ok {
		candidates = append(candidates, d)
	}

	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// NormalizeSection canonicalizes a section value for comparison.
func NormalizeSection(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Romanize maps a class name to its roman-numeral form where one exists,
// mirroring how legacy rosters spell classes 1..10.
func Romanize(raw string) string {
	base := strings.ToUpper(strings.TrimSpace(raw))
	base = strings.TrimSpace(strings.TrimPrefix(base, "CLASS "))
	if r, ok := toRoman[base]; ok {
		return r
	}
	return base
}
