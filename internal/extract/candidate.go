// Package extract implements the heuristic engine that locates a postal
// tracking number and an access code inside noisy notification text.
//
// Detection runs in two passes over each text segment: label-anchored
// matching (a known phrase followed by a number of the right shape) and
// bare pattern matching scored by surrounding context. Candidates are
// deduplicated and the best (track, code) pair is selected spatially.
package extract

import (
	"regexp"
	"unicode/utf8"
)

// FieldKind identifies which of the two numeric fields a candidate is for.
type FieldKind int

const (
	// FieldTrack is the 14-digit postal tracking number, first digit 8.
	FieldTrack FieldKind = iota
	// FieldCode is the 8-digit access code printed on the notice.
	FieldCode
)

// Length returns the expected digit count for the field.
func (k FieldKind) Length() int {
	if k == FieldTrack {
		return 14
	}
	return 8
}

// String returns a short name for logging.
func (k FieldKind) String() string {
	if k == FieldTrack {
		return "track"
	}
	return "code"
}

// Candidate is a detected numeric span within one segment.
type Candidate struct {
	// Value is the normalized digit string, separators stripped.
	Value string
	// Start and End are half-open byte offsets into the segment text.
	Start int
	End   int
	// Score is a confidence rank, comparable only within one segment
	// and field kind.
	Score int
}

// overlaps reports whether two spans intersect.
func (c Candidate) overlaps(o Candidate) bool {
	return c.Start < o.End && o.Start < c.End
}

// Digit runs may be interrupted by plain spaces, non-breaking spaces,
// narrow no-break spaces and hyphens, all of which the notices use as
// group separators.
const sepClass = "[   -]"

var (
	trackPattern = regexp.MustCompile(`8(?:` + sepClass + `*[0-9]){13}`)
	codePattern  = regexp.MustCompile(`[0-9](?:` + sepClass + `*[0-9]){7}`)
	nonDigitRe   = regexp.MustCompile(`[^0-9]`)
	track14Re    = regexp.MustCompile(`^8[0-9]{13}$`)
)

func patternFor(kind FieldKind) *regexp.Regexp {
	if kind == FieldTrack {
		return trackPattern
	}
	return codePattern
}

// normalizeDigits strips every non-digit character from a raw match.
func normalizeDigits(raw string) string {
	return nonDigitRe.ReplaceAllString(raw, "")
}

// validValue checks the normalized digit string against the field shape.
func validValue(value string, kind FieldKind) bool {
	if kind == FieldTrack {
		return track14Re.MatchString(value)
	}
	return len(value) == 8
}

// isSepRune reports whether r is one of the group separators digits may
// be interleaved with.
func isSepRune(r rune) bool {
	return r == ' ' || r == ' ' || r == ' ' || r == '-'
}

// digitFollows reports whether the digit run continues past byte offset i,
// ignoring any intervening separator characters.
func digitFollows(text string, i int) bool {
	for _, r := range text[i:] {
		if isSepRune(r) {
			continue
		}
		return r >= '0' && r <= '9'
	}
	return false
}

// digitPrecedes reports whether the digit run continues before byte
// offset i, ignoring any intervening separator characters.
func digitPrecedes(text string, i int) bool {
	rest := text[:i]
	for len(rest) > 0 {
		r, size := utf8.DecodeLastRuneInString(rest)
		if isSepRune(r) {
			rest = rest[:len(rest)-size]
			continue
		}
		return r >= '0' && r <= '9'
	}
	return false
}

// advanceRunes returns the byte offset n runes past i, clamped to the
// end of text. Candidate spans stay byte offsets; distances between
// them are counted in characters so Cyrillic text is not penalized for
// its two-byte encoding.
func advanceRunes(text string, i, n int) int {
	for ; n > 0 && i < len(text); n-- {
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return i
}

// retreatRunes returns the byte offset n runes before i, clamped to 0.
func retreatRunes(text string, i, n int) int {
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(text[:i])
		i -= size
	}
	return i
}

// patternMatch is a raw, shape-validated hit prior to scoring.
type patternMatch struct {
	value      string
	start, end int
}

// findNumberPatterns scans text for digit runs matching the field shape.
// A hit embedded in a longer digit run is rejected: the run would
// normalize to the wrong length.
func findNumberPatterns(text string, kind FieldKind) []patternMatch {
	var out []patternMatch
	for _, loc := range patternFor(kind).FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if digitPrecedes(text, start) || digitFollows(text, end) {
			continue
		}
		value := normalizeDigits(text[start:end])
		if len(value) != kind.Length() || !validValue(value, kind) {
			continue
		}
		out = append(out, patternMatch{value: value, start: start, end: end})
	}
	return out
}
