package extract

import (
	"regexp"
	"strings"
)

// Label phrases anchor a number directly: a recognized phrase followed
// within labelWindowChars by a shape-valid number yields a high-confidence
// candidate. Context keywords are looser single-word stems used only for
// proximity scoring of bare pattern matches.

var trackLabelRe = regexp.MustCompile(`(?i)(` + strings.Join([]string{
	`трек[^\n]{0,20}номер`,
	`трек\s*№`,
	`почтовый\s+идентификатор`,
	`идентификатор\s+отправления`,
	`шпи`,
	`штрих\s*-?\s*код`,
	`tracking\s+number`,
	`barcode`,
}, "|") + `)`)

var codeLabelRe = regexp.MustCompile(`(?i)(` + strings.Join([]string{
	`код\s*доступа`,
	`код\s+для\s+получения`,
	`код\s+получения`,
	`код\s+письма`,
	`access\s+code`,
}, "|") + `)`)

var trackKeywords = []string{
	"трек",
	"идентификатор",
	"почтов",
	"шпи",
	"штрих",
	"track",
	"barcode",
}

var codeKeywords = []string{
	"код",
	"доступ",
	"получен",
	"письм",
	"code",
	"access",
}

func labelFor(kind FieldKind) *regexp.Regexp {
	if kind == FieldTrack {
		return trackLabelRe
	}
	return codeLabelRe
}

func keywordsFor(kind FieldKind) []string {
	if kind == FieldTrack {
		return trackKeywords
	}
	return codeKeywords
}

// containsKeyword reports whether any stem for the field kind occurs in
// the text. Matching is case-insensitive; ToLower folds Cyrillic.
func containsKeyword(text string, kind FieldKind) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywordsFor(kind) {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// matchAfterLabel scans the window following a label for the first
// shape-valid number of the target kind. Offsets in the returned
// candidate are absolute within text. The boolean is false when the
// window holds no acceptable number.
func matchAfterLabel(text string, labelEnd int, kind FieldKind) (Candidate, bool) {
	windowEnd := advanceRunes(text, labelEnd, labelWindowChars)
	for _, m := range findNumberPatterns(text[labelEnd:windowEnd], kind) {
		return Candidate{
			Value: m.value,
			Start: labelEnd + m.start,
			End:   labelEnd + m.end,
			Score: labelAnchorScore,
		}, true
	}
	return Candidate{}, false
}

// findLabelAnchored emits one candidate per label occurrence that has a
// shape-valid number within reach.
func findLabelAnchored(text string, kind FieldKind) []Candidate {
	var out []Candidate
	for _, loc := range labelFor(kind).FindAllStringIndex(text, -1) {
		if cand, ok := matchAfterLabel(text, loc[1], kind); ok {
			out = append(out, cand)
		}
	}
	return out
}
