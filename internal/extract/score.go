package extract

import "strings"

// Tuning constants for the detection heuristics. These are part of the
// tested contract; changing them shifts which candidates win near the
// decision boundaries.
const (
	// labelAnchorScore is assigned to a number found directly after a
	// recognized label phrase.
	labelAnchorScore = 4

	// labelWindowChars bounds how far past a label, in characters, the
	// anchored number may appear.
	labelWindowChars = 500

	// contextRadius is the symmetric window, in characters, inspected
	// around a bare pattern match for labels and keywords.
	contextRadius = 80

	// maxPairGap is the largest allowed distance, in characters,
	// between the nearer edges of a paired track and code. Earlier
	// revisions used 200; 350 is the current behavior.
	maxPairGap = 350

	// Track scores for bare pattern matches.
	trackBaseScore    = 1
	trackKeywordScore = 2
	trackLabelScore   = 4

	// Code scores for bare pattern matches. Codes are held to stricter
	// context requirements since 8-digit runs are common false
	// positives (phone fragments, dates, case numbers).
	codeLabelScore    = 5
	codeOwnLineScore  = 4
	codeNearLineScore = 3
	codeBaseScore     = 2
)

// window returns the text within contextRadius characters of the span.
func window(text string, start, end int) string {
	lo := retreatRunes(text, start, contextRadius)
	hi := advanceRunes(text, end, contextRadius)
	return text[lo:hi]
}

// lineContext is the newline-delimited line holding a span plus its
// immediate neighbors.
type lineContext struct {
	prev, own, next string
}

func lineAround(text string, start, end int) lineContext {
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := strings.IndexByte(text[end:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text)
	} else {
		lineEnd += end
	}

	var lc lineContext
	lc.own = text[lineStart:lineEnd]
	if lineStart > 0 {
		prevStart := strings.LastIndexByte(text[:lineStart-1], '\n') + 1
		lc.prev = text[prevStart : lineStart-1]
	}
	if lineEnd < len(text) {
		nextEnd := strings.IndexByte(text[lineEnd+1:], '\n')
		if nextEnd < 0 {
			nextEnd = len(text)
		} else {
			nextEnd += lineEnd + 1
		}
		lc.next = text[lineEnd+1 : nextEnd]
	}
	return lc
}

// scoreTrack rates a bare track pattern match by nearby context.
func scoreTrack(text string, m patternMatch) int {
	w := window(text, m.start, m.end)
	if trackLabelRe.MatchString(w) {
		return trackLabelScore
	}
	if containsKeyword(w, FieldTrack) {
		return trackKeywordScore
	}
	return trackBaseScore
}

// scoreCode rates a bare code pattern match. The returned boolean is
// false when the match must be rejected outright: an 8-digit run with
// no code-ish context is far more likely to be part of a phone number,
// date or case number than an access code.
func scoreCode(text string, m patternMatch) (int, bool) {
	if !containsKeyword(window(text, m.start, m.end), FieldCode) {
		return 0, false
	}

	lc := lineAround(text, m.start, m.end)
	ownHasCode := containsKeyword(lc.own, FieldCode)
	prevHasCode := containsKeyword(lc.prev, FieldCode)
	nextHasCode := containsKeyword(lc.next, FieldCode)
	if !ownHasCode && !prevHasCode && !nextHasCode {
		return 0, false
	}
	// A line that talks about the tracking number without mentioning a
	// code is part of the tracking block, not a code.
	if containsKeyword(lc.own, FieldTrack) && !ownHasCode {
		return 0, false
	}

	switch {
	case codeLabelRe.MatchString(lc.own) || codeLabelRe.MatchString(lc.prev):
		return codeLabelScore, true
	case codeLabelRe.MatchString(lc.next):
		return codeLabelScore, true
	case ownHasCode:
		return codeOwnLineScore, true
	case prevHasCode || nextHasCode:
		return codeNearLineScore, true
	default:
		return codeBaseScore, true
	}
}
