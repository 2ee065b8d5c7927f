package extract

import (
	"regexp"
	"strings"
)

// logoRe matches the brand header printed on every notice. Multi-copy
// documents (cover letter plus the notice itself) repeat it; the
// authoritative tracking block follows the final occurrence.
var logoRe = regexp.MustCompile(`(?i)почта\s+россии`)

// Result is the outcome of scanning one text blob. Track and Code are
// empty when not found. Paired reports whether the two values were
// selected together from one segment; unpaired values are independent
// best-effort singles and need not be co-located.
type Result struct {
	Track  string
	Code   string
	Paired bool
}

// Complete reports whether both fields were found.
func (r Result) Complete() bool {
	return r.Track != "" && r.Code != ""
}

var spaceNormalizer = strings.NewReplacer(" ", " ", " ", " ")

// segments splits normalized text into the regions to scan, in order of
// preference: the tail after the last logo occurrence, then the whole
// text as a fallback. Blank regions are skipped.
func segments(text string) []string {
	var segs []string
	if locs := logoRe.FindAllStringIndex(text, -1); len(locs) > 0 {
		tail := text[locs[len(locs)-1][1]:]
		if strings.TrimSpace(tail) != "" {
			segs = append(segs, tail)
		}
	}
	if strings.TrimSpace(text) != "" {
		segs = append(segs, text)
	}
	return segs
}

// containedIn reports whether the span [start, end) lies fully inside
// any recorded span.
func containedIn(spans []Candidate, start, end int) bool {
	for _, s := range spans {
		if start >= s.Start && end <= s.End {
			return true
		}
	}
	return false
}

// Scan runs the full detection pipeline over one page's text and
// returns the best (track, code) pair, or best-effort singles when no
// segment yields a complete pair. Identical input always yields an
// identical result.
func Scan(text string) Result {
	text = spaceNormalizer.Replace(text)

	var best Result
	var bestTrackScore, bestCodeScore int

	for _, seg := range segments(text) {
		tracks := findLabelAnchored(seg, FieldTrack)
		codes := findLabelAnchored(seg, FieldCode)

		for _, m := range findNumberPatterns(seg, FieldTrack) {
			tracks = append(tracks, Candidate{
				Value: m.value,
				Start: m.start,
				End:   m.end,
				Score: scoreTrack(seg, m),
			})
		}
		for _, m := range findNumberPatterns(seg, FieldCode) {
			// An 8-digit slice of a tracking number is not a code.
			if containedIn(tracks, m.start, m.end) {
				continue
			}
			score, ok := scoreCode(seg, m)
			if !ok {
				continue
			}
			codes = append(codes, Candidate{
				Value: m.value,
				Start: m.start,
				End:   m.end,
				Score: score,
			})
		}

		tracks = dedupe(tracks)
		codes = dedupe(codes)

		if track, code, ok := bestPair(seg, tracks, codes); ok {
			return Result{Track: track, Code: code, Paired: true}
		}

		if len(tracks) > 0 && (best.Track == "" || tracks[0].Score > bestTrackScore) {
			best.Track = tracks[0].Value
			bestTrackScore = tracks[0].Score
		}
		if len(codes) > 0 && (best.Code == "" || codes[0].Score > bestCodeScore) {
			best.Code = codes[0].Value
			bestCodeScore = codes[0].Score
		}
	}
	return best
}
