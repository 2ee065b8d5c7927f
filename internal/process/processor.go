// Package process orchestrates per-document extraction: it walks the
// candidate pages of a notice most-recent-first, scans each page's text
// layer and escalates to OCR when the text layer looks short or
// garbled, stopping at the first page that yields a complete
// (track, code) pair.
package process

import (
	"unicode/utf8"

	"github.com/pochta-tools/notice-extract/internal/extract"
	"github.com/pochta-tools/notice-extract/internal/pdfdoc"
)

// Method labels record where a result's values came from.
const (
	MethodNone     = ""
	MethodText     = "text"
	MethodOCR      = "ocr"
	MethodCanceled = "canceled"
	MethodError    = "error"
)

// Result is the per-document outcome.
type Result struct {
	SourceName string `json:"source"`
	Track      string `json:"track,omitempty"`
	Code       string `json:"code,omitempty"`
	Method     string `json:"method"`
}

// Complete reports whether both fields were extracted as a pair.
func (r Result) Complete() bool {
	return r.Track != "" && r.Code != ""
}

// Options configures a Processor. Zero values disable the respective
// behavior; a zero MinCharsForOCR means no text layer ever counts as
// short, so only ForceOCR triggers OCR.
type Options struct {
	// MaxPagesBack bounds how many pages are visited, starting from the
	// last page. 0 visits every page.
	MaxPagesBack int
	// MinCharsForOCR is the text-layer character count below which a
	// page is considered short enough to warrant OCR.
	MinCharsForOCR int
	// OCREnabled gates all OCR activity for the run.
	OCREnabled bool
	// ForceOCR runs OCR on every visited page and skips the text layer.
	ForceOCR bool
	// OCRDPI and OCRLanguages are passed through to the OCR engine.
	OCRDPI       int
	OCRLanguages []string
	// Cancel is polled at page boundaries. Nil never cancels.
	Cancel CancellationSource
	// Debug receives every page text the pipeline sees. Nil discards.
	Debug DebugSink
}

// Processor runs the page-fallback state machine over documents.
type Processor struct {
	opts Options
}

// NewProcessor creates a processor with the given options.
func NewProcessor(opts Options) *Processor {
	if opts.Cancel == nil {
		opts.Cancel = CancelFunc(func() bool { return false })
	}
	if opts.Debug == nil {
		opts.Debug = NopSink{}
	}
	return &Processor{opts: opts}
}

// Run extracts the tracking number and access code from one document.
// Pages are visited in reverse order: notices are habitually appended
// to the end of court mailings, so the most recent pages are the most
// likely to carry the authoritative block. The first page yielding a
// complete pair finalizes the result; older pages are never consulted
// after that.
func (p *Processor) Run(src pdfdoc.PageSource, sourceName string) Result {
	res := Result{SourceName: sourceName}

	total := src.PageCount()
	if total < 1 {
		total = 1
	}
	visits := total
	if p.opts.MaxPagesBack > 0 && p.opts.MaxPagesBack < visits {
		visits = p.opts.MaxPagesBack
	}

	for n := 0; n < visits; n++ {
		pageIndex := total - 1 - n

		if p.opts.Cancel.IsCanceled() {
			res.Method = MethodCanceled
			return res
		}

		var track, code, method string
		textLen := 0
		if !p.opts.ForceOCR {
			text := src.PageText(pageIndex)
			textLen = utf8.RuneCountInString(text)
			p.opts.Debug.RecordPageText(sourceName, pageIndex, MethodText, text)
			scan := extract.Scan(text)
			track, code = scan.Track, scan.Code
			if scan.Complete() {
				method = MethodText
			}
		}

		if p.shouldOCR(track != "" && code != "", textLen) {
			ocrText := src.OCRPageText(pageIndex, p.opts.OCRDPI, p.opts.OCRLanguages)
			if ocrText != "" {
				p.opts.Debug.RecordPageText(sourceName, pageIndex, MethodOCR, ocrText)
				scan := extract.Scan(ocrText)
				if scan.Complete() {
					// A complete OCR pair overrides even a partial
					// text-layer result.
					track, code = scan.Track, scan.Code
					method = MethodOCR
				}
			}
		}

		// Only a complete pair is committed; single values found on a
		// page stay page-local and the search moves on.
		if track != "" && code != "" {
			res.Track, res.Code, res.Method = track, code, method
			return res
		}
	}
	return res
}

// shouldOCR decides whether to run OCR for the current page.
func (p *Processor) shouldOCR(pairComplete bool, textLen int) bool {
	if !p.opts.OCREnabled {
		return false
	}
	if p.opts.ForceOCR {
		return true
	}
	return !pairComplete && textLen < p.opts.MinCharsForOCR
}
