// Package pdfdoc provides page-level access to notification PDFs: page
// counting, text-layer extraction and OCR over embedded page images.
// Every operation fails soft: a page that cannot be read yields empty
// text and never aborts the caller's page loop.
package pdfdoc

// PageSource exposes the per-page operations the extraction pipeline
// consumes. Page indexes are zero-based.
type PageSource interface {
	// PageCount returns the number of pages. On structural parse
	// failure it degrades to 1, or to 2 when only image extraction
	// still succeeds (a sign the file is a scan with a broken page
	// tree).
	PageCount() int

	// PageText returns the text layer of one page, or "" when the page
	// has no text layer or extraction fails.
	PageText(pageIndex int) string

	// OCRPageText rasterizes the page's embedded images and runs OCR
	// over them, returning "" on any failure.
	OCRPageText(pageIndex int, dpi int, languages []string) string
}
