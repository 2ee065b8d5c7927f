package pdfdoc

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Document is a PageSource backed by a PDF file on disk. The text layer
// comes from ledongthuc/pdf, structural data from pdfcpu, and OCR from
// the configured engine over pdfcpu-extracted page images.
type Document struct {
	path string
	ocr  OCREngine
}

// NewDocument creates a page source for the given file. The OCR engine
// may be nil when OCR is disabled for the run.
func NewDocument(path string, ocr OCREngine) *Document {
	return &Document{path: path, ocr: ocr}
}

// Path returns the backing file path.
func (d *Document) Path() string {
	return d.path
}

// PageCount determines the page count via pdfcpu. A file whose page
// tree cannot be parsed but whose first page still yields images is
// treated as a 2-page scan; anything else degrades to 1.
func (d *Document) PageCount() int {
	count, err := d.structuralPageCount()
	if err == nil && count > 0 {
		return count
	}
	if imgs, err := d.pageImages(1); err == nil && len(imgs) > 0 {
		return 2
	}
	return 1
}

func (d *Document) structuralPageCount() (int, error) {
	file, err := os.Open(d.path)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", d.path, err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return 0, fmt.Errorf("read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("ensure page count: %w", err)
	}
	return ctx.PageCount, nil
}

// PageText extracts the text layer of one page. ledongthuc/pdf panics
// on some malformed files, so the extraction is isolated behind a
// recover and every failure degrades to empty text.
func (d *Document) PageText(pageIndex int) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	f, reader, err := pdf.Open(d.path)
	if err != nil {
		return ""
	}
	defer f.Close()

	pageNum := pageIndex + 1
	if pageNum < 1 || pageNum > reader.NumPage() {
		return ""
	}
	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return ""
	}
	content, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return content
}

// OCRPageText runs OCR over every image embedded on the page and joins
// the recognized text. Returns "" when OCR is unavailable or nothing
// was recognized.
func (d *Document) OCRPageText(pageIndex int, dpi int, languages []string) string {
	if d.ocr == nil {
		return ""
	}
	images, err := d.pageImages(pageIndex + 1)
	if err != nil || len(images) == 0 {
		return ""
	}

	var builder strings.Builder
	for _, img := range images {
		text, err := d.ocr.RecognizeImage(img, dpi, languages)
		if err != nil {
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			if builder.Len() > 0 {
				builder.WriteByte('\n')
			}
			builder.WriteString(text)
		}
	}
	return builder.String()
}

// pageImages extracts the encoded image payloads of one 1-based page.
func (d *Document) pageImages(pageNum int) ([][]byte, error) {
	file, err := os.Open(d.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.path, err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var images [][]byte
	digest := func(img model.Image, singleImgPerPage bool, maxPageDigits int) error {
		data, err := io.ReadAll(img.Reader)
		if err != nil {
			return fmt.Errorf("read image %s: %w", img.Name, err)
		}
		images = append(images, data)
		return nil
	}

	pages := []string{strconv.Itoa(pageNum)}
	if err := api.ExtractImages(file, pages, digest, conf); err != nil {
		return nil, fmt.Errorf("extract images from page %d: %w", pageNum, err)
	}
	return images, nil
}
