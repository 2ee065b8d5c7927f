package pdfdoc

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// OCREngine recognizes text in a single encoded image.
type OCREngine interface {
	RecognizeImage(image []byte, dpi int, languages []string) (string, error)
}

// TesseractEngine is the gosseract-backed OCR engine. A fresh client is
// created per image; gosseract clients are not safe for concurrent use
// and setup cost is negligible next to recognition itself.
type TesseractEngine struct {
	clientFactory func() *gosseract.Client
}

// NewTesseractEngine constructs a Tesseract OCR engine.
func NewTesseractEngine() *TesseractEngine {
	return &TesseractEngine{clientFactory: gosseract.NewClient}
}

// RecognizeImage runs Tesseract over the image bytes with the given
// language hints and DPI.
func (e *TesseractEngine) RecognizeImage(image []byte, dpi int, languages []string) (string, error) {
	client := e.clientFactory()
	defer client.Close()

	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			return "", fmt.Errorf("set languages: %w", err)
		}
	}
	if dpi > 0 {
		if err := client.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(dpi)); err != nil {
			return "", fmt.Errorf("set dpi: %w", err)
		}
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}
	return text, nil
}

// ParseLanguages splits a Tesseract-style language list ("rus+eng")
// into individual hints, dropping empty entries.
func ParseLanguages(spec string) []string {
	var langs []string
	for _, part := range strings.Split(spec, "+") {
		if part = strings.TrimSpace(part); part != "" {
			langs = append(langs, part)
		}
	}
	return langs
}
