package process

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	pairedText = "Почтовый идентификатор: 8006 5036 2850 04\nКод доступа: 1234 5678\n"
	ocrPaired  = "Почтовый идентификатор: 8999 0000 1111 22\nКод доступа: 8765 4321\n"
)

// fakeSource scripts per-page text and OCR output and records calls.
type fakeSource struct {
	pages    []string
	ocrPages []string

	textCalls []int
	ocrCalls  []int
}

func (f *fakeSource) PageCount() int {
	return len(f.pages)
}

func (f *fakeSource) PageText(pageIndex int) string {
	f.textCalls = append(f.textCalls, pageIndex)
	if pageIndex < 0 || pageIndex >= len(f.pages) {
		return ""
	}
	return f.pages[pageIndex]
}

func (f *fakeSource) OCRPageText(pageIndex int, dpi int, languages []string) string {
	f.ocrCalls = append(f.ocrCalls, pageIndex)
	if pageIndex < 0 || pageIndex >= len(f.ocrPages) {
		return ""
	}
	return f.ocrPages[pageIndex]
}

func TestProcessor_TextLayerPair(t *testing.T) {
	src := &fakeSource{pages: []string{"обложка", pairedText}}
	p := NewProcessor(Options{MaxPagesBack: 5, MinCharsForOCR: 200, OCREnabled: true})

	res := p.Run(src, "notice.pdf")

	assert.Equal(t, "80065036285004", res.Track)
	assert.Equal(t, "12345678", res.Code)
	assert.Equal(t, MethodText, res.Method)
	// Last page is visited first and already yields the pair.
	assert.Equal(t, []int{1}, src.textCalls)
}

func TestProcessor_UsesOCRWhenTextShort(t *testing.T) {
	src := &fakeSource{
		pages:    []string{"коротко"},
		ocrPages: []string{ocrPaired},
	}
	p := NewProcessor(Options{MaxPagesBack: 5, MinCharsForOCR: 200, OCREnabled: true, OCRDPI: 300})

	res := p.Run(src, "scan.pdf")

	assert.Equal(t, "89990000111122", res.Track)
	assert.Equal(t, "87654321", res.Code)
	assert.Equal(t, MethodOCR, res.Method)
	assert.Equal(t, []int{0}, src.ocrCalls)
}

func TestProcessor_SkipsOCRWhenTextSufficient(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	src := &fakeSource{pages: []string{"старая страница", string(long)}, ocrPages: []string{"", ocrPaired}}
	p := NewProcessor(Options{MaxPagesBack: 5, MinCharsForOCR: 200, OCREnabled: true})

	res := p.Run(src, "long.pdf")

	// Long text without a pair must not trigger OCR for that page; the
	// orchestrator proceeds to the older page instead.
	assert.Empty(t, res.Method)
	require.NotEmpty(t, src.ocrCalls)
	assert.NotContains(t, src.ocrCalls, 1)
	assert.Equal(t, []int{1, 0}, src.textCalls)
}

func TestProcessor_OCRPairOverridesPartialText(t *testing.T) {
	// The text layer is short and yields only the track; OCR yields a
	// full pair whose values win, including a different track.
	src := &fakeSource{
		pages:    []string{"трек 8006 5036 2850 04"},
		ocrPages: []string{ocrPaired},
	}
	p := NewProcessor(Options{MinCharsForOCR: 200, OCREnabled: true})

	res := p.Run(src, "partial.pdf")

	assert.Equal(t, "89990000111122", res.Track)
	assert.Equal(t, "87654321", res.Code)
	assert.Equal(t, MethodOCR, res.Method)
}

func TestProcessor_ForceOCRSkipsTextLayer(t *testing.T) {
	src := &fakeSource{pages: []string{pairedText}, ocrPages: []string{ocrPaired}}
	p := NewProcessor(Options{OCREnabled: true, ForceOCR: true})

	res := p.Run(src, "forced.pdf")

	assert.Empty(t, src.textCalls)
	assert.Equal(t, MethodOCR, res.Method)
	assert.Equal(t, "89990000111122", res.Track)
}

func TestProcessor_ReversePageOrderAndLookbackBound(t *testing.T) {
	src := &fakeSource{pages: []string{"a", "b", "c", "d", "e"}}
	p := NewProcessor(Options{MaxPagesBack: 3})

	res := p.Run(src, "deep.pdf")

	assert.Equal(t, []int{4, 3, 2}, src.textCalls)
	assert.Empty(t, res.Method)
	assert.False(t, res.Complete())
}

func TestProcessor_UnlimitedLookback(t *testing.T) {
	src := &fakeSource{pages: []string{"a", "b", "c"}}
	p := NewProcessor(Options{MaxPagesBack: 0})

	p.Run(src, "all.pdf")

	assert.Equal(t, []int{2, 1, 0}, src.textCalls)
}

func TestProcessor_Cancellation(t *testing.T) {
	src := &fakeSource{pages: []string{pairedText, "обложка"}}
	calls := 0
	cancel := CancelFunc(func() bool {
		calls++
		return calls > 1 // cancel before the second page
	})
	p := NewProcessor(Options{Cancel: cancel})

	res := p.Run(src, "canceled.pdf")

	assert.Equal(t, MethodCanceled, res.Method)
	assert.Empty(t, res.Track)
	assert.Empty(t, res.Code)
}

func TestProcessor_CancellationBeforeFirstPage(t *testing.T) {
	src := &fakeSource{pages: []string{pairedText}}
	p := NewProcessor(Options{Cancel: CancelFunc(func() bool { return true })})

	res := p.Run(src, "canceled.pdf")

	assert.Equal(t, MethodCanceled, res.Method)
	assert.Empty(t, src.textCalls)
}

func TestProcessor_UnpairedValuesNotCommitted(t *testing.T) {
	// A page that yields only a track never writes it into the result;
	// without a complete pair both fields stay absent.
	src := &fakeSource{pages: []string{"Почтовый идентификатор: 8006 5036 2850 04\n"}}
	p := NewProcessor(Options{})

	res := p.Run(src, "partial.pdf")

	assert.Empty(t, res.Track)
	assert.Empty(t, res.Code)
	assert.Equal(t, MethodNone, res.Method)
}

func TestProcessor_OCRThresholdCountsCharacters(t *testing.T) {
	// 300 Cyrillic characters occupy 600 bytes; the threshold compares
	// character counts, so the page still qualifies for OCR.
	src := &fakeSource{
		pages:    []string{strings.Repeat("ф", 300)},
		ocrPages: []string{ocrPaired},
	}
	p := NewProcessor(Options{MinCharsForOCR: 400, OCREnabled: true, OCRDPI: 300})

	res := p.Run(src, "scan.pdf")

	require.Equal(t, []int{0}, src.ocrCalls)
	assert.Equal(t, MethodOCR, res.Method)
	assert.Equal(t, "89990000111122", res.Track)
	assert.Equal(t, "87654321", res.Code)
}

func TestProcessor_ZeroPageCountTreatedAsOnePage(t *testing.T) {
	src := &fakeSource{}
	p := NewProcessor(Options{})

	res := p.Run(src, "broken.pdf")

	assert.Equal(t, []int{0}, src.textCalls)
	assert.False(t, res.Complete())
}

func TestFileMarkerCancellation(t *testing.T) {
	marker := NewFileMarker("")
	assert.False(t, marker.IsCanceled())

	dir := t.TempDir()
	path := dir + "/stop.flag"
	marker = NewFileMarker(path)
	assert.False(t, marker.IsCanceled())

	require.NoError(t, os.WriteFile(path, []byte("1"), 0o600))
	assert.True(t, marker.IsCanceled())
}
