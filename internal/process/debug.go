package process

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DebugSink captures the raw per-page text seen by the pipeline, for
// diagnosing extraction misses. Implementations must never fail the
// run.
type DebugSink interface {
	RecordPageText(source string, pageIndex int, method string, text string)
}

// NopSink discards everything. It is the default when debug capture is
// not configured.
type NopSink struct{}

// RecordPageText does nothing.
func (NopSink) RecordPageText(string, int, string, string) {}

// DirSink dumps each page text into a directory, one file per
// (document, page, method).
type DirSink struct {
	dir string
}

// NewDirSink creates a sink writing into dir, creating it if needed.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create debug dump directory %s: %w", dir, err)
	}
	return &DirSink{dir: dir}, nil
}

// RecordPageText writes the text to a per-page file. Write failures are
// swallowed: debug capture must never interfere with extraction.
func (s *DirSink) RecordPageText(source string, pageIndex int, method string, text string) {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	name := fmt.Sprintf("%s__p%03d__%s.txt", base, pageIndex+1, method)
	_ = os.WriteFile(filepath.Join(s.dir, name), []byte(text), 0o600)
}
