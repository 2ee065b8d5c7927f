// Package report renders batch extraction results: a CSV or plain-text
// results file, and newline-delimited JSON progress events for a
// wrapping GUI or script.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pochta-tools/notice-extract/internal/process"
)

// WriteCSV writes results as CSV with a filename,track,code header.
// Missing values render as empty cells.
func WriteCSV(w io.Writer, results []process.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"filename", "track", "code"}); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, r := range results {
		if err := cw.Write([]string{r.SourceName, r.Track, r.Code}); err != nil {
			return fmt.Errorf("write CSV row for %s: %w", r.SourceName, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	return nil
}

// WriteText writes results as "name - track - code" lines.
func WriteText(w io.Writer, results []process.Result) error {
	for _, r := range results {
		if _, err := fmt.Fprintf(w, "%s - %s - %s\n", r.SourceName, r.Track, r.Code); err != nil {
			return fmt.Errorf("write line for %s: %w", r.SourceName, err)
		}
	}
	return nil
}

// WriteFile writes results to path, choosing CSV when asCSV is set or
// the path carries a .csv extension.
func WriteFile(path string, results []process.Result, asCSV bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %s: %w", path, err)
	}
	defer f.Close()

	if asCSV || strings.EqualFold(filepath.Ext(path), ".csv") {
		err = WriteCSV(f, results)
	} else {
		err = WriteText(f, results)
	}
	if err != nil {
		return err
	}
	return f.Close()
}
