package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/pochta-tools/notice-extract/internal/config"
)

func TestWalkPDFs_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notice.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	pdfs, err := walkPDFs(path)
	if err != nil {
		t.Fatalf("walkPDFs() error: %v", err)
	}
	if len(pdfs) != 1 || pdfs[0] != path {
		t.Fatalf("expected [%s], got %v", path, pdfs)
	}
}

func TestWalkPDFs_RejectsNonPDFFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("text"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if _, err := walkPDFs(path); err == nil {
		t.Fatal("expected error for non-PDF input file")
	}
}

func TestWalkPDFs_DirectorySortedRecursive(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}
	files := []string{
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "a.PDF"),
		filepath.Join(sub, "c.pdf"),
		filepath.Join(dir, "skip.txt"),
	}
	for _, f := range files {
		if err := os.WriteFile(f, []byte("%PDF-1.4\n"), 0o644); err != nil {
			t.Fatalf("failed to create %s: %v", f, err)
		}
	}

	pdfs, err := walkPDFs(dir)
	if err != nil {
		t.Fatalf("walkPDFs() error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.PDF"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(sub, "c.pdf"),
	}
	if len(pdfs) != len(want) {
		t.Fatalf("expected %v, got %v", want, pdfs)
	}
	for i := range want {
		if pdfs[i] != want[i] {
			t.Errorf("index %d: expected %s, got %s", i, want[i], pdfs[i])
		}
	}
}

func TestWalkPDFs_MissingInput(t *testing.T) {
	if _, err := walkPDFs("/nonexistent/input"); err == nil {
		t.Fatal("expected error for missing input")
	}
}

func TestSetupLogging_DiscardsInProgressMode(t *testing.T) {
	prevOut := log.Writer()
	prevFlags := log.Flags()
	defer func() {
		log.SetOutput(prevOut)
		log.SetFlags(prevFlags)
	}()

	cfg := config.DefaultConfig()
	cfg.ProgressStdout = true
	setupLogging(cfg)
	if log.Writer() != io.Discard {
		t.Error("expected progress mode to discard log output")
	}

	cfg.LogLevel = "debug"
	setupLogging(cfg)
	if log.Writer() != os.Stderr {
		t.Error("expected debug mode to keep logs on stderr")
	}
}

func TestRunCancellation_FileMarker(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "stop.flag")

	rc := newRunCancellation(marker)
	if rc.IsCanceled() {
		t.Fatal("expected not canceled before marker exists")
	}

	if err := os.WriteFile(marker, []byte("1"), 0o600); err != nil {
		t.Fatalf("failed to create marker: %v", err)
	}
	if !rc.IsCanceled() {
		t.Fatal("expected canceled once marker exists")
	}
}
