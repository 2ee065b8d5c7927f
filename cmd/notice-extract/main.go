package main

import (
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/pochta-tools/notice-extract/internal/batch"
	"github.com/pochta-tools/notice-extract/internal/config"
	"github.com/pochta-tools/notice-extract/internal/pdfdoc"
	"github.com/pochta-tools/notice-extract/internal/process"
	"github.com/pochta-tools/notice-extract/internal/report"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the output mode
func setupLogging(cfg *config.Config) {
	// Logs go to stderr so they never interleave with JSON progress
	// events on stdout.
	log.SetOutput(os.Stderr)
	if cfg.ProgressStdout && !cfg.IsDebug() {
		log.SetOutput(io.Discard)
	}
	if cfg.IsDebug() {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}
}

// walkPDFs resolves the input path to a sorted list of PDF files.
func walkPDFs(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("cannot access input %s: %w", input, err)
	}
	if !info.IsDir() {
		if !strings.EqualFold(filepath.Ext(input), ".pdf") {
			return nil, fmt.Errorf("input file is not a PDF: %s", input)
		}
		return []string{input}, nil
	}

	var pdfs []string
	err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			pdfs = append(pdfs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk input directory %s: %w", input, err)
	}
	sort.Strings(pdfs)
	return pdfs, nil
}

// runCancellation combines an interrupt signal with an optional
// cancel-file marker from a wrapping GUI.
type runCancellation struct {
	interrupted atomic.Bool
	marker      *process.FileMarker
}

func newRunCancellation(cancelFile string) *runCancellation {
	rc := &runCancellation{marker: process.NewFileMarker(cancelFile)}

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-signalCh
		log.Printf("Received signal: %s, finishing in-flight documents", sig)
		rc.interrupted.Store(true)
	}()

	return rc
}

func (rc *runCancellation) IsCanceled() bool {
	return rc.interrupted.Load() || rc.marker.IsCanceled()
}

func run() error {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		return err
	}
	setupLogging(cfg)
	if version != "dev" {
		cfg.Version = version
	}
	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	pdfs, err := walkPDFs(cfg.Input)
	if err != nil {
		return err
	}

	var ocr pdfdoc.OCREngine
	if cfg.OCREnabled {
		ocr = pdfdoc.NewTesseractEngine()
	}

	var debug process.DebugSink
	if cfg.DebugDumpDir != "" {
		sink, err := process.NewDirSink(cfg.DebugDumpDir)
		if err != nil {
			return err
		}
		debug = sink
	}

	cancel := newRunCancellation(cfg.CancelFile)
	processor := process.NewProcessor(process.Options{
		MaxPagesBack:   cfg.MaxPagesBack,
		MinCharsForOCR: cfg.MinCharsForOCR,
		OCREnabled:     cfg.OCREnabled,
		ForceOCR:       cfg.ForceOCR,
		OCRDPI:         cfg.OCRDPI,
		OCRLanguages:   pdfdoc.ParseLanguages(cfg.OCRLanguages),
		Cancel:         cancel,
		Debug:          debug,
	})

	var progress *report.Progress
	if cfg.ProgressStdout {
		progress = report.NewProgress(os.Stdout)
	}
	progress.Start(len(pdfs))

	runner := func(path string) process.Result {
		return processor.Run(pdfdoc.NewDocument(path, ocr), filepath.Base(path))
	}
	results := batch.Process(pdfs, cfg.Workers, cancel, runner, progress.Document)

	if err := report.WriteFile(cfg.Output, results, cfg.CSV); err != nil {
		return err
	}
	progress.Done(len(results), cfg.Output)
	log.Printf("Wrote %d results to %s", len(results), cfg.Output)
	return nil
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	if err := run(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("notice-extract: %v", err)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("Postal Notice Extractor\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
