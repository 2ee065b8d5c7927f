// Package batch fans per-document extraction out across a bounded
// worker pool. Results are reported back in submission order regardless
// of completion order, and cancellation is honored cooperatively:
// nothing new is dispatched once the source reports canceled, while
// in-flight documents are allowed to finish.
package batch

import (
	"path/filepath"
	"runtime"
	"sync"

	"github.com/pochta-tools/notice-extract/internal/process"
)

// Runner produces the extraction result for one document path.
type Runner func(path string) process.Result

// ProgressFunc observes each result as its document completes, in
// completion order. Calls are serialized.
type ProgressFunc func(process.Result)

type job struct {
	index int
	path  string
}

type indexedResult struct {
	index  int
	result process.Result
}

// Process runs the runner over every path using the given number of
// workers (0 selects one per CPU). The returned slice holds results for
// the submitted prefix of paths in submission order; paths skipped due
// to cancellation produce no result.
func Process(paths []string, workers int, cancel process.CancellationSource, run Runner, progress ProgressFunc) []process.Result {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}

	jobs := make(chan job)
	out := make(chan indexedResult, len(paths))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				out <- indexedResult{index: j.index, result: safeRun(run, j.path)}
			}
		}()
	}

	results := make([]process.Result, len(paths))
	completed := make([]bool, len(paths))
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for r := range out {
			results[r.index] = r.result
			completed[r.index] = true
			if progress != nil {
				progress(r.result)
			}
		}
	}()

	submitted := 0
	for i, path := range paths {
		if cancel != nil && cancel.IsCanceled() {
			break
		}
		jobs <- job{index: i, path: path}
		submitted++
	}
	close(jobs)
	wg.Wait()
	close(out)
	<-collectorDone

	ordered := make([]process.Result, 0, submitted)
	for i := 0; i < submitted; i++ {
		if completed[i] {
			ordered = append(ordered, results[i])
		}
	}
	return ordered
}

// safeRun converts a panicking document run into an error result so one
// bad document never aborts the batch.
func safeRun(run Runner, path string) (res process.Result) {
	defer func() {
		if recover() != nil {
			res = process.Result{
				SourceName: filepath.Base(path),
				Method:     process.MethodError,
			}
		}
	}()
	return run(path)
}
