package report

import (
	"encoding/json"
	"io"

	"github.com/pochta-tools/notice-extract/internal/process"
)

// Progress emits newline-delimited JSON events describing a batch run.
// A nil Progress (or one with a nil writer) discards every event, so
// callers never need to branch on whether progress output is enabled.
type Progress struct {
	enc *json.Encoder
}

// NewProgress creates a progress emitter writing to w.
func NewProgress(w io.Writer) *Progress {
	return &Progress{enc: json.NewEncoder(w)}
}

type startEvent struct {
	Event string `json:"event"`
	Total int    `json:"total"`
}

type progressEvent struct {
	Event  string `json:"event"`
	File   string `json:"file"`
	Track  string `json:"track"`
	Code   string `json:"code"`
	Method string `json:"method"`
}

type doneEvent struct {
	Event  string `json:"event"`
	Count  int    `json:"count"`
	Output string `json:"output"`
}

// Start announces the number of documents about to be processed.
func (p *Progress) Start(total int) {
	if p == nil || p.enc == nil {
		return
	}
	_ = p.enc.Encode(startEvent{Event: "start", Total: total})
}

// Document reports one completed document.
func (p *Progress) Document(r process.Result) {
	if p == nil || p.enc == nil {
		return
	}
	_ = p.enc.Encode(progressEvent{
		Event:  "progress",
		File:   r.SourceName,
		Track:  r.Track,
		Code:   r.Code,
		Method: r.Method,
	})
}

// Done reports batch completion and where results were written.
func (p *Progress) Done(count int, output string) {
	if p == nil || p.enc == nil {
		return
	}
	_ = p.enc.Encode(doneEvent{Event: "done", Count: count, Output: output})
}
