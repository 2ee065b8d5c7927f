package process

import "os"

// CancellationSource reports whether the current run should stop. It is
// polled cooperatively at page and document boundaries, never blocking.
type CancellationSource interface {
	IsCanceled() bool
}

// CancelFunc adapts a predicate to a CancellationSource.
type CancelFunc func() bool

// IsCanceled invokes the predicate.
func (f CancelFunc) IsCanceled() bool {
	return f()
}

// FileMarker is a CancellationSource backed by a filesystem marker: the
// run is canceled once the file exists. A GUI or wrapper process
// creates the file to stop an in-flight batch.
type FileMarker struct {
	path string
}

// NewFileMarker watches the given path. An empty path never cancels.
func NewFileMarker(path string) *FileMarker {
	return &FileMarker{path: path}
}

// IsCanceled reports whether the marker file exists. Stat errors other
// than absence are treated as not canceled.
func (m *FileMarker) IsCanceled() bool {
	if m.path == "" {
		return false
	}
	_, err := os.Stat(m.path)
	return err == nil
}
