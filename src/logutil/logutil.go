// Package logutil routes the standard logger to a size-rotated file, or
// discards it so the console stays clean.
package logutil

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const (
	logFileName  = "frame_capture_debug.log"
	maxSizeBytes = 10 * 1024 * 1024 // 10 MB
	maxArchives  = 3
)

var (
	mu     sync.Mutex
	active *rotatingWriter
)

// Setup points the standard logger at logFileName inside dir (the working
// directory when empty) and returns the absolute path written to. When file
// logging is off, or the file cannot be opened, output is discarded and the
// path is empty. A previous log file opened by Setup is closed.
func Setup(enableFileLogging bool, dir string) string {
	mu.Lock()
	defer mu.Unlock()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.SetOutput(io.Discard)
	if active != nil {
		_ = active.Close()
		active = nil
	}
	if !enableFileLogging {
		return ""
	}

	w, err := openRotating(filepath.Join(dir, logFileName), maxSizeBytes, maxArchives)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		return ""
	}
	active = w
	log.SetOutput(w)
	return w.path
}

// rotatingWriter appends to path and, once a write would take the file past
// maxSize, shifts it to path.1 (path.1 to path.2 and so on, dropping the
// oldest of archives).
type rotatingWriter struct {
	mu       sync.Mutex
	path     string
	maxSize  int64
	archives int
	f        *os.File
}

func openRotating(path string, maxSize int64, archives int) (*rotatingWriter, error) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	w := &rotatingWriter{path: path, maxSize: maxSize, archives: archives}
	if st, err := os.Stat(path); err == nil && st.Size() > maxSize {
		w.rotate()
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *rotatingWriter) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	w.f = f
	return nil
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return 0, os.ErrClosed
	}
	if st, err := w.f.Stat(); err == nil && st.Size() > 0 && st.Size()+int64(len(p)) > w.maxSize {
		_ = w.f.Close()
		w.f = nil
		w.rotate()
		if err := w.open(); err != nil {
			return 0, err
		}
	}
	return w.f.Write(p)
}

func (w *rotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	return err
}

func (w *rotatingWriter) rotate() {
	_ = os.Remove(w.archive(w.archives))
	for i := w.archives - 1; i >= 1; i-- {
		_ = os.Rename(w.archive(i), w.archive(i+1))
	}
	_ = os.Rename(w.path, w.archive(1))
}

func (w *rotatingWriter) archive(n int) string { return fmt.Sprintf("%s.%d", w.path, n) }
