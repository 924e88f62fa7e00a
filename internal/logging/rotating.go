package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// RotatingFile is the error-stream sink. For a plain path it appends to the
// file and moves it to "<path>.O" once maxSize would be exceeded, keeping a
// single backup like cupsd does for its logs.
type RotatingFile struct {
	path    string
	maxSize int64
	mode    targetMode

	mu   sync.Mutex
	file *os.File
	size int64
}

type targetMode int

const (
	targetFile targetMode = iota
	targetStderr
	targetStdout
	targetDiscard
)

func NewRotatingFile(path string, maxSize int64) *RotatingFile {
	r := &RotatingFile{path: strings.TrimSpace(path), maxSize: maxSize}
	switch strings.ToLower(r.path) {
	case "none", "off":
		r.mode = targetDiscard
	case "", "stderr", "-":
		r.mode = targetStderr
	case "stdout":
		r.mode = targetStdout
	default:
		r.mode = targetFile
	}
	return r
}

func (r *RotatingFile) Write(p []byte) (int, error) {
	if r == nil {
		return len(p), nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.mode {
	case targetDiscard:
		return len(p), nil
	case targetStderr:
		return os.Stderr.Write(p)
	case targetStdout:
		return os.Stdout.Write(p)
	}
	if err := r.open(); err != nil {
		return 0, err
	}
	if r.maxSize > 0 && r.size > 0 && r.size+int64(len(p)) > r.maxSize {
		if err := r.rotate(); err != nil {
			return 0, err
		}
		if err := r.open(); err != nil {
			return 0, err
		}
	}
	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

// Close releases the log file, if one is open.
func (r *RotatingFile) Close() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

func (r *RotatingFile) target() *os.File {
	switch r.mode {
	case targetStderr:
		return os.Stderr
	case targetStdout:
		return os.Stdout
	}
	return nil
}

func (r *RotatingFile) open() error {
	if r.file != nil {
		return nil
	}
	if dir := filepath.Dir(r.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	r.file = f
	r.size = info.Size()
	return nil
}

func (r *RotatingFile) rotate() error {
	if r.file != nil {
		_ = r.file.Close()
		r.file = nil
	}
	oldPath := r.path + ".O"
	_ = os.Remove(oldPath)
	if err := os.Rename(r.path, oldPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	r.size = 0
	return nil
}

var _ io.WriteCloser = (*RotatingFile)(nil)
