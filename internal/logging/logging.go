package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

var (
	globalMu sync.RWMutex
	errorLog *RotatingFile
)

// Configure selects the operator-visible error stream. path may be a file,
// "stderr", "stdout" or "none"; an empty path keeps stderr.
func Configure(path string, maxSize int64) {
	if path == "" {
		path = "stderr"
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	if errorLog != nil {
		_ = errorLog.Close()
	}
	errorLog = NewRotatingFile(path, maxSize)
}

// Close releases the error stream set by Configure. Later writes go to
// stderr.
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if errorLog == nil {
		return nil
	}
	err := errorLog.Close()
	errorLog = nil
	return err
}

func ErrorWriter() io.Writer {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if errorLog != nil {
		return errorLog
	}
	return os.Stderr
}

// NewLogger returns a tint logger writing to w. Colour is only used when w
// ends up on a terminal.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !isTerminal(w),
	}))
}

func isTerminal(w io.Writer) bool {
	switch v := w.(type) {
	case *os.File:
		return isatty.IsTerminal(v.Fd())
	case *RotatingFile:
		if f := v.target(); f != nil {
			return isatty.IsTerminal(f.Fd())
		}
	}
	return false
}
