package servicedir

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	DefaultPrefix = "AirPrint-"
	fileSuffix    = ".service"
)

// Dir is the directory Avahi reads static service files from.
type Dir struct {
	Path   string
	Prefix string
}

// Ensure creates the directory and its parents. An empty Path means the
// working directory and is left alone.
func (d Dir) Ensure() error {
	if d.Path == "" {
		return nil
	}
	return os.MkdirAll(d.Path, 0755)
}

// FilePath returns where the descriptor for printer is written.
func (d Dir) FilePath(printer string) string {
	return filepath.Join(d.Path, d.Prefix+sanitizeFileName(printer)+fileSuffix)
}

// Write replaces the descriptor for printer with whatever render produces.
// The directory must already exist, see Ensure. The content goes to a
// hidden temporary file first so avahi-daemon never loads a half-written
// service file.
func (d Dir) Write(printer string, render func(io.Writer) error) (string, error) {
	path := d.FilePath(printer)
	dir := d.Path
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, ".airprint-*.tmp")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := render(tmp); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("render %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", err
	}
	return path, nil
}

func sanitizeFileName(name string) string {
	clean := make([]rune, 0, len(name))
	for _, r := range name {
		if r == '/' || r == '\\' || r == 0 {
			continue
		}
		clean = append(clean, r)
	}
	if len(clean) == 0 {
		return "printer"
	}
	return string(clean)
}
