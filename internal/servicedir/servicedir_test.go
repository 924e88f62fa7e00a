package servicedir

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePath_UsesPrefixAndSuffix(t *testing.T) {
	dir := t.TempDir()
	d := Dir{Path: dir, Prefix: DefaultPrefix}

	assert.Equal(t, filepath.Join(dir, "AirPrint-Office Laser.service"), d.FilePath("Office Laser"))
}

func TestFilePath_StripsPathSeparators(t *testing.T) {
	dir := t.TempDir()
	d := Dir{Path: dir, Prefix: "x-"}

	assert.Equal(t, filepath.Join(dir, "x-..ab.service"), d.FilePath(`../a\b`))
	assert.Equal(t, filepath.Join(dir, "x-printer.service"), d.FilePath("//"))
}

func TestEnsure_CreatesNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "avahi", "services")
	d := Dir{Path: dir}

	require.NoError(t, d.Ensure())
	require.NoError(t, d.Ensure())
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	assert.NoError(t, Dir{}.Ensure())
}

func TestWrite_Overwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "services")
	d := Dir{Path: dir, Prefix: DefaultPrefix}
	require.NoError(t, d.Ensure())

	for _, content := range []string{"first version", "second"} {
		path, err := d.Write("Office", func(w io.Writer) error {
			_, err := io.WriteString(w, content)
			return err
		})
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, content, string(data))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "expected only the service file")
}

func TestWrite_DoesNotCreateDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	d := Dir{Path: dir, Prefix: DefaultPrefix}

	_, err := d.Write("Office", func(io.Writer) error { return nil })
	assert.Error(t, err)
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestWrite_RenderErrorLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	d := Dir{Path: dir, Prefix: DefaultPrefix}
	boom := errors.New("boom")

	_, err := d.Write("Office", func(io.Writer) error { return boom })
	assert.ErrorIs(t, err, boom)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEnsure_FailsWhenDirectoryIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	d := Dir{Path: filepath.Join(file, "sub")}
	assert.Error(t, d.Ensure())
	_, err := d.Write("Office", func(io.Writer) error { return nil })
	assert.Error(t, err)
}
