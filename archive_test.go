package imgcpr

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive(t *testing.T) {
	dir := t.TempDir()

	a, err := NewArchive(filepath.Join(dir, "imgcpr.db"), newCompressor(t, nil))
	require.NoError(t, err)
	defer a.Close()

	entries, err := a.List()
	require.NoError(t, err)
	assert.Empty(t, entries)

	big := stripes(16, 4)
	writePNG(t, filepath.Join(dir, "big.png"), big)
	writePNG(t, filepath.Join(dir, "a.png"), stripes(4, 2))

	e, err := a.Add(filepath.Join(dir, "big.png"))
	require.NoError(t, err)
	assert.Len(t, e.SHA1, 40)
	assert.Equal(t, "big.png", e.Name)
	assert.Equal(t, 16, e.Width)
	assert.Equal(t, 4, e.Height)
	assert.Equal(t, 4, e.Colors)
	assert.Equal(t, "freq", e.Method)
	assert.Greater(t, e.Size, 0)

	// Same contents under another name are not stored twice
	b, err := os.ReadFile(filepath.Join(dir, "big.png"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "copy.png"), b, 0o644))
	dup, err := a.Add(filepath.Join(dir, "copy.png"))
	require.NoError(t, err)
	assert.Equal(t, e, dup)

	_, err = a.Add(filepath.Join(dir, "a.png"))
	require.NoError(t, err)

	entries, err = a.List()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.png", entries[0].Name)
	assert.Equal(t, *e, entries[1])

	m, err := a.Get(e.SHA1)
	require.NoError(t, err)
	assertSameImage(t, big, m)

	// Checksums are matched case insensitively
	_, err = a.Get(strings.ToLower(e.SHA1))
	require.NoError(t, err)

	_, err = a.Get("0000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.png"), []byte("nope"), 0o644))
	_, err = a.Add(filepath.Join(dir, "bad.png"))
	assert.Error(t, err)

	_, err = a.Add(filepath.Join(dir, "missing.png"))
	assert.Error(t, err)
}

func TestArchiveReopen(t *testing.T) {
	file := filepath.Join(t.TempDir(), "imgcpr.db")
	png := filepath.Join(t.TempDir(), "x.png")
	writePNG(t, png, stripes(8, 8))

	a, err := NewArchive(file, newCompressor(t, nil))
	require.NoError(t, err)
	e, err := a.Add(png)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	a, err = NewArchive(file, newCompressor(t, nil))
	require.NoError(t, err)
	defer a.Close()

	entries, err := a.List()
	require.NoError(t, err)
	assert.Equal(t, []Entry{*e}, entries)
}
