package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	root := t.TempDir()
	files := NewFiles(root, 1)
	files.now = func() time.Time { return time.Unix(1700000000, 0) }

	rel, err := files.Save("dni", "12345678Z/../x", "photo.PNG", 5, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "dni/1700000000_12345678Zx.png", rel)

	data, err := os.ReadFile(filepath.Join(root, "dni", "1700000000_12345678Zx.png"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, files.Delete(rel))
	require.NoError(t, files.Delete(rel))
}

func TestSaveRejects(t *testing.T) {
	files := NewFiles(t.TempDir(), 1)

	_, err := files.Save("profile", "u", "a.exe", 1, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = files.Save("profile", "u", "a.png", 2*1024*1024, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrTooLarge)

	big := strings.NewReader(strings.Repeat("x", 1024*1024+1))
	_, err = files.Save("profile", "u", "a.png", 10, big)
	assert.ErrorIs(t, err, ErrTooLarge)
}
