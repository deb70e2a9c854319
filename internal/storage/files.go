package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	ErrTooLarge        = errors.New("file too large")
	ErrUnsupportedType = errors.New("unsupported file type")
)

var allowedExt = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

// Files stores uploads under a root directory that the server also exposes
// at /uploads.
type Files struct {
	root     string
	maxBytes int64
	now      func() time.Time
}

func NewFiles(root string, maxMB int64) *Files {
	return &Files{root: root, maxBytes: maxMB * 1024 * 1024, now: time.Now}
}

func (f *Files) Root() string { return f.root }

// Save writes r to <root>/<folder>/<unix>_<owner><ext> and returns the path
// relative to root, in URL form.
func (f *Files) Save(folder, owner, filename string, size int64, r io.Reader) (string, error) {
	if size > f.maxBytes {
		return "", ErrTooLarge
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", ErrUnsupportedType
	}

	dir := filepath.Join(f.root, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := fmt.Sprintf("%d_%s%s", f.now().Unix(), sanitize(owner), ext)
	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer out.Close()

	n, err := io.Copy(out, io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if n > f.maxBytes {
		out.Close()
		_ = os.Remove(out.Name())
		return "", ErrTooLarge
	}
	return folder + "/" + name, nil
}

// Delete removes a stored file. Missing files are not an error.
func (f *Files) Delete(rel string) error {
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(f.root, filepath.FromSlash(rel)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
