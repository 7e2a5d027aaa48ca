package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"
)

// FileStore persists uploaded payloads in one flat directory on disk. Stored
// names are generated (xid plus the original extension) so concurrent uploads
// never collide and names cannot be predicted; the original filename is kept
// only on the owning record for display.
type FileStore struct {
	basePath string
}

// NewFileStore creates the base directory if missing.
func NewFileStore(basePath string) (*FileStore, error) {
	if strings.TrimSpace(basePath) == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

// Save writes the payload under a generated name and returns that name along
// with the number of bytes written.
func (f *FileStore) Save(originalName string, r io.Reader) (string, int64, error) {
	name := xid.New().String() + strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	target := filepath.Join(f.basePath, name)

	out, err := os.Create(target)
	if err != nil {
		return "", 0, fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, r)
	if err != nil {
		_ = os.Remove(target)
		return "", 0, fmt.Errorf("write file: %w", err)
	}
	return name, written, nil
}

// Remove deletes a stored payload by its generated name. Absence surfaces as
// an os.IsNotExist error so callers can log it without treating it as fatal.
func (f *FileStore) Remove(name string) error {
	path, err := f.Path(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

// Path resolves a stored name to its on-disk path, rejecting traversal
// outside the base directory. Missing payloads return an os.IsNotExist error.
func (f *FileStore) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file reference %q", name)
	}
	path := filepath.Join(f.basePath, name)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}
