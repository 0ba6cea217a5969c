package student

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps the registry in a JSON file. The file is created with an
// empty student list on first access. Writes go through a temporary file and
// a rename.
type FileStore struct {
	docStore
	path string
}

// NewFileStore returns a store backed by the file at path.
func NewFileStore(path string) *FileStore {
	f := &FileStore{path: path}
	f.docStore = docStore{b: fileBlob{path: path}, ids: NewIDSource(nil), name: "file"}
	return f
}

// Path returns the backing file path.
func (f *FileStore) Path() string { return f.path }

// Close is a no-op; the file is not held open between operations.
func (f *FileStore) Close() error { return nil }

type fileBlob struct {
	path string
}

func (b fileBlob) read(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("student: read %s: %w", b.path, err)
	}
	return data, nil
}

func (b fileBlob) write(ctx context.Context, data []byte) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("student: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("student: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("student: write %s: %w", b.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("student: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("student: %w", err)
	}
	return nil
}
