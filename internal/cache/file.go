package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/abdulachik/dashboard/internal/dashboard"
)

// DefaultFilePath is the cache file used when none is configured.
const DefaultFilePath = "dashboard_cache.json"

// FileStore keeps the entry as indented JSON in a single file.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultFilePath
	}
	return &FileStore{path: path}
}

// Path returns the cache file location.
func (f *FileStore) Path() string {
	return f.path
}

// Backend returns "file".
func (f *FileStore) Backend() string {
	return BackendFile
}

// Load reads the entry. A missing file is ErrMiss; a corrupt one is an error.
func (f *FileStore) Load(ctx context.Context) (*dashboard.Entry, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	var entry dashboard.Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("decode cache file %s: %w", f.path, err)
	}
	if entry.Timestamp == "" {
		return nil, fmt.Errorf("decode cache file %s: missing timestamp", f.path)
	}
	return &entry, nil
}

// Save replaces the file through a temporary sibling and a rename.
func (f *FileStore) Save(ctx context.Context, entry dashboard.Entry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}

// Clear removes the cache file.
func (f *FileStore) Clear(ctx context.Context) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cache file: %w", err)
	}
	return nil
}

// Close is a no-op.
func (f *FileStore) Close() error {
	return nil
}
