package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileKV stores each key as <dir>/<key>.json on an afero filesystem.
type FileKV struct {
	fs  afero.Fs
	dir string
}

// NewFileKV creates the directory if needed and returns a FileKV rooted there.
func NewFileKV(fs afero.Fs, dir string) (*FileKV, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}
	return &FileKV{fs: fs, dir: dir}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// Get returns the file contents for key.
func (f *FileKV) Get(key string) (string, bool, error) {
	exist, err := afero.Exists(f.fs, f.path(key))
	if err != nil {
		return "", false, fmt.Errorf("checking %s: %w", key, err)
	}
	if !exist {
		return "", false, nil
	}

	data, err := afero.ReadFile(f.fs, f.path(key))
	if err != nil {
		return "", false, fmt.Errorf("reading %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set writes value to the key's file.
func (f *FileKV) Set(key, value string) error {
	if err := afero.WriteFile(f.fs, f.path(key), []byte(value), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Remove deletes the key's file.
func (f *FileKV) Remove(key string) error {
	err := f.fs.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

// Close is a no-op; files are not held open.
func (f *FileKV) Close() error {
	return nil
}
