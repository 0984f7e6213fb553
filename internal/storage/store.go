// Package storage persists the small settings blobs the app keeps between
// runs: the tutor roster and the speech settings.
package storage

import (
	"fmt"

	"github.com/spf13/afero"
)

// KV is a string key/value store, the local equivalent of browser storage.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Remove deletes a key. Removing a missing key is not an error.
	Remove(key string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Open creates a KV for the named backend. For sqlite, path is the database
// file; for file, path is the directory holding one JSON file per key.
func Open(backend, path string) (KV, error) {
	switch backend {
	case "", BackendSQLite:
		return NewSQLiteKV(path)
	case BackendFile:
		return NewFileKV(afero.NewOsFs(), path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
