// Package store loads and saves the price store file.
//
// The file is a single JSON object mapping composite keys to entries. It
// is read once before a run and written once after it; nothing is flushed
// incrementally.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	ioutils "github.com/handiism/vinyl-prices/internal/io"
	"github.com/handiism/vinyl-prices/internal/model"
)

// ErrLocked is returned by Lock when another process holds the store.
var ErrLocked = errors.New("price store is locked by another run")

// Load reads the store at path.
//
// A missing file, or one that is not a JSON object, yields an empty store
// and no error. Only failures to read an existing file are reported.
func Load(path string) (*model.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewStore(), nil
		}
		return nil, err
	}

	var entries map[string]json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil || entries == nil {
		return model.NewStore(), nil
	}
	return model.NewStoreFromRaw(entries), nil
}

// Encode renders s as indented JSON with sorted keys. Non-ASCII text and
// characters such as '&' are written literally.
func Encode(s *model.Store) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Raw()); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Save replaces the file at path with the full contents of s.
func Save(path string, s *model.Store) error {
	data, err := Encode(s)
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	return ioutils.WriteFileAtomic(path, data)
}

// Lock takes an advisory lock on path+".lock" so that two runs cannot
// overwrite each other's results. Call the returned function to release it.
//
// The lock file is left in place after unlocking. Removing it would let a
// waiting run lock the unlinked file while a new run locks a fresh one.
func Lock(path string) (unlock func() error, err error) {
	lock := flock.New(path + ".lock")

	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return lock.Unlock, nil
}
