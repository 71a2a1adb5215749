package model

import (
	"encoding/json"
	"sort"
)

// Store is the in-memory price store, keyed by Record.Key.
//
// Values are held as raw JSON. Entries that came from disk are never
// re-encoded unless they are overwritten, which keeps stale keys intact
// across runs. A Store is not safe for concurrent use.
type Store struct {
	entries map[string]json.RawMessage
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{entries: make(map[string]json.RawMessage)}
}

// NewStoreFromRaw wraps a decoded JSON object. The map is used as-is.
func NewStoreFromRaw(entries map[string]json.RawMessage) *Store {
	if entries == nil {
		entries = make(map[string]json.RawMessage)
	}
	return &Store{entries: entries}
}

// Len returns the number of keys.
func (s *Store) Len() int {
	return len(s.entries)
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get decodes the entry stored under key.
//
// ok is false when the key is absent or its value is not an entry object.
func (s *Store) Get(key string) (entry Entry, ok bool) {
	raw, found := s.entries[key]
	if !found {
		return Entry{}, false
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false
	}
	return entry, true
}

// Put stores e under key, replacing any previous value entirely.
func (s *Store) Put(key string, e Entry) error {
	data, err := e.MarshalJSON()
	if err != nil {
		return err
	}
	s.entries[key] = data
	return nil
}

// Raw returns the underlying key → JSON map. Callers must not modify it.
func (s *Store) Raw() map[string]json.RawMessage {
	return s.entries
}
