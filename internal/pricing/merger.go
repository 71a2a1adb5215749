package pricing

import (
	"encoding/json"
	"time"

	"github.com/handiism/vinyl-prices/internal/model"
)

// Merger writes per-record results into a store.
//
// Every write replaces the whole entry for the record's key and stamps it
// with the current UTC time. Keys that are never written are left alone.
type Merger struct {
	store *model.Store
	now   func() time.Time
}

// NewMerger creates a Merger over store. now defaults to time.Now.
func NewMerger(store *model.Store, now func() time.Time) *Merger {
	if now == nil {
		now = time.Now
	}
	return &Merger{store: store, now: now}
}

// NotFound records that no release was found for rec.
func (m *Merger) NotFound(rec model.Record) (model.Entry, error) {
	return m.put(rec, model.NotFoundEntry(m.now()))
}

// NoPrice records that price data for id was unavailable.
func (m *Merger) NoPrice(rec model.Record, id model.ReleaseID) (model.Entry, error) {
	return m.put(rec, model.NoPriceEntry(id, m.now()))
}

// Priced records a successful lookup, keeping raw and its parsed subset.
func (m *Merger) Priced(rec model.Record, id model.ReleaseID, raw json.RawMessage) (model.Entry, error) {
	return m.put(rec, model.PricedEntry(id, raw, ParseSuggestions(raw), m.now()))
}

func (m *Merger) put(rec model.Record, e model.Entry) (model.Entry, error) {
	if err := m.store.Put(rec.Key(), e); err != nil {
		return model.Entry{}, err
	}
	return e, nil
}
