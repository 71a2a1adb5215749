package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ErrorCode marks an entry for which no price could be stored.
type ErrorCode string

const (
	// ErrNoReleaseFound means the catalog search yielded no usable release.
	ErrNoReleaseFound ErrorCode = "no_release_found"

	// ErrNoPriceData means the release was found but price suggestions were unavailable.
	ErrNoPriceData ErrorCode = "no_price_data"
)

// ReleaseID is an opaque catalog identifier.
//
// IDs taken from the search result's own id field are numeric and are
// written to JSON as numbers. IDs recovered from a resource URL are kept
// verbatim and written as strings if they are not purely numeric.
type ReleaseID string

// IsZero reports whether the ID is empty.
func (id ReleaseID) IsZero() bool {
	return id == ""
}

// MarshalJSON implements json.Marshaler.
func (id ReleaseID) MarshalJSON() ([]byte, error) {
	if isDigits(string(id)) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// UnmarshalJSON implements json.Unmarshaler. Both numbers and strings are accepted.
func (id *ReleaseID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ReleaseID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("release id: %w", err)
	}
	*id = ReleaseID(n.String())
	return nil
}

func isDigits(s string) bool {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return false
	}
	return strings.Trim(s, "0123456789") == ""
}

// Entry is the persisted result for one record.
//
// An entry has one of two shapes, chosen by Error:
//   - error entry: Error set, ReleaseID optional (set for no_price_data)
//   - success entry: ReleaseID, Raw and Parsed set
//
// LastChecked is always set, in UTC.
type Entry struct {
	// Error is empty for success entries.
	Error ErrorCode

	// ReleaseID is the catalog identifier the record resolved to.
	ReleaseID ReleaseID

	// Raw is the price service response, stored verbatim.
	Raw json.RawMessage

	// Parsed maps a condition label to its price (nil when absent).
	Parsed map[string]any

	// LastChecked is when this entry was written.
	LastChecked time.Time
}

// NotFoundEntry returns an entry recording that no release matched.
func NotFoundEntry(now time.Time) Entry {
	return Entry{Error: ErrNoReleaseFound, LastChecked: now.UTC()}
}

// NoPriceEntry returns an entry recording that price data was unavailable for id.
func NoPriceEntry(id ReleaseID, now time.Time) Entry {
	return Entry{Error: ErrNoPriceData, ReleaseID: id, LastChecked: now.UTC()}
}

// PricedEntry returns a success entry.
func PricedEntry(id ReleaseID, raw json.RawMessage, parsed map[string]any, now time.Time) Entry {
	if parsed == nil {
		parsed = map[string]any{}
	}
	return Entry{ReleaseID: id, Raw: raw, Parsed: parsed, LastChecked: now.UTC()}
}

// IsError reports whether e is an error entry.
func (e Entry) IsError() bool {
	return e.Error != ""
}

// FreshAt reports whether e is a success entry checked less than maxAge before now.
func (e Entry) FreshAt(now time.Time, maxAge time.Duration) bool {
	if e.IsError() || e.LastChecked.IsZero() {
		return false
	}
	return now.Sub(e.LastChecked) < maxAge
}

type errorEntryJSON struct {
	Error       ErrorCode `json:"error"`
	ReleaseID   ReleaseID `json:"release_id,omitempty"`
	LastChecked time.Time `json:"last_checked"`
}

type successEntryJSON struct {
	ReleaseID   ReleaseID       `json:"release_id"`
	Raw         json.RawMessage `json:"raw"`
	Parsed      map[string]any  `json:"parsed"`
	LastChecked time.Time       `json:"last_checked"`
}

type entryJSON struct {
	Error       ErrorCode       `json:"error"`
	ReleaseID   ReleaseID       `json:"release_id"`
	Raw         json.RawMessage `json:"raw"`
	Parsed      map[string]any  `json:"parsed"`
	LastChecked lenientTime     `json:"last_checked"`
}

// lenientTime also accepts ISO 8601 timestamps without a zone, which
// older stores contain; those are taken to be UTC.
type lenientTime struct {
	time.Time
}

func (t *lenientTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("unable to parse last_checked: %s", s)
}

// MarshalJSON writes the error or success shape depending on e.Error.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.IsError() {
		return marshalNoEscape(errorEntryJSON{
			Error:       e.Error,
			ReleaseID:   e.ReleaseID,
			LastChecked: e.LastChecked,
		})
	}

	raw := e.Raw
	if len(raw) == 0 {
		raw = json.RawMessage("null")
	}
	parsed := e.Parsed
	if parsed == nil {
		parsed = map[string]any{}
	}
	return marshalNoEscape(successEntryJSON{
		ReleaseID:   e.ReleaseID,
		Raw:         raw,
		Parsed:      parsed,
		LastChecked: e.LastChecked,
	})
}

// UnmarshalJSON accepts either entry shape.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var w entryJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return err
	}
	*e = Entry{
		Error:       w.Error,
		ReleaseID:   w.ReleaseID,
		Raw:         w.Raw,
		Parsed:      w.Parsed,
		LastChecked: w.LastChecked.Time,
	}
	return nil
}

// marshalNoEscape encodes v without HTML escaping so that payload text
// such as "R&B" survives unchanged.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
