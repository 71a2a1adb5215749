package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestRecord_Key(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"with year", Record{"Boards of Canada", "Geogaddi", "2002"}, "Boards of Canada — Geogaddi (2002)"},
		{"empty year", Record{"Can", "Tago Mago", ""}, "Can — Tago Mago ()"},
		{"non-ascii", Record{"Kraftwerk", "Trans Europa Express", "1977"}, "Kraftwerk — Trans Europa Express (1977)"},
		{"umlaut", Record{"Die Ärzte", "Debil", "1984"}, "Die Ärzte — Debil (1984)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecord_KeyUsesEmDash(t *testing.T) {
	key := Record{Artist: "A", Title: "B", Year: "1"}.Key()
	if !strings.Contains(key, "—") {
		t.Errorf("Key() = %q, want U+2014 separator", key)
	}
}

func TestRecord_Valid(t *testing.T) {
	tests := []struct {
		rec  Record
		want bool
	}{
		{Record{Artist: "A", Title: "B"}, true},
		{Record{Artist: "A"}, false},
		{Record{Title: "B", Year: "1999"}, false},
		{Record{}, false},
	}

	for _, tt := range tests {
		if got := tt.rec.Valid(); got != tt.want {
			t.Errorf("%+v.Valid() = %v, want %v", tt.rec, got, tt.want)
		}
	}
}

func TestReleaseID_JSON(t *testing.T) {
	tests := []struct {
		id   ReleaseID
		want string
	}{
		{"249504", `249504`},
		{"r249504", `"r249504"`},
		{"0123", `"0123"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			data, err := json.Marshal(tt.id)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal = %s, want %s", data, tt.want)
			}

			var back ReleaseID
			if err := json.Unmarshal(data, &back); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if back != tt.id {
				t.Errorf("round trip = %q, want %q", back, tt.id)
			}
		})
	}
}

func TestEntry_ErrorShape(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	data, err := json.Marshal(NotFoundEntry(now))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"error":"no_release_found","last_checked":"2024-03-01T12:00:00Z"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}

	data, err = json.Marshal(NoPriceEntry("42", now))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want = `{"error":"no_price_data","release_id":42,"last_checked":"2024-03-01T12:00:00Z"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestEntry_SuccessShape(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	raw := json.RawMessage(`{"suggestions":[{"condition":"VG+","price":12.5}],"note":"R&B"}`)

	e := PricedEntry("7", raw, map[string]any{"VG+": json.Number("12.5")}, now)
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"release_id":7,"raw":{"suggestions":[{"condition":"VG+","price":12.5}],"note":"R&B"},"parsed":{"VG+":12.5},"last_checked":"2024-03-01T12:00:00Z"}`
	if string(data) != want {
		t.Errorf("got %s\nwant %s", data, want)
	}
}

func TestEntry_EmptyParsedIsObject(t *testing.T) {
	e := PricedEntry("7", json.RawMessage(`{}`), nil, time.Unix(0, 0))
	data, _ := json.Marshal(e)
	if !strings.Contains(string(data), `"parsed":{}`) {
		t.Errorf("parsed should serialize as {}, got %s", data)
	}
}

func TestEntry_FreshAt(t *testing.T) {
	now := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	hourAgo := now.Add(-time.Hour)

	if !PricedEntry("1", nil, nil, hourAgo).FreshAt(now, 2*time.Hour) {
		t.Error("recent success entry should be fresh")
	}
	if PricedEntry("1", nil, nil, hourAgo).FreshAt(now, 30*time.Minute) {
		t.Error("old success entry should not be fresh")
	}
	if NotFoundEntry(hourAgo).FreshAt(now, 2*time.Hour) {
		t.Error("error entries are never fresh")
	}
}

func TestStore_PutOverwritesWholeEntry(t *testing.T) {
	s := NewStore()
	key := Record{"A", "B", "2000"}.Key()
	now := time.Unix(1700000000, 0)

	if err := s.Put(key, PricedEntry("1", json.RawMessage(`{"x":1}`), map[string]any{"M": json.Number("3")}, now)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(key, NotFoundEntry(now)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok := s.Get(key)
	if !ok {
		t.Fatal("Get: key missing")
	}
	if got.Error != ErrNoReleaseFound {
		t.Errorf("Error = %q, want %q", got.Error, ErrNoReleaseFound)
	}
	if got.ReleaseID != "" || got.Raw != nil || got.Parsed != nil {
		t.Errorf("old fields leaked into overwritten entry: %+v", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_RawEntriesPreserved(t *testing.T) {
	stale := json.RawMessage(`{"release_id":9,"raw":{"a":1},"parsed":{},"last_checked":"2020-01-01T00:00:00","extra":true}`)
	s := NewStoreFromRaw(map[string]json.RawMessage{"old": stale})

	if err := s.Put("new", NotFoundEntry(time.Now())); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if string(s.Raw()["old"]) != string(stale) {
		t.Errorf("stale entry changed: %s", s.Raw()["old"])
	}
	if keys := s.Keys(); len(keys) != 2 || keys[0] != "new" || keys[1] != "old" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestStore_GetUndecodable(t *testing.T) {
	s := NewStoreFromRaw(map[string]json.RawMessage{"weird": json.RawMessage(`[1,2]`)})
	if _, ok := s.Get("weird"); ok {
		t.Error("Get should fail on non-object values")
	}
	if got := s.Keys(); len(got) != 1 || got[0] != "weird" {
		t.Errorf("Keys() = %v, want the undecodable key kept", got)
	}
}

func TestEntry_UnmarshalNaiveTimestamp(t *testing.T) {
	var e Entry
	data := `{"error":"no_release_found","last_checked":"2024-05-06T07:08:09.123456"}`
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := time.Date(2024, 5, 6, 7, 8, 9, 123456000, time.UTC)
	if !e.LastChecked.Equal(want) {
		t.Errorf("LastChecked = %v, want %v", e.LastChecked, want)
	}
}
