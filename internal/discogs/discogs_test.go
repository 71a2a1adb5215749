package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	vhttp "github.com/handiism/vinyl-prices/internal/http"
	"github.com/handiism/vinyl-prices/internal/model"
)

func TestSelectRelease(t *testing.T) {
	rec := model.Record{Artist: "Boards of Canada", Title: "Geogaddi", Year: "2002"}

	undated := model.Record{Artist: "Boards of Canada", Title: "Geogaddi"}

	tests := []struct {
		name    string
		query   *model.Record
		results []searchResult
		wantID  flexString
		wantOK  bool
	}{
		{
			name:   "no results",
			wantOK: false,
		},
		{
			name: "title and year match",
			results: []searchResult{
				{ID: "1", Title: "Boards Of Canada - Music Has The Right", Year: "1998"},
				{ID: "2", Title: "Boards Of Canada - Geogaddi", Year: "2002"},
			},
			wantID: "2",
			wantOK: true,
		},
		{
			name: "blank year accepted",
			results: []searchResult{
				{ID: "3", Title: "Boards Of Canada - Geogaddi", Year: ""},
			},
			wantID: "3",
			wantOK: true,
		},
		{
			name: "artist in title is enough",
			results: []searchResult{
				{ID: "4", Title: "Unrelated - Thing", Year: "2002"},
				{ID: "5", Title: "Boards of Canada - Twoism", Year: "2002"},
			},
			wantID: "5",
			wantOK: true,
		},
		{
			name: "wrong year skipped",
			results: []searchResult{
				{ID: "6", Title: "Boards Of Canada - Geogaddi", Year: "2013"},
				{ID: "7", Title: "Boards Of Canada - Geogaddi", Year: "2002"},
			},
			wantID: "7",
			wantOK: true,
		},
		{
			name: "falls back to first result",
			results: []searchResult{
				{ID: "8", Title: "Someone Else - Other", Year: "1990"},
				{ID: "9", Title: "Another - Record", Year: "2002"},
			},
			wantID: "8",
			wantOK: true,
		},
		{
			name:  "empty query year only matches undated hits",
			query: &undated,
			results: []searchResult{
				{ID: "10", Title: "Unrelated - Thing", Year: "1990"},
				{ID: "11", Title: "Boards Of Canada - Geogaddi", Year: "2002"},
				{ID: "12", Title: "Boards Of Canada - Geogaddi", Year: ""},
			},
			wantID: "12",
			wantOK: true,
		},
		{
			name:  "empty query year with only dated hits falls back",
			query: &undated,
			results: []searchResult{
				{ID: "13", Title: "Unrelated - Thing", Year: "1990"},
				{ID: "14", Title: "Boards Of Canada - Geogaddi", Year: "2002"},
			},
			wantID: "13",
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := rec
			if tt.query != nil {
				query = *tt.query
			}
			hit, ok := selectRelease(tt.results, query)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && hit.ID != tt.wantID {
				t.Errorf("picked id %q, want %q", hit.ID, tt.wantID)
			}
		})
	}
}

func TestSearchResult_ReleaseID(t *testing.T) {
	tests := []struct {
		name string
		hit  searchResult
		want model.ReleaseID
	}{
		{"own id", searchResult{ID: "249504", ResourceURL: "https://api.discogs.com/releases/1"}, "249504"},
		{"from resource url", searchResult{ResourceURL: "https://api.discogs.com/releases/8812"}, "8812"},
		{"url with query", searchResult{ResourceURL: "https://api.discogs.com/releases/77?x=1"}, "77"},
		{"nothing", searchResult{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.hit.releaseID(); got != tt.want {
				t.Errorf("releaseID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFlexString(t *testing.T) {
	var hit searchResult
	data := `{"id": 249504, "year": "2002", "title": "X"}`
	if err := json.Unmarshal([]byte(data), &hit); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if hit.ID != "249504" || hit.Year != "2002" {
		t.Errorf("got id=%q year=%q", hit.ID, hit.Year)
	}

	data = `{"id": null, "year": 1977}`
	if err := json.Unmarshal([]byte(data), &hit); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if hit.ID != "" || hit.Year != "1977" {
		t.Errorf("got id=%q year=%q", hit.ID, hit.Year)
	}
}

func newTestClient() *vhttp.Client {
	return vhttp.NewClient(vhttp.Options{Token: "t", UserAgent: "test"})
}

func TestResolver_FindRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/database/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "Boards of Canada Geogaddi" || q.Get("type") != "release" ||
			q.Get("year") != "2002" || q.Get("per_page") != "5" || q.Get("page") != "1" {
			t.Errorf("unexpected query %v", q)
		}
		w.Write([]byte(`{"results":[{"id":2,"title":"Boards Of Canada - Geogaddi","year":"2002","cover_image":"https://img/x.jpg"}]}`))
	}))
	defer srv.Close()

	r := NewResolver(newTestClient(), srv.URL+"/")
	rel, err := r.FindRelease(context.Background(), model.Record{Artist: "Boards of Canada", Title: "Geogaddi", Year: "2002"})
	if err != nil {
		t.Fatalf("FindRelease: %v", err)
	}
	if rel == nil || rel.ID != "2" {
		t.Fatalf("release = %+v, want id 2", rel)
	}
	if rel.ArtworkURL() != "https://img/x.jpg" {
		t.Errorf("ArtworkURL() = %q", rel.ArtworkURL())
	}
}

func TestResolver_EmptyYearNotSent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.URL.Query()["year"]; ok {
			t.Error("year parameter should be omitted")
		}
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	rel, err := NewResolver(newTestClient(), srv.URL).FindRelease(context.Background(), model.Record{Artist: "A", Title: "B"})
	if err != nil || rel != nil {
		t.Errorf("got (%v, %v), want (nil, nil)", rel, err)
	}
}

func TestResolver_SearchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewResolver(newTestClient(), srv.URL).FindRelease(context.Background(), model.Record{Artist: "A", Title: "B"})
	var se *vhttp.StatusError
	if !errors.As(err, &se) || se.Code != http.StatusUnauthorized {
		t.Errorf("err = %v, want 401 StatusError", err)
	}
}

func TestPriceFetcher(t *testing.T) {
	payload := `{"suggestions": [{"condition": "VG+", "price": 12.5}]}`

	tests := []struct {
		name    string
		status  int
		body    string
		wantNil bool
		wantErr bool
	}{
		{"payload", http.StatusOK, payload, false, false},
		{"empty object", http.StatusOK, `{}`, true, false},
		{"null", http.StatusOK, `null`, true, false},
		{"not found", http.StatusNotFound, `{"message":"Release not found."}`, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/marketplace/price_suggestions/249504" {
					t.Errorf("path = %q", r.URL.Path)
				}
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			raw, err := NewPriceFetcher(newTestClient(), srv.URL).PriceSuggestions(context.Background(), "249504")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if (raw == nil) != tt.wantNil {
				t.Errorf("raw = %s, wantNil %v", raw, tt.wantNil)
			}
			if !tt.wantNil && string(raw) != tt.body {
				t.Errorf("raw = %s, want %s", raw, tt.body)
			}
		})
	}
}
