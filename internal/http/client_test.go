package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestClient_GetJSON_Headers(t *testing.T) {
	var gotAuth, gotUA, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		gotQuery = r.URL.Query().Get("q")
		w.Write([]byte(`{"price": 12.50}`))
	}))
	defer srv.Close()

	c := NewClient(Options{Token: "secret", UserAgent: "test-agent/1.0"})

	var out map[string]any
	if err := c.GetJSON(context.Background(), srv.URL+"/x", url.Values{"q": {"Can Tago Mago"}}, &out); err != nil {
		t.Fatalf("GetJSON: %v", err)
	}

	if gotAuth != "Discogs token=secret" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotUA != "test-agent/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if gotQuery != "Can Tago Mago" {
		t.Errorf("q = %q", gotQuery)
	}
	if n, ok := out["price"].(json.Number); !ok || n.String() != "12.50" {
		t.Errorf("price = %#v, want json.Number(12.50)", out["price"])
	}
}

func TestClient_NoTokenNoAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Error("unexpected Authorization header")
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(Options{UserAgent: "ua"})
	if _, err := c.Get(context.Background(), srv.URL, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestClient_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message": "You are making requests too quickly."}`))
	}))
	defer srv.Close()

	c := NewClient(Options{UserAgent: "ua"})
	_, err := c.Get(context.Background(), srv.URL, nil)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err = %v, want *StatusError", err)
	}
	if se.Code != http.StatusTooManyRequests {
		t.Errorf("Code = %d", se.Code)
	}
	if se.Body == "" {
		t.Error("Body should carry the response text")
	}
}

func TestClient_GetJSON_BadBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	}))
	defer srv.Close()

	c := NewClient(Options{UserAgent: "ua"})
	var out any
	if err := c.GetJSON(context.Background(), srv.URL, nil, &out); err == nil {
		t.Error("expected decode error")
	}
}

func TestClient_QueryAppendsToExisting(t *testing.T) {
	var raw string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw = r.URL.RawQuery
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(Options{UserAgent: "ua"})
	if _, err := c.Get(context.Background(), srv.URL+"/?a=1", url.Values{"b": {"2"}}); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if raw != "a=1&b=2" {
		t.Errorf("RawQuery = %q", raw)
	}
}
