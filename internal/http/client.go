package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxErrorBody bounds how much of a failed response is kept in a StatusError.
const maxErrorBody = 512

// StatusError is returned when the server answers with anything but 200 OK.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
	}
	return fmt.Sprintf("HTTP %d: %s: %s", e.Code, e.Status, e.Body)
}

// Options configures a Client.
type Options struct {
	// Token is the Discogs personal access token. Empty sends no Authorization header.
	Token string

	// UserAgent identifies the client to Discogs, which rejects requests without one.
	UserAgent string

	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration

	// Transport overrides the default round tripper, mainly for tests.
	Transport http.RoundTripper
}

// Client wraps HTTP operations with Discogs-specific configuration.
//
// Client provides:
//   - Configured User-Agent and Authorization headers
//   - JSON GET requests with query parameters
//   - Byte downloads for cover art
//
// Example usage:
//
//	client := NewClient(Options{Token: token, UserAgent: "vinyl-price-app/1.0"})
//
//	var payload json.RawMessage
//	err := client.GetJSON(ctx, "https://api.discogs.com/marketplace/price_suggestions/249504", nil, &payload)
type Client struct {
	httpClient *http.Client
	userAgent  string
	token      string
}

// NewClient creates a new HTTP client configured for Discogs.
func NewClient(opts Options) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		userAgent: opts.UserAgent,
		token:     opts.Token,
	}
}

// Get performs a GET request and returns the response body as bytes.
//
// query is appended to rawURL; pass nil for none.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK (as *StatusError)
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Code:   resp.StatusCode,
			Status: http.StatusText(resp.StatusCode),
			Body:   strings.TrimSpace(string(body)),
		}
	}

	return io.ReadAll(resp.Body)
}

// GetJSON performs a GET request and decodes the JSON body into v.
//
// Numbers are decoded as json.Number when v holds interface values, so
// prices keep their exact textual form.
//
// Example:
//
//	var out struct{ Results []Result `json:"results"` }
//	err := client.GetJSON(ctx, searchURL, url.Values{"q": {"Can Tago Mago"}}, &out)
func (c *Client) GetJSON(ctx context.Context, rawURL string, query url.Values, v any) error {
	body, err := c.Get(ctx, rawURL, query)
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}
	return nil
}

// DownloadBytes downloads a file and returns the bytes in memory.
//
// Use this for small files like cover art images. Only the User-Agent is
// sent; image CDNs do not need the API token.
func (c *Client) DownloadBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: http.StatusText(resp.StatusCode)}
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Discogs token="+c.token)
	}
}
