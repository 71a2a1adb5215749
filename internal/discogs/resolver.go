package discogs

import (
	"context"
	"net/url"
	"strings"

	"github.com/handiism/vinyl-prices/internal/model"
)

const (
	searchPath = "/database/search"

	// searchPageSize is the fixed number of candidates requested per search.
	searchPageSize = "5"
)

// JSONGetter performs a GET request and decodes the JSON response into v.
// *http.Client from internal/http satisfies it.
type JSONGetter interface {
	GetJSON(ctx context.Context, rawURL string, query url.Values, v any) error
}

// Resolver finds the Discogs release for a record.
type Resolver struct {
	client  JSONGetter
	baseURL string
}

// NewResolver creates a Resolver against baseURL (for example "https://api.discogs.com").
func NewResolver(client JSONGetter, baseURL string) *Resolver {
	return &Resolver{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// FindRelease searches for rec and returns the best-guess release.
//
// A nil release with a nil error means the search returned nothing usable.
// A non-nil error means the search request itself failed; it is not retried.
func (r *Resolver) FindRelease(ctx context.Context, rec model.Record) (*Release, error) {
	var resp searchResponse
	if err := r.client.GetJSON(ctx, r.baseURL+searchPath, searchQuery(rec), &resp); err != nil {
		return nil, err
	}

	hit, ok := selectRelease(resp.Results, rec)
	if !ok {
		return nil, nil
	}
	release := hit.toRelease()
	if release.ID.IsZero() {
		return nil, nil
	}
	return release, nil
}

// searchQuery builds the search parameters for rec. An empty year is not sent.
func searchQuery(rec model.Record) url.Values {
	q := url.Values{}
	q.Set("q", rec.Artist+" "+rec.Title)
	q.Set("type", "release")
	if rec.Year != "" {
		q.Set("year", rec.Year)
	}
	q.Set("per_page", searchPageSize)
	q.Set("page", "1")
	return q
}

// selectRelease picks a candidate in service order.
//
// The first hit whose year equals the query year (or is blank) and whose
// title contains the query title or artist, ignoring case, wins. Without
// such a hit the first result is returned regardless of how well it matches.
func selectRelease(results []searchResult, rec model.Record) (searchResult, bool) {
	if len(results) == 0 {
		return searchResult{}, false
	}

	title := strings.ToLower(rec.Title)
	artist := strings.ToLower(rec.Artist)
	for _, hit := range results {
		year := string(hit.Year)
		if year != rec.Year && year != "" {
			continue
		}
		hitTitle := strings.ToLower(hit.Title)
		if strings.Contains(hitTitle, title) || strings.Contains(hitTitle, artist) {
			return hit, true
		}
	}

	return results[0], true
}
