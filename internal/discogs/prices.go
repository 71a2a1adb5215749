package discogs

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/handiism/vinyl-prices/internal/model"
)

const priceSuggestionsPath = "/marketplace/price_suggestions/"

// PriceFetcher retrieves marketplace price suggestions for a release.
type PriceFetcher struct {
	client  JSONGetter
	baseURL string
}

// NewPriceFetcher creates a PriceFetcher against baseURL.
func NewPriceFetcher(client JSONGetter, baseURL string) *PriceFetcher {
	return &PriceFetcher{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

// PriceSuggestions returns the raw response body for id.
//
// The payload shape varies between accounts and releases, so it is not
// validated. An empty body (null, {} or []) is reported as a nil payload
// with no error; a failed request returns the error.
func (p *PriceFetcher) PriceSuggestions(ctx context.Context, id model.ReleaseID) (json.RawMessage, error) {
	var raw json.RawMessage
	endpoint := p.baseURL + priceSuggestionsPath + url.PathEscape(string(id))
	if err := p.client.GetJSON(ctx, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	if isEmptyJSON(raw) {
		return nil, nil
	}
	return raw, nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return len(bytes.TrimSpace(raw)) == 0
	}
	switch compact.String() {
	case "", "null", "{}", "[]":
		return true
	}
	return false
}
