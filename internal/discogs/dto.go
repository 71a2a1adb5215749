package discogs

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/handiism/vinyl-prices/internal/model"
)

// flexString decodes a JSON string, number or null into its text form.
// Discogs sends "year" as a string and "id" as a number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, string(data) == "null":
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(data)
	}
	return nil
}

// searchResponse is the subset of /database/search we read.
type searchResponse struct {
	Results []searchResult `json:"results"`
}

// searchResult is one search hit.
type searchResult struct {
	ID          flexString `json:"id"`
	Title       string     `json:"title"`
	Year        flexString `json:"year"`
	ResourceURL string     `json:"resource_url"`
	Thumb       string     `json:"thumb"`
	CoverImage  string     `json:"cover_image"`
}

// releaseID returns the hit's id, falling back to the last path segment
// of its resource URL.
func (r searchResult) releaseID() model.ReleaseID {
	if r.ID != "" {
		return model.ReleaseID(r.ID)
	}
	u := r.ResourceURL
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	return model.ReleaseID(u[strings.LastIndex(u, "/")+1:])
}

// toRelease converts a search hit to a Release.
func (r searchResult) toRelease() *Release {
	return &Release{
		ID:          r.releaseID(),
		Title:       r.Title,
		Year:        string(r.Year),
		ResourceURL: r.ResourceURL,
		Thumb:       r.Thumb,
		CoverImage:  r.CoverImage,
	}
}

// Release is a resolved catalog entry.
type Release struct {
	// ID is the catalog identifier used for price lookups.
	ID model.ReleaseID

	// Title is the search title, usually "Artist - Title".
	Title string

	// Year as reported by the search service; may be empty.
	Year string

	ResourceURL string
	Thumb       string
	CoverImage  string
}

// ArtworkURL returns the best available image URL, or "".
func (r *Release) ArtworkURL() string {
	if r.CoverImage != "" {
		return r.CoverImage
	}
	return r.Thumb
}
