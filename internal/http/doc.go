// Package http provides an HTTP client configured for Discogs API requests.
//
// The Client in this package handles:
//   - User-Agent and "Authorization: Discogs token=..." headers
//   - JSON decoding of API responses
//   - Raw downloads for cover art
//   - Optional timeout handling
//
// # Basic Usage
//
//	client := http.NewClient(http.Options{Token: token, UserAgent: "vinyl-price-app/1.0"})
//
//	var out searchResponse
//	err := client.GetJSON(ctx, "https://api.discogs.com/database/search", query, &out)
//
// # Errors
//
// Any response other than 200 OK is returned as a *StatusError carrying the
// code and a truncated copy of the body:
//
//	var se *http.StatusError
//	if errors.As(err, &se) {
//	    fmt.Println(se.Code, se.Body)
//	}
package http
