// Package discogs talks to the Discogs database and marketplace APIs.
//
// Two services are provided, each issuing exactly one request per call and
// never sleeping; pacing between calls is left to the caller.
//
// # Resolver
//
// Resolver maps a record to a release using /database/search:
//
//	resolver := discogs.NewResolver(client, "https://api.discogs.com")
//	release, err := resolver.FindRelease(ctx, model.Record{Artist: "Can", Title: "Tago Mago", Year: "1971"})
//	if err != nil {
//	    // search request failed
//	}
//	if release == nil {
//	    // no candidates
//	}
//
// Candidate selection is deliberately loose: the first result whose year
// matches (or is blank) and whose title mentions the query title or artist
// wins, otherwise the first result is used.
//
// # PriceFetcher
//
// PriceFetcher returns the /marketplace/price_suggestions payload untouched:
//
//	prices := discogs.NewPriceFetcher(client, "https://api.discogs.com")
//	raw, err := prices.PriceSuggestions(ctx, release.ID)
package discogs
