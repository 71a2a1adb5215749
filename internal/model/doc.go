// Package model defines the core data structures used throughout
// the vinyl-prices application.
//
// # Record
//
// Record is one (artist, title, year) row read from the input list:
//
//	rec := model.Record{Artist: "Boards of Canada", Title: "Geogaddi", Year: "2002"}
//	fmt.Println(rec.Key()) // "Boards of Canada — Geogaddi (2002)"
//
// # Entry
//
// Entry is what gets persisted for a record: either an error marker
// (no_release_found, no_price_data) or the release ID together with the
// raw price payload and its parsed condition→price subset.
//
// # Store
//
// Store maps composite keys to entries. Entries loaded from disk are kept
// as raw JSON, so keys that are not revisited in a run are written back
// exactly as they were read:
//
//	s := model.NewStore()
//	s.Put(rec.Key(), model.NotFoundEntry(time.Now()))
//	entry, ok := s.Get(rec.Key())
package model
