package model

import "fmt"

// KeySeparator joins artist and title in a composite key (U+2014 EM DASH).
const KeySeparator = " — "

// Record represents one music release to look up.
//
// Year is free text; it is not validated and may be empty.
type Record struct {
	// Artist is the performing artist.
	Artist string

	// Title is the release title.
	Title string

	// Year is the release year as written in the source, or empty.
	Year string
}

// Valid reports whether the record has both an artist and a title.
// Records that are not valid are skipped by the updater.
func (r Record) Valid() bool {
	return r.Artist != "" && r.Title != ""
}

// Key returns the composite key identifying this record in the store.
//
// The format is "<artist> — <title> (<year>)". An empty year renders as "()".
//
// Example:
//
//	Record{Artist: "Can", Title: "Tago Mago", Year: "1971"}.Key()
//	// "Can — Tago Mago (1971)"
func (r Record) Key() string {
	return fmt.Sprintf("%s%s%s (%s)", r.Artist, KeySeparator, r.Title, r.Year)
}

// String implements fmt.Stringer.
func (r Record) String() string {
	return r.Key()
}
