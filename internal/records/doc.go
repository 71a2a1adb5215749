// Package records reads the list of releases to price.
//
// Two sources are supported: a header-driven CSV file and a directory of
// ID3-tagged MP3 files.
//
// # CSV
//
// Columns are found by name. Each field accepts several spellings, tried in
// order, and the first non-empty value wins:
//
//	artist: artist, Interpret, interpret
//	title:  title, Titel, titel
//	year:   year, Erscheinungsjahr, jahr
//
// Rows are returned in file order and are neither deduplicated nor
// validated beyond that; callers skip rows whose Record is not Valid.
//
//	rows, err := records.ReadCSV("records.csv", 0)
//	for _, row := range rows {
//	    if !row.Record.Valid() {
//	        fmt.Println("Skipping invalid row:", row)
//	        continue
//	    }
//	}
//
// # Music library
//
// ScanLibrary walks a directory and produces one record per distinct
// (artist, album, year) found in ID3v2 tags.
package records
