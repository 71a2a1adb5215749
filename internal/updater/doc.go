// Package updater runs the price update job.
//
// # Updater
//
// The Updater coordinates a run:
//
//  1. Lock and load the price store
//  2. Read records from the CSV file (or scan an MP3 library)
//  3. For each record, in order: search for the release, pause, fetch
//     price suggestions, pause
//  4. Merge every result into the store
//  5. Write the store back once
//
// # Basic Usage
//
//	u := updater.New(settings, func(event updater.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	summary, err := u.Run(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Failures
//
// Failed searches and price lookups are reported as events and stored as
// error entries; the run continues with the next record. A cancelled
// context stops the run without writing the store.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Counters for progress bars are available from Progress at any time.
package updater
