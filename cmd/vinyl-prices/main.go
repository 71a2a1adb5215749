// Command vinyl-prices looks up Discogs marketplace price suggestions for a
// list of records and caches them in a local JSON file.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/handiism/vinyl-prices/internal/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		switch {
		case errors.Is(err, errInterrupted):
			os.Exit(130)
		case errors.Is(err, config.ErrMissingToken):
			// already reported by runUpdate
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
