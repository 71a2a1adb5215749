package records

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/handiism/vinyl-prices/internal/model"
)

// ID3 frames read from library files.
const (
	frameAlbumArtist = "TPE2"
	frameArtist      = "TPE1"
	frameAlbum       = "TALB"
	frameYear        = "TYER"
	frameRecording   = "TDRC"
)

// ScanLibrary walks dir for MP3 files and builds one row per album.
//
// The album artist (TPE2) is preferred over the track artist (TPE1); the
// year comes from TYER or, for ID3v2.4 files, the first four characters of
// TDRC. Files without any of these frames are ignored. Rows are ordered by
// the first file seen for each album, and files that cannot be parsed are
// returned in skipped rather than failing the scan.
func ScanLibrary(ctx context.Context, dir string) (rows []Row, skipped []string, err error) {
	seen := make(map[string]bool)

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".mp3") {
			return nil
		}

		fields, err := readTagFields(path)
		if err != nil {
			skipped = append(skipped, path)
			return nil
		}
		if len(fields) == 0 {
			return nil
		}

		rec := model.Record{
			Artist: firstValue(fields, []string{frameAlbumArtist, frameArtist}),
			Title:  firstValue(fields, []string{frameAlbum}),
			Year:   yearOf(fields),
		}
		key := rec.Key()
		if seen[key] {
			return nil
		}
		seen[key] = true

		rows = append(rows, Row{Source: path, Record: rec, Fields: fields})
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return rows, skipped, nil
}

// readTagFields returns the non-empty text frames we care about.
func readTagFields(path string) (map[string]string, error) {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	defer tag.Close()

	fields := make(map[string]string)
	for _, id := range []string{frameAlbumArtist, frameArtist, frameAlbum, frameYear, frameRecording} {
		if v := strings.TrimSpace(tag.GetTextFrame(id).Text); v != "" {
			fields[id] = v
		}
	}
	return fields, nil
}

func yearOf(fields map[string]string) string {
	if y := fields[frameYear]; y != "" {
		return y
	}
	if y := fields[frameRecording]; len(y) >= 4 {
		return y[:4]
	}
	return ""
}
