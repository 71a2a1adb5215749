package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/handiism/vinyl-prices/internal/config"
	"github.com/handiism/vinyl-prices/internal/discogs"
	"github.com/handiism/vinyl-prices/internal/http"
	ioutils "github.com/handiism/vinyl-prices/internal/io"
	"github.com/handiism/vinyl-prices/internal/model"
	"github.com/handiism/vinyl-prices/internal/pricing"
	"github.com/handiism/vinyl-prices/internal/records"
	"github.com/handiism/vinyl-prices/internal/store"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// String returns the lower-case level name.
func (l ProgressLevel) String() string {
	switch l {
	case LevelVerbose:
		return "verbose"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	case LevelSuccess:
		return "success"
	default:
		return "info"
	}
}

// ProgressEvent represents a progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel

	// Key is the composite key being processed, if any.
	Key string
}

// ReleaseFinder resolves a record to a release. A nil release means not found.
type ReleaseFinder interface {
	FindRelease(ctx context.Context, rec model.Record) (*discogs.Release, error)
}

// PriceSource fetches the raw price-suggestion payload for a release.
// A nil payload means no data.
type PriceSource interface {
	PriceSuggestions(ctx context.Context, id model.ReleaseID) (json.RawMessage, error)
}

// Downloader fetches cover art bytes.
type Downloader interface {
	DownloadBytes(ctx context.Context, url string) ([]byte, error)
}

// Progress is a snapshot of the run counters.
type Progress struct {
	Total     int
	Processed int
	Priced    int
	NotFound  int
	NoPrice   int
	Skipped   int
	Fresh     int
}

// Updater coordinates a price update run.
type Updater struct {
	settings   *config.Settings
	resolver   ReleaseFinder
	prices     PriceSource
	downloader Downloader
	images     *ioutils.ImageService

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	total     atomic.Int32
	processed atomic.Int32
	priced    atomic.Int32
	notFound  atomic.Int32
	noPrice   atomic.Int32
	skipped   atomic.Int32
	fresh     atomic.Int32

	onProgress func(ProgressEvent)
}

// Option customises an Updater.
type Option func(*Updater)

// WithResolver replaces the Discogs search client.
func WithResolver(r ReleaseFinder) Option {
	return func(u *Updater) { u.resolver = r }
}

// WithPriceSource replaces the Discogs price client.
func WithPriceSource(p PriceSource) Option {
	return func(u *Updater) { u.prices = p }
}

// WithDownloader replaces the cover art downloader.
func WithDownloader(d Downloader) Option {
	return func(u *Updater) { u.downloader = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(u *Updater) { u.now = now }
}

// WithSleep replaces the pause between remote calls.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(u *Updater) { u.sleep = sleep }
}

// New creates an Updater talking to Discogs as configured in settings.
func New(settings *config.Settings, onProgress func(ProgressEvent), opts ...Option) *Updater {
	client := http.NewClient(http.Options{
		Token:     settings.DiscogsToken,
		UserAgent: settings.UserAgent,
		Timeout:   settings.Timeout(),
	})

	u := &Updater{
		settings:   settings,
		resolver:   discogs.NewResolver(client, settings.BaseURL),
		prices:     discogs.NewPriceFetcher(client, settings.BaseURL),
		downloader: client,
		images:     ioutils.NewImageService(),
		now:        time.Now,
		sleep:      wait,
		onProgress: onProgress,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Run executes the whole job and returns the final counters.
//
// The settings are validated first; a missing token aborts before any
// file or network access. The store file is written only if every row was
// handled; a cancelled context returns ctx.Err() and leaves it untouched.
func (u *Updater) Run(ctx context.Context) (Progress, error) {
	if err := u.settings.Validate(); err != nil {
		return u.Progress(), err
	}

	outPath := u.settings.OutputPath
	unlock, err := store.Lock(outPath)
	if err != nil {
		return u.Progress(), err
	}
	defer unlock()

	prices, err := store.Load(outPath)
	if err != nil {
		return u.Progress(), fmt.Errorf("load %s: %w", outPath, err)
	}
	u.progress(ProgressEvent{Message: fmt.Sprintf("Loaded %d stored entries from %s", prices.Len(), outPath), Level: LevelVerbose})

	rows, err := u.loadRows(ctx)
	if err != nil {
		return u.Progress(), err
	}
	u.total.Store(int32(len(rows)))

	merger := pricing.NewMerger(prices, u.now)
	for _, row := range rows {
		if err := u.processRow(ctx, merger, prices, row); err != nil {
			return u.Progress(), err
		}
		u.processed.Add(1)
	}

	if err := store.Save(outPath, prices); err != nil {
		return u.Progress(), fmt.Errorf("save %s: %w", outPath, err)
	}
	u.progress(ProgressEvent{Message: fmt.Sprintf("Done. Wrote %s", outPath), Level: LevelSuccess})

	return u.Progress(), nil
}

// Progress returns the current counters. Safe to call while Run is active.
func (u *Updater) Progress() Progress {
	return Progress{
		Total:     int(u.total.Load()),
		Processed: int(u.processed.Load()),
		Priced:    int(u.priced.Load()),
		NotFound:  int(u.notFound.Load()),
		NoPrice:   int(u.noPrice.Load()),
		Skipped:   int(u.skipped.Load()),
		Fresh:     int(u.fresh.Load()),
	}
}

// LoadRows returns the rows a run would process, without touching the network.
func (u *Updater) LoadRows(ctx context.Context) ([]records.Row, error) {
	return u.loadRows(ctx)
}

func (u *Updater) loadRows(ctx context.Context) ([]records.Row, error) {
	if dir := u.settings.LibraryPath; dir != "" {
		rows, unreadable, err := records.ScanLibrary(ctx, dir)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		for _, path := range unreadable {
			u.progress(ProgressEvent{Message: fmt.Sprintf("Could not read tags: %s", path), Level: LevelWarning})
		}
		return rows, nil
	}

	rows, err := records.ReadCSV(u.settings.InputPath, u.settings.Delimiter())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u.settings.InputPath, err)
	}
	return rows, nil
}

func (u *Updater) processRow(ctx context.Context, merger *pricing.Merger, prices *model.Store, row records.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rec := row.Record
	if !rec.Valid() {
		u.skipped.Add(1)
		u.progress(ProgressEvent{Message: fmt.Sprintf("Skipping invalid row: %s", row), Level: LevelWarning})
		return nil
	}

	key := rec.Key()
	if u.settings.SkipFresh {
		if entry, ok := prices.Get(key); ok && entry.FreshAt(u.now(), u.settings.FreshFor()) {
			u.fresh.Add(1)
			u.progress(ProgressEvent{Message: fmt.Sprintf("Up to date: %s", key), Level: LevelVerbose, Key: key})
			return nil
		}
	}

	u.progress(ProgressEvent{Message: fmt.Sprintf("Processing: %s", key), Level: LevelInfo, Key: key})

	release, err := u.resolver.FindRelease(ctx, rec)
	if err != nil {
		u.progress(ProgressEvent{Message: fmt.Sprintf("Search error: %v", err), Level: LevelError, Key: key})
		release = nil
	}
	if release == nil {
		u.notFound.Add(1)
		u.progress(ProgressEvent{Message: "  -> No release id found", Level: LevelWarning, Key: key})
		_, err := merger.NotFound(rec)
		return err
	}
	u.progress(ProgressEvent{Message: fmt.Sprintf("  -> Release %s: %s", release.ID, release.Title), Level: LevelVerbose, Key: key})

	if err := u.sleep(ctx, u.settings.Pacing()); err != nil {
		return err
	}

	raw, err := u.prices.PriceSuggestions(ctx, release.ID)
	if err != nil {
		u.progress(ProgressEvent{Message: fmt.Sprintf("Price suggestions error: %v", err), Level: LevelError, Key: key})
		raw = nil
	}
	if raw == nil {
		u.noPrice.Add(1)
		u.progress(ProgressEvent{Message: "  -> No price data", Level: LevelWarning, Key: key})
		_, err := merger.NoPrice(rec, release.ID)
		return err
	}

	entry, err := merger.Priced(rec, release.ID, raw)
	if err != nil {
		return err
	}
	u.priced.Add(1)
	u.progress(ProgressEvent{Message: fmt.Sprintf("  -> Stored prices for release %s (%d parsed)", release.ID, len(entry.Parsed)), Level: LevelSuccess, Key: key})

	u.saveCover(ctx, release)

	return u.sleep(ctx, u.settings.Pacing())
}

// saveCover stores the release artwork in the cover cache, if enabled.
// Failures are reported and otherwise ignored.
func (u *Updater) saveCover(ctx context.Context, release *discogs.Release) {
	dir := u.settings.CoverArtDir
	artURL := release.ArtworkURL()
	if dir == "" || artURL == "" {
		return
	}

	path := filepath.Join(dir, ioutils.SanitizeFileName(string(release.ID))+".jpg")
	if _, err := os.Stat(path); err == nil {
		return
	}

	data, err := u.downloader.DownloadBytes(ctx, artURL)
	if err != nil {
		u.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading artwork for %s: %v", release.ID, err), Level: LevelWarning})
		return
	}

	thumb, err := u.images.Thumbnail(data, u.settings.CoverArtMaxSize)
	if err != nil {
		u.progress(ProgressEvent{Message: fmt.Sprintf("Error converting artwork for %s: %v", release.ID, err), Level: LevelWarning})
		return
	}

	if err := ioutils.WriteFileAtomic(path, thumb); err != nil {
		u.progress(ProgressEvent{Message: fmt.Sprintf("Error saving artwork: %v", err), Level: LevelWarning})
		return
	}
	u.progress(ProgressEvent{Message: fmt.Sprintf("Saved artwork %s", path), Level: LevelVerbose})
}

// wait pauses for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (u *Updater) progress(event ProgressEvent) {
	if u.onProgress != nil {
		u.onProgress(event)
	}
}
