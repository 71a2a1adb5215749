package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/vinyl-prices/internal/config"
	"github.com/handiism/vinyl-prices/internal/updater"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

var errInterrupted = errors.New("interrupted")

type updateOptions struct {
	root *rootOptions

	delay       float64
	covers      string
	onlyMissing bool
	logFile     string
}

func bindUpdateFlags(cmd *cobra.Command, opts *updateOptions) {
	flags := cmd.Flags()
	flags.Float64Var(&opts.delay, "delay", -1, "Seconds to pause between API calls (default from config, 1.0)")
	flags.StringVar(&opts.covers, "covers", "", "Directory to cache cover art thumbnails in")
	flags.BoolVar(&opts.onlyMissing, "only-missing", false, "Skip records with a recent successful lookup")
	flags.StringVar(&opts.logFile, "log-file", "", "Also write a JSON event log to this file")
}

func newUpdateCommand(opts *updateOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Look up prices for every record and update the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, opts)
		},
	}
	bindUpdateFlags(cmd, opts)
	return cmd
}

func runUpdate(cmd *cobra.Command, opts *updateOptions) error {
	settings, err := opts.root.loadSettings()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.delay >= 0 {
		settings.PacingDelay = opts.delay
	}
	if opts.covers != "" {
		settings.CoverArtDir = opts.covers
	}
	if opts.onlyMissing {
		settings.SkipFresh = true
	}

	out := newConsole(cmd.OutOrStdout(), opts.root.verbose)
	if err := settings.Validate(); err != nil {
		if errors.Is(err, config.ErrMissingToken) {
			out.line(updater.LevelError, "DISCOGS_TOKEN not set in environment. Exiting.")
		}
		return err
	}

	logger, err := newEventLogger(opts.logFile, opts.root.verbose)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logger.Sync()

	u := updater.New(settings, func(event updater.ProgressEvent) {
		logEvent(logger, event)
		out.event(event)
	})

	out.banner()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case <-sigCh:
			out.line(updater.LevelWarning, "Interrupted, stopping without writing results.")
			return errInterrupted
		case <-ctx.Done():
			return nil
		}
	})

	var summary updater.Progress
	g.Go(func() error {
		defer cancel()
		var err error
		summary, err = u.Run(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	out.summary(summary)
	return nil
}

// newEventLogger returns a zap logger writing JSON to path, or a no-op
// logger when path is empty.
func newEventLogger(path string, verbose bool) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.Sampling = nil
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func logEvent(logger *zap.Logger, event updater.ProgressEvent) {
	fields := []zap.Field{zap.String("level_name", event.Level.String())}
	if event.Key != "" {
		fields = append(fields, zap.String("key", event.Key))
	}

	switch event.Level {
	case updater.LevelVerbose:
		logger.Debug(event.Message, fields...)
	case updater.LevelWarning:
		logger.Warn(event.Message, fields...)
	case updater.LevelError:
		logger.Error(event.Message, fields...)
	default:
		logger.Info(event.Message, fields...)
	}
}
