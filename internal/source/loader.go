package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/tartampluch/go-planner/internal/config"
)

// URLProvider supplies the feed URL when the settings do not carry one.
type URLProvider interface {
	FeedURL() (string, error)
}

// LoadConfig contains all parameters required to load assignments.
type LoadConfig struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // Path to an exported .ics file
	FeedURL   string // Canvas feed URL; empty means ask the URLProvider
	Feed      FeedOptions
}

// ConfigFromSettings derives a LoadConfig from the profile. Recurrences are
// expanded from config.DefaultFeedPastDays before now to
// config.DefaultFeedAheadDays after it.
func ConfigFromSettings(s *config.Settings, now time.Time) (LoadConfig, error) {
	loc, err := s.Location()
	if err != nil {
		return LoadConfig{}, err
	}
	return LoadConfig{
		Mode:      s.SourceMode,
		LocalPath: s.LocalPath,
		FeedURL:   s.FeedURL,
		Feed: FeedOptions{
			Location: loc,
			From:     now.AddDate(0, 0, -config.DefaultFeedPastDays),
			To:       now.AddDate(0, 0, config.DefaultFeedAheadDays),
		},
	}, nil
}

// Loader opens the configured source and parses it into assignments.
type Loader struct {
	Fetcher FeedFetcher // Interface for network abstraction.
	Secrets URLProvider // Optional; consulted when LoadConfig.FeedURL is empty.

	// Cache is optional. In web mode every feed that parses is stored there,
	// and a failed fetch falls back to the stored copy.
	Cache *FeedCache
}

// Load executes the open and parse steps.
func (l *Loader) Load(ctx context.Context, cfg LoadConfig) ([]Assignment, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompFeed,
		config.LogKeyMode, cfg.Mode,
	)
	log.DebugContext(ctx, config.MsgLoadStarted)

	reader, fresh, err := l.open(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrFeedOpen, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []Assignment
	if fresh && l.Cache != nil {
		records, err = l.parseAndStore(reader, cfg.Feed)
	} else {
		records, err = ParseFeed(reader, cfg.Feed)
	}
	if err != nil {
		return nil, err
	}

	log.Debug(config.MsgLoadFinished,
		config.LogKeyRecords, len(records),
		config.LogKeyDuration, time.Since(start).Milliseconds())
	return records, nil
}

// parseAndStore parses a freshly fetched feed and caches it once it parsed.
func (l *Loader) parseAndStore(r io.Reader, opts FeedOptions) ([]Assignment, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFeedRead, err)
	}
	records, err := ParseFeed(bytes.NewReader(data), opts)
	if err != nil {
		return nil, err
	}

	log := slog.With(config.LogKeyComponent, config.CompCache, config.LogKeyPath, l.Cache.Path)
	if err := l.Cache.Store(data); err != nil {
		log.Warn(config.MsgCacheStoreErr, config.LogKeyError, err)
	} else {
		log.Debug(config.MsgCacheStored, config.LogKeySizeBytes, len(data))
	}
	return records, nil
}

// open returns the stream for the configured mode. fresh reports a feed
// that was just downloaded, as opposed to a local file or the cached copy.
func (l *Loader) open(ctx context.Context, cfg LoadConfig) (rc io.ReadCloser, fresh bool, err error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, false, errors.New(config.ErrLocalPathEmpty)
		}
		rc, err = os.Open(cfg.LocalPath)
		return rc, false, err
	case config.SourceModeWeb:
		feedURL := cfg.FeedURL
		if feedURL == "" && l.Secrets != nil {
			u, err := l.Secrets.FeedURL()
			if err != nil {
				return nil, false, err
			}
			feedURL = u
		}
		if feedURL == "" {
			return nil, false, errors.New(config.ErrWebURLEmpty)
		}
		if l.Fetcher == nil {
			return nil, false, errors.New(config.ErrFetcherMissing)
		}
		rc, err = l.Fetcher.Fetch(ctx, feedURL)
		if err == nil {
			return rc, true, nil
		}
		if l.Cache == nil || ctx.Err() != nil {
			return nil, false, err
		}
		cached, cacheErr := l.Cache.Open()
		if cacheErr != nil {
			return nil, false, errors.Join(err, cacheErr)
		}
		slog.Warn(config.MsgCacheFallback,
			config.LogKeyComponent, config.CompCache,
			config.LogKeyPath, l.Cache.Path,
			config.LogKeyError, err)
		return cached, false, nil
	default:
		return nil, false, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}
