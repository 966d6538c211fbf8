package source_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/source"
)

func TestFeedCache_StoreAndOpen(t *testing.T) {
	cache := &source.FeedCache{Path: filepath.Join(t.TempDir(), "nested", config.FeedCacheFileName)}

	_, err := cache.Open()
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrCacheRead)

	require.NoError(t, cache.Store([]byte("first")))
	require.NoError(t, cache.Store([]byte(sampleFeed)))

	info, err := os.Stat(cache.Path)
	require.NoError(t, err)
	assert.Equal(t, config.FilePermUserRW, info.Mode().Perm())

	rc, err := cache.Open()
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, sampleFeed, string(body), "Store replaces the previous copy")

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(cache.Path), config.FeedCacheTempGlob))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestDefaultFeedCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cache, err := source.DefaultFeedCache()
	require.NoError(t, err)
	assert.Equal(t, config.FeedCacheFileName, filepath.Base(cache.Path))
	assert.Equal(t, config.AppID, filepath.Base(filepath.Dir(cache.Path)))
}

func TestLoad_Web_CachesAndFallsBack(t *testing.T) {
	cache := &source.FeedCache{Path: filepath.Join(t.TempDir(), config.FeedCacheFileName)}
	cfg := source.LoadConfig{
		Mode:    config.SourceModeWeb,
		FeedURL: "https://canvas.example.edu/feed.ics",
		Feed:    source.FeedOptions{Location: time.UTC},
	}

	online := new(MockFetcher)
	online.On("Fetch", mock.Anything, cfg.FeedURL).
		Return(io.NopCloser(strings.NewReader(sampleFeed)), nil).Once()

	first, err := (&source.Loader{Fetcher: online, Cache: cache}).Load(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, first, 2)

	stored, err := os.ReadFile(cache.Path)
	require.NoError(t, err)
	assert.Equal(t, sampleFeed, string(stored))

	offline := new(MockFetcher)
	offline.On("Fetch", mock.Anything, cfg.FeedURL).Return(nil, assert.AnError)

	second, err := (&source.Loader{Fetcher: offline, Cache: cache}).Load(context.Background(), cfg)
	require.NoError(t, err, "a failed fetch is served from the cached copy")
	assert.Equal(t, first, second)

	online.AssertExpectations(t)
	offline.AssertExpectations(t)
}

func TestLoad_Web_CacheEdgeCases(t *testing.T) {
	cfg := source.LoadConfig{
		Mode:    config.SourceModeWeb,
		FeedURL: "https://canvas.example.edu/feed.ics",
		Feed:    source.FeedOptions{Location: time.UTC},
	}

	t.Run("Empty cache keeps the fetch error", func(t *testing.T) {
		cache := &source.FeedCache{Path: filepath.Join(t.TempDir(), config.FeedCacheFileName)}
		offline := new(MockFetcher)
		offline.On("Fetch", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		_, err := (&source.Loader{Fetcher: offline, Cache: cache}).Load(context.Background(), cfg)
		require.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), config.ErrCacheRead)
	})

	t.Run("Unparsable feed is not cached", func(t *testing.T) {
		cache := &source.FeedCache{Path: filepath.Join(t.TempDir(), config.FeedCacheFileName)}
		require.NoError(t, cache.Store([]byte(sampleFeed)))

		broken := new(MockFetcher)
		broken.On("Fetch", mock.Anything, mock.Anything).
			Return(io.NopCloser(strings.NewReader("BEGIN:VCALENDAR\r\nnot a calendar")), nil)

		_, err := (&source.Loader{Fetcher: broken, Cache: cache}).Load(context.Background(), cfg)
		require.Error(t, err)

		stored, err := os.ReadFile(cache.Path)
		require.NoError(t, err)
		assert.Equal(t, sampleFeed, string(stored))
	})

	t.Run("Cancelled context skips the cache", func(t *testing.T) {
		cache := &source.FeedCache{Path: filepath.Join(t.TempDir(), config.FeedCacheFileName)}
		require.NoError(t, cache.Store([]byte(sampleFeed)))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		offline := new(MockFetcher)
		offline.On("Fetch", mock.Anything, mock.Anything).Return(nil, context.Canceled)

		_, err := (&source.Loader{Fetcher: offline, Cache: cache}).Load(ctx, cfg)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
