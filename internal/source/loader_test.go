package source_test

import (
	"context"
	"errors"
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

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockFetcher simulates the network layer using `testify/mock`.
type MockFetcher struct {
	mock.Mock
}

// Fetch implements the source.FeedFetcher interface.
func (m *MockFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	args := m.Called(ctx, url)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockURLs stands in for the keyring.
type MockURLs struct {
	url string
	err error
}

func (m MockURLs) FeedURL() (string, error) {
	return m.url, m.err
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestLoad_Local_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.ics")
	require.NoError(t, os.WriteFile(path, []byte(sampleFeed), 0o600))

	l := &source.Loader{}
	got, err := l.Load(context.Background(), source.LoadConfig{
		Mode:      config.SourceModeLocal,
		LocalPath: path,
		Feed:      source.FeedOptions{Location: time.UTC},
	})

	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestLoad_Web_UsesConfiguredURL(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, "https://canvas.example.edu/feed.ics").
		Return(io.NopCloser(strings.NewReader(sampleFeed)), nil)

	l := &source.Loader{Fetcher: fetcher, Secrets: MockURLs{url: "https://ignored.example.edu"}}
	got, err := l.Load(context.Background(), source.LoadConfig{
		Mode:    config.SourceModeWeb,
		FeedURL: "https://canvas.example.edu/feed.ics",
		Feed:    source.FeedOptions{Location: time.UTC},
	})

	require.NoError(t, err)
	assert.Len(t, got, 2)
	fetcher.AssertExpectations(t)
}

func TestLoad_Web_FallsBackToKeyring(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("Fetch", mock.Anything, "https://canvas.example.edu/secret.ics").
		Return(io.NopCloser(strings.NewReader(sampleFeed)), nil)

	l := &source.Loader{Fetcher: fetcher, Secrets: MockURLs{url: "https://canvas.example.edu/secret.ics"}}
	_, err := l.Load(context.Background(), source.LoadConfig{Mode: config.SourceModeWeb})

	require.NoError(t, err)
	fetcher.AssertExpectations(t)
}

func TestLoad_Errors(t *testing.T) {
	netErr := errors.New("network unreachable")
	failing := new(MockFetcher)
	failing.On("Fetch", mock.Anything, mock.Anything).Return(nil, netErr)

	tests := []struct {
		name    string
		loader  *source.Loader
		cfg     source.LoadConfig
		wantErr string
	}{
		{"Local path missing", &source.Loader{}, source.LoadConfig{Mode: config.SourceModeLocal}, config.ErrLocalPathEmpty},
		{"Local file missing", &source.Loader{}, source.LoadConfig{Mode: config.SourceModeLocal, LocalPath: filepath.Join(t.TempDir(), "nope.ics")}, config.ErrFeedOpen},
		{"No URL anywhere", &source.Loader{Fetcher: failing, Secrets: MockURLs{}}, source.LoadConfig{Mode: config.SourceModeWeb}, config.ErrWebURLEmpty},
		{"Keyring failure", &source.Loader{Fetcher: failing, Secrets: MockURLs{err: assert.AnError}}, source.LoadConfig{Mode: config.SourceModeWeb}, assert.AnError.Error()},
		{"No fetcher", &source.Loader{}, source.LoadConfig{Mode: config.SourceModeWeb, FeedURL: "https://x"}, config.ErrFetcherMissing},
		{"Network failure", &source.Loader{Fetcher: failing}, source.LoadConfig{Mode: config.SourceModeWeb, FeedURL: "https://x"}, netErr.Error()},
		{"Unknown mode", &source.Loader{}, source.LoadConfig{Mode: "carrier-pigeon"}, config.ErrModeUnsupport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.loader.Load(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.ics")
	require.NoError(t, os.WriteFile(path, []byte(sampleFeed), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&source.Loader{}).Load(ctx, source.LoadConfig{Mode: config.SourceModeLocal, LocalPath: path})

	assert.Equal(t, context.Canceled, err, "Should return context canceled error")
}

func TestConfigFromSettings(t *testing.T) {
	s := config.DefaultSettings()
	s.SourceMode = config.SourceModeLocal
	s.LocalPath = "/tmp/export.ics"
	s.Timezone = "Europe/Paris"
	now := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)

	cfg, err := source.ConfigFromSettings(s, now)
	require.NoError(t, err)

	assert.Equal(t, config.SourceModeLocal, cfg.Mode)
	assert.Equal(t, "/tmp/export.ics", cfg.LocalPath)
	assert.Equal(t, "Europe/Paris", cfg.Feed.Location.String())
	assert.Equal(t, now.AddDate(0, 0, -config.DefaultFeedPastDays), cfg.Feed.From)
	assert.Equal(t, now.AddDate(0, 0, config.DefaultFeedAheadDays), cfg.Feed.To)

	s.Timezone = "Mars/Olympus_Mons"
	_, err = source.ConfigFromSettings(s, now)
	assert.ErrorContains(t, err, config.ErrLocation)
}
