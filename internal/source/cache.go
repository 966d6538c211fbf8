package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tartampluch/go-planner/internal/config"
)

// FeedCache keeps the last successfully fetched feed on disk so that a
// later run can still render when Canvas is unreachable.
type FeedCache struct {
	Path string
}

// DefaultFeedCache returns a cache at <user cache dir>/<AppID>/feed.ics.
func DefaultFeedCache() (*FeedCache, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}
	return &FeedCache{Path: filepath.Join(dir, config.AppID, config.FeedCacheFileName)}, nil
}

// Store replaces the cached copy atomically (temp file + rename) with 0600 perms.
func (c *FeedCache) Store(data []byte) error {
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	tmp, err := os.CreateTemp(dir, config.FeedCacheTempGlob)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrCacheWrite, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", config.ErrCacheWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCacheWrite, err)
	}
	if err := os.Chmod(tmpName, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCacheWrite, err)
	}
	if err := os.Rename(tmpName, c.Path); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCacheWrite, err)
	}
	return nil
}

// Open returns the cached copy.
func (c *FeedCache) Open() (io.ReadCloser, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCacheRead, err)
	}
	return f, nil
}
