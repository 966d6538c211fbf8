package source

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tartampluch/go-planner/internal/config"
	"github.com/zalando/go-keyring"
)

// SecretStore keeps the Canvas feed URL and API token in the OS keyring.
type SecretStore struct {
	Service   string
	User      string // feed URL entry
	TokenUser string // API token entry
}

// NewSecretStore returns a store bound to the application's keyring entries.
func NewSecretStore() *SecretStore {
	return &SecretStore{
		Service:   config.KeyringService,
		User:      config.KeyringFeedUser,
		TokenUser: config.KeyringTokenUser,
	}
}

// FeedURL returns the stored URL, or "" when none was saved.
func (s *SecretStore) FeedURL() (string, error) {
	return s.get(s.User)
}

// APIToken returns the stored Canvas access token, or "" when none was saved.
func (s *SecretStore) APIToken() (string, error) {
	return s.get(s.TokenUser)
}

// SaveAPIToken stores token, replacing any previous value.
func (s *SecretStore) SaveAPIToken(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New(config.ErrTokenEmpty)
	}
	if err := keyring.Set(s.Service, s.TokenUser, token); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSecretSet, err)
	}
	slog.Info(config.MsgTokenSaved, config.LogKeyComponent, config.CompSecrets)
	return nil
}

func (s *SecretStore) get(user string) (string, error) {
	v, err := keyring.Get(s.Service, user)
	if errors.Is(err, keyring.ErrNotFound) {
		slog.Debug(config.MsgSecretMissing,
			config.LogKeyComponent, config.CompSecrets,
			config.LogKeyKey, user)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrSecretGet, err)
	}
	return v, nil
}

// SaveFeedURL stores url, replacing any previous value.
func (s *SecretStore) SaveFeedURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return errors.New(config.ErrWebURLEmpty)
	}
	if err := keyring.Set(s.Service, s.User, url); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSecretSet, err)
	}
	slog.Info(config.MsgFeedSaved, config.LogKeyComponent, config.CompSecrets)
	return nil
}
