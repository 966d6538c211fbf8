package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/source"
	"github.com/zalando/go-keyring"
)

func TestSecretStore_RoundTrip(t *testing.T) {
	keyring.MockInit()
	store := source.NewSecretStore()

	got, err := store.FeedURL()
	require.NoError(t, err)
	assert.Empty(t, got, "nothing stored yet")

	require.NoError(t, store.SaveFeedURL("  https://canvas.example.edu/feeds/calendars/user_abc.ics \n"))

	got, err = store.FeedURL()
	require.NoError(t, err)
	assert.Equal(t, "https://canvas.example.edu/feeds/calendars/user_abc.ics", got)

	raw, err := keyring.Get(config.KeyringService, config.KeyringFeedUser)
	require.NoError(t, err)
	assert.Equal(t, got, raw)
}

func TestSecretStore_APIToken(t *testing.T) {
	keyring.MockInit()
	store := source.NewSecretStore()

	got, err := store.APIToken()
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, store.SaveFeedURL("https://canvas.example.edu/feeds/calendars/user_abc.ics"))
	require.NoError(t, store.SaveAPIToken(" 7~secret\n"))

	got, err = store.APIToken()
	require.NoError(t, err)
	assert.Equal(t, "7~secret", got)

	feed, err := store.FeedURL()
	require.NoError(t, err)
	assert.Equal(t, "https://canvas.example.edu/feeds/calendars/user_abc.ics", feed, "entries are independent")

	assert.EqualError(t, store.SaveAPIToken(" "), config.ErrTokenEmpty)
}

func TestSecretStore_RejectsEmpty(t *testing.T) {
	keyring.MockInit()

	err := source.NewSecretStore().SaveFeedURL("   ")
	require.Error(t, err)
	assert.Equal(t, config.ErrWebURLEmpty, err.Error())
}

func TestSecretStore_BackendError(t *testing.T) {
	keyring.MockInitWithError(assert.AnError)
	store := source.NewSecretStore()

	_, err := store.FeedURL()
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), config.ErrSecretGet)

	err = store.SaveFeedURL("https://example.com/feed.ics")
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), config.ErrSecretSet)
}
