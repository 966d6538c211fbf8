package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/engine"
	"github.com/zalando/go-keyring"
)

const feed = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//Instructure//Canvas//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:event-assignment-7\r\n" +
	"DTSTAMP:20250301T000000Z\r\n" +
	"DTSTART:20250305T235900Z\r\n" +
	"SUMMARY:Lab report [CHEM 110]\r\n" +
	"URL:https://canvas.example.edu/courses/42/assignments/7\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

// writeProfile stores a local-mode settings file next to an .ics export.
func writeProfile(t *testing.T, lang string) string {
	t.Helper()
	dir := t.TempDir()
	ics := filepath.Join(dir, "feed.ics")
	require.NoError(t, os.WriteFile(ics, []byte(feed), config.FilePermUserRW))

	s := config.DefaultSettings()
	s.SourceMode = config.SourceModeLocal
	s.LocalPath = ics
	s.Timezone = "UTC"
	s.Language = lang

	path := filepath.Join(dir, config.SettingsFileName)
	require.NoError(t, config.SaveSettings(path, s))
	return path
}

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"-debug", "-serve", "-config", "x.yaml", "-week", "2025-03-05"})
	require.NoError(t, err)
	assert.Equal(t, options{debug: true, serve: true, config: "x.yaml", week: "2025-03-05"}, o)

	_, err = parseFlags([]string{"-nope"})
	assert.Error(t, err)
}

func TestRunMain_Version(t *testing.T) {
	var out bytes.Buffer
	assert.Equal(t, config.ExitCodeSuccess, runMain([]string{"-version"}, &out))
	assert.True(t, strings.HasPrefix(out.String(), config.AppName+" version "+config.Version))
}

func TestClockFor(t *testing.T) {
	s := config.DefaultSettings()
	s.Timezone = "UTC"

	c, err := clockFor("", s)
	require.NoError(t, err)
	assert.IsType(t, engine.RealClock{}, c)

	c, err = clockFor("2025-03-05", s)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), c.Now())

	_, err = clockFor("05/03/2025", s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrDateParse)
}

func TestRun_OneShot(t *testing.T) {
	var out bytes.Buffer
	opts := options{config: writeProfile(t, "en"), week: "2025-03-05"}

	require.NoError(t, run(context.Background(), opts, &out))
	assert.Contains(t, out.String(), "CHEM 110")
	assert.Contains(t, out.String(), "Lab report")
}

func TestRun_OneShotFrench(t *testing.T) {
	var out bytes.Buffer
	opts := options{config: writeProfile(t, "fr"), week: "2025-03-05"}

	require.NoError(t, run(context.Background(), opts, &out))
	assert.Contains(t, out.String(), "Lab report")
	assert.NotContains(t, out.String(), "Week of")
}

func TestRun_SaveFeed(t *testing.T) {
	keyring.MockInit()
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), options{saveFeed: "https://canvas.example.edu/feeds/calendars/user_x.ics"}, &out))
	assert.Equal(t, config.MsgSavedFeedOut, out.String())

	got, err := keyring.Get(config.KeyringService, config.KeyringFeedUser)
	require.NoError(t, err)
	assert.Equal(t, "https://canvas.example.edu/feeds/calendars/user_x.ics", got)
}

func TestRun_SaveToken(t *testing.T) {
	keyring.MockInit()
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), options{saveToken: "7~abc"}, &out))
	assert.Equal(t, config.MsgSavedTokenOut, out.String())

	got, err := keyring.Get(config.KeyringService, config.KeyringTokenUser)
	require.NoError(t, err)
	assert.Equal(t, "7~abc", got)
}

func TestRun_OneShotWithAnnouncements(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(config.KeyringService, config.KeyringTokenUser, "7~abc"))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"course_42"}, r.URL.Query()[config.APIParamContext])
		_, _ = w.Write([]byte(`[{"id": 3, "title": "Goggles required", "posted_at": "2025-03-04T08:00:00Z", "context_code": "course_42"}]`))
	}))
	defer ts.Close()

	path := writeProfile(t, "en")
	s, err := config.LoadSettings(path)
	require.NoError(t, err)
	s.CanvasURL = ts.URL
	require.NoError(t, config.SaveSettings(path, s))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), options{config: path, week: "2025-03-05"}, &out))
	assert.Contains(t, out.String(), "Announcements")
	assert.Contains(t, out.String(), "Goggles required")
}

func TestRun_BadWeek(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), options{config: writeProfile(t, "en"), week: "tomorrow"}, &out)
	require.Error(t, err)
	assert.Empty(t, out.String())
}
