package render_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-planner/internal/config"
	"github.com/tartampluch/go-planner/internal/render"
)

// TestI18nIntegrity ensures that every translation key defined in config.go
// exists in every locale file.
func TestI18nIntegrity(t *testing.T) {
	keysToCheck := []string{
		config.TKeySunday,
		config.TKeyMonday,
		config.TKeyTuesday,
		config.TKeyWednesday,
		config.TKeyThursday,
		config.TKeyFriday,
		config.TKeySaturday,
		config.TKeyWeekOf,
		config.TKeyNoCourses,
		config.TKeyBarsCount,
		config.TKeyHiddenCnt,
		config.TKeyUntitled,
		config.TKeyDateFmt,
		config.TKeyNotices,
	}
	definedKeys := make(map[string]bool)
	for _, k := range keysToCheck {
		definedKeys[k] = true
	}

	files, err := filepath.Glob(filepath.Join("locales", "active.*.json"))
	require.NoError(t, err)
	require.Len(t, files, len(config.SupportedLanguages), "one locale file per supported language")

	for _, path := range files {
		content, err := os.ReadFile(path)
		require.NoError(t, err)

		var jsonMap map[string]any
		require.NoError(t, json.Unmarshal(content, &jsonMap), "%s must be valid JSON", path)

		for key := range definedKeys {
			_, exists := jsonMap[key]
			assert.Truef(t, exists, "Key '%s' defined in config.go is missing in %s", key, path)
		}
		for jsonKey := range jsonMap {
			if strings.HasPrefix(jsonKey, "_") {
				continue
			}
			assert.Truef(t, definedKeys[jsonKey], "Key '%s' in %s is not defined in config.go", jsonKey, path)
		}
	}
}

func TestTranslator_LanguageSelection(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"en", "en"},
		{"fr", "fr"},
		{"fr-CA", "fr"},
		{"de", "en"},
		{"", "en"},
	}

	for _, tt := range tests {
		tr := render.NewTranslator(tt.lang)
		assert.Equal(t, tt.want, tr.Tag.String(), "lang %q", tt.lang)
	}

	assert.ElementsMatch(t, config.SupportedLanguages, render.NewTranslator("en").Languages)
}

func TestTranslator_Messages(t *testing.T) {
	tr := render.NewTranslator("en")

	assert.Equal(t, "Tue", tr.Weekday(time.Tuesday))
	assert.Equal(t, "Mar 2", tr.Date(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2 assignments start next week",
		tr.MsgData(config.TKeyHiddenCnt, map[string]any{"Count": 2}, 2))
	assert.Equal(t, "1 row, 3 shown",
		tr.MsgData(config.TKeyBarsCount, map[string]any{"Rows": 1, "Rendered": 3}, 1))
	assert.Equal(t, "unknown_key", tr.Msg("unknown_key"), "missing keys fall back to the key")

	tr.SetLanguage("fr")
	assert.Equal(t, "mar.", tr.Weekday(time.Tuesday))
	assert.Equal(t, "02/03", tr.Date(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)))
}

func TestTranslator_Nil(t *testing.T) {
	var tr *render.Translator
	assert.Equal(t, config.TKeyNoCourses, tr.Msg(config.TKeyNoCourses))
}
