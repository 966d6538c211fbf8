package render

import (
	"embed"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-planner/internal/config"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var weekdayKeys = [7]string{
	config.TKeySunday,
	config.TKeyMonday,
	config.TKeyTuesday,
	config.TKeyWednesday,
	config.TKeyThursday,
	config.TKeyFriday,
	config.TKeySaturday,
}

// Translator renders localized strings from the embedded locale files.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer

	// Languages lists the locale codes found in the embedded files.
	Languages []string
	// Tag is the language actually selected.
	Tag language.Tag
}

// NewTranslator loads every embedded locale and selects the best match for lang.
// Unknown languages fall back to English.
func NewTranslator(lang string) *Translator {
	t := &Translator{bundle: i18n.NewBundle(language.English)}
	t.bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, "active.") || !strings.HasSuffix(name, ".json") {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		langCode := strings.TrimSuffix(strings.TrimPrefix(name, "active."), ".json")
		if langCode == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := t.bundle.LoadMessageFileFS(localeFS, "locales/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		t.Languages = append(t.Languages, langCode)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, langCode,
			config.LogKeyFile, name,
		)
	}

	t.SetLanguage(lang)
	return t
}

// SetLanguage switches the active locale.
func (t *Translator) SetLanguage(lang string) {
	if lang == "" {
		lang = config.DefaultLanguage
	}
	tags := t.bundle.LanguageTags()
	if len(tags) == 0 {
		tags = []language.Tag{language.English}
	}
	tag, _ := language.MatchStrings(language.NewMatcher(tags), lang)
	base, _ := tag.Base()
	t.Tag = language.Make(base.String())
	t.localizer = i18n.NewLocalizer(t.bundle, t.Tag.String(), config.DefaultLanguage)
}

// Msg translates a key, falling back to the key itself.
func (t *Translator) Msg(key string) string {
	return t.localize(&i18n.LocalizeConfig{MessageID: key})
}

// MsgData translates a templated key. count selects the plural form when non-nil.
func (t *Translator) MsgData(key string, data map[string]any, count any) string {
	return t.localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
		PluralCount:  count,
	})
}

// Weekday returns the short localized name of d.
func (t *Translator) Weekday(d time.Weekday) string {
	return t.Msg(weekdayKeys[d])
}

// Date formats d with the locale's date layout.
func (t *Translator) Date(d time.Time) string {
	layout := t.Msg(config.TKeyDateFmt)
	if layout == config.TKeyDateFmt {
		layout = config.DateFormat
	}
	return d.Format(layout)
}

func (t *Translator) localize(lc *i18n.LocalizeConfig) string {
	if t == nil || t.localizer == nil {
		return lc.MessageID
	}
	msg, err := t.localizer.Localize(lc)
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, lc.MessageID,
			config.LogKeyError, err,
		)
		return lc.MessageID
	}
	return msg
}
