package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings is the user profile persisted as YAML.
type Settings struct {
	// WeekStart is either "sunday" or "monday".
	WeekStart string `yaml:"week_start"`

	// Language selects the rendering locale (ISO 639-1).
	Language string `yaml:"language"`

	// SourceMode is SourceModeLocal (an .ics file) or SourceModeWeb (a Canvas feed).
	SourceMode string `yaml:"source_mode"`
	LocalPath  string `yaml:"local_path,omitempty"`

	// FeedURL is optional. When empty, the URL is read from the OS keyring
	// because Canvas feed URLs embed a private token.
	FeedURL string `yaml:"feed_url,omitempty"`

	// CanvasURL is the Canvas instance root (e.g. https://canvas.example.edu)
	// used for announcements. Empty disables them.
	CanvasURL string `yaml:"canvas_url,omitempty"`

	// Timezone is the IANA zone used to interpret due dates (empty = local).
	Timezone string `yaml:"timezone,omitempty"`

	Port string `yaml:"port"`

	// Refresh is a cron schedule for serve mode.
	Refresh string `yaml:"refresh"`

	// DefaultDurationDays applies when an assignment has no creation date.
	DefaultDurationDays int `yaml:"default_duration_days"`
	// MaxDurationDays caps derived durations.
	MaxDurationDays int `yaml:"max_duration_days"`

	// Strategy selects the row placement algorithm.
	Strategy string `yaml:"strategy"`

	// CourseNames overrides course display names by course id.
	CourseNames map[string]string `yaml:"course_names,omitempty"`
}

// DefaultSettings returns an in-memory default profile.
func DefaultSettings() *Settings {
	return &Settings{
		WeekStart:           DefaultWeekStart,
		Language:            DefaultLanguage,
		SourceMode:          DefaultSourceMode,
		Port:                DefaultPort,
		Refresh:             DefaultRefreshCron,
		DefaultDurationDays: DefaultDurationDays,
		MaxDurationDays:     DefaultMaxDuration,
		Strategy:            DefaultStrategy,
		CourseNames:         map[string]string{},
	}
}

// Normalize fills in missing or invalid values so that partially-filled
// files still behave correctly.
func (s *Settings) Normalize() {
	switch s.WeekStart {
	case WeekStartSunday, WeekStartMonday:
	default:
		s.WeekStart = DefaultWeekStart
	}

	supported := false
	for _, l := range SupportedLanguages {
		if s.Language == l {
			supported = true
			break
		}
	}
	if !supported {
		s.Language = DefaultLanguage
	}

	switch s.SourceMode {
	case SourceModeLocal, SourceModeWeb:
	default:
		s.SourceMode = DefaultSourceMode
	}

	if s.Port == "" {
		s.Port = DefaultPort
	}
	if s.Refresh == "" {
		s.Refresh = DefaultRefreshCron
	}
	if s.MaxDurationDays <= 0 {
		s.MaxDurationDays = DefaultMaxDuration
	}
	if s.DefaultDurationDays < 0 {
		s.DefaultDurationDays = DefaultDurationDays
	}
	if s.DefaultDurationDays > s.MaxDurationDays {
		s.DefaultDurationDays = s.MaxDurationDays
	}

	switch s.Strategy {
	case StrategyFirstFit, StrategyMinRows:
	default:
		s.Strategy = DefaultStrategy
	}

	if s.CourseNames == nil {
		s.CourseNames = map[string]string{}
	}
}

// SundayFirst reports whether the displayed week starts on Sunday.
func (s *Settings) SundayFirst() bool {
	return s.WeekStart != WeekStartMonday
}

// Location resolves Timezone; an empty value means the local zone.
func (s *Settings) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrLocation, err)
	}
	return loc, nil
}

// LoadSettings reads the YAML profile at path.
// A missing file is created with defaults (0600) and those defaults are returned.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		return nil, errors.New(ErrSettingsPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s := DefaultSettings()
			if err := SaveSettings(path, s); err != nil {
				return s, err
			}
			slog.Info(MsgSettingsNew,
				LogKeyComponent, CompSettings,
				LogKeyFile, path)
			return s, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}
	s.Normalize()
	return s, nil
}

// SaveSettings writes s to path atomically (temp file + rename) with 0600 perms.
func SaveSettings(path string, s *Settings) error {
	if path == "" {
		return errors.New(ErrSettingsPath)
	}
	if s == nil {
		return errors.New(ErrSettingsNil)
	}

	s.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}

	tmp, err := os.CreateTemp(dir, SettingsTempGlob)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	if err := os.Chmod(tmpName, FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}
	return nil
}

// DefaultSettingsPath returns <user config dir>/<AppID>/settings.yaml.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, SettingsFileName), nil
}
