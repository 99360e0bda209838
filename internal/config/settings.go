package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Settings is the user configuration. It is read from a YAML file, then
// overridden by CONGRATS_* environment variables (optionally from a .env file).
type Settings struct {
	// BaseURL is the root of the congratulations backend.
	BaseURL  string `yaml:"base_url" env:"BASE_URL"`
	Username string `yaml:"username" env:"USERNAME"`

	// Language selects the UI translation; Collation the search and sort rules.
	Language  string `yaml:"language" env:"LANGUAGE"`
	Collation string `yaml:"collation" env:"COLLATION"`

	FeedPort    string `yaml:"feed_port" env:"FEED_PORT"`
	PageSize    int    `yaml:"page_size" env:"PAGE_SIZE"`
	RefreshCron string `yaml:"refresh_cron" env:"REFRESH_CRON"`
	WeekStart   string `yaml:"week_start" env:"WEEK_START"`

	Reminder ReminderSettings `yaml:"reminder" envPrefix:"REMINDER_"`
	Import   ImportSettings   `yaml:"import" envPrefix:"IMPORT_"`
}

// ReminderSettings configures the alarm attached to feed events.
type ReminderSettings struct {
	Enabled   bool   `yaml:"enabled" env:"ENABLED"`
	Value     int    `yaml:"value" env:"VALUE"`
	Unit      string `yaml:"unit" env:"UNIT"`
	Direction string `yaml:"direction" env:"DIRECTION"`
}

// ImportSettings remembers the last vCard source. Passwords are never stored here.
type ImportSettings struct {
	Mode      string `yaml:"mode" env:"MODE"`
	LocalPath string `yaml:"local_path" env:"LOCAL_PATH"`
	URL       string `yaml:"url" env:"URL"`
	User      string `yaml:"user" env:"USER"`
}

// DefaultSettings returns the first-run configuration.
func DefaultSettings() *Settings {
	return &Settings{
		BaseURL:     DefaultBaseURL,
		Language:    DefaultLanguage,
		Collation:   DefaultCollation,
		FeedPort:    DefaultPort,
		PageSize:    DefaultPageSize,
		RefreshCron: DefaultRefreshCron,
		WeekStart:   DefaultWeekStart,
		Reminder: ReminderSettings{
			Value:     DefaultReminderValue,
			Unit:      UnitDays,
			Direction: DirBefore,
		},
		Import: ImportSettings{Mode: SourceModeLocal},
	}
}

// Normalize fills zero values with defaults so older files keep working.
func (s *Settings) Normalize() {
	d := DefaultSettings()
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if s.BaseURL == "" {
		s.BaseURL = d.BaseURL
	}
	if s.Language == "" {
		s.Language = d.Language
	}
	if s.Collation == "" {
		s.Collation = s.Language
	}
	if s.FeedPort == "" {
		s.FeedPort = d.FeedPort
	}
	if s.PageSize == 0 {
		s.PageSize = d.PageSize
	}
	if s.RefreshCron == "" {
		s.RefreshCron = d.RefreshCron
	}
	s.WeekStart = strings.ToLower(strings.TrimSpace(s.WeekStart))
	if s.WeekStart == "" {
		s.WeekStart = d.WeekStart
	}
	if s.Reminder.Value <= 0 {
		s.Reminder.Value = d.Reminder.Value
	}
	switch s.Reminder.Unit {
	case UnitDays, UnitHours, UnitMinutes:
	default:
		s.Reminder.Unit = d.Reminder.Unit
	}
	if s.Reminder.Direction != DirAfter {
		s.Reminder.Direction = DirBefore
	}
	if s.Import.Mode != SourceModeWeb {
		s.Import.Mode = SourceModeLocal
	}
}

// Validate reports every setting that cannot be used as is.
func (s *Settings) Validate() error {
	var errs []error

	if u, err := url.Parse(s.BaseURL); err != nil || (u.Scheme != SchemeHTTP && u.Scheme != SchemeHTTPS) || u.Host == "" {
		errs = append(errs, fmt.Errorf("%s: %q", ErrBaseURL, s.BaseURL))
	}
	if _, err := language.Parse(s.Language); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", ErrLanguage, err))
	}
	if _, err := language.Parse(s.Collation); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", ErrLanguage, err))
	}
	if err := ValidatePort(s.FeedPort); err != nil {
		errs = append(errs, err)
	}
	if !slices.Contains(PageSizeOptions, s.PageSize) {
		errs = append(errs, fmt.Errorf("%s: %d", ErrPageSize, s.PageSize))
	}
	if _, err := cron.ParseStandard(s.RefreshCron); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", ErrCronSpec, err))
	}
	if s.WeekStart != WeekStartMonday && s.WeekStart != WeekStartSunday {
		errs = append(errs, fmt.Errorf("%s: %q", ErrWeekStart, s.WeekStart))
	}
	return errors.Join(errs...)
}

// ValidatePort checks a TCP port given as text.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrPortNumber, err)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}

// WeekDay is the first column of the calendar.
func (s *Settings) WeekDay() time.Weekday {
	if s.WeekStart == WeekStartSunday {
		return time.Sunday
	}
	return time.Monday
}

// CollationTag is the language used to fold and order names.
func (s *Settings) CollationTag() language.Tag {
	tag, err := language.Parse(s.Collation)
	if err != nil {
		return language.Russian
	}
	return tag
}

// DefaultSettingsPath is the settings file in the user config directory.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppID, SettingsFileName), nil
}

// Load reads the settings at path. A missing file is created with defaults.
// Environment variables, including those of a .env file next to the settings
// or in the working directory, take precedence over the file.
func Load(path string) (*Settings, error) {
	log := slog.With(LogKeyComponent, CompConfig, LogKeyFile, path)

	s := DefaultSettings()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := s.Save(path); err != nil {
			return nil, err
		}
		log.Info(MsgSettingsNew)
	case err != nil:
		return nil, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	default:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrSettingsParse, err)
		}
	}

	for _, f := range []string{filepath.Join(filepath.Dir(path), EnvFileName), EnvFileName} {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", ErrEnvFile, err)
		}
	}
	if err := env.Parse(s, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrEnvParse, err)
	}

	s.Normalize()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Save writes the settings atomically with owner-only permissions.
func (s *Settings) Save(path string) error {
	s.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", ErrCreateDir, err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrSettingsWrite, err)
	}

	tmp, err := os.CreateTemp(dir, ".settings-*.tmp")
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

	slog.Debug(MsgSettingsSave, LogKeyComponent, CompConfig, LogKeyFile, path)
	return nil
}
