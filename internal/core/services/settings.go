package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driven"
	"github.com/custodia-labs/lifeops/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyStorageBackend   = "storage.backend"
	keyStorageDataDir   = "storage.data_dir"
	keyStorageSlotKey   = "storage.slot_key"
	keyPostgresDSN      = "storage.postgres_dsn"
	keyS3Bucket         = "storage.s3_bucket"
	keyS3Region         = "storage.s3_region"
	keyS3Endpoint       = "storage.s3_endpoint"
	keyS3PathStyle      = "storage.s3_path_style"
	keyCategories       = "items.categories"
	keyDefaultCategory  = "items.default_category"
	keyCommitPolicy     = "engine.commit_policy"
	keyTemplatesFile    = "routine.templates_file"
	keyRoutineDays      = "routine.default_days"
	keyGoogleCalendarID = "calendar.google_calendar_id"
	keyGoogleToken      = "calendar.google_token"
	keyGitHubToken      = "github.token"
	keyMetricsAddr      = "metrics.addr"
)

type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindBool
	kindList
)

// settingKeys lists every key SetValue accepts.
var settingKeys = map[string]keyKind{
	keyStorageBackend:   kindString,
	keyStorageDataDir:   kindString,
	keyStorageSlotKey:   kindString,
	keyPostgresDSN:      kindString,
	keyS3Bucket:         kindString,
	keyS3Region:         kindString,
	keyS3Endpoint:       kindString,
	keyS3PathStyle:      kindBool,
	keyCategories:       kindList,
	keyDefaultCategory:  kindString,
	keyCommitPolicy:     kindString,
	keyTemplatesFile:    kindString,
	keyRoutineDays:      kindInt,
	keyGoogleCalendarID: kindString,
	keyGoogleToken:      kindString,
	keyGitHubToken:      kindString,
	keyMetricsAddr:      kindString,
}

// SettingKeys returns every supported config key in sorted order.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKeys))
	for k := range settingKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := &domain.Settings{
		Storage: domain.StorageSettings{
			Backend:     s.getBackend(defaults.Storage.Backend),
			DataDir:     s.configStore.GetString(keyStorageDataDir), // No default - resolved against the config dir
			SlotKey:     s.getString(keyStorageSlotKey, defaults.Storage.SlotKey),
			PostgresDSN: s.configStore.GetString(keyPostgresDSN),
			S3Bucket:    s.configStore.GetString(keyS3Bucket),
			S3Region:    s.getString(keyS3Region, defaults.Storage.S3Region),
			S3Endpoint:  s.configStore.GetString(keyS3Endpoint),
			S3PathStyle: s.getBool(keyS3PathStyle, defaults.Storage.S3PathStyle),
		},
		Items: domain.ItemSettings{
			Categories:      s.getStringSlice(keyCategories, defaults.Items.Categories),
			DefaultCategory: s.getString(keyDefaultCategory, defaults.Items.DefaultCategory),
		},
		Engine: domain.EngineSettings{
			CommitPolicy: s.getCommitPolicy(defaults.Engine.CommitPolicy),
		},
		Routine: domain.RoutineSettings{
			TemplatesFile: s.configStore.GetString(keyTemplatesFile),
			DefaultDays:   s.getInt(keyRoutineDays, defaults.Routine.DefaultDays),
		},
		Calendar: domain.CalendarSettings{
			GoogleCalendarID: s.getString(keyGoogleCalendarID, defaults.Calendar.GoogleCalendarID),
			GoogleToken:      s.configStore.GetString(keyGoogleToken),
		},
		GitHub: domain.GitHubSettings{
			Token: s.configStore.GetString(keyGitHubToken),
		},
		Metrics: domain.MetricsSettings{
			Addr: s.configStore.GetString(keyMetricsAddr),
		},
	}

	return settings, nil
}

// Save persists application settings. Empty secrets are not written.
func (s *SettingsService) Save(settings *domain.Settings) error {
	values := []struct {
		key   string
		value any
		skip  bool
	}{
		{keyStorageBackend, settings.Storage.Backend.String(), false},
		{keyStorageDataDir, settings.Storage.DataDir, settings.Storage.DataDir == ""},
		{keyStorageSlotKey, settings.Storage.SlotKey, false},
		{keyPostgresDSN, settings.Storage.PostgresDSN, settings.Storage.PostgresDSN == ""},
		{keyS3Bucket, settings.Storage.S3Bucket, settings.Storage.S3Bucket == ""},
		{keyS3Region, settings.Storage.S3Region, false},
		{keyS3Endpoint, settings.Storage.S3Endpoint, settings.Storage.S3Endpoint == ""},
		{keyS3PathStyle, settings.Storage.S3PathStyle, false},
		{keyCategories, settings.Items.Categories, false},
		{keyDefaultCategory, settings.Items.DefaultCategory, false},
		{keyCommitPolicy, string(settings.Engine.CommitPolicy), false},
		{keyTemplatesFile, settings.Routine.TemplatesFile, settings.Routine.TemplatesFile == ""},
		{keyRoutineDays, settings.Routine.DefaultDays, false},
		{keyGoogleCalendarID, settings.Calendar.GoogleCalendarID, false},
		{keyGoogleToken, settings.Calendar.GoogleToken, settings.Calendar.GoogleToken == ""},
		{keyGitHubToken, settings.GitHub.Token, settings.GitHub.Token == ""},
		{keyMetricsAddr, settings.Metrics.Addr, settings.Metrics.Addr == ""},
	}

	for _, v := range values {
		if v.skip {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// GetValue returns the raw value stored for key.
func (s *SettingsService) GetValue(key string) (any, bool) {
	return s.configStore.Get(key)
}

// SetValue parses value according to key's type, validates it and stores it.
func (s *SettingsService) SetValue(key, value string) error {
	kind, ok := settingKeys[key]
	if !ok {
		return fmt.Errorf("%w: unknown config key %q", domain.ErrInvalidInput, key)
	}
	value = strings.TrimSpace(value)

	var parsed any
	switch kind {
	case kindInt:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case kindList:
		var list []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				list = append(list, part)
			}
		}
		parsed = list
	default:
		parsed = value
	}

	switch key {
	case keyStorageBackend:
		if !domain.StorageBackend(value).IsValid() {
			return fmt.Errorf("%w: invalid storage backend %q", domain.ErrInvalidInput, value)
		}
	case keyCommitPolicy:
		if !domain.CommitPolicyName(value).IsValid() {
			return fmt.Errorf("%w: invalid commit policy %q", domain.ErrInvalidInput, value)
		}
	case keyRoutineDays:
		if n := parsed.(int); n < 1 || n > 90 {
			return fmt.Errorf("%w: %s must be between 1 and 90", domain.ErrInvalidInput, key)
		}
	case keyCategories:
		if len(parsed.([]string)) == 0 {
			return fmt.Errorf("%w: %s needs at least one category", domain.ErrInvalidInput, key)
		}
	}

	return s.configStore.Set(key, parsed)
}

// Validate checks the current settings for consistency.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("invalid storage backend: %s", settings.Storage.Backend)
	}
	switch settings.Storage.Backend {
	case domain.StoragePostgres:
		if settings.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage backend %q requires %s", settings.Storage.Backend.Description(), keyPostgresDSN)
		}
	case domain.StorageS3:
		if settings.Storage.S3Bucket == "" {
			return fmt.Errorf("storage backend %q requires %s", settings.Storage.Backend.Description(), keyS3Bucket)
		}
	}

	categories := settings.CategorySet()
	if len(categories) == 0 {
		return fmt.Errorf("%s must list at least one category", keyCategories)
	}
	if !categories.Contains(settings.Items.DefaultCategory) {
		return fmt.Errorf("default category %q is not in %s", settings.Items.DefaultCategory, keyCategories)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return append([]string(nil), defaultVal...)
	}
	return val
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	backend := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getCommitPolicy(defaultVal domain.CommitPolicyName) domain.CommitPolicyName {
	policy := domain.CommitPolicyName(s.configStore.GetString(keyCommitPolicy))
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}
