package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lifeops/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lifeops/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultSettings()
	assert.Equal(t, defaults.Storage.Backend, settings.Storage.Backend)
	assert.Equal(t, defaults.Storage.SlotKey, settings.Storage.SlotKey)
	assert.Equal(t, defaults.Items.Categories, settings.Items.Categories)
	assert.Equal(t, domain.CommitMajority, settings.Engine.CommitPolicy)
	assert.Equal(t, 7, settings.Routine.DefaultDays)
	assert.Equal(t, "primary", settings.Calendar.GoogleCalendarID)
	assert.False(t, settings.Calendar.IsConfigured())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"storage.backend":       "s3",
		"storage.s3_bucket":     "life",
		"storage.s3_path_style": true,
		"items.categories":      []any{"work", "home"},
		"engine.commit_policy":  "strict",
		"routine.default_days":  14,
	})

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.StorageS3, settings.Storage.Backend)
	assert.Equal(t, "life", settings.Storage.S3Bucket)
	assert.True(t, settings.Storage.S3PathStyle)
	assert.Equal(t, []string{"work", "home"}, settings.Items.Categories)
	assert.Equal(t, domain.CommitStrict, settings.Engine.CommitPolicy)
	assert.Equal(t, 14, settings.Routine.DefaultDays)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		"storage.backend":      "floppy",
		"engine.commit_policy": "sometimes",
	})

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.StorageSQLite, settings.Storage.Backend)
	assert.Equal(t, domain.CommitMajority, settings.Engine.CommitPolicy)
}

func TestSettingsService_SaveSkipsEmptySecrets(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	settings := domain.DefaultSettings()
	settings.GitHub.Token = "ghp_x"
	require.NoError(t, service.Save(&settings))

	_, ok := store.Get("calendar.google_token")
	assert.False(t, ok)
	assert.Equal(t, "ghp_x", store.GetString("github.token"))
	assert.Equal(t, "sqlite", store.GetString("storage.backend"))
}

func TestSettingsService_SetValue(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetValue("storage.backend", "postgres"))
	require.NoError(t, service.SetValue("routine.default_days", " 30 "))
	require.NoError(t, service.SetValue("storage.s3_path_style", "true"))
	require.NoError(t, service.SetValue("items.categories", "work, home,,health"))

	assert.Equal(t, "postgres", store.GetString("storage.backend"))
	assert.Equal(t, 30, store.GetInt("routine.default_days"))
	assert.True(t, store.GetBool("storage.s3_path_style"))
	assert.Equal(t, []string{"work", "home", "health"}, store.GetStringSlice("items.categories"))
}

func TestSettingsService_SetValue_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"nope.key", "x"},
		{"storage.backend", "floppy"},
		{"engine.commit_policy", "sometimes"},
		{"routine.default_days", "many"},
		{"routine.default_days", "91"},
		{"storage.s3_path_style", "maybe"},
		{"items.categories", " , "},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			err := NewSettingsService(memory.NewConfigStore()).SetValue(tt.key, tt.value)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestSettingsService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr string
	}{
		{"defaults", nil, ""},
		{"postgres without dsn", map[string]any{"storage.backend": "postgres"}, "storage.postgres_dsn"},
		{"postgres with dsn", map[string]any{
			"storage.backend":      "postgres",
			"storage.postgres_dsn": "postgres://localhost/lifeops",
		}, ""},
		{"s3 without bucket", map[string]any{"storage.backend": "s3"}, "storage.s3_bucket"},
		{"default category missing", map[string]any{
			"items.categories":       []string{"work"},
			"items.default_category": "personal",
		}, `default category "personal"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSettingsService(memory.NewConfigStore(tt.values)).Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettingKeys_Sorted(t *testing.T) {
	keys := SettingKeys()
	assert.Contains(t, keys, "storage.backend")
	assert.IsNonDecreasing(t, keys)
}
