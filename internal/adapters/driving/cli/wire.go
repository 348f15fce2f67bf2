package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/lifeops/internal/adapters/driven/calendar/google"
	"github.com/custodia-labs/lifeops/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lifeops/internal/adapters/driven/importer/github"
	"github.com/custodia-labs/lifeops/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/lifeops/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/lifeops/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lifeops/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/lifeops/internal/adapters/driven/storage/s3"
	"github.com/custodia-labs/lifeops/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/lifeops/internal/core/domain"
	"github.com/custodia-labs/lifeops/internal/core/ports/driven"
	"github.com/custodia-labs/lifeops/internal/core/services"
	"github.com/custodia-labs/lifeops/internal/logger"
	"github.com/custodia-labs/lifeops/internal/routine"
)

func resolveConfigDir() (string, error) {
	if configDir != "" {
		return configDir, nil
	}
	return file.DefaultDir()
}

func wireSettings() error {
	dir, err := resolveConfigDir()
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	store, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService = services.NewSettingsService(store)
	return nil
}

// wireServices builds the engine and every driving service from settings.
func wireServices(ctx context.Context) error {
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if backendName != "" {
		backend := domain.StorageBackend(backendName)
		if !backend.IsValid() {
			return fmt.Errorf("%w: unknown backend %q", domain.ErrInvalidInput, backendName)
		}
		settings.Storage.Backend = backend
	}

	slots, err := openSlotStore(ctx, settings.Storage)
	if err != nil {
		return err
	}
	slotKey = settings.Storage.SlotKey
	logger.Debug("storage backend: %s", settings.Storage.Backend.Description())

	metricsRecorder = prometheus.NewRecorder()
	engine := services.NewEngine(
		services.NewItemStore(slots, settings.Storage.SlotKey),
		*settings,
		services.WithMetrics(metricsRecorder),
	)

	rules, err := loadRoutineRules(settings.Routine)
	if err != nil {
		return err
	}

	var publisher driven.CalendarPublisher
	if settings.Calendar.IsConfigured() {
		p, err := google.NewPublisher(ctx, google.Config{
			CalendarID: settings.Calendar.GoogleCalendarID,
			Token:      settings.Calendar.GoogleToken,
		})
		if err != nil {
			return fmt.Errorf("create calendar publisher: %w", err)
		}
		publisher = p
	}

	var importer driven.TaskImporter
	if settings.GitHub.IsConfigured() {
		i, err := github.NewImporter(ctx, github.Config{Token: settings.GitHub.Token})
		if err != nil {
			return fmt.Errorf("create github importer: %w", err)
		}
		importer = i
	}

	bulk := services.NewBulkService(engine)
	itemService = services.NewItemService(engine)
	bulkService = bulk
	programService = services.NewProgramService(engine)
	routineService = services.NewRoutineService(engine, routine.NewParser(rules), publisher, settings.Routine.DefaultDays)
	syncService = services.NewSyncService(engine, bulk, importer, publisher)
	return nil
}

func openSlotStore(ctx context.Context, cfg domain.StorageSettings) (driven.SlotStore, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dir, err := resolveConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		dataDir = filepath.Join(dir, "data")
	}

	switch cfg.Backend {
	case domain.StorageMemory:
		return memory.NewSlotStore(), nil

	case domain.StorageFile:
		store, err := jsonfile.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("open file storage: %w", err)
		}
		slotFile = store
		return store, nil

	case domain.StorageSQLite:
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		cleanups = append(cleanups, func() { _ = store.Close() })
		return store, nil

	case domain.StoragePostgres:
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres storage: %w", err)
		}
		cleanups = append(cleanups, func() { _ = store.Close() })
		return store, nil

	case domain.StorageS3:
		store, err := s3.New(ctx, s3.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("open s3 storage: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("%w: unknown backend %q", domain.ErrInvalidInput, cfg.Backend)
	}
}

func loadRoutineRules(cfg domain.RoutineSettings) (*routine.Rules, error) {
	if cfg.TemplatesFile == "" {
		return routine.DefaultRules()
	}
	rules, err := routine.LoadRules(cfg.TemplatesFile)
	if err != nil {
		return nil, fmt.Errorf("load routine templates: %w", err)
	}
	return rules, nil
}
