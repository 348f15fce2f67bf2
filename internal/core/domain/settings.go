package domain

const unknownDescription = "Unknown"

// StorageBackend identifies where the item slot is persisted.
type StorageBackend string

// Available storage backends.
const (
	// StorageMemory keeps the slot in process memory only.
	StorageMemory StorageBackend = "memory"

	// StorageFile keeps the slot in a JSON file under the data directory.
	StorageFile StorageBackend = "file"

	// StorageSQLite keeps the slot in a local SQLite database.
	StorageSQLite StorageBackend = "sqlite"

	// StoragePostgres keeps the slot in a Postgres table.
	StoragePostgres StorageBackend = "postgres"

	// StorageS3 keeps the slot as an object in an S3 compatible bucket.
	StorageS3 StorageBackend = "s3"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	switch b {
	case StorageMemory, StorageFile, StorageSQLite, StoragePostgres, StorageS3:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b StorageBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b StorageBackend) Description() string {
	switch b {
	case StorageMemory:
		return "Memory (lost on exit)"
	case StorageFile:
		return "File (JSON document)"
	case StorageSQLite:
		return "SQLite (local database)"
	case StoragePostgres:
		return "Postgres (remote database)"
	case StorageS3:
		return "S3 (object storage)"
	default:
		return unknownDescription
	}
}

// CommitPolicyName selects how a batch decides to persist.
type CommitPolicyName string

// Available commit policies.
const (
	// CommitMajority persists when successes outnumber failures.
	CommitMajority CommitPolicyName = "majority"

	// CommitStrict persists only when every operation succeeded.
	CommitStrict CommitPolicyName = "strict"
)

// IsValid returns true if the policy is recognised.
func (p CommitPolicyName) IsValid() bool {
	return p == CommitMajority || p == CommitStrict
}

// StorageSettings configures the slot backend.
type StorageSettings struct {
	Backend     StorageBackend
	DataDir     string
	SlotKey     string
	PostgresDSN string
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool
}

// ItemSettings configures item validation.
type ItemSettings struct {
	// Categories is the caller supplied category set.
	Categories []string
	// DefaultCategory is used when generated items have no valid category.
	DefaultCategory string
}

// EngineSettings configures the batch engine.
type EngineSettings struct {
	CommitPolicy CommitPolicyName
}

// RoutineSettings configures the routine parser.
type RoutineSettings struct {
	TemplatesFile string
	DefaultDays   int
}

// CalendarSettings configures the Google Calendar publisher.
type CalendarSettings struct {
	GoogleCalendarID string
	GoogleToken      string
}

// IsConfigured returns true if publishing can be attempted.
func (c CalendarSettings) IsConfigured() bool {
	return c.GoogleToken != ""
}

// GitHubSettings configures the issue importer.
type GitHubSettings struct {
	Token string
}

// IsConfigured returns true if importing can be attempted.
func (g GitHubSettings) IsConfigured() bool {
	return g.Token != ""
}

// MetricsSettings configures the metrics endpoint.
type MetricsSettings struct {
	Addr string
}

// Settings holds all user-configurable options.
type Settings struct {
	Storage  StorageSettings
	Items    ItemSettings
	Engine   EngineSettings
	Routine  RoutineSettings
	Calendar CalendarSettings
	GitHub   GitHubSettings
	Metrics  MetricsSettings
}

// DefaultCategories is the category set used when none is configured.
var DefaultCategories = []string{"personal", "work", "health", "learning", "home", "finance"}

// DefaultSlotKey is the slot the item collection is stored under.
const DefaultSlotKey = "lifeops.items"

// DefaultSettings returns sensible defaults.
func DefaultSettings() Settings {
	return Settings{
		Storage: StorageSettings{
			Backend:  StorageSQLite,
			SlotKey:  DefaultSlotKey,
			S3Region: "us-east-1",
		},
		Items: ItemSettings{
			Categories:      append([]string(nil), DefaultCategories...),
			DefaultCategory: "personal",
		},
		Engine: EngineSettings{
			CommitPolicy: CommitMajority,
		},
		Routine: RoutineSettings{
			DefaultDays: 7,
		},
		Calendar: CalendarSettings{
			GoogleCalendarID: "primary",
		},
	}
}

// CategorySet returns the configured categories as a set.
func (s Settings) CategorySet() CategorySet {
	return NewCategorySet(s.Items.Categories...)
}

// AllStorageBackends returns all storage backends in display order.
func AllStorageBackends() []StorageBackend {
	return []StorageBackend{StorageSQLite, StorageFile, StorageMemory, StoragePostgres, StorageS3}
}
