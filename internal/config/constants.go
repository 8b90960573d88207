package config

const (
	// DefaultDatabasePath is where the SQLite database lives unless
	// DATABASE_PATH is set.
	DefaultDatabasePath = "./librarium.db"
)
