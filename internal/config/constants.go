package config

// Default paths for local state
const (
	// DefaultSessionDBPath is the SQLite file holding web sessions and the task queue
	DefaultSessionDBPath = "./highlights-web.db"

	// DefaultCoverCacheDir is where fetched book covers are cached
	DefaultCoverCacheDir = "./covers"
)
