package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		API
		Global
		UI
		Session
		Covers
		Tasks
	}

	HTTP struct {
		Port         int32
		Host         string
		// PublicOrigin is the externally visible "scheme://host" of the site. A relative API
		// base URL resolves against it.
		PublicOrigin string
	}
	// API points the web app at the highlights backend.
	API struct {
		// BaseURL overrides the same-origin default when BaseURLSet is true.
		// An empty value that is set explicitly keeps relative (same-origin) requests.
		BaseURL    string
		BaseURLSet bool
		Timeout    time.Duration
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	UI struct {
		TemplatesPath string // Empty means use the embedded templates
		StaticPath    string
		Locale        string // BCP 47 tag used to order tag names
	}
	Session struct {
		DBPath        string
		Secret        string
		Lifetime      time.Duration
		SecureCookies bool // Set to false for local dev without HTTPS
	}
	Covers struct {
		CacheDir      string
		MaxAge        time.Duration // Cached covers older than this are pruned
		PruneSchedule string        // Cron format: "0 3 * * *" = daily at 03:00
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
		DBPath          string // Empty means alongside the session database
	}
)

func NewConfig() *Config {
	return newConfig(viper.New())
}

func newConfig(v *viper.Viper) *Config {
	v.AutomaticEnv()
	v.SetDefault("port", 8190)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("public_origin", "")
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	v.SetDefault("api_timeout", "15s")

	v.SetDefault("templates_path", "")
	v.SetDefault("static_path", "./static")
	v.SetDefault("ui_locale", "en")

	v.SetDefault("session_db_path", DefaultSessionDBPath)
	v.SetDefault("session_secret", "") // Auto-generated if empty
	v.SetDefault("session_lifetime", "24h")
	v.SetDefault("secure_cookies", true)

	v.SetDefault("cover_cache_dir", DefaultCoverCacheDir)
	v.SetDefault("cover_max_age", "720h")             // 30 days
	v.SetDefault("cover_prune_schedule", "0 3 * * *") // Daily at 03:00

	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("tasks_db_path", "")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host:         v.GetString("HOST"),
			PublicOrigin: v.GetString("PUBLIC_ORIGIN"),
		},
		API: API{
			BaseURL:    v.GetString("API_URL"),
			BaseURLSet: v.IsSet("API_URL"),
			Timeout:    v.GetDuration("API_TIMEOUT"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		UI: UI{
			TemplatesPath: v.GetString("TEMPLATES_PATH"),
			StaticPath:    v.GetString("STATIC_PATH"),
			Locale:        v.GetString("UI_LOCALE"),
		},
		Session: Session{
			DBPath:        v.GetString("SESSION_DB_PATH"),
			Secret:        v.GetString("SESSION_SECRET"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
		},
		Covers: Covers{
			CacheDir:      v.GetString("COVER_CACHE_DIR"),
			MaxAge:        v.GetDuration("COVER_MAX_AGE"),
			PruneSchedule: v.GetString("COVER_PRUNE_SCHEDULE"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
			DBPath:          v.GetString("TASKS_DB_PATH"),
		},
	}
}
