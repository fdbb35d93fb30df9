package middleware

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	_ "github.com/mattn/go-sqlite3"

	"github.com/mrlokans/highlights-web/internal/config"
)

const (
	sessionKeyFlash     = "flash"
	sessionKeyFlashKind = "flash_kind"
)

// Flash kinds understood by the page templates.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// SessionManager wraps scs.SessionManager with the flash helpers the book page uses.
type SessionManager struct {
	*scs.SessionManager
}

// OpenSessionDB opens (creating if needed) the SQLite database that backs sessions.
func OpenSessionDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping session db: %w", err)
	}
	return db, nil
}

// NewSessionManager creates a configured session manager stored in sqlDB.
func NewSessionManager(sqlDB *sql.DB, cfg config.Session) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, fmt.Errorf("create sessions table: %w", err)
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = cfg.Lifetime

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode // Lax so the flash survives the POST redirect
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// PutFlash stores a message for the next page render.
func (sm *SessionManager) PutFlash(r *http.Request, kind, message string) {
	sm.Put(r.Context(), sessionKeyFlashKind, kind)
	sm.Put(r.Context(), sessionKeyFlash, message)
}

// PopFlash returns and clears the pending message, or nil when there is none.
func (sm *SessionManager) PopFlash(r *http.Request) *Flash {
	message := sm.PopString(r.Context(), sessionKeyFlash)
	kind := sm.PopString(r.Context(), sessionKeyFlashKind)
	if message == "" {
		return nil
	}
	if kind == "" {
		kind = FlashSuccess
	}
	return &Flash{Kind: kind, Message: message}
}
