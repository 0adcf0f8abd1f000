// Package session persists per-browser-session filter state between catalog
// requests. Each listing view keeps its own state under its own session key,
// so concurrent visitors never see each other's filters.
package session

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/config"
)

// Manager wraps scs.SessionManager with filter-state accessors.
type Manager struct {
	*scs.SessionManager
}

// NewManager creates a configured session manager backed by a sqlite
// sessions table. The sqlDB parameter should be the underlying *sql.DB from
// GORM.
func NewManager(sqlDB *sql.DB, cfg config.Session) (*Manager, error) {
	// Create sessions table if it doesn't exist
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = cfg.Lifetime
	sm.IdleTimeout = cfg.Lifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &Manager{SessionManager: sm}, nil
}

func stateKey(view string) string {
	return "filters:" + view
}

// FilterState loads the filter state for a view from the session. Sessions
// without saved state (or with state that no longer decodes) get the default.
func (m *Manager) FilterState(r *http.Request, view string, def catalog.State) catalog.State {
	raw := m.GetString(r.Context(), stateKey(view))
	if raw == "" {
		return def
	}
	var state catalog.State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return def
	}
	return state
}

// PutFilterState saves the filter state for a view back into the session.
func (m *Manager) PutFilterState(r *http.Request, view string, state catalog.State) {
	raw, err := json.Marshal(state)
	if err != nil {
		return
	}
	m.Put(r.Context(), stateKey(view), string(raw))
}
