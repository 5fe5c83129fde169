package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"sync"
	"time"

	"pspicdash/domain/core"
	"pspicdash/internal/errors"
	"pspicdash/ports"

	"github.com/jmoiron/sqlx"
)

// PreferenceRepository stores navigation preferences in ui_preferences
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get returns the stored preferences, or the defaults for an unknown session
func (r *PreferenceRepository) Get(ctx context.Context, id core.SessionID) (*ports.Preferences, error) {
	query := r.db.Rebind(`
		SELECT session_id, active_section, expanded_year, updated_at
		FROM ui_preferences
		WHERE session_id = ?`)

	var prefs ports.Preferences
	if err := r.db.GetContext(ctx, &prefs, query, id.String()); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return ports.DefaultPreferences(id), nil
		}
		return nil, errors.Storage("failed to get preferences", err)
	}
	return &prefs, nil
}

// Save inserts or updates the preferences of a session
func (r *PreferenceRepository) Save(ctx context.Context, prefs *ports.Preferences) error {
	if prefs.SessionID == "" {
		return errors.Validation("session ID is required")
	}
	if prefs.UpdatedAt.IsZero() {
		prefs.UpdatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO ui_preferences (session_id, active_section, expanded_year, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id) DO UPDATE SET
			active_section = EXCLUDED.active_section,
			expanded_year = EXCLUDED.expanded_year,
			updated_at = EXCLUDED.updated_at`)

	_, err := r.db.ExecContext(ctx, query,
		prefs.SessionID.String(),
		prefs.ActiveSection,
		prefs.ExpandedYear,
		prefs.UpdatedAt.UTC(),
	)
	if err != nil {
		return errors.Storage("failed to save preferences", err)
	}
	return nil
}

// DeleteOlderThan removes preferences untouched since cutoff and reports how many
func (r *PreferenceRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM ui_preferences WHERE updated_at < ?`), cutoff.UTC())
	if err != nil {
		return 0, errors.Storage("failed to prune preferences", err)
	}
	return res.RowsAffected()
}

// MemoryRepository keeps preferences in process memory
type MemoryRepository struct {
	mu    sync.RWMutex
	prefs map[core.SessionID]ports.Preferences
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{prefs: make(map[core.SessionID]ports.Preferences)}
}

func (r *MemoryRepository) Get(_ context.Context, id core.SessionID) (*ports.Preferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if p, ok := r.prefs[id]; ok {
		return &p, nil
	}
	return ports.DefaultPreferences(id), nil
}

func (r *MemoryRepository) Save(_ context.Context, prefs *ports.Preferences) error {
	if prefs.SessionID == "" {
		return errors.Validation("session ID is required")
	}
	if prefs.UpdatedAt.IsZero() {
		prefs.UpdatedAt = time.Now().UTC()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[prefs.SessionID] = *prefs
	return nil
}
