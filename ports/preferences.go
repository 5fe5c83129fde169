package ports

import (
	"context"
	"time"

	"pspicdash/domain/core"
)

// Preferences are the navigation settings remembered per client
type Preferences struct {
	SessionID     core.SessionID `db:"session_id" json:"session_id"`
	ActiveSection string         `db:"active_section" json:"active_section"`
	// ExpandedYear is empty when every year is collapsed.
	ExpandedYear string    `db:"expanded_year" json:"expanded_year"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// PreferenceRepository persists Preferences. Get returns defaults for unknown sessions.
type PreferenceRepository interface {
	Get(ctx context.Context, id core.SessionID) (*Preferences, error)
	Save(ctx context.Context, prefs *Preferences) error
}

// Default navigation state for a client that never chose anything
const (
	DefaultSection = "home"
	DefaultYear    = "2025"
)

// DefaultPreferences returns the starting preferences of a session
func DefaultPreferences(id core.SessionID) *Preferences {
	return &Preferences{
		SessionID:     id,
		ActiveSection: DefaultSection,
		ExpandedYear:  DefaultYear,
	}
}
