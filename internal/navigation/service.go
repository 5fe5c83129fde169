package navigation

import (
	"context"
	"time"

	"pspicdash/domain/core"
	"pspicdash/internal"
	"pspicdash/internal/errors"
	"pspicdash/ports"
)

var logger = internal.DefaultLogger.Component("Navigation")

// Service reads and updates the navigation preferences of a session
type Service struct {
	repo ports.PreferenceRepository
	now  func() time.Time
}

// NewService creates a new navigation service
func NewService(repo ports.PreferenceRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Get returns the session preferences; a stored section that is no longer
// part of the menu is reported as home
func (s *Service) Get(ctx context.Context, id core.SessionID) (*ports.Preferences, error) {
	prefs, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Known(prefs.ActiveSection) {
		prefs.ActiveSection = Home
	}
	return prefs, nil
}

// SetActiveSection remembers the open section. Unknown identifiers select home.
func (s *Service) SetActiveSection(ctx context.Context, id core.SessionID, section string) (*ports.Preferences, error) {
	prefs, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Known(section) {
		logger.Debug("unknown section %q, falling back to home", section)
		section = Home
	}
	if prefs.ActiveSection == section {
		return prefs, nil
	}
	prefs.ActiveSection = section
	return prefs, s.save(ctx, prefs)
}

// ToggleYear expands year, or collapses it when it is already expanded
func (s *Service) ToggleYear(ctx context.Context, id core.SessionID, year string) (*ports.Preferences, error) {
	if !validYear(year) {
		return nil, errors.Validation("unknown menu year " + year)
	}
	prefs, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if prefs.ExpandedYear == year {
		prefs.ExpandedYear = ""
	} else {
		prefs.ExpandedYear = year
	}
	return prefs, s.save(ctx, prefs)
}

func (s *Service) save(ctx context.Context, prefs *ports.Preferences) error {
	prefs.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, prefs); err != nil {
		logger.Warn("failed to save preferences for %s: %v", prefs.SessionID, err)
		return err
	}
	return nil
}

func validYear(year string) bool {
	for _, y := range Years {
		if y == year {
			return true
		}
	}
	return false
}
