package prefs

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/drujkomax/yoldosh-go/internal/backend"
	"github.com/drujkomax/yoldosh-go/pkg/models"
)

const themeTable = "theme_settings"

// ThemeStore manages the per-user theme settings row.
type ThemeStore struct {
	client  *backend.Client
	userID  string
	current *models.ThemePreferences
}

// NewThemeStore creates a store for the given user.
func NewThemeStore(client *backend.Client, userID string) *ThemeStore {
	return &ThemeStore{client: client, userID: userID}
}

// Fetch reads the settings row for the user, creating the default record on
// first access.
func (s *ThemeStore) Fetch(ctx context.Context) (*models.ThemePreferences, error) {
	var prefs models.ThemePreferences
	found, err := s.client.From(themeTable).
		Eq("user_id", s.userID).
		MaybeSingle(ctx, &prefs)
	if err != nil {
		return nil, err
	}
	if found {
		s.current = &prefs
		return &prefs, nil
	}

	defaults := models.DefaultThemePreferences(s.userID)

	var created models.ThemePreferences
	if err := s.client.From(themeTable).Insert(ctx, defaults, &created); err != nil {
		return nil, err
	}
	s.current = &created
	return &created, nil
}

// Current returns the last fetched record, nil before the first Fetch.
func (s *ThemeStore) Current() *models.ThemePreferences {
	return s.current
}

// SetTheme writes the new theme and optimistically mutates the local
// record, rolling back on failure. Returns a success flag.
func (s *ThemeStore) SetTheme(ctx context.Context, theme models.Theme) bool {
	if s.current == nil {
		if _, err := s.Fetch(ctx); err != nil {
			log.Warn().Err(err).Str("userId", s.userID).Msg("Failed to fetch theme settings before update")
			return false
		}
	}

	ok := optimistic(s.current, func(p *models.ThemePreferences) {
		p.Theme = theme
	}, func() error {
		return s.client.From(themeTable).
			Eq("user_id", s.userID).
			Update(ctx, map[string]any{"theme": theme}, nil)
	})
	if !ok {
		log.Warn().Str("userId", s.userID).Str("theme", string(theme)).Msg("Theme update failed, reverted")
	}
	return ok
}
