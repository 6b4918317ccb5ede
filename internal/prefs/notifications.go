package prefs

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/drujkomax/yoldosh-go/internal/backend"
	"github.com/drujkomax/yoldosh-go/pkg/models"
)

const notificationTable = "notification_settings"

// NotificationStore manages the per-user notification settings row.
// The backend client and user id are injected; there is no ambient state.
type NotificationStore struct {
	client  *backend.Client
	userID  string
	current *models.NotificationPreferences
}

// NewNotificationStore creates a store for the given user.
func NewNotificationStore(client *backend.Client, userID string) *NotificationStore {
	return &NotificationStore{client: client, userID: userID}
}

// Fetch reads the settings row for the user, creating the default record on
// first access. The marketing flag of the default is seeded from the
// profile row; the profile copy is otherwise treated as a derived read.
func (s *NotificationStore) Fetch(ctx context.Context) (*models.NotificationPreferences, error) {
	var prefs models.NotificationPreferences
	found, err := s.client.From(notificationTable).
		Eq("user_id", s.userID).
		MaybeSingle(ctx, &prefs)
	if err != nil {
		return nil, err
	}
	if found {
		s.current = &prefs
		return &prefs, nil
	}

	// First access: synthesize and persist the default record.
	marketing := s.profileMarketingConsent(ctx)
	defaults := models.DefaultNotificationPreferences(s.userID, marketing)

	var created models.NotificationPreferences
	if err := s.client.From(notificationTable).Insert(ctx, defaults, &created); err != nil {
		return nil, err
	}
	s.current = &created
	return &created, nil
}

func (s *NotificationStore) profileMarketingConsent(ctx context.Context) bool {
	var profile models.Profile
	found, err := s.client.From("profiles").
		Select("id,marketing_consent").
		Eq("id", s.userID).
		MaybeSingle(ctx, &profile)
	if err != nil || !found {
		if err != nil {
			log.Warn().Err(err).Str("userId", s.userID).Msg("Failed to read profile for marketing flag")
		}
		return false
	}
	return profile.MarketingConsent
}

// Current returns the last fetched record, nil before the first Fetch.
func (s *NotificationStore) Current() *models.NotificationPreferences {
	return s.current
}

// Update writes a partial patch and optimistically mutates the local record,
// rolling back on failure. Returns a success flag rather than an error.
func (s *NotificationStore) Update(ctx context.Context, patch map[string]any) bool {
	if s.current == nil {
		if _, err := s.Fetch(ctx); err != nil {
			log.Warn().Err(err).Str("userId", s.userID).Msg("Failed to fetch notification settings before update")
			return false
		}
	}

	ok := optimistic(s.current, func(p *models.NotificationPreferences) {
		applyNotificationPatch(p, patch)
	}, func() error {
		return s.client.From(notificationTable).
			Eq("user_id", s.userID).
			Update(ctx, patch, nil)
	})
	if !ok {
		log.Warn().Str("userId", s.userID).Msg("Notification settings update failed, reverted")
	}
	return ok
}

func applyNotificationPatch(p *models.NotificationPreferences, patch map[string]any) {
	for key, value := range patch {
		v, isBool := value.(bool)
		if !isBool {
			continue
		}
		switch key {
		case "ride_updates":
			p.RideUpdates = v
		case "chat_messages":
			p.ChatMessages = v
		case "booking_requests":
			p.BookingRequests = v
		case "marketing_consent":
			p.MarketingConsent = v
		case "push_enabled":
			p.PushEnabled = v
		}
	}
}
