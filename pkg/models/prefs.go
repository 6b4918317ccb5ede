package models

// NotificationPreferences is the single per-user notification settings row.
type NotificationPreferences struct {
	UserID           string `json:"user_id"`
	RideUpdates      bool   `json:"ride_updates"`
	ChatMessages     bool   `json:"chat_messages"`
	BookingRequests  bool   `json:"booking_requests"`
	MarketingConsent bool   `json:"marketing_consent"`
	PushEnabled      bool   `json:"push_enabled"`
	UpdatedAt        string `json:"updated_at,omitempty"`
}

// DefaultNotificationPreferences returns the provider-defined defaults for a
// user seen for the first time. The marketing flag is seeded from the
// profile row rather than hardcoded.
func DefaultNotificationPreferences(userID string, marketingConsent bool) NotificationPreferences {
	return NotificationPreferences{
		UserID:           userID,
		RideUpdates:      true,
		ChatMessages:     true,
		BookingRequests:  true,
		MarketingConsent: marketingConsent,
		PushEnabled:      true,
	}
}

// Theme is the app color scheme selection.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ThemePreferences is the single per-user theme settings row.
type ThemePreferences struct {
	UserID    string `json:"user_id"`
	Theme     Theme  `json:"theme"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// DefaultThemePreferences returns the defaults for a first-time user.
func DefaultThemePreferences(userID string) ThemePreferences {
	return ThemePreferences{
		UserID: userID,
		Theme:  ThemeSystem,
	}
}

// Profile is the subset of the user profile the data layer reads.
type Profile struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Phone            string `json:"phone,omitempty"`
	Role             string `json:"role,omitempty"`
	MarketingConsent bool   `json:"marketing_consent"`
	AvatarURL        string `json:"avatar_url,omitempty"`
}
