package prefs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drujkomax/yoldosh-go/internal/backend"
	"github.com/drujkomax/yoldosh-go/pkg/models"
)

// fakeBackend simulates the notification_settings, theme_settings and
// profiles tables behind the PostgREST surface.
type fakeBackend struct {
	notifications map[string]models.NotificationPreferences
	themes        map[string]models.ThemePreferences
	profiles      map[string]models.Profile
	failWrites    bool
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		notifications: make(map[string]models.NotificationPreferences),
		themes:        make(map[string]models.ThemePreferences),
		profiles:      make(map[string]models.Profile),
	}
}

func (f *fakeBackend) userID(r *http.Request) string {
	for _, key := range []string{"user_id", "id"} {
		v := r.URL.Query().Get(key)
		if strings.HasPrefix(v, "eq.") {
			return strings.TrimPrefix(v, "eq.")
		}
	}
	return ""
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if (r.Method == http.MethodPost || r.Method == http.MethodPatch) && f.failWrites {
		http.Error(w, `{"message":"write refused"}`, http.StatusInternalServerError)
		return
	}

	table := strings.TrimPrefix(r.URL.Path, "/rest/v1/")
	uid := f.userID(r)

	writeRows := func(rows any) {
		_ = json.NewEncoder(w).Encode(rows)
	}

	switch table {
	case "profiles":
		if p, ok := f.profiles[uid]; ok {
			writeRows([]models.Profile{p})
		} else {
			writeRows([]models.Profile{})
		}

	case "notification_settings":
		switch r.Method {
		case http.MethodGet:
			if p, ok := f.notifications[uid]; ok {
				writeRows([]models.NotificationPreferences{p})
			} else {
				writeRows([]models.NotificationPreferences{})
			}
		case http.MethodPost:
			var p models.NotificationPreferences
			_ = json.NewDecoder(r.Body).Decode(&p)
			f.notifications[p.UserID] = p
			w.WriteHeader(http.StatusCreated)
			writeRows([]models.NotificationPreferences{p})
		case http.MethodPatch:
			var patch map[string]any
			_ = json.NewDecoder(r.Body).Decode(&patch)
			p := f.notifications[uid]
			applyNotificationPatch(&p, patch)
			f.notifications[uid] = p
			writeRows([]models.NotificationPreferences{p})
		}

	case "theme_settings":
		switch r.Method {
		case http.MethodGet:
			if p, ok := f.themes[uid]; ok {
				writeRows([]models.ThemePreferences{p})
			} else {
				writeRows([]models.ThemePreferences{})
			}
		case http.MethodPost:
			var p models.ThemePreferences
			_ = json.NewDecoder(r.Body).Decode(&p)
			f.themes[p.UserID] = p
			w.WriteHeader(http.StatusCreated)
			writeRows([]models.ThemePreferences{p})
		case http.MethodPatch:
			var patch map[string]string
			_ = json.NewDecoder(r.Body).Decode(&patch)
			p := f.themes[uid]
			p.Theme = models.Theme(patch["theme"])
			f.themes[uid] = p
			writeRows([]models.ThemePreferences{p})
		}

	default:
		http.NotFound(w, r)
	}
}

func testEnv(t *testing.T) (*fakeBackend, *backend.Client) {
	t.Helper()

	fake := newFakeBackend()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client, err := backend.New(backend.Config{URL: srv.URL, APIKey: "test"})
	require.NoError(t, err)
	return fake, client
}

func TestNotificationFetchCreatesDefaults(t *testing.T) {
	fake, client := testEnv(t)
	fake.profiles["u1"] = models.Profile{ID: "u1", MarketingConsent: true}

	store := NewNotificationStore(client, "u1")
	prefs, err := store.Fetch(context.Background())
	require.NoError(t, err)

	assert.True(t, prefs.RideUpdates)
	assert.True(t, prefs.PushEnabled)
	// Marketing flag seeded from the profile row.
	assert.True(t, prefs.MarketingConsent)

	// The default record was persisted, not just synthesized.
	_, ok := fake.notifications["u1"]
	assert.True(t, ok)
}

func TestNotificationFetchReturnsExisting(t *testing.T) {
	fake, client := testEnv(t)
	fake.notifications["u1"] = models.NotificationPreferences{
		UserID: "u1", RideUpdates: false, PushEnabled: true,
	}

	store := NewNotificationStore(client, "u1")
	prefs, err := store.Fetch(context.Background())
	require.NoError(t, err)
	assert.False(t, prefs.RideUpdates)
}

func TestNotificationUpdateAppliesPatch(t *testing.T) {
	fake, client := testEnv(t)
	fake.notifications["u1"] = models.NotificationPreferences{UserID: "u1", PushEnabled: true}

	store := NewNotificationStore(client, "u1")
	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	ok := store.Update(context.Background(), map[string]any{"push_enabled": false})
	assert.True(t, ok)
	assert.False(t, store.Current().PushEnabled)
	assert.False(t, fake.notifications["u1"].PushEnabled)
}

func TestNotificationUpdateRevertsOnFailure(t *testing.T) {
	fake, client := testEnv(t)
	fake.notifications["u1"] = models.NotificationPreferences{UserID: "u1", PushEnabled: true}

	store := NewNotificationStore(client, "u1")
	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	fake.failWrites = true
	ok := store.Update(context.Background(), map[string]any{"push_enabled": false})
	assert.False(t, ok)
	// Local value rolled back to what was displayed before.
	assert.True(t, store.Current().PushEnabled)
}

func TestThemeFetchCreatesDefaults(t *testing.T) {
	_, client := testEnv(t)

	store := NewThemeStore(client, "u1")
	prefs, err := store.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ThemeSystem, prefs.Theme)
}

func TestThemeSetAndRevert(t *testing.T) {
	fake, client := testEnv(t)
	fake.themes["u1"] = models.ThemePreferences{UserID: "u1", Theme: models.ThemeLight}

	store := NewThemeStore(client, "u1")
	_, err := store.Fetch(context.Background())
	require.NoError(t, err)

	ok := store.SetTheme(context.Background(), models.ThemeDark)
	assert.True(t, ok)
	assert.Equal(t, models.ThemeDark, store.Current().Theme)

	fake.failWrites = true
	ok = store.SetTheme(context.Background(), models.ThemeLight)
	assert.False(t, ok)
	assert.Equal(t, models.ThemeDark, store.Current().Theme, "failed write must leave the displayed value unchanged")
}
