package proxy

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T, upstreamHandler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()

	upstream := httptest.NewServer(upstreamHandler)
	t.Cleanup(upstream.Close)

	svc := New(Config{
		GoogleKey:  "google-secret",
		YandexKey:  "yandex-secret",
		DGISKey:    "dgis-secret",
		GoogleBase: upstream.URL,
		YandexBase: upstream.URL,
		DGISBase:   upstream.URL,
	})
	return svc, upstream
}

func do(svc *Service, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	svc.Router().ServeHTTP(rec, req)
	return rec
}

func TestSearchPassesThroughRawJSON(t *testing.T) {
	var gotURL string
	svc, _ := testService(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`{"results":[{"name":"Ташкент"}]}`))
	})

	rec := do(svc, http.MethodPost, "/functions/google-maps-proxy",
		`{"service":"google","operation":"search","query":"Ташкент"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"results":[{"name":"Ташкент"}]}`, rec.Body.String())

	// Key is resolved server-side and sent upstream, never echoed back.
	assert.Contains(t, gotURL, "key=google-secret")
	assert.NotContains(t, rec.Body.String(), "google-secret")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestReverseBuildsProviderCoordinates(t *testing.T) {
	var gotURL string
	svc, _ := testService(t, func(w http.ResponseWriter, r *http.Request) {
		gotURL = r.URL.String()
		w.Write([]byte(`{}`))
	})

	rec := do(svc, http.MethodPost, "/functions/yandex-geocoder",
		`{"type":"yandex","operation":"reverse","lat":41.3,"lng":69.24}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Yandex wants "lng,lat".
	assert.Contains(t, gotURL, "geocode=69.24")
	assert.Contains(t, gotURL, "apikey=yandex-secret")
}

func TestRouteOnlyForGoogle(t *testing.T) {
	svc, _ := testService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/maps/api/directions/json")
		w.Write([]byte(`{"routes":[]}`))
	})

	body := `{"operation":"route","origin":"41.3,69.2","destination":"39.6,66.9"}`

	rec := do(svc, http.MethodPost, "/functions/google-maps-proxy", body)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(svc, http.MethodPost, "/functions/yandex-geocoder", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(svc, http.MethodPost, "/functions/dgis-geocoder", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestValidation(t *testing.T) {
	svc, _ := testService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called for invalid requests")
	})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{`},
		{"unknown operation", `{"operation":"teleport"}`},
		{"search without query", `{"operation":"search"}`},
		{"reverse without coordinates", `{"operation":"reverse","lat":41.3}`},
		{"route without destination", `{"operation":"route","origin":"a"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(svc, http.MethodPost, "/functions/google-maps-proxy", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMissingKeyIsServerError(t *testing.T) {
	svc := New(Config{GoogleBase: "http://unused"})

	rec := do(svc, http.MethodPost, "/functions/google-maps-proxy",
		`{"operation":"search","query":"Ташкент"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUpstreamStatusPassesThrough(t *testing.T) {
	svc, _ := testService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error_message":"quota exceeded"}`))
	})

	rec := do(svc, http.MethodPost, "/functions/dgis-geocoder",
		`{"operation":"search","query":"Бухара"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "quota exceeded")
}

func TestCORSPreflight(t *testing.T) {
	svc, _ := testService(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := do(svc, http.MethodOptions, "/functions/google-maps-proxy", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestHealth(t *testing.T) {
	svc, _ := testService(t, func(w http.ResponseWriter, r *http.Request) {})

	rec := do(svc, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
