// Package proxy implements the server-side geocoding proxy. All third-party
// mapping calls go through it so that provider API keys stay server-side.
package proxy

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Config holds proxy configuration. Base URLs default to the real provider
// hosts and exist for tests.
type Config struct {
	GoogleKey string
	YandexKey string
	DGISKey   string

	GoogleBase string
	YandexBase string
	DGISBase   string

	HTTPClient *http.Client
}

// Service is the geocoding proxy HTTP service.
type Service struct {
	router    chi.Router
	client    *http.Client
	upstreams map[string]*upstream
	startTime time.Time
}

// New creates the proxy service and mounts its routes.
func New(cfg Config) *Service {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	base := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	s := &Service{
		router: chi.NewRouter(),
		client: client,
		upstreams: map[string]*upstream{
			"google": {name: "google", key: cfg.GoogleKey, base: base(cfg.GoogleBase, defaultGoogleBase)},
			"yandex": {name: "yandex", key: cfg.YandexKey, base: base(cfg.YandexBase, defaultYandexBase)},
			"dgis":   {name: "dgis", key: cfg.DGISKey, base: base(cfg.DGISBase, defaultDGISBase)},
		},
		startTime: time.Now(),
	}
	s.setupRoutes()
	return s
}

// Router returns the HTTP handler.
func (s *Service) Router() http.Handler {
	return s.router
}

func (s *Service) setupRoutes() {
	s.router.Use(requestLogger)
	s.router.Use(cors)

	s.router.Post("/functions/google-maps-proxy", s.handleProvider("google"))
	s.router.Post("/functions/yandex-geocoder", s.handleProvider("yandex"))
	s.router.Post("/functions/dgis-geocoder", s.handleProvider("dgis"))

	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())
}

// proxyRequest is the uniform body accepted by every provider endpoint.
// "type" is a legacy alias for "service"; both are accepted.
type proxyRequest struct {
	Service     string   `json:"service,omitempty"`
	Type        string   `json:"type,omitempty"`
	Operation   string   `json:"operation"`
	Query       string   `json:"query,omitempty"`
	Lat         *float64 `json:"lat,omitempty"`
	Lng         *float64 `json:"lng,omitempty"`
	Origin      string   `json:"origin,omitempty"`
	Destination string   `json:"destination,omitempty"`
}

func (r *proxyRequest) validate() error {
	switch r.Operation {
	case "search":
		if r.Query == "" {
			return errors.New("query is required")
		}
	case "reverse":
		if r.Lat == nil || r.Lng == nil {
			return errors.New("lat and lng are required")
		}
	case "route":
		if r.Origin == "" || r.Destination == "" {
			return errors.New("origin and destination are required")
		}
	default:
		return errors.New("unknown operation")
	}
	return nil
}

func (s *Service) handleProvider(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up := s.upstreams[name]

		var req proxyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			requestsTotal.WithLabelValues(name, "invalid", "400").Inc()
			return
		}
		if err := req.validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			requestsTotal.WithLabelValues(name, req.Operation, "400").Inc()
			return
		}
		if up.key == "" {
			writeError(w, http.StatusInternalServerError, "provider key not configured")
			requestsTotal.WithLabelValues(name, req.Operation, "500").Inc()
			return
		}

		upstreamURL, err := up.resolve(&req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			requestsTotal.WithLabelValues(name, req.Operation, "400").Inc()
			return
		}

		start := time.Now()
		upReq, err := http.NewRequestWithContext(r.Context(), http.MethodGet, upstreamURL, nil)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "build upstream request")
			requestsTotal.WithLabelValues(name, req.Operation, "500").Inc()
			return
		}

		resp, err := s.client.Do(upReq)
		if err != nil {
			log.Warn().Err(err).Str("provider", name).Str("operation", req.Operation).Msg("Upstream call failed")
			writeError(w, http.StatusBadGateway, "upstream unavailable")
			requestsTotal.WithLabelValues(name, req.Operation, "502").Inc()
			return
		}
		defer resp.Body.Close()
		requestDuration.WithLabelValues(name, req.Operation).Observe(time.Since(start).Seconds())

		// Raw provider JSON passes through unchanged, status included.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
		requestsTotal.WithLabelValues(name, req.Operation, strconv.Itoa(resp.StatusCode)).Inc()
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":         "ok",
		"uptime_seconds": int(time.Since(s.startTime).Seconds()),
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// cors handles preflight uniformly and marks every response.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger attaches a request id and logs each request.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		w.Header().Set("X-Request-Id", reqID)

		start := time.Now()
		next.ServeHTTP(w, r)

		log.Debug().
			Str("requestId", reqID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}
