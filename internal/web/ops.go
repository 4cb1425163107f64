package web

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/sentoz/schema-server/internal/metrics"
	"github.com/sentoz/schema-server/internal/vars"
)

// ReadyFunc reports whether the service can answer document requests.
type ReadyFunc func() error

// NewOpsHandler returns the handler of the operations listener.
func NewOpsHandler(ready ReadyFunc, m *metrics.Metrics, metricsEnabled bool) http.Handler {
	mux := http.NewServeMux()

	// Register metrics endpoint if enabled (must be before /)
	if metricsEnabled {
		mux.Handle("/metrics", m.Handler())
	}

	mux.HandleFunc("/health", HealthHandler)
	mux.HandleFunc("/health/live", HealthHandler)
	mux.Handle("/health/ready", ReadinessHandler(ready))

	// Build info matches all remaining paths
	mux.HandleFunc("/", BuildInfoHandler)

	return mux
}

// HealthHandler возвращает "OK" для liveness endpoints
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// ReadinessHandler отвечает 503, пока документ отсутствует или недоступен
func ReadinessHandler(ready ReadyFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if ready != nil {
			if err := ready(); err != nil {
				log.Debug().Err(err).Msg("Readiness check failed")
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// BuildInfoHandler возвращает JSON с информацией о сборке приложения
func BuildInfoHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(vars.Info()); err != nil {
		log.Warn().Err(err).Msg("Failed to encode build info")
	}
}
