// Package ops serves the operational HTTP endpoints: Prometheus metrics and health.
package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Check probes one dependency; a nil error means healthy.
type Check func(ctx context.Context) error

const checkTimeout = 2 * time.Second

type health struct {
	Status string            `json:"status"`
	Failed map[string]string `json:"failed,omitempty"`
}

// NewRouter exposes /metrics from g and /healthz backed by checks.
func NewRouter(g prometheus.Gatherer, checks map[string]Check) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), checkTimeout)
		defer cancel()

		names := make([]string, 0, len(checks))
		for name := range checks {
			names = append(names, name)
		}
		sort.Strings(names)

		res := health{Status: "ok"}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				if res.Failed == nil {
					res.Failed = map[string]string{}
				}
				res.Failed[name] = err.Error()
			}
		}
		code := http.StatusOK
		if len(res.Failed) > 0 {
			res.Status, code = "degraded", http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(res)
	})
	return r
}
