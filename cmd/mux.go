package cmd

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/aguepe1/Fleet-Simulator/api/runs"
	"github.com/aguepe1/Fleet-Simulator/config"
	"github.com/aguepe1/Fleet-Simulator/core/runstore"
	"github.com/aguepe1/Fleet-Simulator/core/search"
	"github.com/aguepe1/Fleet-Simulator/infra/metrics"
	"github.com/aguepe1/Fleet-Simulator/internal/eventbus"
)

// newMux routes /metrics, /api/runs and /api/progress behind a CORS policy.
func newMux(store runstore.RunStore, bus *eventbus.Latest[search.Progress], sc config.ServerConfig) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(nil))
	mux.Handle("/api/runs", runs.NewRunsHandler(store, sc.AuthToken))
	mux.Handle("/api/progress", runs.NewProgressHandler(bus, sc.AuthToken))
	return cors.New(cors.Options{
		AllowedOrigins: sc.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler(mux)
}
