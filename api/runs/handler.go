package runs

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/aguepe1/Fleet-Simulator/core/model"
	"github.com/aguepe1/Fleet-Simulator/core/runstore"
	"github.com/aguepe1/Fleet-Simulator/core/search"
	"github.com/aguepe1/Fleet-Simulator/internal/eventbus"
)

// NewRunsHandler returns an HTTP handler exposing stored runs via GET /api/runs.
// Supported query parameters are start and end (RFC 3339), state, id and limit.
// Requests must include an Authorization header with "Bearer <token>" when token is non-empty.
func NewRunsHandler(store runstore.RunStore, token string) http.Handler {
	return guard(token, func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []runstore.RunRecord{}
		}
		writeJSON(w, records)
	})
}

// NewProgressHandler returns an HTTP handler exposing the latest snapshot of
// the running search via GET /api/progress. It answers 204 before the first
// snapshot.
func NewProgressHandler(bus *eventbus.Latest[search.Progress], token string) http.Handler {
	return guard(token, func(w http.ResponseWriter, _ *http.Request) {
		p, ok := bus.Last()
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, p)
	})
}

func guard(token string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	})
}

func parseQuery(r *http.Request) (runstore.RunQuery, error) {
	v := r.URL.Query()
	q := runstore.RunQuery{
		State: model.SearchState(v.Get("state")),
		ID:    v.Get("id"),
	}
	var err error
	if s := v.Get("start"); s != "" {
		if q.Start, err = time.Parse(time.RFC3339, s); err != nil {
			return q, err
		}
	}
	if s := v.Get("end"); s != "" {
		if q.End, err = time.Parse(time.RFC3339, s); err != nil {
			return q, err
		}
	}
	if s := v.Get("limit"); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil {
			return q, err
		}
	}
	return q, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
