package daemon

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/history"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/logfields"
	"github.com/Caleb-Valerian2/DoxyDocCombiner/internal/metrics"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 500
)

// Router returns the daemon HTTP API. Runs triggered over HTTP use ctx.
func (d *Daemon) Router(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", d.handleHealth)
	r.Get("/status", d.handleStatus)
	r.Get("/runs", d.handleRuns)
	r.Post("/runs", func(w http.ResponseWriter, _ *http.Request) {
		d.handleTrigger(ctx, w)
	})
	if d.gatherer != nil {
		r.Handle("/metrics", metrics.HTTPHandler(d.gatherer))
	}
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", logfields.Error(err))
	}
}

func (d *Daemon) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (d *Daemon) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, d.Status())
}

func (d *Daemon) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxRunsLimit)
	}
	runs, err := d.store.Recent(r.Context(), limit)
	if err != nil {
		slog.Error("Failed to list runs", logfields.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list runs"})
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (d *Daemon) handleTrigger(ctx context.Context, w http.ResponseWriter) {
	if !d.triggerAsync(ctx, TriggerHTTP) {
		writeJSON(w, http.StatusConflict, map[string]string{"status": "already running"})
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}
