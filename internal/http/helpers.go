package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"gagyebu/internal/core"
	"gagyebu/internal/dataset"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// monthParam reads the ?month=YYYY-MM query, defaulting to the current month.
func monthParam(r *http.Request) (core.Month, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("month"))
	if raw == "" {
		now := time.Now()
		return core.NewMonth(now.Year(), now.Month()), true
	}
	m, err := core.ParseMonth(raw)
	if err != nil {
		return core.Month{}, false
	}
	return m, true
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// snapshot serves the cached snapshot, loading a fresh one on miss.
func (s *Server) snapshot(ctx context.Context) *dataset.Snapshot {
	if snap, ok := s.snapCache.Get(); ok {
		return snap
	}
	if s.loader == nil {
		return dataset.EmptySnapshot()
	}
	snap := s.loader.LoadAll(ctx)
	s.snapCache.Set(snap)
	return snap
}
