package handlers

import (
	"log/slog"
	"net/http"
	"time"
)

// sessionCounter reports how many sessions are live
type sessionCounter interface {
	Len() int
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	version  string
	started  time.Time
	sessions sessionCounter
	logger   *slog.Logger
}

// NewHealthHandler creates a new health handler. sessions may be nil.
func NewHealthHandler(version string, sessions sessionCounter, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		version:  version,
		started:  time.Now(),
		sessions: sessions,
		logger:   logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Sessions  *int      `json:"sessions,omitempty"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Uptime:    time.Since(h.started).Truncate(time.Second).String(),
	}
	if h.sessions != nil {
		n := h.sessions.Len()
		response.Sessions = &n
	}

	writeJSON(w, http.StatusOK, response, h.logger)
}
