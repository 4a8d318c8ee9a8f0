package handlers

import (
	"context"
	"net/http"

	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/ws"
)

// Pinger, veritabanı bağlantısını kontrol eden tek metod (*sql.DB karşılar).
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler, GET /api/health.
type HealthHandler struct {
	db  Pinger
	hub ws.EventPublisher
}

// NewHealthHandler, constructor.
func NewHealthHandler(db Pinger, hub ws.EventPublisher) *HealthHandler {
	return &HealthHandler{db: db, hub: hub}
}

// HealthResponse, sağlık kontrolü cevabı.
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Sessions int    `json:"connected_sessions"`
}

// Health godoc
// GET /api/health
// Veritabanına ulaşılamazsa 503 döner.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Database: "ok", Sessions: len(h.hub.ConnectedSessions())}
	if err := h.db.PingContext(r.Context()); err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
		pkg.Raw(w, http.StatusServiceUnavailable, pkg.APIResponse{Success: false, Data: resp, Error: "database unavailable"})
		return
	}
	pkg.JSON(w, http.StatusOK, resp)
}
