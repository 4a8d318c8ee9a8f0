// Package main — Handler katmanı başlatma.
//
// initHandlers, HTTP handler'larını oluşturur.
// Handler'lar "thin"dir: sadece HTTP parse + service call + response write.
package main

import (
	"database/sql"
	"html/template"

	"github.com/akinalp/folio/config"
	"github.com/akinalp/folio/handlers"
	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/seed"
	"github.com/akinalp/folio/ws"
	"go.uber.org/zap"
)

// Handlers, handler instance'larını tutan container struct.
type Handlers struct {
	Page       *handlers.PageHandler
	Projects   *handlers.ProjectsHandler
	Session    *handlers.SessionHandler
	Upload     *handlers.UploadHandler
	EditorData *handlers.EditorDataHandler
	Health     *handlers.HealthHandler
	WS         *ws.Handler
}

func initHandlers(
	svcs *Services,
	hub *ws.Hub,
	conn *sql.DB,
	tmpl *template.Template,
	site seed.SiteInfo,
	cfg *config.Config,
	logger *zap.Logger,
) *Handlers {
	limits := models.UploadLimits{Image: cfg.Upload.ImageMaxSize, Video: cfg.Upload.VideoMaxSize}

	return &Handlers{
		Page:       handlers.NewPageHandler(svcs.Sessions, site, tmpl, cfg.Content.EditorEnabled, limits, logger.Named("page")),
		Projects:   handlers.NewProjectsHandler(svcs.Projects, svcs.Sessions),
		Session:    handlers.NewSessionHandler(svcs.Sessions, limits),
		Upload:     handlers.NewUploadHandler(svcs.Media),
		EditorData: handlers.NewEditorDataHandler(svcs.Store),
		Health:     handlers.NewHealthHandler(conn, hub),
		WS:         ws.NewHandler(hub, cfg.CORS.AllowedOrigins, logger.Named("ws")),
	}
}
