// Package main — HTTP route registration.
//
// Route tablosu handlers.Register'dadır; testler de aynı tabloyu kullanır.
// Burada sadece middleware instance'ları oluşturulur.
package main

import (
	"io/fs"
	"net/http"

	"github.com/akinalp/folio/handlers"
	"github.com/akinalp/folio/middleware"
)

// initRoutes, middleware'ları kurar ve endpoint'leri mux'a bağlar.
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	limiters *RateLimiters,
	editorEnabled bool,
	uploadDir string,
	assets fs.FS,
) {
	handlers.Register(mux, handlers.Set{
		Page:       h.Page,
		Projects:   h.Projects,
		Session:    h.Session,
		Upload:     h.Upload,
		EditorData: h.EditorData,
		Health:     h.Health,
		WS:         h.WS.HandleConnection,
	}, handlers.RouteOptions{
		Editor:      middleware.NewEditorSwitch(editorEnabled),
		UploadLimit: middleware.NewUploadLimit(limiters.Upload),
		UploadDir:   uploadDir,
		Assets:      assets,
	})
}
