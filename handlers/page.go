package handlers

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/seed"
	"github.com/akinalp/folio/services"
	"github.com/akinalp/folio/static"
	"go.uber.org/zap"
)

// PageHandler, sayfayı html/template ile sunucu tarafında çizer.
//
// Bütün görünüm state'i (edit modu, kaç kart açık, lightbox, diyaloglar)
// oturumdan gelir; istemci aksiyondan sonra sadece projeler partial'ını yeniden çeker.
type PageHandler struct {
	sessions      services.SessionService
	site          seed.SiteInfo
	tmpl          *template.Template
	editorEnabled bool
	limits        models.UploadLimits
	logger        *zap.Logger
}

// NewPageHandler, constructor.
func NewPageHandler(
	sessions services.SessionService,
	site seed.SiteInfo,
	tmpl *template.Template,
	editorEnabled bool,
	limits models.UploadLimits,
	logger *zap.Logger,
) *PageHandler {
	return &PageHandler{
		sessions:      sessions,
		site:          site,
		tmpl:          tmpl,
		editorEnabled: editorEnabled,
		limits:        limits,
		logger:        logger,
	}
}

func (h *PageHandler) data(r *http.Request) static.PageData {
	loc := localizer(r)
	view := h.sessions.View(r.Context(), pkg.SessionID(r.Context()))
	if !h.editorEnabled {
		// editör kapalıyken eski bir oturumun edit modu sayfaya yansımaz
		view.Session.EditMode = false
	}
	return static.PageData{
		Lang:          loc.Lang(),
		Site:          h.site,
		View:          view,
		EditorEnabled: h.editorEnabled,
		Limits:        h.limits,
		L:             loc,
		Year:          time.Now().Year(),
	}
}

// render, şablonu önce buffer'a çizer; hata olursa yarım HTML gönderilmez.
func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, name string) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, name, h.data(r)); err != nil {
		h.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
		http.Error(w, localizer(r).T("errors.internal"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// Page godoc
// GET /
func (h *PageHandler) Page(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "page")
}

// ProjectsPartial godoc
// GET /partials/projects
// Sadece projeler bölümünü döner; editor.js #projects-root içine yerleştirir.
func (h *PageHandler) ProjectsPartial(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "projects")
}
