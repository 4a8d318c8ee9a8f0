package handlers

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/akinalp/folio/middleware"
)

// Set, route'lara bağlanan handler'lar.
// WS nil ise /ws kaydedilmez.
type Set struct {
	Page       *PageHandler
	Projects   *ProjectsHandler
	Session    *SessionHandler
	Upload     *UploadHandler
	EditorData *EditorDataHandler
	Health     *HealthHandler
	WS         http.HandlerFunc
}

// RouteOptions, route tablosunun handler dışı bağımlılıkları.
type RouteOptions struct {
	Editor      *middleware.EditorSwitch
	UploadLimit *middleware.UploadLimit
	UploadDir   string
	Assets      fs.FS
}

// Register, tüm endpoint'leri mux'a bağlar.
//
// Route sıralama kuralı: "/api/projects/fields/{key}" ve "/api/projects/display"
// gibi literal path'ler ServeMux'ta "{id}" kalıbından daha spesifik olduğu için önceliklidir.
func Register(mux *http.ServeMux, h Set, opts RouteOptions) {
	// ─── Middleware Chain Helpers ───
	// edit: editör anahtarı kapalıysa 403
	// upload: editör anahtarı + IP bazlı rate limit
	edit := func(handler http.HandlerFunc) http.Handler {
		return opts.Editor.Require(handler)
	}
	upload := func(handler http.HandlerFunc) http.Handler {
		return opts.Editor.Require(opts.UploadLimit.Require(handler))
	}

	// ─── Page ───
	mux.HandleFunc("GET /{$}", h.Page.Page)
	mux.HandleFunc("GET /partials/projects", h.Page.ProjectsPartial)

	// ─── Health ───
	mux.HandleFunc("GET /api/health", h.Health.Health)

	// ─── Projects ───
	mux.HandleFunc("GET /api/projects", h.Projects.List)
	mux.Handle("POST /api/projects", edit(h.Projects.Add))
	mux.Handle("PATCH /api/projects/fields/{key}", edit(h.Projects.UpdateField))
	mux.Handle("PUT /api/projects/background", edit(h.Projects.UpdateBackground))
	mux.Handle("PUT /api/projects/display", edit(h.Projects.UpdateDisplay))
	mux.Handle("POST /api/projects/display/reset", edit(h.Projects.ResetDisplay))
	mux.Handle("POST /api/projects/save", edit(h.Projects.Save))
	mux.Handle("PATCH /api/projects/{id}", edit(h.Projects.UpdateProject))
	mux.Handle("DELETE /api/projects/{id}", edit(h.Projects.Remove))

	// ─── Session (ziyaretçi görünüm state'i) ───
	// Okuma ve gezinme (load-more, lightbox) editör kapalıyken de çalışır.
	mux.HandleFunc("GET /api/session", h.Session.Get)
	mux.HandleFunc("POST /api/session/load-more", h.Session.LoadMore)
	mux.HandleFunc("POST /api/session/lightbox/{id}", h.Session.OpenLightbox)
	mux.HandleFunc("DELETE /api/session/lightbox", h.Session.CloseLightbox)
	mux.Handle("POST /api/session/edit-mode", edit(h.Session.SetEditMode))
	mux.Handle("POST /api/session/modal/{name}", edit(h.Session.OpenModal))
	mux.Handle("DELETE /api/session/modal/{name}", edit(h.Session.CloseModal))
	mux.Handle("PATCH /api/session/draft", edit(h.Session.UpdateDraft))
	mux.Handle("POST /api/session/draft/media", upload(h.Session.AttachDraftMedia))
	mux.Handle("POST /api/session/draft/submit", edit(h.Session.SubmitDraft))
	mux.Handle("POST /api/session/settings/save", edit(h.Session.SaveSettings))

	// ─── Upload ───
	mux.Handle("POST /api/upload-image", upload(h.Upload.UploadImage))
	mux.Handle("POST /api/upload-video", upload(h.Upload.UploadVideo))
	mux.Handle("DELETE /api/delete-image", edit(h.Upload.DeleteImage))

	// ─── Editor data / save-file ───
	mux.HandleFunc("GET /api/editor/data/{key}", h.EditorData.GetData)
	mux.Handle("PUT /api/editor/data/{key}", edit(h.EditorData.PutData))
	mux.Handle("POST /api/save-file", edit(h.EditorData.SaveFile))
	mux.HandleFunc("GET /api/save-file/{section}/{suffix}", h.EditorData.LoadFile)
	mux.HandleFunc("GET /api/save-file/{section}/{suffix}/revisions", h.EditorData.Revisions)

	// ─── Static ───
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", Uploads(opts.UploadDir)))
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(opts.Assets)))

	// ─── WebSocket ───
	// Kimlik doğrulama yok; bağlantı session cookie'sindeki oturuma bağlanır.
	if h.WS != nil {
		mux.HandleFunc("GET /ws", h.WS)
	}
}

// Uploads, yüklenen dosyaları sunar. StripPrefix'ten sonra kullanılır.
//
// Sadece düz dosya isimleri kabul edilir, alt dizinler reddedilir.
// Örnek: GET /uploads/project-ab12.png → {UPLOAD_DIR}/project-ab12.png
// Dosyalar sitenin kendi origin'inden sunulduğu için tarayıcı içeriği
// çalıştırmamalı: nosniff ve sandbox CSP her cevaba eklenir.
func Uploads(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Path
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Content-Security-Policy", "sandbox; default-src 'none'; img-src 'self'; media-src 'self'")
		files.ServeHTTP(w, r)
	})
}
