package handlers

import (
	"net/http"

	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/services"
)

// SessionHandler, ziyaretçinin görünüm state'ini değiştiren endpoint'ler:
// edit modu, daha fazla göster, lightbox, diyaloglar ve "proje ekle" taslağı.
type SessionHandler struct {
	sessions services.SessionService
	limits   models.UploadLimits
}

// NewSessionHandler, constructor. limits taslak medyası için multipart gövde sınırını belirler.
func NewSessionHandler(sessions services.SessionService, limits models.UploadLimits) *SessionHandler {
	return &SessionHandler{sessions: sessions, limits: limits}
}

func sessionID(r *http.Request) string {
	return pkg.SessionID(r.Context())
}

// Get godoc
// GET /api/session
// Bu oturumun render modeli: görünür projeler, hasMore, lightbox, diyaloglar, taslak.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, h.sessions.View(r.Context(), sessionID(r)))
}

// SetEditMode godoc
// POST /api/session/edit-mode
// Body: {"enabled": true}
func (h *SessionHandler) SetEditMode(w http.ResponseWriter, r *http.Request) {
	var req models.EditModeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, h.sessions.SetEditMode(r.Context(), sessionID(r), req.Enabled))
}

// LoadMore godoc
// POST /api/session/load-more
func (h *SessionHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, h.sessions.LoadMore(r.Context(), sessionID(r)))
}

// OpenLightbox godoc
// POST /api/session/lightbox/{id}
func (h *SessionHandler) OpenLightbox(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.OpenLightbox(r.Context(), sessionID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, sess)
}

// CloseLightbox godoc
// DELETE /api/session/lightbox
func (h *SessionHandler) CloseLightbox(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, h.sessions.CloseLightbox(r.Context(), sessionID(r)))
}

func parseModal(r *http.Request) (models.Modal, error) {
	modal, err := models.ParseModal(r.PathValue("name"))
	if err != nil {
		return "", &pkg.Localized{Key: "session.unknownModal"}
	}
	return modal, nil
}

// OpenModal godoc
// POST /api/session/modal/{name}
// name: "add" veya "settings". Edit modu dışında etkisizdir.
func (h *SessionHandler) OpenModal(w http.ResponseWriter, r *http.Request) {
	modal, err := parseModal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, h.sessions.OpenModal(r.Context(), sessionID(r), modal))
}

// CloseModal godoc
// DELETE /api/session/modal/{name}
// "add" kapatılırsa taslak ve taslağa yüklenmiş dosya silinir.
func (h *SessionHandler) CloseModal(w http.ResponseWriter, r *http.Request) {
	modal, err := parseModal(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, h.sessions.CloseModal(r.Context(), sessionID(r), modal))
}

// UpdateDraft godoc
// PATCH /api/session/draft
// Body: {"image"?, "title"?, "description"?, "pdfUrl"?}
func (h *SessionHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	var patch models.DraftPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, h.sessions.UpdateDraft(r.Context(), sessionID(r), patch))
}

// AttachDraftMedia godoc
// POST /api/session/draft/media
// Content-Type: multipart/form-data, "file" alanı.
// Boyut kontrolü diske yazmadan önce yapılır; hata durumunda taslak değişmez.
func (h *SessionHandler) AttachDraftMedia(w http.ResponseWriter, r *http.Request) {
	file, header, err := readUpload(w, r, h.limits.Video)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer file.Close()

	sess, media, err := h.sessions.AttachDraftMedia(r.Context(), sessionID(r), file, header)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]any{"session": sess, "media": media})
}

// SubmitDraft godoc
// POST /api/session/draft/submit
// Doğrulama hatasında 400 döner ve diyalog açık kalır.
func (h *SessionHandler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	res, err := h.sessions.SubmitDraft(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, res)
}

// SaveSettings godoc
// POST /api/session/settings/save
// Açık kayıt yapar, bitmesini bekler ve ayar diyaloğunu kapatır.
func (h *SessionHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	res, err := h.sessions.SaveSettings(r.Context(), sessionID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, res)
}
