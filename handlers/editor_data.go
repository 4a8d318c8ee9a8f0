package handlers

import (
	"net/http"
	"strconv"

	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/services"
)

// revisionsLimit, revisions endpoint'inin döndüğü en fazla kayıt.
const revisionsLimit = 50

// EditorDataHandler, kalıcılık katmanının ham HTTP yüzü: key-value editör verisi
// ve "dosyaya kaydet" dokümanları.
//
// Projeler bölümü bu katmanı ProjectsService üzerinden kullanır; bu endpoint'ler
// diğer bölümlerin ve dışa aktarma araçlarının doğrudan erişimi içindir.
type EditorDataHandler struct {
	store services.EditorStore
}

// NewEditorDataHandler, constructor.
func NewEditorDataHandler(store services.EditorStore) *EditorDataHandler {
	return &EditorDataHandler{store: store}
}

func validKey(key string) error {
	if !models.ValidKey(key) {
		return &pkg.Localized{Key: "editor.invalidKey"}
	}
	return nil
}

// GetData godoc
// GET /api/editor/data/{key}
// Kayıt yoksa data null döner.
func (h *EditorDataHandler) GetData(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := validKey(key); err != nil {
		writeError(w, r, err)
		return
	}

	raw, err := h.store.Get(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, raw)
}

// PutData godoc
// PUT /api/editor/data/{key}
// Body: herhangi bir JSON değeri.
func (h *EditorDataHandler) PutData(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	if err := validKey(key); err != nil {
		writeError(w, r, err)
		return
	}

	raw, err := readRawJSON(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.store.Set(r.Context(), key, raw); err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, raw)
}

// SaveFile godoc
// POST /api/save-file
// Body: {"section": "projects", "suffix": "Info", "data": {...}, "revision": 0}
// Kayıtlı revision'dan eski bir revision gelirse superseded=true döner, hiçbir şey yazılmaz.
func (h *EditorDataHandler) SaveFile(w http.ResponseWriter, r *http.Request) {
	var req models.SaveFileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, &pkg.Localized{Key: "editor.invalidKey", Err: pkg.ErrBadRequest})
		return
	}

	res, err := h.store.SaveToFile(r.Context(), models.ContentDocument{
		Section:  req.Section,
		Suffix:   req.Suffix,
		Revision: req.Revision,
		Value:    req.Data,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, res)
}

// LoadFile godoc
// GET /api/save-file/{section}/{suffix}
// ETag içeriğin blake2b özetidir; If-None-Match eşleşirse 304 döner.
func (h *EditorDataHandler) LoadFile(w http.ResponseWriter, r *http.Request) {
	section, suffix := r.PathValue("section"), r.PathValue("suffix")
	if validKey(section) != nil || validKey(suffix) != nil {
		writeError(w, r, &pkg.Localized{Key: "editor.invalidKey"})
		return
	}

	file, err := h.store.LoadFile(r.Context(), section, suffix)
	if err != nil {
		writeError(w, r, err)
		return
	}

	etag := strconv.Quote(file.Checksum)
	w.Header().Set("ETag", etag)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	pkg.JSON(w, http.StatusOK, file)
}

// Revisions godoc
// GET /api/save-file/{section}/{suffix}/revisions
// En yeniden eskiye kayıt geçmişi.
func (h *EditorDataHandler) Revisions(w http.ResponseWriter, r *http.Request) {
	section, suffix := r.PathValue("section"), r.PathValue("suffix")
	if validKey(section) != nil || validKey(suffix) != nil {
		writeError(w, r, &pkg.Localized{Key: "editor.invalidKey"})
		return
	}

	revs, err := h.store.FileRevisions(r.Context(), section, suffix, revisionsLimit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, revs)
}
