package handlers

import (
	"net/http"

	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/services"
)

// ProjectsHandler, projeler bölümünün JSON API'si.
//
// Değişiklikler bellekte ve local cache'te hemen uygulanır; uzak kayıt arka planda
// sürer ve cevapta sadece görev referansı döner.
type ProjectsHandler struct {
	projects services.ProjectsService
	sessions services.SessionService
}

// NewProjectsHandler, constructor.
func NewProjectsHandler(projects services.ProjectsService, sessions services.SessionService) *ProjectsHandler {
	return &ProjectsHandler{projects: projects, sessions: sessions}
}

// ConfigResponse, bölüm değiştiren endpoint'lerin cevabı.
type ConfigResponse struct {
	Config models.ProjectsSectionConfig `json:"config"`
	Task   *TaskRef                     `json:"task,omitempty"`
}

// ProjectResponse, tek proje dönen endpoint'lerin cevabı.
type ProjectResponse struct {
	Project models.Project `json:"project"`
	Task    *TaskRef       `json:"task,omitempty"`
}

// RemoveResponse, DELETE /api/projects/{id} cevabı.
type RemoveResponse struct {
	Project models.Project `json:"project"`
	Task    *TaskRef       `json:"task,omitempty"`
	Cleanup *TaskRef       `json:"cleanup,omitempty"`
}

// DisplayResponse, görüntüleme ayarları endpoint'lerinin cevabı.
// Session, isteği yapan ziyaretçinin güncel görünüm state'idir.
type DisplayResponse struct {
	Config  models.ProjectsSectionConfig `json:"config"`
	Session models.EditorSession         `json:"session"`
}

// List godoc
// GET /api/projects
func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, h.projects.Snapshot())
}

// UpdateField godoc
// PATCH /api/projects/fields/{key}
// Body: alanın yeni değeri, ham JSON (ör. "Başlık", 6, {...}).
func (h *ProjectsHandler) UpdateField(w http.ResponseWriter, r *http.Request) {
	key, err := models.ParseSectionField(r.PathValue("key"))
	if err != nil {
		writeError(w, r, &pkg.Localized{
			Key:    "project.invalidField",
			Params: map[string]string{"field": r.PathValue("key")},
		})
		return
	}

	raw, err := readRawJSON(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cfg, task, err := h.projects.UpdateField(r.Context(), key, raw)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, ConfigResponse{Config: cfg, Task: taskRef(task)})
}

// Add godoc
// POST /api/projects
// Body: {"image","title","description","pdfUrl"}
func (h *ProjectsHandler) Add(w http.ResponseWriter, r *http.Request) {
	var draft models.ProjectDraft
	if err := decodeJSON(w, r, &draft); err != nil {
		writeError(w, r, err)
		return
	}

	project, task, err := h.projects.AddProject(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, ProjectResponse{Project: project, Task: taskRef(task)})
}

// UpdateProject godoc
// PATCH /api/projects/{id}
// Body: {"field": "title", "value": "..."}; value null ise alan temizlenir.
func (h *ProjectsHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateProjectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	field, err := models.ParseProjectField(req.Field)
	if err != nil {
		writeError(w, r, &pkg.Localized{
			Key:    "project.invalidField",
			Params: map[string]string{"field": req.Field},
		})
		return
	}

	project, task, err := h.projects.UpdateProjectField(r.Context(), r.PathValue("id"), field, req.Value)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, ProjectResponse{Project: project, Task: taskRef(task)})
}

// Remove godoc
// DELETE /api/projects/{id}
// Yüklenmiş medya ayrı bir görevde silinir; cleanup o görevin referansıdır.
func (h *ProjectsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	res, err := h.projects.RemoveProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, RemoveResponse{
		Project: res.Project,
		Task:    taskRef(res.Persist),
		Cleanup: taskRef(res.Cleanup),
	})
}

// UpdateBackground godoc
// PUT /api/projects/background
// Body: {"image"?, "video"?, "color"?, "opacity"?}; gönderilmeyen alanlar korunur.
func (h *ProjectsHandler) UpdateBackground(w http.ResponseWriter, r *http.Request) {
	var patch models.BackgroundPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeError(w, r, err)
		return
	}

	bg, task, err := h.projects.UpdateBackground(r.Context(), patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	pkg.JSON(w, http.StatusOK, map[string]any{"background": bg, "task": taskRef(task)})
}

// UpdateDisplay godoc
// PUT /api/projects/display
// Body: {"initialDisplay"?, "loadMoreCount"?}; değerler en az 1'e çekilir.
func (h *ProjectsHandler) UpdateDisplay(w http.ResponseWriter, r *http.Request) {
	var req models.DisplaySettingsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	sess := h.sessions.ApplyDisplaySettings(r.Context(), pkg.SessionID(r.Context()), req)
	pkg.JSON(w, http.StatusOK, DisplayResponse{Config: h.projects.Snapshot(), Session: sess})
}

// ResetDisplay godoc
// POST /api/projects/display/reset
// Ayarları 6/3'e döndürür.
func (h *ProjectsHandler) ResetDisplay(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.ResetDisplaySettings(r.Context(), pkg.SessionID(r.Context()))
	pkg.JSON(w, http.StatusOK, DisplayResponse{Config: h.projects.Snapshot(), Session: sess})
}

// Save godoc
// POST /api/projects/save
// Açık kayıt; uzak kaydın bitmesini bekler ve sonucunu döner.
func (h *ProjectsHandler) Save(w http.ResponseWriter, r *http.Request) {
	res, err := h.projects.Save(r.Context()).Wait(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !res.Success && !res.Superseded {
		pkg.Raw(w, http.StatusBadGateway, pkg.APIResponse{Success: false, Data: res, Error: res.Reason})
		return
	}
	pkg.JSON(w, http.StatusOK, res)
}
