package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akinalp/folio/database"
	"github.com/akinalp/folio/middleware"
	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/pkg/cache"
	"github.com/akinalp/folio/pkg/i18n"
	"github.com/akinalp/folio/pkg/ratelimit"
	"github.com/akinalp/folio/repository"
	"github.com/akinalp/folio/seed"
	"github.com/akinalp/folio/services"
	"github.com/akinalp/folio/static"
	"github.com/akinalp/folio/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	if err := i18n.Load(i18n.Locales()); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type nopPublisher struct{}

func (nopPublisher) BroadcastToAll(ws.Event)             {}
func (nopPublisher) BroadcastToSession(string, ws.Event) {}
func (nopPublisher) ConnectedSessions() []string         { return nil }

// uploadsPerMinute, test sunucusunun upload rate limit'i.
const uploadsPerMinute = 5

type testApp struct {
	srv       *httptest.Server
	client    *http.Client
	projects  services.ProjectsService
	uploadDir string
}

// newTestApp, gömülü seed ve geçici sqlite ile tam bir handler yığını kurar.
func newTestApp(t *testing.T, editorEnabled bool) *testApp {
	t.Helper()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), database.Migrations(), zap.NewNop())
	require.NoError(t, err)

	defaults, err := seed.Load("")
	require.NoError(t, err)

	pub := nopPublisher{}
	aspects := cache.New[string, string](time.Hour, time.Hour)
	sessionCache := cache.New[string, models.EditorSession](time.Hour, time.Hour)

	store := services.NewEditorStore(
		repository.NewSQLiteEditorDataRepo(db.Conn),
		repository.NewSQLiteContentFileRepo(db.Conn),
		zap.NewNop(),
	)
	uploadDir := filepath.Join(t.TempDir(), "uploads")
	media, err := services.NewMediaService(
		repository.NewSQLiteMediaRepo(db.Conn),
		uploadDir,
		models.DefaultUploadLimits,
		aspects,
		zap.NewNop(),
	)
	require.NoError(t, err)

	tasks := services.NewTaskRunner(pub, 5*time.Second, zap.NewNop())
	projects := services.NewProjectsService(defaults.Projects, store, media, tasks, pub, zap.NewNop())
	_, err = projects.Load(context.Background())
	require.NoError(t, err)
	sessions := services.NewSessionService(sessionCache, projects, media, tasks, pub, zap.NewNop())

	tmpl, err := static.Templates()
	require.NoError(t, err)

	limiter := ratelimit.New(uploadsPerMinute, time.Minute)

	mux := http.NewServeMux()
	Register(mux, Set{
		Page:       NewPageHandler(sessions, defaults.Site, tmpl, editorEnabled, models.DefaultUploadLimits, zap.NewNop()),
		Projects:   NewProjectsHandler(projects, sessions),
		Session:    NewSessionHandler(sessions, models.DefaultUploadLimits),
		Upload:     NewUploadHandler(media),
		EditorData: NewEditorDataHandler(store),
		Health:     NewHealthHandler(db.Conn, pub),
	}, RouteOptions{
		Editor:      middleware.NewEditorSwitch(editorEnabled),
		UploadLimit: middleware.NewUploadLimit(limiter),
		UploadDir:   uploadDir,
		Assets:      static.Assets(),
	})

	srv := httptest.NewServer(middleware.NewSessionMiddleware(time.Hour, false).Handler(mux))

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	t.Cleanup(func() {
		srv.Close()
		client.CloseIdleConnections()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tasks.Drain(ctx)
		sessionCache.Close()
		aspects.Close()
		limiter.Close()
		_ = db.Close()
	})

	return &testApp{srv: srv, client: client, projects: projects, uploadDir: uploadDir}
}

func (a *testApp) do(t *testing.T, method, path string, body io.Reader, contentType string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, a.srv.URL+path, body)
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	res, err := a.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { res.Body.Close() })
	return res
}

func (a *testApp) doJSON(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	return a.do(t, method, path, r, "application/json")
}

func readBody(t *testing.T, res *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return string(b)
}

// envelope, {success,data,error} cevabını data'yı v'ye çözerek okur.
func envelope(t *testing.T, res *http.Response, v any) pkg.APIResponse {
	t.Helper()
	var raw struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
		Error   string          `json:"error"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&raw))
	if v != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, v))
	}
	return pkg.APIResponse{Success: raw.Success, Error: raw.Error}
}

func multipartFile(t *testing.T, filename string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("purpose", "project"))
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func pngImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPage_RendersFirstPageOfSeed(t *testing.T) {
	app := newTestApp(t, true)

	res := app.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")

	html := readBody(t, res)
	cfg := app.projects.Snapshot()
	require.Len(t, cfg.Projects, 7)
	for i, p := range cfg.Projects {
		if i < 3 {
			assert.Contains(t, html, `data-project-id="`+p.ID+`"`)
		} else {
			assert.NotContains(t, html, `data-project-id="`+p.ID+`"`)
		}
	}
	assert.Contains(t, html, "더 많은 프로젝트 보기 (4개 더)")
	assert.NotContains(t, html, "contenteditable")
}

func TestPage_EnglishLabels(t *testing.T) {
	app := newTestApp(t, true)

	html := readBody(t, app.do(t, http.MethodGet, "/?lang=en", nil, ""))
	assert.Contains(t, html, `lang="en"`)
	assert.Contains(t, html, "Show more projects (4 more)")
}

func TestSession_LoadMoreAndEditMode(t *testing.T) {
	app := newTestApp(t, true)

	app.doJSON(t, http.MethodPost, "/api/session/load-more", nil)
	var view models.SectionView
	envelope(t, app.do(t, http.MethodGet, "/api/session", nil, ""), &view)
	assert.Equal(t, 6, view.Page.DisplayCount)
	assert.Len(t, view.Page.Projects, 6)
	assert.Equal(t, 1, view.Page.Remaining)

	res := app.doJSON(t, http.MethodPost, "/api/session/edit-mode", models.EditModeRequest{Enabled: true})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var sess models.EditorSession
	envelope(t, res, &sess)
	assert.True(t, sess.EditMode)
	assert.Equal(t, 3, sess.DisplayCount)

	html := readBody(t, app.do(t, http.MethodGet, "/partials/projects", nil, ""))
	assert.Contains(t, html, "contenteditable")
	assert.Contains(t, html, "프로젝트 추가")
	assert.Equal(t, 7, strings.Count(html, `class="card"`), "edit mode shows every project")
	assert.NotContains(t, html, "더 많은 프로젝트 보기")
}

func TestSession_Lightbox(t *testing.T) {
	app := newTestApp(t, true)
	first := app.projects.Snapshot().Projects[0]

	res := app.doJSON(t, http.MethodPost, "/api/session/lightbox/"+first.ID, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var sess models.EditorSession
	envelope(t, res, &sess)
	require.NotNil(t, sess.Lightbox)
	assert.Equal(t, first.ActiveMedia(), sess.Lightbox.Src)

	html := readBody(t, app.do(t, http.MethodGet, "/partials/projects", nil, ""))
	assert.Contains(t, html, "lightbox")

	res = app.doJSON(t, http.MethodDelete, "/api/session/lightbox", nil)
	envelope(t, res, &sess)
	assert.Nil(t, sess.Lightbox)

	res = app.doJSON(t, http.MethodPost, "/api/session/lightbox/missing", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestSession_UnknownModal(t *testing.T) {
	app := newTestApp(t, true)

	res := app.doJSON(t, http.MethodPost, "/api/session/modal/nope", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	body := envelope(t, res, nil)
	assert.Equal(t, "알 수 없는 대화상자입니다", body.Error)
}

func TestSession_SubmitDraft(t *testing.T) {
	app := newTestApp(t, true)
	app.doJSON(t, http.MethodPost, "/api/session/edit-mode", models.EditModeRequest{Enabled: true})
	app.doJSON(t, http.MethodPost, "/api/session/modal/add", nil)

	title := "새 프로젝트"
	app.doJSON(t, http.MethodPatch, "/api/session/draft", models.DraftPatch{Title: &title})

	res := app.doJSON(t, http.MethodPost, "/api/session/draft/submit", nil)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "제목과 설명을 입력해주세요", envelope(t, res, nil).Error)

	desc := "설명"
	video := "/uploads/demo.mp4"
	app.doJSON(t, http.MethodPatch, "/api/session/draft", models.DraftPatch{Description: &desc, Image: &video})

	res = app.doJSON(t, http.MethodPost, "/api/session/draft/submit", nil)
	require.Equal(t, http.StatusCreated, res.StatusCode)
	var out services.SubmitResult
	envelope(t, res, &out)
	require.NotNil(t, out.Project)
	assert.Equal(t, "/uploads/demo.mp4", out.Project.Video)
	assert.Empty(t, out.Project.Image)
	assert.False(t, out.Session.ShowAddModal)
	require.NotNil(t, out.Notice)
	assert.Equal(t, "project.added", out.Notice.Key)

	assert.Len(t, app.projects.Snapshot().Projects, 8)
}

func TestProjects_AddValidationAndErrors(t *testing.T) {
	app := newTestApp(t, true)

	res := app.doJSON(t, http.MethodPost, "/api/projects", models.ProjectDraft{Title: "only title"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Len(t, app.projects.Snapshot().Projects, 7)

	res = app.doJSON(t, http.MethodPatch, "/api/projects/fields/nope", "x")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, "알 수 없는 필드입니다: nope", envelope(t, res, nil).Error)

	res = app.doJSON(t, http.MethodDelete, "/api/projects/missing", nil)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)

	res = app.do(t, http.MethodPatch, "/api/projects/fields/title", strings.NewReader("{not json"), "application/json")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestProjects_UpdateAndRemove(t *testing.T) {
	app := newTestApp(t, true)
	cfg := app.projects.Snapshot()
	target := cfg.Projects[1]

	res := app.doJSON(t, http.MethodPatch, "/api/projects/fields/title", "Works")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var updated ConfigResponse
	envelope(t, res, &updated)
	assert.Equal(t, "Works", updated.Config.Title)
	require.NotNil(t, updated.Task)

	value := "새 제목"
	res = app.doJSON(t, http.MethodPatch, "/api/projects/"+target.ID, models.UpdateProjectRequest{Field: "title", Value: &value})
	require.Equal(t, http.StatusOK, res.StatusCode)

	res = app.doJSON(t, http.MethodDelete, "/api/projects/"+target.ID, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var removed RemoveResponse
	envelope(t, res, &removed)
	assert.Equal(t, "새 제목", removed.Project.Title)

	after := app.projects.Snapshot().Projects
	require.Len(t, after, 6)
	assert.Equal(t, cfg.Projects[0].ID, after[0].ID)
	assert.Equal(t, cfg.Projects[2].ID, after[1].ID)
}

func TestProjects_DisplaySettingsFloor(t *testing.T) {
	app := newTestApp(t, true)

	zero := 0
	res := app.doJSON(t, http.MethodPut, "/api/projects/display", models.DisplaySettingsRequest{InitialDisplay: &zero})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var out DisplayResponse
	envelope(t, res, &out)
	assert.Equal(t, 1, out.Config.InitialDisplay)
	assert.Equal(t, 1, out.Session.DisplayCount)
}

func TestEditorDisabled_BlocksMutations(t *testing.T) {
	app := newTestApp(t, false)

	res := app.doJSON(t, http.MethodPost, "/api/projects", models.ProjectDraft{Title: "t", Description: "d"})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	assert.Len(t, app.projects.Snapshot().Projects, 7)

	res = app.doJSON(t, http.MethodPost, "/api/session/edit-mode", models.EditModeRequest{Enabled: true})
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	body, ct := multipartFile(t, "cover.png", pngImage(t, 4, 4))
	res = app.do(t, http.MethodPost, "/api/session/draft/media", body, ct)
	assert.Equal(t, http.StatusForbidden, res.StatusCode)

	html := readBody(t, app.do(t, http.MethodGet, "/", nil, ""))
	assert.NotContains(t, html, `data-action="edit-mode"`)
}

func TestUpload_ImageRoundTrip(t *testing.T) {
	app := newTestApp(t, true)

	body, ct := multipartFile(t, "cover.png", pngImage(t, 160, 90))
	res := app.do(t, http.MethodPost, "/api/upload-image", body, ct)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var up models.UploadResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&up))
	assert.True(t, up.Success)
	assert.True(t, strings.HasPrefix(up.Path, "/uploads/project-"))

	res = app.doJSON(t, http.MethodDelete, "/api/delete-image", models.DeleteMediaRequest{ImagePath: up.Path})
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestUpload_RejectsOversizedImage(t *testing.T) {
	app := newTestApp(t, true)

	// gövde multipart sınırının altında kalır, tür limiti service'te devreye girer
	body, ct := multipartFile(t, "huge.png", make([]byte, 5<<20+512<<10))
	res := app.do(t, http.MethodPost, "/api/upload-image", body, ct)
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)

	var up models.UploadResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&up))
	assert.False(t, up.Success)
	assert.Contains(t, up.Error, "5.0 MiB")
}

func TestUpload_ServedWithoutActiveContent(t *testing.T) {
	app := newTestApp(t, true)

	body, ct := multipartFile(t, "cover.png", pngImage(t, 8, 8))
	res := app.do(t, http.MethodPost, "/api/upload-image", body, ct)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var up models.UploadResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&up))

	res = app.do(t, http.MethodGet, up.Path, nil, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "image/png", res.Header.Get("Content-Type"))
	assert.Equal(t, "nosniff", res.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, res.Header.Get("Content-Security-Policy"), "sandbox")
}

func TestUpload_SVGRejected(t *testing.T) {
	app := newTestApp(t, true)

	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script></svg>`)
	body, ct := multipartFile(t, "evil.svg", svg)
	res := app.do(t, http.MethodPost, "/api/upload-image", body, ct)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	var up models.UploadResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&up))
	assert.False(t, up.Success)

	entries, err := os.ReadDir(app.uploadDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploads_OnlyFlatFileNames(t *testing.T) {
	app := newTestApp(t, true)

	require.NoError(t, os.WriteFile(filepath.Join(app.uploadDir, "ok.png"), pngImage(t, 2, 2), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(app.uploadDir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(app.uploadDir, "sub", "x.png"), pngImage(t, 2, 2), 0o644))
	secret := filepath.Join(filepath.Dir(app.uploadDir), "secret.txt")
	require.NoError(t, os.WriteFile(secret, []byte("top secret"), 0o644))

	res := app.do(t, http.MethodGet, "/uploads/ok.png", nil, "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	for _, p := range []string{"/uploads/sub/x.png", "/uploads/sub/", "/uploads/", "/uploads/..%2fsecret.txt", "/uploads/..%5csecret.txt"} {
		res := app.do(t, http.MethodGet, p, nil, "")
		assert.NotEqual(t, http.StatusOK, res.StatusCode, p)
		assert.NotContains(t, readBody(t, res), "top secret", p)
	}

	// ServeMux ".." içeren yolu temizleyip yönlendirir; dosya hiçbir durumda dönmez.
	req, err := http.NewRequest(http.MethodGet, app.srv.URL+"/uploads/../secret.txt", nil)
	require.NoError(t, err)
	req.URL.Opaque = "/uploads/../secret.txt"
	res, err = app.client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.NotContains(t, readBody(t, res), "top secret")
}

func TestPage_AddDialogCarriesUploadLimits(t *testing.T) {
	app := newTestApp(t, true)

	app.doJSON(t, http.MethodPost, "/api/session/edit-mode", models.EditModeRequest{Enabled: true})
	app.doJSON(t, http.MethodPost, "/api/session/modal/add", nil)

	html := readBody(t, app.do(t, http.MethodGet, "/partials/projects", nil, ""))
	assert.Contains(t, html, `accept="image/*,video/mp4,video/webm"`)
	assert.Contains(t, html, `data-max-image="5242880"`)
	assert.Contains(t, html, `data-max-video="20971520"`)
	assert.Contains(t, html, "파일 크기는 5.0 MiB 이하여야 합니다")
	assert.Contains(t, html, "파일 크기는 20 MiB 이하여야 합니다")
}

func TestSession_DraftMediaUpload(t *testing.T) {
	app := newTestApp(t, true)

	app.doJSON(t, http.MethodPost, "/api/session/edit-mode", models.EditModeRequest{Enabled: true})
	app.doJSON(t, http.MethodPost, "/api/session/modal/add", nil)

	body, ct := multipartFile(t, "cover.png", pngImage(t, 40, 30))
	res := app.do(t, http.MethodPost, "/api/session/draft/media", body, ct)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out struct {
		Session models.EditorSession `json:"session"`
		Media   models.Media         `json:"media"`
	}
	envelope(t, res, &out)
	assert.True(t, strings.HasPrefix(out.Media.Path, "/uploads/project-"))
	assert.Equal(t, out.Media.Path, out.Session.Draft.Image)

	res = app.do(t, http.MethodGet, out.Media.Path, nil, "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	// Boyut hatasında taslak değişmez.
	body, ct = multipartFile(t, "huge.png", make([]byte, 5<<20+512<<10))
	res = app.do(t, http.MethodPost, "/api/session/draft/media", body, ct)
	assert.Equal(t, http.StatusRequestEntityTooLarge, res.StatusCode)

	var view models.SectionView
	envelope(t, app.do(t, http.MethodGet, "/api/session", nil, ""), &view)
	assert.Equal(t, out.Media.Path, view.Session.Draft.Image)
}

func TestUpload_RateLimited(t *testing.T) {
	app := newTestApp(t, true)

	for i := 0; i < uploadsPerMinute; i++ {
		body, ct := multipartFile(t, "a.png", pngImage(t, 2, 2))
		res := app.do(t, http.MethodPost, "/api/upload-image", body, ct)
		require.Equal(t, http.StatusOK, res.StatusCode, "upload %d", i)
	}

	body, ct := multipartFile(t, "a.png", pngImage(t, 2, 2))
	res := app.do(t, http.MethodPost, "/api/upload-image", body, ct)
	assert.Equal(t, http.StatusTooManyRequests, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("Retry-After"))
}

func TestUpload_DeleteRejectsForeignPath(t *testing.T) {
	app := newTestApp(t, true)

	res := app.doJSON(t, http.MethodDelete, "/api/delete-image", models.DeleteMediaRequest{ImagePath: "/etc/passwd"})
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	var up models.UploadResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&up))
	assert.False(t, up.Success)
	assert.NotEmpty(t, up.Error)
}

func TestEditorData_KeyValueAndFile(t *testing.T) {
	app := newTestApp(t, true)

	res := app.do(t, http.MethodPut, "/api/editor/data/about-info", strings.NewReader(`{"a":1}`), "application/json")
	require.Equal(t, http.StatusOK, res.StatusCode)

	var got map[string]int
	envelope(t, app.do(t, http.MethodGet, "/api/editor/data/about-info", nil, ""), &got)
	assert.Equal(t, map[string]int{"a": 1}, got)

	res = app.do(t, http.MethodGet, "/api/editor/data/bad%20key", nil, "")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	res = app.doJSON(t, http.MethodPost, "/api/save-file", map[string]any{
		"section": "about", "suffix": "Info", "data": map[string]string{"x": "y"},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var saved models.SaveResult
	envelope(t, res, &saved)
	assert.False(t, saved.Superseded)
	assert.NotEmpty(t, saved.Checksum)

	res = app.do(t, http.MethodGet, "/api/save-file/about/Info", nil, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	etag := res.Header.Get("ETag")
	assert.Equal(t, `"`+saved.Checksum+`"`, etag)

	req, err := http.NewRequest(http.MethodGet, app.srv.URL+"/api/save-file/about/Info", nil)
	require.NoError(t, err)
	req.Header.Set("If-None-Match", etag)
	res, err = app.client.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotModified, res.StatusCode)

	res = app.do(t, http.MethodGet, "/api/save-file/missing/Info", nil, "")
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, true)

	res := app.do(t, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	var h HealthResponse
	envelope(t, res, &h)
	assert.Equal(t, "ok", h.Status)
}
