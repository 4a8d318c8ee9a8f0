package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/pkg/i18n"
	"github.com/akinalp/folio/pkg/ratelimit"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	if err := i18n.Load(i18n.Locales()); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type seen struct {
	sessionID string
	lang      string
}

func capture(out *seen) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		out.sessionID = pkg.SessionID(r.Context())
		out.lang = pkg.Lang(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func findCookie(res *http.Response, name string) *http.Cookie {
	for _, c := range res.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestSession_IssuesAndReusesCookie(t *testing.T) {
	mw := NewSessionMiddleware(time.Hour, false)
	var got seen
	h := mw.Handler(capture(&got))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	issued := findCookie(rec.Result(), SessionCookieName)
	require.NotNil(t, issued)
	assert.True(t, issued.HttpOnly)
	assert.Equal(t, issued.Value, got.sessionID)
	_, err := uuid.Parse(got.sessionID)
	require.NoError(t, err)
	assert.Equal(t, i18n.DefaultLanguage, got.lang)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(issued)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, issued.Value, got.sessionID)
}

func TestSession_ReplacesMalformedCookie(t *testing.T) {
	var got seen
	h := NewSessionMiddleware(time.Hour, false).Handler(capture(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "../../etc"})
	h.ServeHTTP(httptest.NewRecorder(), req)

	_, err := uuid.Parse(got.sessionID)
	assert.NoError(t, err)
}

func TestSession_Language(t *testing.T) {
	var got seen
	h := NewSessionMiddleware(time.Hour, false).Handler(capture(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "en", got.lang)

	rec := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/?lang=ko", nil)
	req.Header.Set("Accept-Language", "en")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "ko", got.lang)

	langCookie := findCookie(rec.Result(), langCookieName)
	require.NotNil(t, langCookie)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en")
	req.AddCookie(langCookie)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "ko", got.lang)
}

func TestEditorSwitch(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := httptest.NewRecorder()
	NewEditorSwitch(true).Require(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(pkg.WithLang(req.Context(), "en"))
	NewEditorSwitch(false).Require(ok).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body pkg.APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "Editing is disabled", body.Error)
}

func TestUploadLimit(t *testing.T) {
	limiter := ratelimit.New(2, time.Minute)
	defer limiter.Close()
	h := NewUploadLimit(limiter).Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/upload-image", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1001").Code)

	rec := do("10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	var body models.UploadResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Error)

	assert.Equal(t, http.StatusOK, do("10.0.0.2:1000").Code, "limits are per client")
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusNotFound), entries[0].ContextMap()["status"])
	assert.Equal(t, "/missing", entries[0].ContextMap()["path"])
}
