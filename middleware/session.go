// Package middleware, HTTP request pipeline'ına eklenen ara katmanları barındırır.
//
// Go'da middleware bir fonksiyondur:
//
//	func(next http.Handler) http.Handler
//
// Zincir: RequestID → RealIP → Recoverer → Logger → Session → (EditorSwitch / UploadLimit) → Handler
package middleware

import (
	"net/http"
	"time"

	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/pkg/i18n"
	"github.com/google/uuid"
)

// SessionCookieName, ziyaretçi oturum cookie'si.
const SessionCookieName = "folio_session"

// langCookieName, kullanıcının seçtiği dil (?lang= ile değiştirilir).
const langCookieName = "folio_lang"

// SessionMiddleware, her isteğe bir ziyaretçi oturumu bağlar.
//
// Kimlik doğrulama değildir: cookie sadece görünüm state'ini (edit modu, kaç kart
// açık, taslak) aynı ziyaretçinin sonraki isteklerine taşımak içindir.
type SessionMiddleware struct {
	ttl    time.Duration
	secure bool
}

// NewSessionMiddleware, constructor.
func NewSessionMiddleware(ttl time.Duration, secure bool) *SessionMiddleware {
	return &SessionMiddleware{ttl: ttl, secure: secure}
}

// Handler, cookie'deki oturum ID'sini okur, yoksa veya bozuksa yenisini üretir.
// Oturum ID'si ve isteğin dili context'e eklenir.
func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := ""
		if c, err := r.Cookie(SessionCookieName); err == nil {
			if id, err := uuid.Parse(c.Value); err == nil {
				sessionID = id.String()
			}
		}
		if sessionID == "" {
			sessionID = uuid.NewString()
		}
		// Her istekte süre uzar.
		http.SetCookie(w, m.cookie(SessionCookieName, sessionID))

		lang := m.language(w, r)

		ctx := pkg.WithSessionID(r.Context(), sessionID)
		ctx = pkg.WithLang(ctx, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// language: ?lang= > cookie > Accept-Language > varsayılan.
func (m *SessionMiddleware) language(w http.ResponseWriter, r *http.Request) string {
	if q := r.URL.Query().Get("lang"); q != "" {
		lang := i18n.NewLocalizer(q).Lang()
		http.SetCookie(w, m.cookie(langCookieName, lang))
		return lang
	}
	if c, err := r.Cookie(langCookieName); err == nil {
		return i18n.NewLocalizer(c.Value).Lang()
	}
	return i18n.DetectLanguage(r.Header.Get("Accept-Language"))
}

func (m *SessionMiddleware) cookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
