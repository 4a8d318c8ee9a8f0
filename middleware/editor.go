package middleware

import (
	"net/http"

	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/pkg/i18n"
)

// EditorSwitch, içerik değiştiren endpoint'leri tek bir config anahtarıyla kapatır.
// CONTENT_EDITOR_ENABLED=false iken bu route'lar 403 döner; okuma route'ları etkilenmez.
type EditorSwitch struct {
	enabled bool
}

// NewEditorSwitch, constructor.
func NewEditorSwitch(enabled bool) *EditorSwitch {
	return &EditorSwitch{enabled: enabled}
}

// Enabled, editörün açık olup olmadığı. Sayfa şablonu edit butonunu buna göre gösterir.
func (m *EditorSwitch) Enabled() bool {
	return m.enabled
}

// Require, editör kapalıysa isteği handler'a ulaştırmaz.
func (m *EditorSwitch) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled {
			msg := i18n.NewLocalizer(pkg.Lang(r.Context())).T("editor.disabled")
			pkg.ErrorWithMessage(w, http.StatusForbidden, msg)
			return
		}
		next.ServeHTTP(w, r)
	})
}
