package middleware

import (
	"net/http"
	"strconv"

	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/pkg/i18n"
	"github.com/akinalp/folio/pkg/ratelimit"
)

// UploadLimit, yükleme endpoint'lerinde IP bazlı rate limit uygular.
//
// Limit aşıldığında 429 + Retry-After döner. Gövde, yükleme endpoint'lerinin
// düz {success,error} şeklindedir.
type UploadLimit struct {
	limiter *ratelimit.Limiter
}

// NewUploadLimit, constructor. limiter'ın sahibi çağırandır (Close).
func NewUploadLimit(limiter *ratelimit.Limiter) *UploadLimit {
	return &UploadLimit{limiter: limiter}
}

// Require, limit aşılmışsa isteği durdurur.
func (m *UploadLimit) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := ratelimit.ClientIP(r)
		if !m.limiter.Allow(key) {
			seconds := strconv.Itoa(m.limiter.RetryAfterSeconds(key))
			w.Header().Set("Retry-After", seconds)

			msg := i18n.NewLocalizer(pkg.Lang(r.Context())).
				TWithParams("upload.rateLimited", map[string]string{"seconds": seconds})
			pkg.Raw(w, http.StatusTooManyRequests, models.UploadResponse{Success: false, Error: msg})
			return
		}
		next.ServeHTTP(w, r)
	})
}
