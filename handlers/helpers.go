// Package handlers, HTTP katmanı.
//
// Thin handler pattern: handler'lar sadece isteği parse eder, service'i çağırır
// ve cevabı yazar. İş mantığı services paketindedir. Oturum ID'si ve dil
// session middleware'i tarafından context'e konur.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/pkg/i18n"
	"github.com/akinalp/folio/services"
)

// maxJSONBody, JSON gövdeleri için üst sınır.
const maxJSONBody = 1 << 20

// localizer, isteğin diline göre çevirmen döner.
func localizer(r *http.Request) *i18n.Localizer {
	return i18n.NewLocalizer(pkg.Lang(r.Context()))
}

// errorMessage, hatayı kullanıcıya gösterilecek metne çevirir.
// pkg.Localized hatalar isteğin dilinde, 5xx hatalar genel bir mesajla döner.
func errorMessage(r *http.Request, err error) string {
	var loc *pkg.Localized
	if errors.As(err, &loc) {
		return localizer(r).TWithParams(loc.Key, loc.Params)
	}
	switch pkg.StatusFor(err) {
	case http.StatusInternalServerError:
		return localizer(r).T("errors.internal")
	case http.StatusNotFound:
		return localizer(r).T("errors.notFound")
	}
	return err.Error()
}

// writeError, {success:false,error} zarfıyla hata yazar.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	pkg.ErrorWithMessage(w, pkg.StatusFor(err), errorMessage(r, err))
}

// decodeJSON, gövdeyi v'ye decode eder. Hata pkg.ErrBadRequest'i sarar.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &pkg.Localized{Key: "errors.badRequest", Err: fmt.Errorf("%w: invalid request body", pkg.ErrBadRequest)}
	}
	return nil
}

// readRawJSON, gövdeyi geçerli bir JSON değeri olarak okur.
func readRawJSON(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil || !json.Valid(body) {
		return nil, &pkg.Localized{Key: "errors.badRequest", Err: fmt.Errorf("%w: body must be a JSON value", pkg.ErrBadRequest)}
	}
	return json.RawMessage(body), nil
}

// TaskRef, cevaplarda arka plan görevine referans.
// Sonuç task_result event'i ile bildirilir.
type TaskRef struct {
	ID string `json:"id"`
	Op string `json:"op"`
}

func taskRef(t *services.Task) *TaskRef {
	if t == nil {
		return nil
	}
	return &TaskRef{ID: t.ID, Op: string(t.Op)}
}
