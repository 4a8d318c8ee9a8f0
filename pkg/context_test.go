package pkg

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, SessionID(ctx))

	ctx = WithSessionID(ctx, "abc")
	ctx = WithLang(ctx, "en")
	assert.Equal(t, "abc", SessionID(ctx))
	assert.Equal(t, "en", Lang(ctx))
}

func TestLocalizedUnwrap(t *testing.T) {
	err := NewLocalized("projects.draftRequired", nil)
	assert.True(t, errors.Is(err, ErrBadRequest))

	wrapped := fmt.Errorf("submit: %w", &Localized{Key: "upload.tooLarge", Err: ErrPayloadTooLarge})
	assert.True(t, errors.Is(wrapped, ErrPayloadTooLarge))

	var loc *Localized
	assert.True(t, errors.As(wrapped, &loc))
	assert.Equal(t, "upload.tooLarge", loc.Key)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusFor(fmt.Errorf("x: %w", ErrNotFound)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, StatusFor(ErrPayloadTooLarge))
	assert.Equal(t, http.StatusTooManyRequests, StatusFor(ErrTooManyRequests))
	assert.Equal(t, http.StatusInternalServerError, StatusFor(errors.New("boom")))
}

func TestErrorWritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, fmt.Errorf("project x: %w", ErrNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"project x: not found"}`, rec.Body.String())
}
