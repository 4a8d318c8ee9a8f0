// Package pkg, projede paylaşılan utility'leri barındırır.
// Bu dosya domain-level error tanımlarını içerir.
//
// errors.New() ile sabit error değişkenleri tanımlarız, karşılaştırma
// string yerine referans ile yapılır:
//
//	if errors.Is(err, pkg.ErrNotFound) { ... }
package pkg

import (
	"errors"
	"fmt"
)

// Domain-level error'lar.
// Handler katmanı bu error'ları HTTP status code'larına map'ler.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrAlreadyExists   = errors.New("already exists")
	ErrBadRequest      = errors.New("bad request")
	ErrPayloadTooLarge = errors.New("payload too large")
	ErrTooManyRequests = errors.New("too many requests")
	ErrInternal        = errors.New("internal error")
)

// Localized, kullanıcıya gösterilecek çevrilebilir bir validation hatası.
//
// Service katmanı dil bilmez; sadece çeviri anahtarını ve parametreleri taşır.
// Handler isteğin diline göre metni üretir (bkz. handlers.writeError).
// Err boşsa ErrBadRequest kabul edilir.
type Localized struct {
	Key    string
	Params map[string]string
	Err    error
}

// NewLocalized, parametresiz bir Localized hata üretir.
func NewLocalized(key string, err error) *Localized {
	return &Localized{Key: key, Err: err}
}

func (e *Localized) Error() string {
	return fmt.Sprintf("%s: %s", e.Unwrap(), e.Key)
}

func (e *Localized) Unwrap() error {
	if e.Err == nil {
		return ErrBadRequest
	}
	return e.Err
}
