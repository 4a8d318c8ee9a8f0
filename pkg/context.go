package pkg

import "context"

type ctxKey int

const (
	sessionIDKey ctxKey = iota
	langKey
)

// WithSessionID, ziyaretçi oturumunun ID'sini context'e ekler.
// Session middleware'i her istekte çağırır; arka plan görevleri sonucu
// bu ID'ye göre ilgili ziyaretçiye bildirir.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey, id)
}

// SessionID, context'teki oturum ID'sini döner. Yoksa boş string.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// WithLang, isteğin dilini context'e ekler.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey, lang)
}

// Lang, context'teki dili döner. Yoksa boş string.
func Lang(ctx context.Context) string {
	lang, _ := ctx.Value(langKey).(string)
	return lang
}
