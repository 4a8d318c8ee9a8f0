package ws

import (
	"net/http"
	"net/url"
	"slices"

	"github.com/akinalp/folio/pkg"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler, WebSocket bağlantı isteklerini işleyen HTTP handler'ı.
//
// Kimlik doğrulama yoktur; bağlantı session middleware'inin context'e
// koyduğu oturum ID'sine bağlanır. Aynı cookie'yi taşıyan bütün sekmeler
// aynı oturumun bildirimlerini alır.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler, yeni bir WebSocket handler oluşturur.
// allowedOrigins boşsa sadece aynı host'tan gelen bağlantılar kabul edilir.
// "*" her origin'e izin verir.
func NewHandler(hub *Hub, allowedOrigins []string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if slices.Contains(allowed, "*") || slices.Contains(allowed, origin) {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return u.Host == r.Host
	}
}

// HandleConnection, HTTP bağlantısını WebSocket'e yükseltir ve client'ı Hub'a kaydeder.
//
// Flow:
//  1. Context'ten oturum ID'sini al
//  2. HTTP → WebSocket upgrade
//  3. ready event'ini send buffer'ına koy, client'ı Hub'a kaydet
//  4. WritePump ayrı goroutine'de, ReadPump bu goroutine'de çalışır
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	sessionID := pkg.SessionID(r.Context())
	if sessionID == "" {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.String("session", sessionID), zap.Error(err))
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		sessionID: sessionID,
		send:      make(chan []byte, sendBufferSize),
	}

	// ready, kayıttan önce buffer'a yazılır; ilk broadcast'ten önce ulaşır.
	var ready any = ReadyData{SessionID: sessionID}
	if h.hub.onSessionConnect != nil {
		ready = h.hub.onSessionConnect(sessionID)
	}
	if data, ok := h.hub.encode(Event{Op: OpReady, Data: ready}); ok {
		client.send <- data
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.quit:
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump()
}
