package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// EventPublisher, service katmanının WebSocket event'leri göndermek için
// kullandığı interface. Service'ler Hub'ın concrete struct'ına değil buna bağımlıdır;
// testlerde kayıt tutan sahte bir publisher kullanılır.
type EventPublisher interface {
	BroadcastToAll(event Event)
	BroadcastToSession(sessionID string, event Event)
	ConnectedSessions() []string
}

// Hub, tüm WebSocket bağlantılarını yöneten merkezi yapıdır.
//
// Register/unregister channel'lardan Run() goroutine'i okur.
// Broadcast'ler doğrudan RLock altında client send buffer'larına yazar.
type Hub struct {
	// clients: sessionID → Client set (bir ziyaretçinin birden fazla sekmesi olabilir).
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	closeOnce  sync.Once

	seq atomic.Int64

	logger *zap.Logger

	// Callback'ler main package'da bağlanır (bkz. init_callbacks.go).
	onSessionConnect func(sessionID string) any
	onLightboxClose  func(sessionID string)
}

// NewHub, yeni bir Hub oluşturur.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
		logger:     logger,
	}
}

// OnSessionConnect, yeni bağlantıda ready payload'ını üreten callback'i ayarlar.
// Dönen değer ready event'inin Data alanı olur.
func (h *Hub) OnSessionConnect(fn func(sessionID string) any) {
	h.onSessionConnect = fn
}

// OnLightboxClose, client'tan lightbox_close geldiğinde çağrılacak callback.
func (h *Hub) OnLightboxClose(fn func(sessionID string)) {
	h.onLightboxClose = fn
}

// Run, Hub'ın ana event loop'udur. main'de `go hub.Run()` ile başlatılır,
// Shutdown çağrılınca döner.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case <-h.quit:
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.sessionID]; !ok {
		h.clients[client.sessionID] = make(map[*Client]bool)
	}
	h.clients[client.sessionID][client] = true

	h.logger.Debug("client connected",
		zap.String("session", client.sessionID),
		zap.Int("connections", len(h.clients[client.sessionID])))
}

// removeClient, client'ı Hub'dan çıkarır ve send channel'ını kapatır.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.sessionID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}

	delete(clients, client)
	close(client.send)

	if len(clients) == 0 {
		delete(h.clients, client.sessionID)
	}
	h.logger.Debug("client disconnected",
		zap.String("session", client.sessionID),
		zap.Int("remaining", len(clients)))
}

// drop, yavaş bir client'ı Run goroutine'i üzerinden çıkarır.
// Hub kapanmışsa bekleme yapmaz.
func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

func (h *Hub) encode(event Event) ([]byte, bool) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event", zap.String("op", event.Op), zap.Error(err))
		return nil, false
	}
	return data, true
}

// BroadcastToAll, tüm bağlı client'lara event gönderir.
func (h *Hub) BroadcastToAll(event Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for client := range clients {
			h.deliver(client, data)
		}
	}
}

// BroadcastToSession, bir oturumun tüm bağlantılarına (sekmelerine) event gönderir.
func (h *Hub) BroadcastToSession(sessionID string, event Event) {
	data, ok := h.encode(event)
	if !ok {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[sessionID] {
		h.deliver(client, data)
	}
}

// deliver, RLock altında çağrılır.
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		// Buffer dolu, client yavaş
		h.logger.Warn("send buffer full, dropping connection", zap.String("session", client.sessionID))
		go h.drop(client)
	}
}

// ConnectedSessions, bağlı oturum ID'lerini döner.
func (h *Hub) ConnectedSessions() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	return ids
}

// Shutdown, Run döngüsünü durdurur ve tüm bağlantıları kapatır.
func (h *Hub) Shutdown() {
	h.closeOnce.Do(func() {
		close(h.quit)

		h.mu.Lock()
		defer h.mu.Unlock()

		for _, clients := range h.clients {
			for client := range clients {
				close(client.send)
			}
		}
		h.clients = make(map[string]map[*Client]bool)
		h.logger.Info("hub shut down, all connections closed")
	})
}
