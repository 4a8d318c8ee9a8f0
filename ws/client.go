package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocket bağlantı sabitleri
const (
	// writeWait: Bir mesajı yazmak için maksimum bekleme süresi.
	writeWait = 10 * time.Second

	// pongWait: 3 heartbeat kaçırma = 30s × 3 = 90s.
	pongWait = 90 * time.Second

	// maxMessageSize: Client mesajları küçüktür, veri HTTP ile gider.
	maxMessageSize = 4096

	// sendBufferSize: Buffer doluysa client disconnect edilir.
	sendBufferSize = 64
)

// Client, tek bir WebSocket bağlantısı.
//
// Her bağlantı için iki goroutine çalışır: ReadPump client'tan okur,
// WritePump send channel'ından okuyup yazar. gorilla/websocket aynı anda
// sadece bir okuyucu ve bir yazıcıya izin verir.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID string
	send      chan []byte
	mu        sync.Mutex // conn.WriteMessage çağrılarını korur
}

// ReadPump, bağlantı kapanana kadar gelen mesajları okur.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.hub.logger.Warn("failed to set read deadline", zap.String("session", c.sessionID), zap.Error(err))
		return
	}

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Info("unexpected close", zap.String("session", c.sessionID), zap.Error(err))
			}
			return
		}

		var event Event
		if err := json.Unmarshal(rawMessage, &event); err != nil {
			c.hub.logger.Debug("invalid message", zap.String("session", c.sessionID), zap.Error(err))
			continue
		}

		c.handleEvent(event)
	}
}

func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.hub.logger.Warn("failed to set read deadline", zap.String("session", c.sessionID), zap.Error(err))
			return
		}
		c.sendEvent(Event{Op: OpHeartbeatAck})

	case OpLightboxClose:
		if c.hub.onLightboxClose != nil {
			go c.hub.onLightboxClose(c.sessionID)
		}

	default:
		c.hub.logger.Debug("unknown op", zap.String("session", c.sessionID), zap.String("op", event.Op))
	}
}

// sendEvent, sadece bu bağlantıya event gönderir.
func (c *Client) sendEvent(event Event) {
	data, ok := c.hub.encode(event)
	if !ok {
		return
	}

	// Hub client'ı çıkarmışsa send kapalıdır, üyelik lock altında kontrol edilir.
	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()

	if !c.hub.clients[c.sessionID][c] {
		return
	}
	c.hub.deliver(c, data)
}

// WritePump, send channel'ından gelen mesajları bağlantıya yazar.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}

	// Channel kapandı, Hub client'ı çıkardı
	_ = c.writeMessage(websocket.CloseMessage, nil)
}

func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
