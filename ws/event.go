// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı bildirim dağıtımını sağlar.
//
// Mimari:
//   - Hub: Tüm bağlantıları ziyaretçi oturumuna (session ID) göre tutar
//   - Client: Her WebSocket bağlantısını temsil eder
//   - Event: Client-server arası iletilen mesaj formatı
//
// Event akışı:
//  1. Ziyaretçi bölümü düzenler → HTTP → Service → local cache yazılır
//  2. Service, Hub'ın BroadcastToAll metodunu çağırır (content_update)
//  3. Arka plan görevi bitince sonucu isteği yapan oturuma gönderilir (task_result)
//  4. Her client'ın WritePump'ı event'i WebSocket'e yazar
package ws

// Event, WebSocket üzerinden iletilen bir mesaj.
//
// Seq: Her outbound event'e verilen artan sayı. Client eksik event'i
// seq boşluğundan tespit edip sayfayı yeniden çekebilir.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat     = "heartbeat"      // Client her 30sn'de gönderir
	OpLightboxClose = "lightbox_close" // Escape tuşu
)

// Server → Client operasyonları
const (
	OpReady         = "ready"          // Bağlantı kurulduğunda ilk gönderilen
	OpHeartbeatAck  = "heartbeat_ack"  // Heartbeat'e yanıt
	OpContentUpdate = "content_update" // Bölüm içeriği değişti, yeniden çek
	OpSessionUpdate = "session_update" // Bu oturumun görünüm state'i değişti
	OpTaskResult    = "task_result"    // Asenkron kayıt/silme görevinin sonucu
	OpNotice        = "notice"         // Kullanıcıya gösterilecek bildirim (alert yerine)
)

// ReadyData, bağlantı kurulduğunda gönderilen ilk event'in payload'ı.
type ReadyData struct {
	SessionID string `json:"session_id"`
	Revision  int64  `json:"revision"`
}

// ContentUpdateData, content_update payload'ı.
// Reason değişikliğin türüdür: "field", "project_add", "project_remove" vb.
type ContentUpdateData struct {
	Revision int64  `json:"revision"`
	Reason   string `json:"reason"`
	Key      string `json:"key,omitempty"`
}

// Notice seviyeleri
const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// NoticeData, notice payload'ı. Message isteğin dilinde üretilmiş metindir.
type NoticeData struct {
	Key     string `json:"key"`
	Message string `json:"message"`
	Level   string `json:"level"`
}
