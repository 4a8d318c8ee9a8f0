// Package ratelimit, upload endpoint'leri için IP bazlı rate limiting.
//
// Her IP için sabit bir pencerede istek sayısı tutulur. Pencere içinde
// limit aşılırsa istek reddedilir. Süresi dolmuş bucket'lar arka planda temizlenir.
//
// pkg/ratelimit hiçbir proje içi pakete bağımlı değildir, middleware ile
// handler arasında import cycle oluşmaz.
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"
)

type bucket struct {
	count       int
	windowStart time.Time
}

// Limiter, IP bazlı sabit pencereli limiter.
//
//	limiter := ratelimit.New(30, time.Minute)
//	defer limiter.Close()
//	if !limiter.Allow(ip) { return 429 }
type Limiter struct {
	mu          sync.RWMutex
	buckets     map[string]*bucket
	maxRequests int
	window      time.Duration
	now         func() time.Time

	stopCleanup chan struct{}
	closeOnce   sync.Once
}

// New, limiter oluşturur ve temizleme goroutine'ini başlatır.
func New(maxRequests int, window time.Duration) *Limiter {
	rl := &Limiter{
		buckets:     make(map[string]*bucket),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Allow, key için bir isteğe izin verilip verilmediğini döner.
// Her çağrı sayacı artırır.
func (rl *Limiter) Allow(key string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[key]
	if !exists {
		rl.buckets[key] = &bucket{count: 1, windowStart: now}
		return rl.maxRequests >= 1
	}

	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return rl.maxRequests >= 1
	}

	b.count++
	return b.count <= rl.maxRequests
}

// Reset, key'in sayacını sıfırlar.
func (rl *Limiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.buckets, key)
}

// RetryAfterSeconds, pencerenin bitmesine kalan süreyi saniye olarak döner.
// HTTP Retry-After header değeri olarak kullanılır.
func (rl *Limiter) RetryAfterSeconds(key string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, exists := rl.buckets[key]
	if !exists {
		return 0
	}

	remaining := rl.window - rl.now().Sub(b.windowStart)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Close, temizleme goroutine'ini durdurur.
func (rl *Limiter) Close() {
	rl.closeOnce.Do(func() { close(rl.stopCleanup) })
}

func (rl *Limiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *Limiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window {
			delete(rl.buckets, key)
		}
	}
}

// ClientIP, request'in RemoteAddr'ından host kısmını döner.
// Proxy header'ları chi'nin RealIP middleware'i tarafından RemoteAddr'a yazılmış olur.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
