// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Okuma iki adımdır: godotenv .env dosyasını process environment'a yükler,
// ardından caarlos0/env struct tag'lerine bakarak Config'i doldurur.
// Her alt bölüm kendi envPrefix'ine sahiptir (SERVER_, UPLOAD_, ...).
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DATABASE_"`
	Upload   UploadConfig   `envPrefix:"UPLOAD_"`
	Content  ContentConfig  `envPrefix:"CONTENT_"`
	Session  SessionConfig  `envPrefix:"SESSION_"`
	CORS     CORSConfig     `envPrefix:"CORS_"`
	Log      LogConfig      `envPrefix:"LOG_"`
	Rate     RateConfig     `envPrefix:"RATE_"`
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host string `env:"HOST" envDefault:"0.0.0.0"`
	Port int    `env:"PORT" envDefault:"9090"`
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string `env:"PATH" envDefault:"./data/folio.db"` // SQLite dosya yolu
}

// UploadConfig, medya yükleme ayarları.
// Limitler byte cinsindendir: resim 5MB, video 20MB.
type UploadConfig struct {
	Dir          string `env:"DIR" envDefault:"./data/uploads"`
	ImageMaxSize int64  `env:"IMAGE_MAX_SIZE" envDefault:"5242880"`
	VideoMaxSize int64  `env:"VIDEO_MAX_SIZE" envDefault:"20971520"`
}

// ContentConfig, düzenlenebilir içerik ayarları.
type ContentConfig struct {
	// SeedPath boşsa binary'ye gömülü seed/default.yaml kullanılır.
	SeedPath string `env:"SEED_PATH"`

	// EditorEnabled false ise değişiklik yapan tüm endpoint'ler 403 döner.
	// Kimlik doğrulama değildir, production'da editörü kapatmak için bir anahtardır.
	EditorEnabled bool `env:"EDITOR_ENABLED" envDefault:"true"`

	// SaveTimeout, arka plandaki kalıcı kaydetme görevlerinin üst süresi.
	SaveTimeout time.Duration `env:"SAVE_TIMEOUT" envDefault:"10s"`
}

// SessionConfig, ziyaretçi oturumu (görünüm state'i) ayarları.
type SessionConfig struct {
	TTL             time.Duration `env:"TTL" envDefault:"12h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
	CookieSecure    bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

// CORSConfig, izin verilen origin listesi (virgülle ayrılmış).
type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
}

// LogConfig, zap logger ayarları.
type LogConfig struct {
	Level       string `env:"LEVEL" envDefault:"info"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

// RateConfig, IP bazlı upload rate limit ayarları.
type RateConfig struct {
	UploadsPerWindow int           `env:"UPLOADS_PER_WINDOW" envDefault:"30"`
	UploadWindow     time.Duration `env:"UPLOAD_WINDOW" envDefault:"1m"`
}

// Load, .env + environment variable'lardan Config oluşturur.
func Load() (*Config, error) {
	// .env dosyası yoksa hata vermez, production'da gerçek env kullanılır.
	_ = godotenv.Load()

	return Parse()
}

// Parse, sadece mevcut environment'tan okur. Testler .env dosyasından
// etkilenmesin diye Load'dan ayrıdır.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid SERVER_PORT: %d", c.Server.Port)
	}
	if c.Upload.ImageMaxSize <= 0 {
		return fmt.Errorf("invalid UPLOAD_IMAGE_MAX_SIZE: %d", c.Upload.ImageMaxSize)
	}
	if c.Upload.VideoMaxSize <= 0 {
		return fmt.Errorf("invalid UPLOAD_VIDEO_MAX_SIZE: %d", c.Upload.VideoMaxSize)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("invalid SESSION_TTL: %s", c.Session.TTL)
	}
	return nil
}

// Addr, HTTP server'ın dinleyeceği adresi döner (ör: "0.0.0.0:9090").
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
