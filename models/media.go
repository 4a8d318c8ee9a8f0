package models

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

// MediaKind, yüklenen dosyanın türü.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// KindFromContentType, tarayıcının gönderdiği MIME type'tan türü çıkarır.
// "video" içeren her şey video'dur, geri kalanı resim kabul edilir.
func KindFromContentType(contentType string) MediaKind {
	if strings.Contains(contentType, "video") {
		return MediaKindVideo
	}
	return MediaKindImage
}

// UploadLimits, türe göre maksimum dosya boyutları (byte).
type UploadLimits struct {
	Image int64
	Video int64
}

// DefaultUploadLimits: resim 5MB, video 20MB.
var DefaultUploadLimits = UploadLimits{
	Image: 5 << 20,
	Video: 20 << 20,
}

// Max, tür için limiti döner.
func (l UploadLimits) Max(kind MediaKind) int64 {
	if kind == MediaKindVideo {
		return l.Video
	}
	return l.Image
}

// SizeError, limiti aşan bir dosyayı tarif eder.
type SizeError struct {
	Kind MediaKind
	Size int64
	Max  int64
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s of %d bytes exceeds limit of %d bytes", e.Kind, e.Size, e.Max)
}

// Check, boyut tür limitini aşıyorsa *SizeError döner.
// Bu kontrol diske ya da ağa dokunmadan önce yapılır.
func (l UploadLimits) Check(kind MediaKind, size int64) error {
	if limit := l.Max(kind); size > limit {
		return &SizeError{Kind: kind, Size: size, Max: limit}
	}
	return nil
}

// allowedMimes, tür başına kabul edilen MIME type'lar.
// SVG script taşıyabildiği için kabul edilmez.
var allowedMimes = map[MediaKind]map[string]bool{
	MediaKindImage: {
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	},
	MediaKindVideo: {
		"video/mp4":  true,
		"video/webm": true,
	},
}

// ResolveMime, multipart header'ındaki Content-Type'ı normalize eder.
// Boşsa veya octet-stream ise dosya uzantısından tahmin edilir.
func ResolveMime(contentType, filename string) string {
	base := strings.TrimSpace(strings.Split(contentType, ";")[0])
	if base == "" || base == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
			base = strings.TrimSpace(strings.Split(byExt, ";")[0])
		}
	}
	if base == "" {
		base = "application/octet-stream"
	}
	return base
}

// MimeAllowed, MIME type'ın tür için kabul edilip edilmediğini söyler.
func MimeAllowed(kind MediaKind, mimeType string) bool {
	return allowedMimes[kind][mimeType]
}

// Media, /uploads altına kaydedilmiş bir dosyanın kaydı.
type Media struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Kind      MediaKind `json:"kind"`
	Filename  string    `json:"filename"`
	Size      int64     `json:"size"`
	MimeType  string    `json:"mime_type"`
	Purpose   string    `json:"purpose"`
	Aspect    *string   `json:"aspect"`
	CreatedAt time.Time `json:"created_at"`
}

// UploadResponse, /api/upload-image ve /api/upload-video cevabı.
// Bu endpoint'ler standart {success,data} zarfını değil düz şekli kullanır.
type UploadResponse struct {
	Success bool   `json:"success"`
	Path    string `json:"path,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DeleteMediaRequest, DELETE /api/delete-image gövdesi.
type DeleteMediaRequest struct {
	ImagePath string `json:"imagePath"`
}

// Aspect sınıfları. Düzen bunları kullanmaz, sadece bilgi amaçlıdır.
const (
	AspectVideo    = "aspect-video"
	AspectFourBy3  = "aspect-[4/3]"
	AspectSquare   = "aspect-square"
	AspectThreeBy4 = "aspect-[3/4]"
	AspectNineBy16 = "aspect-[9/16]"
)

// AspectClassFor, piksel boyutlarından en yakın oran sınıfını seçer.
func AspectClassFor(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	ratio := float64(width) / float64(height)

	switch {
	case ratio >= 1.7 && ratio <= 1.8:
		return AspectVideo
	case ratio >= 1.3 && ratio <= 1.35:
		return AspectFourBy3
	case ratio >= 0.95 && ratio <= 1.05:
		return AspectSquare
	case ratio >= 0.74 && ratio <= 0.76:
		return AspectThreeBy4
	case ratio >= 0.55 && ratio <= 0.57:
		return AspectNineBy16
	case ratio > 1:
		return AspectVideo
	default:
		return AspectThreeBy4
	}
}
