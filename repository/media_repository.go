package repository

import (
	"context"

	"github.com/akinalp/folio/models"
)

// MediaRepository, yüklenen dosyaların kayıtları için interface.
//
// DeleteByPath: Kayıt yoksa pkg.ErrNotFound döner.
// SetAspect: Tespit edilen oran sınıfını kaydeder (bilgi amaçlı).
type MediaRepository interface {
	Create(ctx context.Context, media *models.Media) error
	GetByPath(ctx context.Context, path string) (*models.Media, error)
	DeleteByPath(ctx context.Context, path string) error
	SetAspect(ctx context.Context, path, aspect string) error
	List(ctx context.Context, kind models.MediaKind) ([]models.Media, error)
}
