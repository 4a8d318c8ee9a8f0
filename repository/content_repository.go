package repository

import (
	"context"
	"encoding/hex"

	"github.com/akinalp/folio/models"
	"golang.org/x/crypto/blake2b"
)

// EditorDataRepository, editor_data tablosu (key → JSON) için interface.
//
// Get: Kayıt yoksa pkg.ErrNotFound döner.
// Set: Upsert — key varsa değeri ve updated_at'i günceller.
// List: Tüm kayıtlar, key sırasıyla.
type EditorDataRepository interface {
	Get(ctx context.Context, key string) (*models.ContentEntry, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]models.ContentEntry, error)
}

// ContentFileRepository, saveToFile dokümanları için interface.
//
// Save: Dokümanı revision kontrolüyle yazar. Kayıtlı revision'dan eski bir
// revision gelirse hiçbir şey yazılmaz ve superseded=true döner.
// revision <= 0 "kayıtlı olanın bir fazlası" anlamına gelir.
// Her başarılı yazma content_file_revisions'a bir geçmiş satırı ekler.
type ContentFileRepository interface {
	Save(ctx context.Context, section, suffix string, value []byte, revision int64) (file *models.ContentFile, superseded bool, err error)
	Get(ctx context.Context, section, suffix string) (*models.ContentFile, error)
	ListRevisions(ctx context.Context, section, suffix string, limit int) ([]models.ContentRevision, error)
}

// Checksum, içeriğin blake2b-256 özetini hex olarak döner.
// content_files.checksum ve HTTP ETag değeri olarak kullanılır.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
