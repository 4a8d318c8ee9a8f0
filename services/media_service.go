package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/pkg/cache"
	"github.com/akinalp/folio/repository"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// MediaService, yükleme ve silme endpoint'lerinin iş mantığı.
type MediaService interface {
	// Upload, boyut ve tür kontrolünden sonra dosyayı /uploads altına yazar.
	// Boyut kontrolü diske dokunmadan önce yapılır.
	Upload(ctx context.Context, kind models.MediaKind, purpose string, file io.Reader, header *multipart.FileHeader) (*models.Media, error)
	// Delete, sadece düz /uploads/<dosya> yollarını kabul eder. Dosya zaten yoksa hata değildir.
	Delete(ctx context.Context, path string) error
	// DetectAspect, yerel bir resmin oran sınıfını tahmin eder. Bulunamazsa "" döner.
	DetectAspect(ctx context.Context, path string) string
	Limits() models.UploadLimits
}

type mediaService struct {
	mediaRepo repository.MediaRepository
	uploadDir string
	limits    models.UploadLimits
	aspects   *cache.TTLCache[string, string]
	logger    *zap.Logger
}

// NewMediaService, constructor. Upload dizini yoksa oluşturulur.
// aspects, oran sonuçlarının tutulduğu cache'tir; sahibi çağırandır (Close).
func NewMediaService(
	mediaRepo repository.MediaRepository,
	uploadDir string,
	limits models.UploadLimits,
	aspects *cache.TTLCache[string, string],
	logger *zap.Logger,
) (MediaService, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &mediaService{
		mediaRepo: mediaRepo,
		uploadDir: uploadDir,
		limits:    limits,
		aspects:   aspects,
		logger:    logger,
	}, nil
}

var purposePattern = regexp.MustCompile(`[^a-z0-9-]+`)

// sanitizePurpose, dosya adı prefix'ini küçük harf, rakam ve tire ile sınırlar.
func sanitizePurpose(purpose string) string {
	p := purposePattern.ReplaceAllString(strings.ToLower(purpose), "")
	p = strings.Trim(p, "-")
	if p == "" {
		return "media"
	}
	if len(p) > 32 {
		p = p[:32]
	}
	return p
}

func (s *mediaService) Limits() models.UploadLimits {
	return s.limits
}

func (s *mediaService) Upload(ctx context.Context, kind models.MediaKind, purpose string, file io.Reader, header *multipart.FileHeader) (*models.Media, error) {
	if header == nil || file == nil {
		return nil, pkg.NewLocalized("upload.noFile", nil)
	}

	if err := s.limits.Check(kind, header.Size); err != nil {
		return nil, &pkg.Localized{
			Key:    "upload.tooLarge",
			Params: map[string]string{"limit": humanize.IBytes(uint64(s.limits.Max(kind)))},
			Err:    fmt.Errorf("%w: %v", pkg.ErrPayloadTooLarge, err),
		}
	}

	mimeType := models.ResolveMime(header.Header.Get("Content-Type"), header.Filename)
	if !models.MimeAllowed(kind, mimeType) {
		return nil, &pkg.Localized{
			Key:    "upload.unsupportedType",
			Params: map[string]string{"type": mimeType},
		}
	}

	// Uzantı istemcinin dosya adından değil, kabul edilen MIME type'tan gelir.
	ext := defaultExtension(mimeType)

	randomBytes := make([]byte, 8)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random filename: %w", err)
	}
	diskFilename := sanitizePurpose(purpose) + "-" + hex.EncodeToString(randomBytes) + ext
	destPath := filepath.Join(s.uploadDir, diskFilename)

	written, err := s.writeFile(destPath, file, s.limits.Max(kind))
	if err != nil {
		return nil, err
	}

	media := &models.Media{
		Path:      models.UploadsPrefix + diskFilename,
		Kind:      kind,
		Filename:  filepath.Base(header.Filename),
		Size:      written,
		MimeType:  mimeType,
		Purpose:   sanitizePurpose(purpose),
		CreatedAt: time.Now().UTC(),
	}
	if kind == models.MediaKindImage {
		if aspect := s.detectFromDisk(destPath); aspect != "" {
			media.Aspect = &aspect
			s.aspects.Set(media.Path, aspect)
		}
	}

	if err := s.mediaRepo.Create(ctx, media); err != nil {
		os.Remove(destPath)
		return nil, fmt.Errorf("failed to create media record: %w", err)
	}

	s.logger.Info("media uploaded",
		zap.String("path", media.Path),
		zap.String("kind", string(kind)),
		zap.String("size", humanize.IBytes(uint64(written))))
	return media, nil
}

// writeFile, header'daki boyuta güvenmeden en fazla limit kadar byte yazar.
func (s *mediaService) writeFile(destPath string, file io.Reader, limit int64) (int64, error) {
	destFile, err := os.Create(destPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer destFile.Close()

	written, err := io.Copy(destFile, io.LimitReader(file, limit+1))
	if err != nil {
		os.Remove(destPath)
		return 0, fmt.Errorf("failed to save file: %w", err)
	}
	if written > limit {
		os.Remove(destPath)
		return 0, &pkg.Localized{
			Key:    "upload.tooLarge",
			Params: map[string]string{"limit": humanize.IBytes(uint64(limit))},
			Err:    pkg.ErrPayloadTooLarge,
		}
	}
	return written, nil
}

func defaultExtension(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	}
	return ".bin"
}

// localFile, /uploads/<dosya> yolunu disk yoluna çevirir.
// Alt dizin, "..", query veya başka prefix içeren yollar reddedilir.
func (s *mediaService) localFile(urlPath string) (string, bool) {
	if !strings.HasPrefix(urlPath, models.UploadsPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(urlPath, models.UploadsPrefix)
	if name == "" || strings.ContainsAny(name, `/\?#`) || name == "." || name == ".." {
		return "", false
	}
	if path.Clean(urlPath) != urlPath {
		return "", false
	}
	return filepath.Join(s.uploadDir, name), true
}

func (s *mediaService) Delete(ctx context.Context, urlPath string) error {
	diskPath, ok := s.localFile(urlPath)
	if !ok {
		return pkg.NewLocalized("upload.invalidPath", nil)
	}

	if err := os.Remove(diskPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", urlPath, err)
	}

	if err := s.mediaRepo.DeleteByPath(ctx, urlPath); err != nil && !errors.Is(err, pkg.ErrNotFound) {
		return err
	}

	s.aspects.Delete(urlPath)
	s.logger.Info("media deleted", zap.String("path", urlPath))
	return nil
}

// DetectAspect, uzak URL'leri asla çekmez; sadece /uploads altındaki dosyalara bakar.
func (s *mediaService) DetectAspect(ctx context.Context, urlPath string) string {
	if aspect, ok := s.aspects.Get(urlPath); ok {
		return aspect
	}

	diskPath, ok := s.localFile(urlPath)
	if !ok {
		return ""
	}

	if m, err := s.mediaRepo.GetByPath(ctx, urlPath); err == nil && m.Aspect != nil {
		s.aspects.Set(urlPath, *m.Aspect)
		return *m.Aspect
	}

	aspect := s.detectFromDisk(diskPath)
	// Boş sonuç da cache'lenir, bozuk dosya tekrar tekrar açılmaz.
	s.aspects.Set(urlPath, aspect)
	if aspect != "" {
		if err := s.mediaRepo.SetAspect(ctx, urlPath, aspect); err != nil {
			s.logger.Debug("failed to store aspect", zap.String("path", urlPath), zap.Error(err))
		}
	}
	return aspect
}

func (s *mediaService) detectFromDisk(diskPath string) string {
	f, err := os.Open(diskPath)
	if err != nil {
		return ""
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return ""
	}
	return models.AspectClassFor(cfg.Width, cfg.Height)
}
