package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/repository"
	"go.uber.org/zap"
)

// EditorStore, bölüm editörünün kalıcılık katmanı.
//
// Get/Set senkron "local cache"tir: süreç içi map + editor_data tablosuna write-through.
// SaveToFile kalıcı doküman kaydıdır ve çağıranlar onu arka plan görevinde çalıştırır.
// Testlerde bellek içi bir sahte implementasyon kullanılır.
type EditorStore interface {
	// Get, kayıt yoksa (nil, nil) döner.
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value any) error
	SaveToFile(ctx context.Context, doc models.ContentDocument) (models.SaveResult, error)
	LoadFile(ctx context.Context, section, suffix string) (*models.ContentFile, error)
	FileRevisions(ctx context.Context, section, suffix string, limit int) ([]models.ContentRevision, error)
}

type editorStore struct {
	dataRepo repository.EditorDataRepository
	fileRepo repository.ContentFileRepository
	logger   *zap.Logger

	mu    sync.RWMutex
	cache map[string]json.RawMessage
}

// NewEditorStore, constructor — interface döner.
func NewEditorStore(
	dataRepo repository.EditorDataRepository,
	fileRepo repository.ContentFileRepository,
	logger *zap.Logger,
) EditorStore {
	return &editorStore{
		dataRepo: dataRepo,
		fileRepo: fileRepo,
		logger:   logger,
		cache:    make(map[string]json.RawMessage),
	}
}

func (s *editorStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	cached, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return cloneRaw(cached), nil
	}

	entry, err := s.dataRepo.Get(ctx, key)
	if errors.Is(err, pkg.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[key] = entry.Value
	s.mu.Unlock()

	return cloneRaw(entry.Value), nil
}

// Set, değeri JSON'a çevirir, önce tabloya sonra cache'e yazar.
func (s *editorStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}

	if err := s.dataRepo.Set(ctx, key, data); err != nil {
		return err
	}

	s.mu.Lock()
	s.cache[key] = data
	s.mu.Unlock()
	return nil
}

func (s *editorStore) SaveToFile(ctx context.Context, doc models.ContentDocument) (models.SaveResult, error) {
	data, err := json.Marshal(doc.Value)
	if err != nil {
		return models.SaveResult{}, fmt.Errorf("failed to encode %s/%s: %w", doc.Section, doc.Suffix, err)
	}

	file, superseded, err := s.fileRepo.Save(ctx, doc.Section, doc.Suffix, data, doc.Revision)
	if err != nil {
		return models.SaveResult{}, err
	}
	if superseded {
		s.logger.Debug("save superseded by newer revision",
			zap.String("section", doc.Section),
			zap.String("suffix", doc.Suffix),
			zap.Int64("revision", doc.Revision))
		return models.SaveResult{Revision: doc.Revision, Superseded: true}, nil
	}

	return models.SaveResult{Revision: file.Revision, Checksum: file.Checksum}, nil
}

func (s *editorStore) LoadFile(ctx context.Context, section, suffix string) (*models.ContentFile, error) {
	return s.fileRepo.Get(ctx, section, suffix)
}

func (s *editorStore) FileRevisions(ctx context.Context, section, suffix string, limit int) ([]models.ContentRevision, error) {
	return s.fileRepo.ListRevisions(ctx, section, suffix, limit)
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}
