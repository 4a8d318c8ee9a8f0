package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/ws"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MediaRemover, proje silinirken yüklenmiş medyayı temizlemek için gereken tek metod.
// MediaService bunu karşılar.
type MediaRemover interface {
	Delete(ctx context.Context, path string) error
}

// RemoveResult, RemoveProject'in sonucu.
// Cleanup, silinecek yüklenmiş medya yoksa nil'dir.
type RemoveResult struct {
	Project models.Project
	Persist *Task
	Cleanup *Task
}

// ProjectsService, projeler bölümünün site geneli state'i.
//
// Her değişiklik aynı sırayı izler:
//  1. State bellekte güncellenir
//  2. Local cache (EditorStore.Set) senkron yazılır
//  3. Bağlı tüm ziyaretçilere content_update gönderilir
//  4. Uzak kayıt (SaveToFile) arka plan görevi olarak başlatılır
//
// Uzak kayıt başarısız olursa state geri alınmaz; sonuç Task üzerinden raporlanır.
type ProjectsService interface {
	Load(ctx context.Context) (models.ProjectsSectionConfig, error)
	Snapshot() models.ProjectsSectionConfig
	UpdateField(ctx context.Context, key models.SectionField, raw json.RawMessage) (models.ProjectsSectionConfig, *Task, error)
	UpdateProjectField(ctx context.Context, id string, field models.ProjectField, value *string) (models.Project, *Task, error)
	RemoveProject(ctx context.Context, id string) (*RemoveResult, error)
	AddProject(ctx context.Context, draft models.ProjectDraft) (models.Project, *Task, error)
	UpdateBackground(ctx context.Context, patch models.BackgroundPatch) (models.BackgroundConfig, *Task, error)
	SetInitialDisplay(ctx context.Context, v int) (models.ProjectsSectionConfig, *Task)
	SetLoadMoreCount(ctx context.Context, v int) (models.ProjectsSectionConfig, *Task)
	ResetDisplaySettings(ctx context.Context) (models.ProjectsSectionConfig, *Task)
	Save(ctx context.Context) *Task
}

type projectsService struct {
	store     EditorStore
	media     MediaRemover
	tasks     *TaskRunner
	publisher ws.EventPublisher
	logger    *zap.Logger

	mu       sync.Mutex
	defaults models.ProjectsSectionConfig
	cfg      models.ProjectsSectionConfig // Projects alanı kullanılmaz, liste projects'te
	projects *projectList
	revision int64
}

// NewProjectsService, constructor. State Load çağrılana kadar varsayılanlardır.
func NewProjectsService(
	defaults models.ProjectsSectionConfig,
	store EditorStore,
	media MediaRemover,
	tasks *TaskRunner,
	publisher ws.EventPublisher,
	logger *zap.Logger,
) ProjectsService {
	s := &projectsService{
		store:     store,
		media:     media,
		tasks:     tasks,
		publisher: publisher,
		logger:    logger,
		defaults:  defaults.Clone(),
	}
	s.resetToDefaultsLocked()
	return s
}

func (s *projectsService) resetToDefaultsLocked() {
	s.cfg = s.defaults.Clone()
	s.projects, _ = newProjectList(s.defaults.Projects)
	s.cfg.Projects = nil
	s.cfg.InitialDisplay = models.NormalizeCount(s.cfg.InitialDisplay)
	s.cfg.LoadMoreCount = models.NormalizeCount(s.cfg.LoadMoreCount)
}

// Load, kalıcı veriyi varsayılanların üzerine uygular.
//
// projects-info varsayılanlarla sığ birleştirilir: kayıtta bulunan üst seviye
// anahtarlar kazanır, bulunmayanlar varsayılandan gelir. projects-background
// ayrıca uygulanır. Bozuk JSON loglanır ve varsayılanlar korunur.
// Eski kayıtlardaki ID'siz projelere ID verilir ve local cache'e geri yazılır.
//
// Okuma s.mu altında yapılır; aksi halde arada tamamlanan bir commit eski veriyle ezilir.
// Kayıttaki revision bellekteki revision'dan eskiyse kayıt uygulanmaz.
func (s *projectsService) Load(ctx context.Context) (models.ProjectsSectionConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := s.store.Get(ctx, models.KeyProjectsInfo)
	if err != nil {
		return s.snapshotLocked(), fmt.Errorf("failed to read %s: %w", models.KeyProjectsInfo, err)
	}
	bg, err := s.store.Get(ctx, models.KeyProjectsBackground)
	if err != nil {
		return s.snapshotLocked(), fmt.Errorf("failed to read %s: %w", models.KeyProjectsBackground, err)
	}

	cfg := s.defaults.Clone()
	if info != nil {
		merged, err := mergeOverDefaults(cfg, info)
		if err != nil {
			s.logger.Warn("ignoring malformed projects-info", zap.Error(err))
		} else {
			cfg = merged
		}
	}
	if cfg.Revision > 0 && cfg.Revision < s.revision {
		s.logger.Warn("ignoring stale projects-info",
			zap.Int64("stored_revision", cfg.Revision),
			zap.Int64("current_revision", s.revision))
		return s.snapshotLocked(), nil
	}
	if bg != nil {
		background := cfg.Background
		if err := json.Unmarshal(bg, &background); err != nil {
			s.logger.Warn("ignoring malformed projects-background", zap.Error(err))
		} else {
			cfg.Background = background
		}
	}

	list, assigned := newProjectList(cfg.Projects)
	s.projects = list
	s.revision = max(s.revision, cfg.Revision)
	cfg.Projects = nil
	cfg.Revision = 0
	cfg.InitialDisplay = models.NormalizeCount(cfg.InitialDisplay)
	cfg.LoadMoreCount = models.NormalizeCount(cfg.LoadMoreCount)
	s.cfg = cfg

	snapshot := s.snapshotLocked()
	if assigned {
		// Üretilen ID'ler bir sonraki yüklemede de aynı kalmalı.
		if err := s.store.Set(ctx, models.KeyProjectsInfo, snapshot); err != nil {
			s.logger.Error("failed to store assigned project ids", zap.Error(err))
		}
	}
	return snapshot, nil
}

// mergeOverDefaults, raw içindeki üst seviye anahtarları defaults'un üzerine yazar.
func mergeOverDefaults(defaults models.ProjectsSectionConfig, raw json.RawMessage) (models.ProjectsSectionConfig, error) {
	var persisted map[string]json.RawMessage
	if err := json.Unmarshal(raw, &persisted); err != nil {
		return defaults, err
	}

	base, err := json.Marshal(defaults)
	if err != nil {
		return defaults, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(base, &merged); err != nil {
		return defaults, err
	}
	for k, v := range persisted {
		merged[k] = v
	}

	combined, err := json.Marshal(merged)
	if err != nil {
		return defaults, err
	}
	var out models.ProjectsSectionConfig
	if err := json.Unmarshal(combined, &out); err != nil {
		return defaults, err
	}
	return out, nil
}

func (s *projectsService) Snapshot() models.ProjectsSectionConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *projectsService) snapshotLocked() models.ProjectsSectionConfig {
	out := s.cfg
	out.Projects = s.projects.Slice()
	out.Revision = s.revision
	return out
}

// commitLocked, bir değişikliği local cache'e yazar, yayınlar ve uzak kaydı başlatır.
// s.mu tutulurken çağrılır.
func (s *projectsService) commitLocked(ctx context.Context, reason string, writeBackground bool) (models.ProjectsSectionConfig, *Task) {
	s.revision++
	snapshot := s.snapshotLocked()

	if err := s.store.Set(ctx, models.KeyProjectsInfo, snapshot); err != nil {
		s.logger.Error("failed to write local cache", zap.String("key", models.KeyProjectsInfo), zap.Error(err))
	}
	if writeBackground {
		if err := s.store.Set(ctx, models.KeyProjectsBackground, snapshot.Background); err != nil {
			s.logger.Error("failed to write local cache", zap.String("key", models.KeyProjectsBackground), zap.Error(err))
		}
	}

	s.publisher.BroadcastToAll(ws.Event{
		Op: ws.OpContentUpdate,
		Data: ws.ContentUpdateData{
			Revision: snapshot.Revision,
			Reason:   reason,
			Key:      models.KeyProjectsInfo,
		},
	})

	return snapshot, s.persist(ctx, snapshot)
}

// persist, snapshot'ı arka planda kalıcı dokümana yazar.
func (s *projectsService) persist(ctx context.Context, snapshot models.ProjectsSectionConfig) *Task {
	return s.tasks.Go(ctx, models.TaskOpPersist, models.KeyProjectsInfo, func(ctx context.Context, res *models.TaskResult) error {
		out, err := s.store.SaveToFile(ctx, models.ContentDocument{
			Section:  models.ProjectsSection,
			Suffix:   models.ProjectsFileSuffix,
			Revision: snapshot.Revision,
			Value:    snapshot,
		})
		res.Superseded = out.Superseded
		return err
	})
}

func invalidValue(err error) error {
	return &pkg.Localized{Key: "project.invalidValue", Err: fmt.Errorf("%w: %v", pkg.ErrBadRequest, err)}
}

func projectNotFound(id string) error {
	return &pkg.Localized{Key: "project.notFound", Err: fmt.Errorf("project %s: %w", id, pkg.ErrNotFound)}
}

// UpdateField, bölümün tek bir üst seviye alanını değiştirir.
func (s *projectsService) UpdateField(ctx context.Context, key models.SectionField, raw json.RawMessage) (models.ProjectsSectionConfig, *Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	writeBackground := false
	switch key {
	case models.SectionFieldTitle, models.SectionFieldSubtitle:
		var v string
		if err := json.Unmarshal(raw, &v); err != nil {
			return models.ProjectsSectionConfig{}, nil, invalidValue(err)
		}
		if key == models.SectionFieldTitle {
			s.cfg.Title = v
		} else {
			s.cfg.Subtitle = v
		}

	case models.SectionFieldInitialDisplay, models.SectionFieldLoadMoreCount:
		var v int
		if err := json.Unmarshal(raw, &v); err != nil {
			return models.ProjectsSectionConfig{}, nil, invalidValue(err)
		}
		if key == models.SectionFieldInitialDisplay {
			s.cfg.InitialDisplay = models.NormalizeCount(v)
		} else {
			s.cfg.LoadMoreCount = models.NormalizeCount(v)
		}

	case models.SectionFieldBackground:
		var bg models.BackgroundConfig
		if err := json.Unmarshal(raw, &bg); err != nil {
			return models.ProjectsSectionConfig{}, nil, invalidValue(err)
		}
		bg.Opacity = min(max(bg.Opacity, 0), 1)
		s.cfg.Background = bg
		writeBackground = true

	case models.SectionFieldProjects:
		var projects []models.Project
		if err := json.Unmarshal(raw, &projects); err != nil {
			return models.ProjectsSectionConfig{}, nil, invalidValue(err)
		}
		s.projects, _ = newProjectList(projects)

	default:
		return models.ProjectsSectionConfig{}, nil, &pkg.Localized{
			Key:    "project.invalidField",
			Params: map[string]string{"field": string(key)},
		}
	}

	snapshot, task := s.commitLocked(ctx, "field", writeBackground)
	return snapshot, task, nil
}

// UpdateProjectField, ID ile bulunan projenin tek alanını değiştirir.
// value nil ise alan boş string olur.
func (s *projectsService) UpdateProjectField(ctx context.Context, id string, field models.ProjectField, value *string) (models.Project, *Task, error) {
	if _, err := models.ParseProjectField(string(field)); err != nil {
		return models.Project{}, nil, &pkg.Localized{
			Key:    "project.invalidField",
			Params: map[string]string{"field": string(field)},
		}
	}

	var v string
	if value != nil {
		v = *value
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.projects.Get(id)
	if !ok {
		return models.Project{}, nil, projectNotFound(id)
	}
	updated := current.WithField(field, v)
	s.projects.Replace(updated)

	_, task := s.commitLocked(ctx, "project_update", false)
	return updated, task, nil
}

// RemoveProject, projeyi listeden çıkarır ve kaydeder.
// Yüklenmiş resim ve video ayrı bir görevde eşzamanlı silinir; her hata ayrı loglanır
// ve liste güncellemesini bekletmez.
func (s *projectsService) RemoveProject(ctx context.Context, id string) (*RemoveResult, error) {
	s.mu.Lock()
	removed, ok := s.projects.Remove(id)
	if !ok {
		s.mu.Unlock()
		return nil, projectNotFound(id)
	}
	_, persist := s.commitLocked(ctx, "project_remove", false)
	s.mu.Unlock()

	result := &RemoveResult{Project: removed, Persist: persist}

	var paths []string
	for _, p := range []string{removed.Image, removed.Video} {
		if p != "" && models.IsUploadedPath(p) {
			paths = append(paths, p)
		}
	}
	if len(paths) > 0 && s.media != nil {
		result.Cleanup = s.tasks.Go(ctx, models.TaskOpDeleteMedia, id, func(ctx context.Context, res *models.TaskResult) error {
			return s.deleteMedia(ctx, paths)
		})
	}
	return result, nil
}

func (s *projectsService) deleteMedia(ctx context.Context, paths []string) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	for _, p := range paths {
		g.Go(func() error {
			if err := s.media.Delete(ctx, p); err != nil {
				s.logger.Warn("failed to delete project media", zap.String("path", p), zap.Error(err))
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", p, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// AddProject, taslağı doğrular ve listenin sonuna ekler.
// Doğrulama hatasında liste değişmez.
func (s *projectsService) AddProject(ctx context.Context, draft models.ProjectDraft) (models.Project, *Task, error) {
	if err := draft.Validate(); err != nil {
		return models.Project{}, nil, pkg.NewLocalized("project.titleDescriptionRequired", nil)
	}

	project := draft.ToProject()
	project.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.projects.Append(project)
	_, task := s.commitLocked(ctx, "project_add", false)

	s.logger.Info("project added", zap.String("id", project.ID), zap.String("title", project.Title))
	return project, task, nil
}

// UpdateBackground, arka planı kısmi olarak günceller. İki anahtar da local cache'e yazılır.
func (s *projectsService) UpdateBackground(ctx context.Context, patch models.BackgroundPatch) (models.BackgroundConfig, *Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.Background = patch.Apply(s.cfg.Background)
	snapshot, task := s.commitLocked(ctx, "background", true)
	return snapshot.Background, task, nil
}

func (s *projectsService) SetInitialDisplay(ctx context.Context, v int) (models.ProjectsSectionConfig, *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.InitialDisplay = models.NormalizeCount(v)
	return s.commitLocked(ctx, "display", false)
}

func (s *projectsService) SetLoadMoreCount(ctx context.Context, v int) (models.ProjectsSectionConfig, *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.LoadMoreCount = models.NormalizeCount(v)
	return s.commitLocked(ctx, "display", false)
}

// ResetDisplaySettings, ayar diyaloğundaki "varsayılana dön": 6 / 3.
func (s *projectsService) ResetDisplaySettings(ctx context.Context) (models.ProjectsSectionConfig, *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cfg.InitialDisplay = models.ResetInitialDisplay
	s.cfg.LoadMoreCount = models.ResetLoadMoreCount
	return s.commitLocked(ctx, "display_reset", false)
}

// Save, mevcut state'i açıkça kaydeder. Revision artmaz.
func (s *projectsService) Save(ctx context.Context) *Task {
	return s.persist(ctx, s.Snapshot())
}
