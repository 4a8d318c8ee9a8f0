// Package main — Service katmanı başlatma.
//
// initServices, service implementasyonlarını oluşturur.
// Sıralama: EditorStore ve MediaService → TaskRunner → ProjectsService → SessionService.
// ProjectsService oluşturulduktan sonra kalıcı veri bir kez yüklenir.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/akinalp/folio/config"
	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg/cache"
	"github.com/akinalp/folio/pkg/ratelimit"
	"github.com/akinalp/folio/seed"
	"github.com/akinalp/folio/services"
	"github.com/akinalp/folio/ws"
	"go.uber.org/zap"
)

// Services, service instance'larını ve onların sahip olduğu
// arka plan kaynaklarını (cache, limiter) tutan container struct.
type Services struct {
	Store    services.EditorStore
	Media    services.MediaService
	Tasks    *services.TaskRunner
	Projects services.ProjectsService
	Sessions services.SessionService

	sessionCache *cache.TTLCache[string, models.EditorSession]
	aspectCache  *cache.TTLCache[string, string]
}

// RateLimiters, IP bazlı limiter'lar.
type RateLimiters struct {
	Upload *ratelimit.Limiter
}

// aspectCacheTTL, tespit edilen oran sınıflarının cache süresi.
const aspectCacheTTL = time.Hour

func initServices(
	ctx context.Context,
	repos *Repositories,
	hub ws.EventPublisher,
	defaults *seed.Defaults,
	cfg *config.Config,
	logger *zap.Logger,
) (*Services, error) {
	aspects := cache.New[string, string](aspectCacheTTL, cfg.Session.CleanupInterval)
	sessionCache := cache.New[string, models.EditorSession](cfg.Session.TTL, cfg.Session.CleanupInterval)

	store := services.NewEditorStore(repos.EditorData, repos.ContentFile, logger.Named("store"))

	limits := models.UploadLimits{Image: cfg.Upload.ImageMaxSize, Video: cfg.Upload.VideoMaxSize}
	media, err := services.NewMediaService(repos.Media, cfg.Upload.Dir, limits, aspects, logger.Named("media"))
	if err != nil {
		aspects.Close()
		sessionCache.Close()
		return nil, err
	}

	tasks := services.NewTaskRunner(hub, cfg.Content.SaveTimeout, logger.Named("tasks"))
	projects := services.NewProjectsService(defaults.Projects, store, media, tasks, hub, logger.Named("projects"))
	if _, err := projects.Load(ctx); err != nil {
		aspects.Close()
		sessionCache.Close()
		return nil, fmt.Errorf("failed to load projects section: %w", err)
	}

	sessions := services.NewSessionService(sessionCache, projects, media, tasks, hub, logger.Named("sessions"))

	return &Services{
		Store:        store,
		Media:        media,
		Tasks:        tasks,
		Projects:     projects,
		Sessions:     sessions,
		sessionCache: sessionCache,
		aspectCache:  aspects,
	}, nil
}

func initRateLimiters(cfg *config.Config) *RateLimiters {
	return &RateLimiters{
		Upload: ratelimit.New(cfg.Rate.UploadsPerWindow, cfg.Rate.UploadWindow),
	}
}

// Close, bekleyen arka plan görevlerini bitirir ve cache'leri durdurur.
func (s *Services) Close(ctx context.Context) error {
	err := s.Tasks.Drain(ctx)
	s.sessionCache.Close()
	s.aspectCache.Close()
	return err
}
