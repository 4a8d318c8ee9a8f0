package services

import (
	"context"
	"io"
	"mime/multipart"
	"time"

	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg"
	"github.com/akinalp/folio/pkg/cache"
	"github.com/akinalp/folio/pkg/i18n"
	"github.com/akinalp/folio/ws"
	"go.uber.org/zap"
)

// SubmitResult, SubmitDraft ve SaveSettings sonucu.
// Notice, uzak kayıt bittiyse kullanıcıya gösterilen bildirimdir.
type SubmitResult struct {
	Session models.EditorSession `json:"session"`
	Project *models.Project      `json:"project,omitempty"`
	Task    *models.TaskResult   `json:"task,omitempty"`
	Notice  *ws.NoticeData       `json:"notice,omitempty"`
}

// SessionService, ziyaretçi başına görünüm state'i: edit modu, kaç kartın açık olduğu,
// lightbox, diyaloglar ve "proje ekle" taslağı.
//
// Oturumlar TTL cache'te tutulur ve her erişimde süreleri uzar. Bilinmeyen bir ID
// ile yapılan ilk çağrı yeni bir oturum oluşturur.
type SessionService interface {
	Get(ctx context.Context, id string) models.EditorSession
	View(ctx context.Context, id string) models.SectionView
	SetEditMode(ctx context.Context, id string, enabled bool) models.EditorSession
	LoadMore(ctx context.Context, id string) models.EditorSession
	OpenLightbox(ctx context.Context, id, projectID string) (models.EditorSession, error)
	CloseLightbox(ctx context.Context, id string) models.EditorSession
	OpenModal(ctx context.Context, id string, modal models.Modal) models.EditorSession
	CloseModal(ctx context.Context, id string, modal models.Modal) models.EditorSession
	UpdateDraft(ctx context.Context, id string, patch models.DraftPatch) models.EditorSession
	AttachDraftMedia(ctx context.Context, id string, file io.Reader, header *multipart.FileHeader) (models.EditorSession, *models.Media, error)
	SubmitDraft(ctx context.Context, id string) (*SubmitResult, error)
	ApplyDisplaySettings(ctx context.Context, id string, req models.DisplaySettingsRequest) models.EditorSession
	ResetDisplaySettings(ctx context.Context, id string) models.EditorSession
	SaveSettings(ctx context.Context, id string) (*SubmitResult, error)
}

type sessionService struct {
	sessions  *cache.TTLCache[string, models.EditorSession]
	projects  ProjectsService
	media     MediaService
	tasks     *TaskRunner
	publisher ws.EventPublisher
	logger    *zap.Logger
}

// NewSessionService, constructor. sessions cache'inin sahibi çağırandır (Close).
func NewSessionService(
	sessions *cache.TTLCache[string, models.EditorSession],
	projects ProjectsService,
	media MediaService,
	tasks *TaskRunner,
	publisher ws.EventPublisher,
	logger *zap.Logger,
) SessionService {
	return &sessionService{
		sessions:  sessions,
		projects:  projects,
		media:     media,
		tasks:     tasks,
		publisher: publisher,
		logger:    logger,
	}
}

// update, oturumu atomik olarak değiştirir. broadcast true ise aynı oturumun
// diğer sekmelerine session_update gönderilir.
func (s *sessionService) update(ctx context.Context, id string, broadcast bool, fn func(sess *models.EditorSession)) models.EditorSession {
	initial := s.projects.Snapshot().InitialDisplay
	lang := pkg.Lang(ctx)
	if lang == "" {
		lang = i18n.DefaultLanguage
	}

	out := s.sessions.Update(id, func(cur models.EditorSession, exists bool) (models.EditorSession, bool) {
		if !exists {
			cur = models.EditorSession{
				ID:           id,
				Lang:         lang,
				DisplayCount: initial,
			}
		}
		next := cur.Clone()
		if fn != nil {
			fn(&next)
		}
		next.UpdatedAt = time.Now().UTC()
		return next, true
	})

	if broadcast {
		s.publisher.BroadcastToSession(id, ws.Event{Op: ws.OpSessionUpdate, Data: out})
	}
	return out.Clone()
}

func (s *sessionService) Get(ctx context.Context, id string) models.EditorSession {
	return s.update(ctx, id, false, nil)
}

// View, sayfa şablonunun render modelini hesaplar.
func (s *sessionService) View(ctx context.Context, id string) models.SectionView {
	sess := s.Get(ctx, id)
	cfg := s.projects.Snapshot()
	page := models.Paginate(cfg.Projects, sess.DisplayCount, sess.EditMode)

	aspects := make(map[string]string)
	if s.media != nil {
		for _, p := range page.Projects {
			if p.Video != "" || !models.IsUploadedPath(p.Image) {
				continue
			}
			if aspect := s.media.DetectAspect(ctx, p.Image); aspect != "" {
				aspects[p.ID] = aspect
			}
		}
	}

	return models.SectionView{
		Title:          cfg.Title,
		Subtitle:       cfg.Subtitle,
		Background:     cfg.Background,
		InitialDisplay: cfg.InitialDisplay,
		LoadMoreCount:  cfg.LoadMoreCount,
		Page:           page,
		Session:        sess,
		QuickPicks:     models.DisplayQuickPicks,
		InputMax:       models.DisplayInputMax,
		Aspects:        aspects,
	}
}

// SetEditMode, sadece gerçek bir geçişte çalışır: kalıcı veri yeniden yüklenir ve
// displayCount initialDisplay'e döner. Edit modundan çıkarken diyaloglar ve lightbox kapanır.
func (s *sessionService) SetEditMode(ctx context.Context, id string, enabled bool) models.EditorSession {
	current := s.Get(ctx, id)
	if current.EditMode == enabled {
		return current
	}

	cfg, err := s.projects.Load(ctx)
	if err != nil {
		s.logger.Warn("reload on edit mode change failed", zap.String("session", id), zap.Error(err))
		cfg = s.projects.Snapshot()
	}

	var abandoned string
	sess := s.update(ctx, id, true, func(sess *models.EditorSession) {
		sess.EditMode = enabled
		sess.DisplayCount = models.NormalizeCount(cfg.InitialDisplay)
		if !enabled {
			sess.Lightbox = nil
			sess.ShowDisplaySettings = false
			if sess.ShowAddModal {
				abandoned = cancelDraft(sess)
			}
		}
	})
	s.cleanupDraftMedia(ctx, abandoned)
	return sess
}

// LoadMore: displayCount = min(displayCount + loadMoreCount, total).
func (s *sessionService) LoadMore(ctx context.Context, id string) models.EditorSession {
	cfg := s.projects.Snapshot()
	total := len(cfg.Projects)

	return s.update(ctx, id, true, func(sess *models.EditorSession) {
		sess.DisplayCount = models.NextDisplayCount(sess.DisplayCount, cfg.LoadMoreCount, total)
	})
}

// OpenLightbox, edit modunda yok sayılır. Medyası olmayan proje için de değişiklik yapılmaz.
func (s *sessionService) OpenLightbox(ctx context.Context, id, projectID string) (models.EditorSession, error) {
	var project *models.Project
	for _, p := range s.projects.Snapshot().Projects {
		if p.ID == projectID {
			project = &p
			break
		}
	}
	if project == nil {
		return s.Get(ctx, id), projectNotFound(projectID)
	}

	src := project.ActiveMedia()
	current := s.Get(ctx, id)
	if current.EditMode || src == "" {
		return current, nil
	}

	return s.update(ctx, id, true, func(sess *models.EditorSession) {
		sess.Lightbox = &models.Lightbox{
			ProjectID: project.ID,
			Src:       src,
			IsVideo:   models.IsLightboxVideo(src),
		}
	}), nil
}

// CloseLightbox, idempotent. Escape tuşu websocket üzerinden de buraya gelir.
func (s *sessionService) CloseLightbox(ctx context.Context, id string) models.EditorSession {
	if current := s.Get(ctx, id); current.Lightbox == nil {
		return current
	}
	return s.update(ctx, id, true, func(sess *models.EditorSession) {
		sess.Lightbox = nil
	})
}

// OpenModal, diyaloglar sadece edit modunda açılır.
func (s *sessionService) OpenModal(ctx context.Context, id string, modal models.Modal) models.EditorSession {
	return s.update(ctx, id, true, func(sess *models.EditorSession) {
		if !sess.EditMode {
			return
		}
		switch modal {
		case models.ModalAddProject:
			sess.ShowAddModal = true
		case models.ModalDisplaySettings:
			sess.ShowDisplaySettings = true
		}
	})
}

// CloseModal, "proje ekle" diyaloğunu iptal etmek taslağı temizler ve
// taslağa yüklenmiş dosyayı best-effort siler.
func (s *sessionService) CloseModal(ctx context.Context, id string, modal models.Modal) models.EditorSession {
	var abandoned string
	sess := s.update(ctx, id, true, func(sess *models.EditorSession) {
		switch modal {
		case models.ModalAddProject:
			abandoned = cancelDraft(sess)
		case models.ModalDisplaySettings:
			sess.ShowDisplaySettings = false
		}
	})
	s.cleanupDraftMedia(ctx, abandoned)
	return sess
}

// cancelDraft, diyaloğu kapatır, taslağı sıfırlar ve silinecek yüklenmiş dosya yolunu döner.
func cancelDraft(sess *models.EditorSession) string {
	abandoned := ""
	if models.IsUploadedPath(sess.Draft.Image) {
		abandoned = sess.Draft.Image
	}
	sess.Draft = models.ProjectDraft{}
	sess.ShowAddModal = false
	return abandoned
}

func (s *sessionService) cleanupDraftMedia(ctx context.Context, path string) {
	if path == "" || s.media == nil {
		return
	}
	s.tasks.Go(ctx, models.TaskOpDeleteMedia, path, func(ctx context.Context, res *models.TaskResult) error {
		res.Path = path
		return s.media.Delete(ctx, path)
	})
}

func (s *sessionService) UpdateDraft(ctx context.Context, id string, patch models.DraftPatch) models.EditorSession {
	return s.update(ctx, id, true, func(sess *models.EditorSession) {
		sess.Draft = patch.Apply(sess.Draft)
	})
}

// AttachDraftMedia, dosyayı türüne göre yükler ve dönen yolu taslağın medya alanına yazar.
// Boyut kontrolü diske dokunmadan önce yapılır; hata durumunda taslak değişmez.
func (s *sessionService) AttachDraftMedia(ctx context.Context, id string, file io.Reader, header *multipart.FileHeader) (models.EditorSession, *models.Media, error) {
	if header == nil {
		return s.Get(ctx, id), nil, pkg.NewLocalized("upload.noFile", nil)
	}

	kind := models.KindFromContentType(header.Header.Get("Content-Type"))
	media, err := s.media.Upload(ctx, kind, "project", file, header)
	if err != nil {
		return s.Get(ctx, id), nil, err
	}

	sess := s.update(ctx, id, true, func(sess *models.EditorSession) {
		sess.Draft.Image = media.Path
	})
	return sess, media, nil
}

// SubmitDraft, taslağı projelere ekler ve kaydın bitmesini bekler.
//
// Doğrulama hatasında diyalog açık kalır. Aksi halde uzak kaydın sonucundan bağımsız
// olarak taslak temizlenir ve diyalog kapanır; başarıda bildirim gönderilir.
func (s *sessionService) SubmitDraft(ctx context.Context, id string) (*SubmitResult, error) {
	current := s.Get(ctx, id)

	project, task, err := s.projects.AddProject(ctx, current.Draft)
	if err != nil {
		return &SubmitResult{Session: current}, err
	}

	result := &SubmitResult{Project: &project}
	if res, err := task.Wait(ctx); err == nil {
		result.Task = &res
		if res.Success {
			result.Notice = s.notify(id, current.Lang, "project.added", ws.NoticeSuccess)
		} else {
			result.Notice = s.notify(id, current.Lang, "project.addFailed", ws.NoticeError)
		}
	}

	result.Session = s.update(ctx, id, true, func(sess *models.EditorSession) {
		sess.Draft = models.ProjectDraft{}
		sess.ShowAddModal = false
	})
	return result, nil
}

// ApplyDisplaySettings, ayarları bölüme yazar. initialDisplay değişirse bu oturumun
// displayCount'u yeni değerle sınırlanır.
func (s *sessionService) ApplyDisplaySettings(ctx context.Context, id string, req models.DisplaySettingsRequest) models.EditorSession {
	if req.LoadMoreCount != nil {
		s.projects.SetLoadMoreCount(ctx, *req.LoadMoreCount)
	}
	if req.InitialDisplay == nil {
		return s.Get(ctx, id)
	}

	cfg, _ := s.projects.SetInitialDisplay(ctx, *req.InitialDisplay)
	return s.update(ctx, id, true, func(sess *models.EditorSession) {
		sess.DisplayCount = min(sess.DisplayCount, cfg.InitialDisplay)
	})
}

// ResetDisplaySettings, bölümü 6/3'e döndürür ve bu oturumun displayCount'unu 6 yapar.
func (s *sessionService) ResetDisplaySettings(ctx context.Context, id string) models.EditorSession {
	s.projects.ResetDisplaySettings(ctx)
	return s.update(ctx, id, true, func(sess *models.EditorSession) {
		sess.DisplayCount = models.ResetInitialDisplay
	})
}

// SaveSettings, açık bir kayıt yapar ve bitmesini bekler. Diyalog her durumda kapanır.
func (s *sessionService) SaveSettings(ctx context.Context, id string) (*SubmitResult, error) {
	current := s.Get(ctx, id)
	task := s.projects.Save(ctx)

	result := &SubmitResult{}
	res, err := task.Wait(ctx)
	if err == nil {
		result.Task = &res
		if res.Success {
			result.Notice = s.notify(id, current.Lang, "project.settingsSaved", ws.NoticeSuccess)
		} else {
			result.Notice = s.notify(id, current.Lang, "project.settingsSaveFailed", ws.NoticeError)
		}
	}

	result.Session = s.update(ctx, id, true, func(sess *models.EditorSession) {
		sess.ShowDisplaySettings = false
	})
	return result, err
}

func (s *sessionService) notify(id, lang, key, level string) *ws.NoticeData {
	notice := &ws.NoticeData{
		Key:     key,
		Message: i18n.NewLocalizer(lang).T(key),
		Level:   level,
	}
	s.publisher.BroadcastToSession(id, ws.Event{Op: ws.OpNotice, Data: notice})
	return notice
}
