package models

import (
	"fmt"
	"net/url"
	"strings"
)

// Project, projeler bölümündeki tek bir kart.
//
// Image ve Video ikisi de saklanır ama gösterimde tek bir "aktif" medya vardır:
// Video doluysa video, değilse Image gösterilir (bkz. ActiveMedia).
// ID, oluşturulurken üretilen kalıcı kimliktir; düzenleme ve silme
// sıra numarasıyla değil ID ile yapılır.
type Project struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Image       string `json:"image" yaml:"image"`
	Video       string `json:"video,omitempty" yaml:"video,omitempty"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	PdfURL      string `json:"pdfUrl,omitempty" yaml:"pdfUrl,omitempty"`
}

// ActiveMedia, kartta ve lightbox'ta gösterilecek medya yolunu döner.
func (p Project) ActiveMedia() string {
	if p.Video != "" {
		return p.Video
	}
	return p.Image
}

// BackgroundConfig, bölüm arka planı. Opacity [0,1] aralığındadır.
type BackgroundConfig struct {
	Image   string  `json:"image" yaml:"image"`
	Video   string  `json:"video" yaml:"video"`
	Color   string  `json:"color" yaml:"color"`
	Opacity float64 `json:"opacity" yaml:"opacity"`
}

// BackgroundPatch, arka planın kısmi güncellemesi. nil alanlar korunur.
type BackgroundPatch struct {
	Image   *string  `json:"image,omitempty"`
	Video   *string  `json:"video,omitempty"`
	Color   *string  `json:"color,omitempty"`
	Opacity *float64 `json:"opacity,omitempty"`
}

// Apply, patch'i bg'nin bir kopyasına uygular. Opacity [0,1]'e sıkıştırılır.
func (p BackgroundPatch) Apply(bg BackgroundConfig) BackgroundConfig {
	if p.Image != nil {
		bg.Image = *p.Image
	}
	if p.Video != nil {
		bg.Video = *p.Video
	}
	if p.Color != nil {
		bg.Color = *p.Color
	}
	if p.Opacity != nil {
		bg.Opacity = min(max(*p.Opacity, 0), 1)
	}
	return bg
}

// ProjectsSectionConfig, bölümün tamamı. JSON şekli kalıcı "projects-info"
// kaydı ile birebir aynıdır; Projects sırası gösterim sırasıdır.
type ProjectsSectionConfig struct {
	Title          string           `json:"title" yaml:"title"`
	Subtitle       string           `json:"subtitle" yaml:"subtitle"`
	InitialDisplay int              `json:"initialDisplay" yaml:"initialDisplay"`
	LoadMoreCount  int              `json:"loadMoreCount" yaml:"loadMoreCount"`
	Background     BackgroundConfig `json:"background" yaml:"background"`
	Projects       []Project        `json:"projects" yaml:"projects"`
	Revision       int64            `json:"revision,omitempty" yaml:"-"`
}

// Clone, Projects slice'ı dahil derin kopya döner.
func (c ProjectsSectionConfig) Clone() ProjectsSectionConfig {
	out := c
	out.Projects = append([]Project(nil), c.Projects...)
	return out
}

// SectionField, bölümün üst seviye alanları (updateField anahtarları).
type SectionField string

const (
	SectionFieldTitle          SectionField = "title"
	SectionFieldSubtitle       SectionField = "subtitle"
	SectionFieldInitialDisplay SectionField = "initialDisplay"
	SectionFieldLoadMoreCount  SectionField = "loadMoreCount"
	SectionFieldBackground     SectionField = "background"
	SectionFieldProjects       SectionField = "projects"
)

// ParseSectionField, string'i SectionField'a çevirir.
func ParseSectionField(s string) (SectionField, error) {
	switch f := SectionField(s); f {
	case SectionFieldTitle, SectionFieldSubtitle, SectionFieldInitialDisplay,
		SectionFieldLoadMoreCount, SectionFieldBackground, SectionFieldProjects:
		return f, nil
	}
	return "", fmt.Errorf("unknown section field %q", s)
}

// ProjectField, tek bir projenin düzenlenebilir alanları.
type ProjectField string

const (
	ProjectFieldImage       ProjectField = "image"
	ProjectFieldVideo       ProjectField = "video"
	ProjectFieldTitle       ProjectField = "title"
	ProjectFieldDescription ProjectField = "description"
	ProjectFieldPdfURL      ProjectField = "pdfUrl"
)

// ParseProjectField, string'i ProjectField'a çevirir.
func ParseProjectField(s string) (ProjectField, error) {
	switch f := ProjectField(s); f {
	case ProjectFieldImage, ProjectFieldVideo, ProjectFieldTitle,
		ProjectFieldDescription, ProjectFieldPdfURL:
		return f, nil
	}
	return "", fmt.Errorf("unknown project field %q", s)
}

// WithField, p'nin bir kopyasında tek alanı değiştirir.
func (p Project) WithField(field ProjectField, value string) Project {
	switch field {
	case ProjectFieldImage:
		p.Image = value
	case ProjectFieldVideo:
		p.Video = value
	case ProjectFieldTitle:
		p.Title = value
	case ProjectFieldDescription:
		p.Description = value
	case ProjectFieldPdfURL:
		p.PdfURL = value
	}
	return p
}

// UpdateProjectRequest, PATCH /api/projects/{id} gövdesi.
// Value null gelirse alan boş string olarak kaydedilir.
type UpdateProjectRequest struct {
	Field string  `json:"field"`
	Value *string `json:"value"`
}

// ProjectDraft, "proje ekle" diyaloğundaki henüz kaydedilmemiş form.
// Image tek medya alanıdır; video mu resim mi olduğu kayıt anında
// dosya uzantısından çıkarılır (bkz. ClassifyDraftMedia).
type ProjectDraft struct {
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PdfURL      string `json:"pdfUrl"`
}

// Validate, başlık ve açıklamanın dolu olmasını ister.
func (d ProjectDraft) Validate() error {
	if d.Title == "" || d.Description == "" {
		return fmt.Errorf("title and description are required")
	}
	return nil
}

// ToProject, taslağı medya sınıflandırmasıyla bir Project'e çevirir. ID boş kalır.
func (d ProjectDraft) ToProject() Project {
	image, video := ClassifyDraftMedia(d.Image)
	return Project{
		Image:       image,
		Video:       video,
		Title:       d.Title,
		Description: d.Description,
		PdfURL:      d.PdfURL,
	}
}

// DraftPatch, taslağın kısmi güncellemesi.
type DraftPatch struct {
	Image       *string `json:"image,omitempty"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	PdfURL      *string `json:"pdfUrl,omitempty"`
}

// Apply, patch'i taslağın kopyasına uygular.
func (p DraftPatch) Apply(d ProjectDraft) ProjectDraft {
	if p.Image != nil {
		d.Image = *p.Image
	}
	if p.Title != nil {
		d.Title = *p.Title
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.PdfURL != nil {
		d.PdfURL = *p.PdfURL
	}
	return d
}

// videoSuffixes, video olarak sınıflandırılan dosya uzantıları.
var videoSuffixes = []string{".mp4", ".webm"}

// IsVideoPath, yolun (query ve fragment hariç) .mp4 veya .webm ile bitip bitmediğini söyler.
// Büyük/küçük harf duyarsızdır. Bu bir tahmindir; yükleme cevabı türü taşımaz.
func IsVideoPath(p string) bool {
	clean := strings.ToLower(stripQuery(p))
	for _, s := range videoSuffixes {
		if strings.HasSuffix(clean, s) {
			return true
		}
	}
	return false
}

// ClassifyDraftMedia, taslağın tek medya alanını image/video slotlarına dağıtır.
func ClassifyDraftMedia(path string) (image, video string) {
	if path == "" {
		return "", ""
	}
	if IsVideoPath(path) {
		return "", path
	}
	return path, ""
}

// IsLightboxVideo, lightbox'ın <video> ile mi <img> ile mi açılacağını belirler.
// Kart tıklamasında da aynı kural uygulanır: .mp4, .webm veya youtube içeren kaynaklar video'dur.
func IsLightboxVideo(src string) bool {
	s := strings.ToLower(src)
	return strings.Contains(s, ".mp4") || strings.Contains(s, ".webm") || strings.Contains(s, "youtube")
}

// IsUploadedPath, yolun sunucunun /uploads/ dizinine ait olup olmadığını söyler.
// Sadece bu yollar silme endpoint'ine gönderilir. Başka bir host'taki
// "/uploads/" yolları (mutlak URL'ler) bize ait değildir.
func IsUploadedPath(p string) bool {
	return strings.HasPrefix(p, UploadsPrefix)
}

// UploadsPrefix, yüklenen dosyaların servis edildiği URL prefix'i.
const UploadsPrefix = "/uploads/"

func stripQuery(p string) string {
	if u, err := url.Parse(p); err == nil && u.Path != "" {
		return u.Path
	}
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		return p[:i]
	}
	return p
}
