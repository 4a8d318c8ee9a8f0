package models

import (
	"fmt"
	"time"
)

// Modal, bölümdeki diyaloglar.
type Modal string

const (
	ModalAddProject      Modal = "add"
	ModalDisplaySettings Modal = "settings"
)

// ParseModal, URL parametresini Modal'a çevirir.
func ParseModal(s string) (Modal, error) {
	switch m := Modal(s); m {
	case ModalAddProject, ModalDisplaySettings:
		return m, nil
	}
	return "", fmt.Errorf("unknown modal %q", s)
}

// Lightbox, tam ekran medya görüntüleyicinin durumu.
type Lightbox struct {
	ProjectID string `json:"projectId"`
	Src       string `json:"src"`
	IsVideo   bool   `json:"isVideo"`
}

// EditorSession, tek bir ziyaretçinin görünüm state'i.
//
// Bölüm içeriği site geneli paylaşılır (ProjectsService), ama kaç kartın
// açıldığı, hangi diyaloğun açık olduğu ve taslak form her ziyaretçiye aittir.
type EditorSession struct {
	ID                  string       `json:"id"`
	Lang                string       `json:"lang"`
	EditMode            bool         `json:"editMode"`
	DisplayCount        int          `json:"displayCount"`
	Lightbox            *Lightbox    `json:"lightbox"`
	ShowAddModal        bool         `json:"showAddModal"`
	ShowDisplaySettings bool         `json:"showDisplaySettings"`
	Draft               ProjectDraft `json:"draft"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// Clone, Lightbox pointer'ı dahil kopya döner.
func (s EditorSession) Clone() EditorSession {
	if s.Lightbox != nil {
		lb := *s.Lightbox
		s.Lightbox = &lb
	}
	return s
}

// DisplaySettingsRequest, PUT /api/projects/display gövdesi.
type DisplaySettingsRequest struct {
	InitialDisplay *int `json:"initialDisplay,omitempty"`
	LoadMoreCount  *int `json:"loadMoreCount,omitempty"`
}

// EditModeRequest, POST /api/session/edit-mode gövdesi.
type EditModeRequest struct {
	Enabled bool `json:"enabled"`
}

// SectionView, sayfa şablonunun ve GET /api/session'ın render modeli.
type SectionView struct {
	Title          string            `json:"title"`
	Subtitle       string            `json:"subtitle"`
	Background     BackgroundConfig  `json:"background"`
	InitialDisplay int               `json:"initialDisplay"`
	LoadMoreCount  int               `json:"loadMoreCount"`
	Page           Page              `json:"page"`
	Session        EditorSession     `json:"session"`
	QuickPicks     []int             `json:"quickPicks"`
	InputMax       int               `json:"inputMax"`
	Aspects        map[string]string `json:"aspects,omitempty"`
}
