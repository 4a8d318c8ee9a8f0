package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// Kalıcı editör anahtarları.
const (
	KeyProjectsInfo       = "projects-info"
	KeyProjectsBackground = "projects-background"

	ProjectsSection    = "projects"
	ProjectsFileSuffix = "Info"
)

// ContentEntry, editor_data tablosundaki bir key-value kaydı.
type ContentEntry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ContentDocument, saveToFile çağrısının yükü.
// Revision, aynı dokümanın eski bir kopyasının yenisini ezmesini engeller.
type ContentDocument struct {
	Section  string
	Suffix   string
	Revision int64
	Value    any
}

// ContentFile, content_files tablosundaki kalıcı doküman.
type ContentFile struct {
	Section   string          `json:"section"`
	Suffix    string          `json:"suffix"`
	Value     json.RawMessage `json:"data"`
	Checksum  string          `json:"checksum"`
	Revision  int64           `json:"revision"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ContentRevision, bir dokümanın geçmiş kaydı.
type ContentRevision struct {
	Revision  int64     `json:"revision"`
	Checksum  string    `json:"checksum"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveFileRequest, POST /api/save-file gövdesi.
type SaveFileRequest struct {
	Section  string          `json:"section"`
	Suffix   string          `json:"suffix"`
	Data     json.RawMessage `json:"data"`
	Revision int64           `json:"revision"`
}

var identPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidKey, editör anahtarlarının ve dosya isimlerinin biçimini kontrol eder.
func ValidKey(s string) bool {
	return identPattern.MatchString(s)
}

// Validate, SaveFileRequest alanlarını kontrol eder.
func (r *SaveFileRequest) Validate() error {
	if !ValidKey(r.Section) || !ValidKey(r.Suffix) {
		return fmt.Errorf("section and suffix must be short identifiers")
	}
	if len(r.Data) == 0 || !json.Valid(r.Data) {
		return fmt.Errorf("data must be valid JSON")
	}
	return nil
}

// SaveResult, SaveToFile çağrısının sonucu.
// Superseded true ise daha yeni bir revision zaten kayıtlıydı ve hiçbir şey yazılmadı.
type SaveResult struct {
	Revision   int64  `json:"revision"`
	Checksum   string `json:"checksum,omitempty"`
	Superseded bool   `json:"superseded"`
}
