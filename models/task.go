package models

import "time"

// TaskOp, arka plan görevinin türü.
type TaskOp string

const (
	TaskOpPersist     TaskOp = "persist"
	TaskOpDeleteMedia TaskOp = "delete_media"
	TaskOpUpload      TaskOp = "upload"
)

// TaskResult, asenkron bir uzak işlemin tipli sonucu.
//
// "State değişti mi" ile "uzak kayıt başarılı mı" birbirinden ayrıdır:
// state değişikliği görev başlamadan uygulanmıştır, TaskResult sadece
// kalıcılığın akıbetini anlatır. Başarısızlık state'i geri almaz.
type TaskResult struct {
	ID         string    `json:"id"`
	Op         TaskOp    `json:"op"`
	Key        string    `json:"key,omitempty"`
	Success    bool      `json:"success"`
	Reason     string    `json:"reason,omitempty"`
	Path       string    `json:"path,omitempty"`
	Superseded bool      `json:"superseded,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}
