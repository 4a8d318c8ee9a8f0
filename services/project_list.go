package services

import (
	"github.com/akinalp/folio/models"
	"github.com/google/uuid"
)

// projectList, sıralı ID listesi + ID → kayıt map'i.
// Gösterim sırası ekleme sırasıdır; düzenleme ve silme ID ile yapılır.
// Eşzamanlılık koruması çağıranın sorumluluğundadır.
type projectList struct {
	order []string
	byID  map[string]models.Project
}

// newProjectList, ID'si olmayan veya tekrar eden kayıtlara yeni ID verir.
// assigned, en az bir ID üretildiyse true'dur.
func newProjectList(projects []models.Project) (list *projectList, assigned bool) {
	list = &projectList{
		order: make([]string, 0, len(projects)),
		byID:  make(map[string]models.Project, len(projects)),
	}
	for _, p := range projects {
		if _, dup := list.byID[p.ID]; p.ID == "" || dup {
			p.ID = uuid.NewString()
			assigned = true
		}
		list.Append(p)
	}
	return list, assigned
}

func (l *projectList) Len() int {
	return len(l.order)
}

// Slice, gösterim sırasıyla yeni bir slice döner.
func (l *projectList) Slice() []models.Project {
	out := make([]models.Project, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.byID[id])
	}
	return out
}

func (l *projectList) Get(id string) (models.Project, bool) {
	p, ok := l.byID[id]
	return p, ok
}

// Replace, aynı ID'li kaydı yerinde günceller. Sıra değişmez.
func (l *projectList) Replace(p models.Project) bool {
	if _, ok := l.byID[p.ID]; !ok {
		return false
	}
	l.byID[p.ID] = p
	return true
}

// Append, kaydı listenin sonuna ekler.
func (l *projectList) Append(p models.Project) {
	l.order = append(l.order, p.ID)
	l.byID[p.ID] = p
}

// Remove, kaydı çıkarır. Diğer kayıtların göreli sırası korunur.
func (l *projectList) Remove(id string) (models.Project, bool) {
	p, ok := l.byID[id]
	if !ok {
		return models.Project{}, false
	}
	delete(l.byID, id)
	for i, oid := range l.order {
		if oid == id {
			l.order = append(l.order[:i:i], l.order[i+1:]...)
			break
		}
	}
	return p, true
}
