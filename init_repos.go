// Package main — Repository katmanı başlatma.
//
// initRepositories, tüm repository implementasyonlarını oluşturur.
// Her repository aynı *sql.DB'yi alır ve interface döner.
package main

import (
	"database/sql"

	"github.com/akinalp/folio/repository"
)

// Repositories, repository instance'larını tutan container struct.
type Repositories struct {
	EditorData  repository.EditorDataRepository
	ContentFile repository.ContentFileRepository
	Media       repository.MediaRepository
}

// initRepositories, veritabanı bağlantısından repository'leri oluşturur.
// Go'nun sql.DB'si thread-safe connection pool'dur, paylaşılması güvenlidir.
func initRepositories(conn *sql.DB) *Repositories {
	return &Repositories{
		EditorData:  repository.NewSQLiteEditorDataRepo(conn),
		ContentFile: repository.NewSQLiteContentFileRepo(conn),
		Media:       repository.NewSQLiteMediaRepo(conn),
	}
}
