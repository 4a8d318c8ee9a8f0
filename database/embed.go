package database

import (
	"embed"
	"io/fs"
)

// EmbeddedMigrations, migrations/ dizinindeki SQL dosyalarını binary'ye gömer.
//
//go:embed migrations/*.sql
var EmbeddedMigrations embed.FS

// Migrations, gömülü migration dosyalarını kök dizin olarak döner.
// database.New'e doğrudan verilebilir.
func Migrations() fs.FS {
	sub, err := fs.Sub(EmbeddedMigrations, "migrations")
	if err != nil {
		// Sadece "migrations" geçersiz bir path olsaydı mümkündü.
		panic(err)
	}
	return sub
}
