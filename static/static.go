// Package static, sayfa şablonlarını ve istemci asset'lerini binary'ye gömer.
//
// templates/ altındaki dosyalar html/template ile tek bir set olarak parse edilir;
// "page" kök şablondur, diğerleri bölüm partial'larıdır.
// assets/ dizini /assets/ altında olduğu gibi servis edilir.
package static

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/akinalp/folio/models"
	"github.com/akinalp/folio/pkg/i18n"
	"github.com/akinalp/folio/seed"
	"github.com/dustin/go-humanize"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

// PageData, "page" ve "projects" şablonlarının modeli.
type PageData struct {
	Lang          string
	Site          seed.SiteInfo
	View          models.SectionView
	EditorEnabled bool
	Limits        models.UploadLimits // istemci yüklemeden önce boyutu kontrol eder
	L             *i18n.Localizer
	Year          int
}

// CardData, tek bir proje kartı.
type CardData struct {
	Project models.Project
	Edit    bool
	Aspect  string
	L       *i18n.Localizer
}

// LightboxData, açık lightbox.
type LightboxData struct {
	Lightbox models.Lightbox
	L        *i18n.Localizer
}

// Assets, assets/ dizininin kendisini kök alan bir FS döner.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		// embed dizini derleme zamanında vardır
		panic(err)
	}
	return sub
}

// Templates, bütün şablonları yardımcı fonksiyonlarla parse eder.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("folio").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// Funcs, şablonlarda kullanılan yardımcılar.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"isVideo": models.IsLightboxVideo,
		"cardData": func(d PageData, p models.Project) CardData {
			aspect, ok := d.View.Aspects[p.ID]
			if !ok {
				aspect = models.AspectFourBy3
			}
			return CardData{
				Project: p,
				Edit:    d.EditorEnabled && d.View.Session.EditMode,
				Aspect:  aspect,
				L:       d.L,
			}
		},
		"lightboxData": func(d PageData, lb *models.Lightbox) LightboxData {
			return LightboxData{Lightbox: *lb, L: d.L}
		},
		"nonEmpty": func(s, fallback string) string {
			if strings.TrimSpace(s) == "" {
				return fallback
			}
			return s
		},
		// opacity CSS değeri; html/template float'u style içinde güvenli yazar
		"opacity": func(v float64) string {
			return fmt.Sprintf("%.2f", min(max(v, 0), 1))
		},
		"ibytes": func(n int64) string {
			return humanize.IBytes(uint64(max(n, 0)))
		},
		"tp": func(l *i18n.Localizer, key string, kv ...any) string {
			params := make(map[string]string, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				params[fmt.Sprint(kv[i])] = fmt.Sprint(kv[i+1])
			}
			return l.TWithParams(key, params)
		},
	}
}
