// Package i18n, backend tarafında çoklu dil desteği sağlar.
//
// Kullanıcıya dönen validation mesajları ve bildirimler ziyaretçinin diline göre üretilir.
// Dil şu sırayla belirlenir:
//  1. Oturumda kayıtlı dil (ilk istekte tespit edilir)
//  2. Accept-Language HTTP header'ı
//  3. Varsayılan dil (ko)
//
//	localizer := i18n.NewLocalizer("en")
//	msg := localizer.T("project.titleDescriptionRequired")
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// SupportedLanguages, desteklenen dil kodları. İlki varsayılandır.
var SupportedLanguages = []string{"ko", "en"}

// DefaultLanguage, varsayılan dil. Site içeriği Korece'dir.
const DefaultLanguage = "ko"

var (
	translations map[string]map[string]string
	loadOnce     sync.Once
	loadErr      error

	matcher = language.NewMatcher([]language.Tag{language.Korean, language.English})
)

// Load, çeviri dosyalarını fs.FS'ten bir kere yükler.
// Her dil için bir JSON dosyası beklenir: ko.json, en.json.
// Nested anahtarlar "dot notation"a düzleştirilir.
func Load(localesFS fs.FS) error {
	loadOnce.Do(func() {
		loaded := make(map[string]map[string]string)

		for _, lang := range SupportedLanguages {
			fileName := lang + ".json"

			data, err := fs.ReadFile(localesFS, fileName)
			if err != nil {
				loadErr = fmt.Errorf("failed to read translation file %s: %w", fileName, err)
				return
			}

			var nested map[string]any
			if err := json.Unmarshal(data, &nested); err != nil {
				loadErr = fmt.Errorf("failed to parse translation file %s: %w", fileName, err)
				return
			}

			flat := make(map[string]string)
			flattenMap("", nested, flat)
			loaded[lang] = flat
		}

		translations = loaded
	})

	return loadErr
}

// KeyCount, bir dil için yüklenmiş anahtar sayısını döner.
func KeyCount(lang string) int {
	return len(translations[lang])
}

// Localizer, belirli bir dil için çeviri yapar.
type Localizer struct {
	lang string
}

// NewLocalizer, desteklenmeyen dilde varsayılana düşer.
func NewLocalizer(lang string) *Localizer {
	if !isSupported(lang) {
		lang = DefaultLanguage
	}
	return &Localizer{lang: lang}
}

// Lang, localizer'ın dilini döner.
func (l *Localizer) Lang() string {
	return l.lang
}

// T, çeviri anahtarına karşılık gelen metni döner.
// Dilde yoksa varsayılan dile, orada da yoksa anahtarın kendisine düşer.
func (l *Localizer) T(key string) string {
	if msg, ok := translations[l.lang][key]; ok {
		return msg
	}
	if msg, ok := translations[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// TWithParams, metindeki {{param}} yer tutucularını değerlerle değiştirir.
//
//	localizer.TWithParams("project.loadMore", map[string]string{"count": "5"})
//	→ "더 많은 프로젝트 보기 (5개 더)"
func (l *Localizer) TWithParams(key string, params map[string]string) string {
	msg := l.T(key)
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", v)
	}
	return msg
}

// DetectLanguage, Accept-Language header'ından en uygun desteklenen dili seçer.
// Header formatı: "en-US,en;q=0.9,ko;q=0.8"
func DetectLanguage(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return DefaultLanguage
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLanguage
	}
	return SupportedLanguages[idx]
}

func isSupported(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// flattenMap: {"upload": {"failed": "..."}} → {"upload.failed": "..."}
func flattenMap(prefix string, src map[string]any, dst map[string]string) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			dst[key] = val
		case map[string]any:
			flattenMap(key, val, dst)
		}
	}
}
