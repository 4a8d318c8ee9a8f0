// Package seed, sitenin varsayılan içeriğini sağlar.
//
// Varsayılanlar binary'ye gömülü default.yaml'dan okunur. CONTENT_SEED_PATH ile
// dışarıdan bir dosya verilirse o kullanılır; böylece içerik değiştirmek için
// yeniden derlemek gerekmez.
package seed

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/akinalp/folio/models"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// SiteInfo, sayfanın düzenlenemeyen statik bölümleri (header, hero, about, contact, footer).
type SiteInfo struct {
	Name     string   `yaml:"name" json:"name"`
	Role     string   `yaml:"role" json:"role"`
	Tagline  string   `yaml:"tagline" json:"tagline"`
	About    []string `yaml:"about" json:"about"`
	Email    string   `yaml:"email" json:"email"`
	Location string   `yaml:"location" json:"location"`
}

// Defaults, bir seed dosyasının tamamı.
type Defaults struct {
	Site     SiteInfo                     `yaml:"site"`
	Projects models.ProjectsSectionConfig `yaml:"projects"`
}

// Load, path boşsa gömülü varsayılanları, değilse verilen dosyayı okur.
func Load(path string) (*Defaults, error) {
	data := defaultYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
		data = b
	}
	return Parse(data)
}

// Parse, YAML içeriğini çözer ve sayaçları tabana çeker.
func Parse(data []byte) (*Defaults, error) {
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	d.Projects.InitialDisplay = models.NormalizeCount(d.Projects.InitialDisplay)
	d.Projects.LoadMoreCount = models.NormalizeCount(d.Projects.LoadMoreCount)
	d.Projects.Background.Opacity = min(max(d.Projects.Background.Opacity, 0), 1)
	if d.Projects.Projects == nil {
		d.Projects.Projects = []models.Project{}
	}
	return &d, nil
}
