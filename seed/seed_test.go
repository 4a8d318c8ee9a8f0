package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Embedded(t *testing.T) {
	d, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "프로젝트", d.Projects.Title)
	assert.Equal(t, 3, d.Projects.InitialDisplay)
	assert.Equal(t, 3, d.Projects.LoadMoreCount)
	assert.Equal(t, 0.1, d.Projects.Background.Opacity)
	require.Len(t, d.Projects.Projects, 7)

	for _, p := range d.Projects.Projects {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Description)
		assert.Empty(t, p.ID, "ids are assigned on load, not in the seed")
	}
	assert.Empty(t, d.Projects.Projects[6].PdfURL)
	assert.NotEmpty(t, d.Site.Name)
}

func TestLoad_ExternalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
projects:
  title: Work
  initialDisplay: 0
  loadMoreCount: -2
  background:
    opacity: 4
`), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Work", d.Projects.Title)
	assert.Equal(t, 1, d.Projects.InitialDisplay)
	assert.Equal(t, 1, d.Projects.LoadMoreCount)
	assert.Equal(t, 1.0, d.Projects.Background.Opacity)
	assert.NotNil(t, d.Projects.Projects)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("projects: [unclosed"))
	assert.Error(t, err)
}
