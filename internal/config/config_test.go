package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/PhotoPack/internal/model"
)

// isolate clears the environment the loader reads and points HOME at an
// empty directory so no user config file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{"PHOTOPACK_PAPER", "PHOTOPACK_MARGIN", "PHOTOPACK_DPI", "PHOTOPACK_MAX_SIDE", "PHOTOPACK_LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	return home
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func ptr[T any](v T) *T { return &v }

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "letter", cfg.Paper)
	assert.Equal(t, 0.25, cfg.Margin)
	assert.Equal(t, 3.5, cfg.MaxSideLength)
	assert.Equal(t, 300.0, cfg.DPI)
	assert.Equal(t, "info", cfg.LogLevel)

	s, err := cfg.PageSettings()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPageSettings(), s)
}

func TestLoadEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("PHOTOPACK_PAPER", "a4")
	t.Setenv("PHOTOPACK_MARGIN", "0.5")
	t.Setenv("PHOTOPACK_DPI", "150")
	t.Setenv("PHOTOPACK_MAX_SIDE", "not-a-number")
	t.Setenv("PHOTOPACK_LOG_LEVEL", "debug")

	cfg, err := Load(nil)
	require.NoError(t, err)

	assert.Equal(t, "a4", cfg.Paper)
	assert.Equal(t, 0.5, cfg.Margin)
	assert.Equal(t, 150.0, cfg.DPI)
	assert.Equal(t, 3.5, cfg.MaxSideLength, "unparseable values are ignored")
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadYAMLFileBeatsEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("PHOTOPACK_MARGIN", "0.5")
	path := writeFile(t, "photopack.yaml", "paper: 4x6\nmargin: 0\ndpi: 600\nworkers: 3\n")

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	require.NoError(t, err)

	assert.Equal(t, "4x6", cfg.Paper)
	assert.Equal(t, 0.0, cfg.Margin, "explicit zero in the file wins")
	assert.Equal(t, 600.0, cfg.DPI)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoadJSONCFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, "photopack.jsonc", `{
		// custom sheet
		"page_width": 10,
		"page_height": 8, /* inches */
		"landscape": false,
		"max_side_length": 0,
	}`)

	cfg, err := Load(&CLIOverrides{ConfigFile: path})
	require.NoError(t, err)

	s, err := cfg.PageSettings()
	require.NoError(t, err)
	assert.Equal(t, 10.0, s.Width)
	assert.Equal(t, 8.0, s.Height)
	assert.Equal(t, 0.0, s.MaxSideLength)
}

func TestLoadCLIBeatsFile(t *testing.T) {
	isolate(t)
	path := writeFile(t, "c.yaml", "page_width: 10\npage_height: 8\nmargin: 0.1\n")

	cfg, err := Load(&CLIOverrides{
		ConfigFile: path,
		Paper:      ptr("legal"),
		Margin:     ptr(0.3),
		Landscape:  ptr(true),
		DPI:        ptr(72.0),
	})
	require.NoError(t, err)

	s, err := cfg.PageSettings()
	require.NoError(t, err)
	assert.Equal(t, 14.0, s.Width, "legal in landscape")
	assert.Equal(t, 8.5, s.Height)
	assert.Equal(t, 0.3, s.Margin)
	assert.Equal(t, 72.0, cfg.DPI)
}

func TestLoadDefaultConfigFile(t *testing.T) {
	home := isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".photopack"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, ".photopack", "config.yaml"), []byte("paper: tabloid\n"), 0644))

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "tabloid", cfg.Paper)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	_, err := Load(&CLIOverrides{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err, "an explicit config file must exist")

	_, err = Load(&CLIOverrides{ConfigFile: writeFile(t, "bad.yaml", "margin: [1, 2\n")})
	assert.Error(t, err)

	_, err = Load(&CLIOverrides{ConfigFile: writeFile(t, "bad.json", "{nope")})
	assert.Error(t, err)

	_, err = Load(&CLIOverrides{Paper: ptr("napkin")})
	assert.True(t, errors.Is(err, model.ErrInvalidDimension))
	assert.Contains(t, err.Error(), "letter")

	_, err = Load(&CLIOverrides{DPI: ptr(0.0)})
	assert.True(t, errors.Is(err, model.ErrInvalidDimension))

	_, err = Load(&CLIOverrides{Margin: ptr(5.0)})
	assert.True(t, errors.Is(err, model.ErrInvalidDimension))

	_, err = Load(&CLIOverrides{Workers: ptr(-1)})
	assert.Error(t, err)
}

func TestPageSettings_LandscapeKeepsWidePaper(t *testing.T) {
	cfg := Default()
	cfg.PageWidth, cfg.PageHeight = 11, 8.5
	cfg.Landscape = true

	s, err := cfg.PageSettings()
	require.NoError(t, err)
	assert.Equal(t, 11.0, s.Width)
	assert.Equal(t, 8.5, s.Height)
}
