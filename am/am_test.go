package am

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every config layer at a temp directory.
func isolate(t *testing.T) (home, project string) {
	t.Helper()
	home = t.TempDir()
	project = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(project)

	prev := SystemConfigPath
	SystemConfigPath = filepath.Join(t.TempDir(), "system.toml")
	t.Cleanup(func() {
		SystemConfigPath = prev
		Reset()
	})
	Reset()
	return home, project
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadWithViper(v)
	require.NoError(t, err)

	assert.Equal(t, FormatText, cfg.Output.Format)
	assert.True(t, cfg.Output.Color)
	assert.Equal(t, DefaultWatchDebounceMS, cfg.Check.WatchDebounceMS)
	assert.False(t, cfg.Check.FailFast)
	assert.Equal(t, "everforest", cfg.LogTheme())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MergeOrder(t *testing.T) {
	home, project := isolate(t)

	writeFile(t, SystemConfigPath, "[output]\nformat = \"yaml\"\ncolor = false\n[check]\nfail_fast = true\n")
	writeFile(t, filepath.Join(home, ".edtf", "am.toml"), "[output]\nformat = \"json\"\n")
	writeFile(t, filepath.Join(project, "am.toml"), "[check]\nwatch_debounce_ms = 40\n")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, FormatJSON, cfg.Output.Format, "user overrides system")
	assert.False(t, cfg.Output.Color, "system value survives a partial user section")
	assert.True(t, cfg.Check.FailFast)
	assert.Equal(t, 40*time.Millisecond, cfg.WatchDebounce())

	same, err := Load()
	require.NoError(t, err)
	assert.Same(t, cfg, same, "Load caches until Reset")
}

func TestLoad_EnvironmentWins(t *testing.T) {
	home, _ := isolate(t)
	writeFile(t, filepath.Join(home, ".edtf", "am.toml"), "[output]\nformat = \"json\"\n")
	t.Setenv("EDTF_OUTPUT_FORMAT", "yaml")
	t.Setenv("EDTF_CATALOG", "/tmp/dates.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
	assert.Equal(t, "/tmp/dates.db", cfg.CatalogPath())
}

func TestLoad_EnvironmentBeatsEveryFile(t *testing.T) {
	home, project := isolate(t)
	writeFile(t, SystemConfigPath, "[check]\nwatch_debounce_ms = 10\n")
	writeFile(t, filepath.Join(home, ".edtf", "am.toml"), "[check]\nfail_fast = false\n")
	writeFile(t, filepath.Join(project, "am.toml"), "[check]\nfail_fast = false\nwatch_debounce_ms = 20\n[log]\ntheme = \"gruvbox\"\n")
	t.Setenv("EDTF_CHECK_FAIL_FAST", "true")
	t.Setenv("EDTF_CHECK_WATCH_DEBOUNCE_MS", "75")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Check.FailFast)
	assert.Equal(t, 75*time.Millisecond, cfg.WatchDebounce())
	assert.Equal(t, "gruvbox", cfg.Log.Theme, "project value without an override survives")
}

func TestLoad_CatalogEnvNames(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"alias", map[string]string{"EDTF_CATALOG": "/tmp/alias.db"}, "/tmp/alias.db"},
		{"section key", map[string]string{"EDTF_CATALOG_PATH": "/tmp/path.db"}, "/tmp/path.db"},
		{"section key first", map[string]string{"EDTF_CATALOG": "/tmp/alias.db", "EDTF_CATALOG_PATH": "/tmp/path.db"}, "/tmp/path.db"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home, _ := isolate(t)
			writeFile(t, filepath.Join(home, ".edtf", "am.toml"), "[catalog]\npath = \"file.db\"\n")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.CatalogPath())
		})
	}
}

func TestBindEnvVars_CoversDefaults(t *testing.T) {
	isolate(t)
	v := viper.New()
	SetDefaults(v)
	require.NoError(t, BindEnvVars(v))

	t.Setenv("EDTF_OUTPUT_COLOR", "false")
	t.Setenv("EDTF_CATALOG", "/tmp/c.db")
	assert.False(t, v.GetBool("output.color"))
	assert.Equal(t, "/tmp/c.db", v.GetString("catalog.path"))
}

func TestLoad_ProjectConfigFoundUpwards(t *testing.T) {
	_, project := isolate(t)
	writeFile(t, filepath.Join(project, "am.toml"), "[log]\ntheme = \"gruvbox\"\n")
	nested := filepath.Join(project, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gruvbox", cfg.Log.Theme)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "am.toml")
	writeFile(t, path, "[catalog]\npath = \"x.db\"\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x.db", cfg.CatalogPath())
	assert.Equal(t, FormatText, cfg.Output.Format)

	_, err = LoadFromFile(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestCatalogPathDefault(t *testing.T) {
	home, _ := isolate(t)
	cfg := &Config{}
	assert.Equal(t, filepath.Join(home, ".edtf", "catalog.db"), cfg.CatalogPath())
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{Output: OutputConfig{Format: FormatText}}
	}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"yaml", func(c *Config) { c.Output.Format = FormatYAML }, false},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, true},
		{"zero debounce uses default", func(c *Config) { c.Check.WatchDebounceMS = 0 }, false},
		{"negative debounce", func(c *Config) { c.Check.WatchDebounceMS = -1 }, true},
		{"unknown theme", func(c *Config) { c.Log.Theme = "solarized" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIntrospectionSources(t *testing.T) {
	home, _ := isolate(t)
	userPath := filepath.Join(home, ".edtf", "am.toml")
	writeFile(t, userPath, "[check]\nfail_fast = true\n")
	t.Setenv("EDTF_LOG_JSON", "true")

	ci, err := GetConfigIntrospection()
	require.NoError(t, err)

	s, ok := ci.Lookup("check.fail_fast")
	require.True(t, ok)
	assert.Equal(t, SourceUser, s.Source)
	assert.Equal(t, userPath, s.SourcePath)

	s, ok = ci.Lookup("output.format")
	require.True(t, ok)
	assert.Equal(t, SourceDefault, s.Source)

	s, ok = ci.Lookup("log.json")
	require.True(t, ok)
	assert.Equal(t, SourceEnvironment, s.Source)
	assert.Equal(t, "EDTF_LOG_JSON", s.SourcePath)

	_, ok = ci.Lookup("server.port")
	assert.False(t, ok)
}
