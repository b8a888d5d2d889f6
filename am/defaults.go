package am

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/teranos/edtf/errors"
)

// Default values
const (
	DefaultFormat          = FormatText
	DefaultCatalogFile     = "catalog.db"
	DefaultWatchDebounceMS = 250
	DefaultLogTheme        = "everforest"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.format", DefaultFormat)
	v.SetDefault("output.color", true)

	// Empty means ~/.edtf/catalog.db, resolved by CatalogPath
	v.SetDefault("catalog.path", "")

	v.SetDefault("check.watch_debounce_ms", DefaultWatchDebounceMS)
	v.SetDefault("check.fail_fast", false)

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", DefaultLogTheme)
}

// envAliases are accepted after the EDTF_SECTION_KEY name of a setting.
var envAliases = map[string][]string{
	"catalog.path": {"EDTF_CATALOG"},
}

// envNames returns the environment variables read for key, in priority order.
func envNames(key string) []string {
	return append([]string{envName(key)}, envAliases[key]...)
}

// BindEnvVars binds every known setting to its environment variables. Call
// it after SetDefaults. Keys are bound one by one so a variable such as
// EDTF_CATALOG never stands in for a whole section.
func BindEnvVars(v *viper.Viper) error {
	for _, key := range v.AllKeys() {
		if err := v.BindEnv(append([]string{key}, envNames(key)...)...); err != nil {
			return errors.Wrapf(err, "failed to bind environment for %s", key)
		}
	}
	return nil
}

// CatalogPath returns the configured catalog database path, falling back to
// catalog.db under the user config directory.
func (c *Config) CatalogPath() string {
	if c.Catalog.Path != "" {
		return c.Catalog.Path
	}
	dir := userConfigDir()
	if dir == "" {
		return DefaultCatalogFile
	}
	return filepath.Join(dir, DefaultCatalogFile)
}

// WatchDebounce returns check.watch_debounce_ms as a duration
func (c *Config) WatchDebounce() time.Duration {
	if c.Check.WatchDebounceMS <= 0 {
		return DefaultWatchDebounceMS * time.Millisecond
	}
	return time.Duration(c.Check.WatchDebounceMS) * time.Millisecond
}

// LogTheme returns the log theme (default: everforest)
func (c *Config) LogTheme() string {
	if c.Log.Theme == "" {
		return DefaultLogTheme
	}
	return c.Log.Theme
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Output: %s, Catalog: %s, Check: {FailFast: %t}}",
		c.Output.Format, c.Catalog.Path, c.Check.FailFast)
}
