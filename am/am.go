// Package am loads edtf settings from TOML files and EDTF_* environment
// variables.
//
// Files merge in precedence order system < user < project < environment:
//
//	/etc/edtf/am.toml
//	~/.edtf/am.toml
//	./am.toml (searched upwards from the working directory)
package am

// Config represents the edtf configuration
type Config struct {
	Output  OutputConfig  `mapstructure:"output"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Check   CheckConfig   `mapstructure:"check"`
	Log     LogConfig     `mapstructure:"log"`
}

// OutputConfig controls how commands print results
type OutputConfig struct {
	Format string `mapstructure:"format"` // text, json or yaml
	Color  bool   `mapstructure:"color"`  // colored diagnostics on terminals
}

// CatalogConfig configures the SQLite expression catalog
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// CheckConfig configures `edtf check`
type CheckConfig struct {
	WatchDebounceMS int  `mapstructure:"watch_debounce_ms"` // quiet period before re-running a watched file
	FailFast        bool `mapstructure:"fail_fast"`         // stop at the first failing line
}

// LogConfig configures the global logger
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Theme string `mapstructure:"theme"` // everforest or gruvbox
}

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// Directory and file names
const (
	dirName        = ".edtf"
	configFileName = "am.toml"
	envPrefix      = "EDTF"
)
