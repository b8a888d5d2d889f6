package am

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/edtf/errors"
	"github.com/teranos/edtf/logger"
)

var (
	mu            sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper

	// ConfigSources records which file supplied each key during the last
	// load. Keys absent here come from defaults or the environment.
	ConfigSources = map[string]SourceInfo{}

	// SystemConfigPath is the lowest-precedence config file.
	SystemConfigPath = "/etc/edtf/am.toml"
)

// Load reads the edtf configuration using Viper. The result is cached until
// Reset.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	config, err := LoadWithViper(initViper())
	if err != nil {
		return nil, err
	}
	globalConfig = config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	mu.Lock()
	defer mu.Unlock()
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path on top of the
// defaults. Environment variables are not consulted.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	config, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config file %s", configPath)
	}
	return config, nil
}

// Reset clears the cached configuration
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	SetDefaults(v)
	if err := BindEnvVars(v); err != nil {
		logger.Warnw("Environment overrides disabled", logger.FieldError, err)
	}
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// configLayer is one file in the merge order.
type configLayer struct {
	path   string
	source ConfigSource
}

func configLayers() []configLayer {
	layers := []configLayer{{SystemConfigPath, SourceSystem}}
	if user := UserConfigPath(); user != "" {
		layers = append(layers, configLayer{user, SourceUser})
	}
	if project := findProjectConfig(); project != "" {
		layers = append(layers, configLayer{project, SourceProject})
	}
	return layers
}

// findProjectConfig searches for am.toml by walking up the directory tree.
// The user config file is skipped so it is not counted twice.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	user := UserConfigPath()

	for {
		candidate := filepath.Join(dir, configFileName)
		if _, err := os.Stat(candidate); err == nil && candidate != user {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// mergeConfigFiles merges each file into the config layer, later files
// first overriding single settings of earlier ones. Environment bindings
// still take precedence over every file.
func mergeConfigFiles(v *viper.Viper) {
	for _, layer := range configLayers() {
		if _, err := os.Stat(layer.path); err != nil {
			continue
		}

		fileViper := viper.New()
		fileViper.SetConfigFile(layer.path)
		fileViper.SetConfigType("toml")
		if err := fileViper.ReadInConfig(); err != nil {
			logger.Warnw("Skipping unreadable config file",
				logger.FieldPath, layer.path,
				logger.FieldError, err)
			continue
		}

		if err := v.MergeConfigMap(fileViper.AllSettings()); err != nil {
			logger.Warnw("Skipping unmergeable config file",
				logger.FieldPath, layer.path,
				logger.FieldError, err)
			continue
		}
		keys := fileViper.AllKeys()
		for _, key := range keys {
			ConfigSources[key] = SourceInfo{Source: layer.source, Path: layer.path}
		}
		logger.AMInfow("Merged config file",
			logger.FieldPath, layer.path,
			logger.FieldCount, len(keys))
	}
}

// userConfigDir returns ~/.edtf, or "" when the home directory is unknown.
func userConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, dirName)
}

// UserConfigPath returns ~/.edtf/am.toml
func UserConfigPath() string {
	dir := userConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, configFileName)
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return GetViper().Get(key)
}

// GetString returns a configuration value as string using dot notation
func GetString(key string) string {
	return GetViper().GetString(key)
}

// GetBool returns a configuration value as bool using dot notation
func GetBool(key string) bool {
	return GetViper().GetBool(key)
}

// GetInt returns a configuration value as int using dot notation
func GetInt(key string) int {
	return GetViper().GetInt(key)
}
