package am

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/teranos/edtf/errors"
	"github.com/teranos/edtf/logger"
)

const backupCount = 3

// createBackup rotates backups (.back1, .back2, .back3) before modifying
// the config file.
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	oldest := backupName(configPath, backupCount)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		logger.Warnw("Failed to delete old config backup",
			logger.FieldPath, oldest,
			logger.FieldError, err)
	}

	for i := backupCount - 1; i >= 1; i-- {
		from := backupName(configPath, i)
		if _, err := os.Stat(from); err != nil {
			continue
		}
		if err := os.Rename(from, backupName(configPath, i+1)); err != nil {
			return errors.Wrapf(err, "failed to rotate %s", from)
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(backupName(configPath, 1), content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

func backupName(configPath string, n int) string {
	return configPath + ".back" + strconv.Itoa(n)
}

// isBackupFile reports whether path is a rotated config backup
func isBackupFile(path string) bool {
	ext := filepath.Ext(path)
	if !strings.HasPrefix(ext, ".back") {
		return false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(ext, ".back"))
	return err == nil && n >= 1 && n <= backupCount
}

// SetValue stores key=raw in the user config file (~/.edtf/am.toml) and
// returns the path written. The key must be a known setting; raw is
// converted to the type of the setting's default.
func SetValue(key, raw string) (string, error) {
	path := UserConfigPath()
	if path == "" {
		return "", errors.New("could not determine home directory")
	}
	return SetValueIn(path, key, raw)
}

// SetValueIn is SetValue for an explicit config file.
func SetValueIn(path, key, raw string) (string, error) {
	value, err := coerce(key, raw)
	if err != nil {
		return "", err
	}

	config := make(map[string]interface{})
	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, &config); err != nil {
			return "", errors.Wrapf(err, "failed to parse %s", path)
		}
	} else if !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "failed to read %s", path)
	}

	setNested(config, strings.Split(key, "."), value)

	if err := checkCandidate(config); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return "", errors.Wrap(err, "failed to create config directory")
	}
	if err := createBackup(path); err != nil {
		return "", errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal config")
	}

	markOwnWrite()

	if err := os.WriteFile(path, data, DefaultFilePermissions); err != nil {
		return "", errors.Wrapf(err, "failed to write %s", path)
	}

	logger.AMInfow("Config value saved", "key", key, logger.FieldPath, path)
	Reset()
	return path, nil
}

// coerce converts raw to the type of key's default value.
func coerce(key, raw string) (interface{}, error) {
	defaults := viper.New()
	SetDefaults(defaults)
	if !defaults.IsSet(key) {
		return nil, errors.NewInvalidRequestError("unknown setting %q", key)
	}

	switch defaults.Get(key).(type) {
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.NewInvalidRequestError("%s expects true or false, got %q", key, raw)
		}
		return b, nil
	case int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.NewInvalidRequestError("%s expects an integer, got %q", key, raw)
		}
		return n, nil
	}
	return raw, nil
}

func setNested(m map[string]interface{}, path []string, value interface{}) {
	if len(path) == 1 {
		m[path[0]] = value
		return
	}
	child, ok := m[path[0]].(map[string]interface{})
	if !ok {
		child = make(map[string]interface{})
		m[path[0]] = child
	}
	setNested(child, path[1:], value)
}

// checkCandidate validates defaults overlaid with the file about to be
// written, so a bad value never reaches disk.
func checkCandidate(file map[string]interface{}) error {
	v := viper.New()
	SetDefaults(v)
	if err := v.MergeConfigMap(file); err != nil {
		return errors.Wrap(err, "failed to merge config")
	}
	cfg, err := LoadWithViper(v)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return errors.WrapInvalidRequest(err, "rejected config value")
	}
	return nil
}
