package am

import (
	"github.com/teranos/edtf/errors"
)

var validFormats = map[string]bool{FormatText: true, FormatJSON: true, FormatYAML: true}

var validThemes = map[string]bool{"everforest": true, "gruvbox": true}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if !validFormats[c.Output.Format] {
		return errors.WithHint(
			errors.Newf("output.format must be text, json or yaml, got %q", c.Output.Format),
			"set output.format in am.toml or EDTF_OUTPUT_FORMAT")
	}

	// 0 = default debounce, negative = invalid
	if c.Check.WatchDebounceMS < 0 {
		return errors.Newf("check.watch_debounce_ms must be >= 0, got %d", c.Check.WatchDebounceMS)
	}

	if c.Log.Theme != "" && !validThemes[c.Log.Theme] {
		return errors.Newf("log.theme must be everforest or gruvbox, got %q", c.Log.Theme)
	}

	return nil
}
