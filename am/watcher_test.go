package am

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigWatcher_ReloadsOnChange(t *testing.T) {
	home, _ := isolate(t)
	userPath := filepath.Join(home, ".edtf", "am.toml")
	writeFile(t, userPath, "[check]\nfail_fast = false\n")

	cw, err := NewConfigWatcher(20 * time.Millisecond)
	require.NoError(t, err)
	assert.Contains(t, cw.Paths(), userPath)

	reloaded := make(chan *Config, 1)
	cw.OnReload(func(c *Config) error {
		select {
		case reloaded <- c:
		default:
		}
		return nil
	})
	cw.Start()
	defer cw.Stop()

	writeFile(t, userPath, "[check]\nfail_fast = true\n")

	select {
	case cfg := <-reloaded:
		assert.True(t, cfg.Check.FailFast)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestConfigWatcher_IgnoresOwnWrite(t *testing.T) {
	home, _ := isolate(t)
	userPath := filepath.Join(home, ".edtf", "am.toml")
	writeFile(t, userPath, "")

	cw, err := NewConfigWatcher(20 * time.Millisecond)
	require.NoError(t, err)

	cw.Start()
	defer cw.Stop()

	markOwnWrite()
	assert.True(t, checkOwnWrite())
	assert.False(t, checkOwnWrite(), "flag clears after one event")
}
