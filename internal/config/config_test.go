package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// isolate points the default search locations at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Editor.TabStop)
	assert.Equal(t, 300*time.Second, cfg.Editor.MessageTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Editor.PollInterval)
	assert.Equal(t, "Save as: %s (ENTER to save | ESC to cancel)", cfg.Editor.SavePrompt)
	assert.Equal(t, "", cfg.Log.File)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "", cfg.File)

	assert.Equal(t, Default(), cfg)
}

func TestLoad_DefaultLocation(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".config", "jot")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor:\n  tab_stop: 4\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Editor.TabStop)
	assert.Equal(t, path, cfg.File)
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
editor:
  tab_stop: 4
  message_timeout: 10s
  poll_interval: 100ms
  save_prompt: "Name: %s"
log:
  file: /tmp/jot.log
  level: debug
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Editor.TabStop)
	assert.Equal(t, 10*time.Second, cfg.Editor.MessageTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Editor.PollInterval)
	assert.Equal(t, "Name: %s", cfg.Editor.SavePrompt)
	assert.Equal(t, "/tmp/jot.log", cfg.Log.File)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, path, cfg.File)
}

func TestLoadFromPath_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "log:\n  level: warn\n")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Editor.TabStop)
	assert.Equal(t, 500*time.Millisecond, cfg.Editor.PollInterval)
}

func TestLoadFromPath_MissingExplicitFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadFromPath_Malformed(t *testing.T) {
	path := writeConfig(t, "editor: [unclosed\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"tab stop zero", func(c *Config) { c.Editor.TabStop = 0 }, "editor.tab_stop must be between 1 and 32, got 0"},
		{"tab stop too large", func(c *Config) { c.Editor.TabStop = 33 }, "editor.tab_stop"},
		{"message timeout zero", func(c *Config) { c.Editor.MessageTimeout = 0 }, "editor.message_timeout must be positive"},
		{"poll interval too short", func(c *Config) { c.Editor.PollInterval = time.Millisecond }, "editor.poll_interval must be between 10ms and 5s, got 1ms"},
		{"poll interval too long", func(c *Config) { c.Editor.PollInterval = time.Minute }, "editor.poll_interval"},
		{"prompt without verb", func(c *Config) { c.Editor.SavePrompt = "Save as:" }, "editor.save_prompt must contain exactly one %s"},
		{"prompt with two verbs", func(c *Config) { c.Editor.SavePrompt = "%s %s" }, "editor.save_prompt"},
		{"prompt with other verb", func(c *Config) { c.Editor.SavePrompt = "%d" }, "editor.save_prompt"},
		{"unknown level", func(c *Config) { c.Log.Level = "trace" }, "log.level must be one of: [debug info warn error], got trace"},
		{"key action without keys", func(c *Config) { c.Keys = map[string][]string{"quit": {}} }, "keys.quit must list at least one key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromPath_Keys(t *testing.T) {
	path := writeConfig(t, "keys:\n  quit: [ctrl+x]\n  page_down: [pgdown, ctrl+down]\n")

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{
		"quit":      {"ctrl+x"},
		"page_down": {"pgdown", "ctrl+down"},
	}, cfg.Keys)

	out, err := cfg.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "keys:")
	assert.Contains(t, string(out), "- ctrl+x")
}

func TestLoadFromPath_Invalid(t *testing.T) {
	path := writeConfig(t, "editor:\n  tab_stop: 99\n")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "editor.tab_stop")
}

func TestYAML(t *testing.T) {
	out, err := Default().YAML()
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "tab_stop: 8")
	assert.Contains(t, text, "message_timeout: 5m0s")
	assert.Contains(t, text, "poll_interval: 500ms")
	assert.Contains(t, text, "level: info")

	// The output is itself a valid config file.
	path := writeConfig(t, text)
	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	cfg.File = ""
	assert.Equal(t, Default(), cfg)

	var raw map[string]map[string]any
	require.NoError(t, yaml.Unmarshal(out, &raw))
	assert.Contains(t, raw, "editor")
	assert.Contains(t, raw, "log")
}
