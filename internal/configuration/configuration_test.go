package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Logger.Level)
	assert.Equal(t, ":8080", config.Server.Address)
	assert.Equal(t, 5*time.Second, config.Server.ReadTimeout)
	assert.Equal(t, 0.4, config.Engine.RuleWeight)
	assert.Equal(t, 0.6, config.Engine.ModelWeight)
	assert.Equal(t, 5, config.Engine.TopK)
	assert.Equal(t, 2*time.Second, config.Model.Timeout)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
logger:
  level: debug
  format: console
server:
  address: ":9090"
catalog:
  path: /etc/lantern/careers.yaml
model:
  path: /etc/lantern/model.json
  remote_url: http://model:8000
  timeout: 500ms
engine:
  rule_weight: 0.5
  model_weight: 0.5
  top_k: 10
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Logger.Level)
	assert.Equal(t, "console", config.Logger.Format)
	assert.Equal(t, ":9090", config.Server.Address)
	assert.Equal(t, "/etc/lantern/careers.yaml", config.Catalog.Path)
	assert.Equal(t, "http://model:8000", config.Model.RemoteURL)
	assert.Equal(t, 500*time.Millisecond, config.Model.Timeout)
	assert.Equal(t, 0.5, config.Engine.RuleWeight)
	assert.Equal(t, 10, config.Engine.TopK)
	// untouched keys keep their defaults
	assert.Equal(t, 10*time.Second, config.Server.WriteTimeout)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("LANTERN_ENGINE_TOP_K", "7")
	t.Setenv("LANTERN_SERVER_ADDRESS", ":7070")

	config, err := LoadConfig(writeConfig(t, "server:\n  address: \":9090\"\n"))
	require.NoError(t, err)

	assert.Equal(t, 7, config.Engine.TopK)
	assert.Equal(t, ":7070", config.Server.Address)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"level":         "logger:\n  level: loud\n",
		"format":        "logger:\n  format: xml\n",
		"weights":       "engine:\n  rule_weight: 0\n  model_weight: 0\n",
		"negative":      "engine:\n  rule_weight: -1\n",
		"top_k":         "engine:\n  top_k: 51\n",
		"remote url":    "model:\n  remote_url: not a url\n",
		"address":       "server:\n  address: \"\"\n",
		"model timeout": "model:\n  timeout: 0s\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}
