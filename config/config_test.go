package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORAGE_TYPE", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "Algenib", cfg.Gemini.Voice)
	assert.Equal(t, 30*time.Second, cfg.Gemini.CallTimeout)
	assert.Equal(t, 4, cfg.Gemini.MaxToolRounds)
	assert.Equal(t, "local", cfg.Storage.Type)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legallyai.yaml")
	content := []byte(`
port: "9090"
gemini:
  text_model: gemini-2.0-flash
  call_timeout: 12s
  max_tool_rounds: 2
storage:
  type: local
  local_path: /tmp/avatars
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("GEMINI_TEMPERATURE", "0.2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port, "env wins over file")
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.TextModel)
	assert.Equal(t, 12*time.Second, cfg.Gemini.CallTimeout)
	assert.Equal(t, 2, cfg.Gemini.MaxToolRounds)
	assert.InDelta(t, 0.2, cfg.Gemini.Temperature, 0.0001)
	assert.Equal(t, "/tmp/avatars", cfg.StorageConfig().LocalPath)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad duration", "LLM_CALL_TIMEOUT", "soon"},
		{"bad int", "LLM_MAX_TOOL_ROUNDS", "many"},
		{"zero rounds", "LLM_MAX_TOOL_ROUNDS", "0"},
		{"unknown storage", "STORAGE_TYPE", "ftp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CONFIG_FILE", "")
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidateRequiresBucketForS3(t *testing.T) {
	cfg := Default()
	cfg.Storage.Type = "s3"
	assert.Error(t, cfg.Validate())

	cfg.Storage.S3Bucket = "avatars"
	assert.NoError(t, cfg.Validate())
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "debug"
	cfg.LogFormat = "console"
	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(-1), "debug enabled")

	cfg.LogFormat = "xml"
	_, err = cfg.NewLogger()
	assert.Error(t, err)

	cfg.LogFormat = "json"
	cfg.LogLevel = "loud"
	_, err = cfg.NewLogger()
	assert.Error(t, err)
}
