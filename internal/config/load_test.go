package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigAndChdir(t *testing.T, name, content string) {
	t.Helper()

	tempDir := t.TempDir()
	configsDir := filepath.Join(tempDir, "configs")
	require.NoError(t, os.Mkdir(configsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(configsDir, name+".env"), []byte(content), 0644))

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(originalWD) })
	require.NoError(t, os.Chdir(tempDir))
}

func TestLoadConfig_HappyPath(t *testing.T) {
	writeConfigAndChdir(t, "test_happy", fmt.Sprintf(
		"APP_NAME=%s\nSERVER_PORT=%d\nLOG_LEVEL=%s\nGEMINI_API_KEY=%s\nLOCAL_DB_PATH=%s\n",
		"TestApp", 9090, "debug", "test-api-key", "test.db",
	))

	cfg, err := LoadConfig("test_happy")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "TestApp", cfg.Application.Name)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "test-api-key", cfg.Gemini.APIKey)
	assert.Equal(t, "test.db", cfg.Local.Path)

	// Defaults fill everything not present in the file.
	assert.Equal(t, "development", cfg.Application.Env)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.TextModel)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 4, cfg.SyncPool.Size)
	assert.Equal(t, "migrations/postgres", cfg.Remote.MigrationsPath)
}

func TestLoadConfig_MissingGeminiKey(t *testing.T) {
	writeConfigAndChdir(t, "test_nokey", "SERVER_PORT=8080\n")

	_, err := LoadConfig("test_nokey")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY is required")
}

func TestRemoteConfig_Enabled(t *testing.T) {
	tests := []struct {
		name    string
		remote  RemoteConfig
		enabled bool
	}{
		{
			name:    "BothUnset",
			remote:  RemoteConfig{},
			enabled: false,
		},
		{
			name:    "URLOnly",
			remote:  RemoteConfig{URL: "postgres://db.example.com/app"},
			enabled: false,
		},
		{
			name:    "KeyTooShort",
			remote:  RemoteConfig{URL: "postgres://db.example.com/app", ServiceKey: "short-key"},
			enabled: false,
		},
		{
			name: "PlaceholderKey",
			remote: RemoteConfig{
				URL:        "postgres://db.example.com/app",
				ServiceKey: placeholderServiceKey,
			},
			enabled: false,
		},
		{
			name: "RealKey",
			remote: RemoteConfig{
				URL:        "postgres://db.example.com/app",
				ServiceKey: "sb_secret_0123456789abcdef0123456789",
			},
			enabled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.enabled, tt.remote.Enabled())
		})
	}
}

func TestValidate_RemoteSettingsOnlyCheckedWhenEnabled(t *testing.T) {
	// A half-filled remote section with a placeholder key is a valid
	// local-only deployment.
	writeConfigAndChdir(t, "test_local", fmt.Sprintf(
		"GEMINI_API_KEY=test-api-key\nREMOTE_URL=postgres://db.example.com/app\nREMOTE_SERVICE_KEY=%s\n",
		placeholderServiceKey,
	))

	cfg, err := LoadConfig("test_local")
	require.NoError(t, err)
	assert.False(t, cfg.Remote.Enabled())
}
