package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, "circlehub", cfg.Database.Name)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, 3, cfg.Moderation.ViolationThreshold)
	assert.Equal(t, 30*24*time.Hour, cfg.Retention.Window)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 9090
database:
  host: db.internal
  user: app
  name: chat
moderation:
  banned_terms:
    - spamword
    - badword
  violation_threshold: 5
retention:
  window: 168h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, []string{"spamword", "badword"}, cfg.Moderation.BannedTerms)
	assert.Equal(t, 5, cfg.Moderation.ViolationThreshold)
	assert.Equal(t, 7*24*time.Hour, cfg.Retention.Window)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o600))

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("BANNED_TERMS", " spam , , scam ")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled, "setting REDIS_HOST enables redis")
	assert.Equal(t, "cache.internal", cfg.Redis.Host)
	assert.Equal(t, []string{"spam", "scam"}, cfg.Moderation.BannedTerms)
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadDotEnv_Precedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOTENV_KEY=base\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.staging"), []byte("DOTENV_KEY=staging\nDOTENV_EXTRA=yes\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("DOTENV_KEY=local\n"), 0o600))
	origDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	t.Setenv("APP_ENV", "staging")
	t.Setenv("DOTENV_KEY", "")
	t.Setenv("DOTENV_EXTRA", "")
	os.Unsetenv("DOTENV_KEY")
	os.Unsetenv("DOTENV_EXTRA")

	loaded := LoadDotEnv()

	assert.Equal(t, []string{".env.local", ".env.staging", ".env"}, loaded)
	assert.Equal(t, "local", os.Getenv("DOTENV_KEY"))
	assert.Equal(t, "yes", os.Getenv("DOTENV_EXTRA"))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	dsn := DatabaseConfig{Host: "db", Port: 3306, User: "app", Password: "pw", Name: "chat"}.DSN()
	assert.Equal(t, "app:pw@tcp(db:3306)/chat?charset=utf8mb4&parseTime=True&loc=Local", dsn)
}
