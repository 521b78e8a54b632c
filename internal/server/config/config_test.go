package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noEnvFile указывает на несуществующий .env, чтобы тесты не зависели от рабочей директории
func noEnvFile(t *testing.T) string {
	return "--env-file=" + filepath.Join(t.TempDir(), "missing.env")
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]string{noEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, ":12346", cfg.HTTP.Addr)
	assert.Empty(t, cfg.HTTP.PublicURL)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "microblog.db", cfg.DB.DSN)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 10*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, 0, cfg.RateLimit.Rate)
	assert.False(t, cfg.RateLimit.Enabled())
	assert.False(t, cfg.RateLimit.TrustProxy)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.ShowVersion)

	// Секрет курсоров генерируется
	assert.True(t, cfg.CursorSecretGenerated)
	assert.Len(t, cfg.Cursor.Secret, 64)
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
http:
  addr: ":7000"
  public_url: "https://file.example"
db:
  dsn: "file.db"
redis:
  addr: "file-redis:6379"
  ttl: 5m
log:
  level: warn
`), 0o600))

	// godotenv пишет в окружение процесса напрямую
	t.Cleanup(func() { _ = os.Unsetenv("MICROBLOG_CURSOR_SECRET") })

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("MICROBLOG_CURSOR_SECRET=from-dotenv\nMICROBLOG_DB_DSN=dotenv.db\n"), 0o600))

	t.Setenv("MICROBLOG_HTTP_ADDR", ":8000")
	t.Setenv("MICROBLOG_AUTH_BCRYPT_COST", "12")
	t.Setenv("MICROBLOG_RATELIMIT_WINDOW", "30s")
	t.Setenv("MICROBLOG_DB_DSN", "env.db")

	cfg, err := Load([]string{
		"--config", configPath,
		"--env-file", envPath,
		"--http.addr", ":9000",
	})
	require.NoError(t, err)

	// Флаг важнее окружения и файла
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	// Окружение важнее файла; .env не перезаписывает окружение
	assert.Equal(t, "env.db", cfg.DB.DSN)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	// .env задает то, чего нет в окружении
	assert.Equal(t, "from-dotenv", cfg.Cursor.Secret)
	assert.False(t, cfg.CursorSecretGenerated)
	// Файл важнее значений по умолчанию
	assert.Equal(t, "https://file.example", cfg.HTTP.PublicURL)
	assert.Equal(t, "file-redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Version(t *testing.T) {
	cfg, err := Load([]string{noEnvFile(t), "--version"})
	require.NoError(t, err)
	assert.True(t, cfg.ShowVersion)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		env  map[string]string
		name string
		args []string
	}{
		{name: "unknown flag", args: []string{"--nope"}},
		{name: "unknown driver", args: []string{"--db.driver", "mysql"}},
		{name: "bcrypt cost too low", env: map[string]string{"MICROBLOG_AUTH_BCRYPT_COST": "4"}},
		{name: "bad log level", args: []string{"--log.level", "loud"}},
		{name: "bad log format", args: []string{"--log.format", "xml"}},
		{name: "negative rate", env: map[string]string{"MICROBLOG_RATELIMIT_RATE": "-1"}},
		{name: "rate without window", env: map[string]string{"MICROBLOG_RATELIMIT_RATE": "5", "MICROBLOG_RATELIMIT_WINDOW": "0s"}},
		{name: "missing config file", args: []string{"--config", "/nonexistent/config.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(append([]string{noEnvFile(t)}, tt.args...))
			assert.Error(t, err)
		})
	}
}

func TestLoad_RateLimit(t *testing.T) {
	t.Run("zero rate disables the limiter", func(t *testing.T) {
		t.Setenv("MICROBLOG_RATELIMIT_RATE", "0")

		cfg, err := Load([]string{noEnvFile(t)})
		require.NoError(t, err)
		assert.False(t, cfg.RateLimit.Enabled())
	})

	t.Run("positive rate enables the limiter", func(t *testing.T) {
		t.Setenv("MICROBLOG_RATELIMIT_RATE", "20")
		t.Setenv("MICROBLOG_RATELIMIT_TRUST_PROXY", "true")

		cfg, err := Load([]string{noEnvFile(t)})
		require.NoError(t, err)
		assert.True(t, cfg.RateLimit.Enabled())
		assert.Equal(t, 20, cfg.RateLimit.Rate)
		assert.True(t, cfg.RateLimit.TrustProxy)
	})
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("visible")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"visible"`)

	buf.Reset()
	logger, err = LogConfig{Level: "debug", Format: "text"}.NewLogger(&buf)
	require.NoError(t, err)
	logger.Debug("details")
	assert.Contains(t, buf.String(), "msg=details")

	_, err = LogConfig{Level: "loud", Format: "text"}.NewLogger(&buf)
	assert.Error(t, err)
}
