// Package config загружает конфигурацию сервера.
//
// Приоритет источников: флаги > переменные окружения (MICROBLOG_*, в том
// числе из .env) > YAML файл (--config) > значения по умолчанию.
// Ключи вложены через точку: http.addr задается флагом --http.addr или
// переменной MICROBLOG_HTTP_ADDR.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/iudanet/microblog/internal/crypto"
)

// EnvPrefix префикс переменных окружения
const EnvPrefix = "MICROBLOG"

// Config конфигурация сервера
type Config struct {
	Redis       RedisConfig     `mapstructure:"redis"`
	DB          DBConfig        `mapstructure:"db"`
	Log         LogConfig       `mapstructure:"log"`
	Cursor      CursorConfig    `mapstructure:"cursor"`
	HTTP        HTTPConfig      `mapstructure:"http"`
	RateLimit   RateLimitConfig `mapstructure:"ratelimit"`
	Auth        AuthConfig      `mapstructure:"auth"`
	ShowVersion bool            `mapstructure:"-"`

	// CursorSecretGenerated true, если секрет курсоров не задан и сгенерирован
	CursorSecretGenerated bool `mapstructure:"-"`
}

// HTTPConfig настройки HTTP сервера
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	PublicURL       string        `mapstructure:"public_url"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DBConfig настройки хранилища
type DBConfig struct {
	Driver string `mapstructure:"driver"` // sqlite или pgx
	DSN    string `mapstructure:"dsn"`
}

// AuthConfig настройки аутентификации
type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// CursorConfig настройки курсоров пагинации
type CursorConfig struct {
	Secret string `mapstructure:"secret"`
}

// RedisConfig настройки кэша токенов. Пустой Addr отключает кэш
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig лимит запросов к POST /users и POST /tokens с одного IP.
// Rate 0 отключает лимит
type RateLimitConfig struct {
	Rate   int           `mapstructure:"rate"`
	Window time.Duration `mapstructure:"window"`

	// TrustProxy разрешает брать IP клиента из X-Forwarded-For/X-Real-IP.
	// Включать только за reverse proxy, который перезаписывает эти заголовки
	TrustProxy bool `mapstructure:"trust_proxy"`
}

// Enabled сообщает, включен ли лимит
func (c RateLimitConfig) Enabled() bool {
	return c.Rate > 0
}

// LogConfig настройки логирования
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json или text
}

var defaults = map[string]any{
	"http.addr":             ":12346",
	"http.public_url":       "",
	"http.shutdown_timeout": 10 * time.Second,
	"db.driver":             "sqlite",
	"db.dsn":                "microblog.db",
	"auth.bcrypt_cost":      crypto.MinBcryptCost,
	"cursor.secret":         "",
	"redis.addr":            "",
	"redis.password":        "",
	"redis.db":              0,
	"redis.ttl":             10 * time.Minute,
	"ratelimit.rate":        0,
	"ratelimit.window":      time.Minute,
	"ratelimit.trust_proxy": false,
	"log.level":             "info",
	"log.format":            "json",
}

// Load загружает конфигурацию из аргументов командной строки (без имени программы),
// окружения и файлов
func Load(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("microblog-server", pflag.ContinueOnError)
	flags.SetOutput(io.Discard)

	configFile := flags.String("config", "", "path to YAML config file")
	envFile := flags.String("env-file", ".env", "path to .env file (ignored if missing)")
	showVersion := flags.Bool("version", false, "show version information")

	flags.String("http.addr", defaults["http.addr"].(string), "HTTP listen address")
	flags.String("http.public_url", "", "public base URL used in Location headers and next links")
	flags.String("db.driver", defaults["db.driver"].(string), "database driver: sqlite or pgx")
	flags.String("db.dsn", defaults["db.dsn"].(string), "database DSN")
	flags.String("redis.addr", "", "Redis address for token cache (empty disables cache)")
	flags.String("log.level", defaults["log.level"].(string), "log level: debug, info, warn, error")
	flags.String("log.format", defaults["log.format"].(string), "log format: json or text")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	// .env не перезаписывает уже заданные переменные окружения
	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.ShowVersion = *showVersion

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "sqlite", "pgx":
	default:
		return fmt.Errorf("invalid db.driver %q: expected sqlite or pgx", c.DB.Driver)
	}

	if c.DB.DSN == "" {
		return errors.New("db.dsn is required")
	}

	if c.Auth.BcryptCost < crypto.MinBcryptCost {
		return fmt.Errorf("auth.bcrypt_cost must be at least %d", crypto.MinBcryptCost)
	}

	if c.RateLimit.Rate < 0 {
		return errors.New("ratelimit.rate must not be negative")
	}
	if c.RateLimit.Enabled() && c.RateLimit.Window <= 0 {
		return errors.New("ratelimit.window must be positive when ratelimit.rate is set")
	}

	if c.HTTP.ShutdownTimeout <= 0 {
		return errors.New("http.shutdown_timeout must be positive")
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("invalid log.format %q: expected json or text", c.Log.Format)
	}

	// Без секрета курсоры выданные до перезапуска становятся невалидными
	if c.Cursor.Secret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("failed to generate cursor secret: %w", err)
		}
		c.Cursor.Secret = hex.EncodeToString(secret)
		c.CursorSecretGenerated = true
	}

	return nil
}

// NewLogger создает slog логгер по настройкам
func (c LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return slog.New(slog.NewJSONHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", s, err)
	}
	return level, nil
}
