package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full runtime configuration, populated from the
// environment. cmd/main.go loads .env first so local development
// works without exporting anything.
type Config struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":3000"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"matchday"`
	DBPassword string `envconfig:"DB_PASSWORD" default:""`
	DBName     string `envconfig:"DB_NAME" default:"matchday"`

	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"72h"`

	// ExpoPushURL is overridable so tests and staging can point the
	// dispatcher at a stub.
	ExpoPushURL      string `envconfig:"EXPO_PUSH_URL" default:"https://exp.host/--/api/v2/push/send"`
	TelegramBotToken string `envconfig:"TELEGRAM_BOT_TOKEN" default:""`

	LocalesDir      string `envconfig:"LOCALES_DIR" default:"internal/localization/locales"`
	DefaultLanguage string `envconfig:"DEFAULT_LANGUAGE" default:"ko"`

	// SendBuffer is the per-session outbound channel capacity; a
	// session that falls this far behind is disconnected.
	SendBuffer int `envconfig:"SEND_BUFFER" default:"256"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return c, nil
}

// DSN renders the Postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort)
}
