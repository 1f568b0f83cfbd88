package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	DatabaseDSN    string        `envconfig:"DATABASE_DSN" required:"true"`
	DBMaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	DBMaxIdleConns int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"redis:6379"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	JWTSecret      string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL       time.Duration `envconfig:"TOKEN_TTL" default:"24h"`

	// Login gate. An empty password disables that role.
	AppPassword   string `envconfig:"APP_PASSWORD"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`

	StoreName string `envconfig:"STORE_NAME" default:"Loja do Nova"`
	StoreBio  string `envconfig:"STORE_BIO" default:"Caso aconteça algum erro, clique no botão abaixo"`

	SupportWebhookURL   string        `envconfig:"SUPPORT_WEBHOOK_URL" default:"https://waapi.app/api/v1/instances/5384/client/action/send-message"`
	SupportWebhookToken string        `envconfig:"SUPPORT_WEBHOOK_TOKEN"`
	SupportChatID       string        `envconfig:"SUPPORT_CHAT_ID"`
	SupportMessage      string        `envconfig:"SUPPORT_MESSAGE" default:"Suporte necessário: Loja do Nova"`
	SupportTimeout      time.Duration `envconfig:"SUPPORT_TIMEOUT" default:"10s"`

	ReportTimezone string        `envconfig:"REPORT_TIMEZONE" default:"America/Sao_Paulo"`
	ReportCacheTTL time.Duration `envconfig:"REPORT_CACHE_TTL" default:"5m"`
	ReportTopN     int           `envconfig:"REPORT_TOP_N" default:"8"`
	CartTTL        time.Duration `envconfig:"CART_TTL" default:"12h"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Location resolves the report time zone, falling back to UTC when the zone
// database does not know it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
