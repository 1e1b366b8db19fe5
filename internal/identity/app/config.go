package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is loaded from the environment. IDENTITY_SESSION_SECRET and
// IDENTITY_PURPOSE_SECRET are the only required settings.
type Config struct {
	// SessionSecret signs access and refresh tokens. At least 32 bytes.
	SessionSecret string `env:"IDENTITY_SESSION_SECRET"`

	// PurposeSecret signs reset and invite tokens. Kept separate from the
	// session secret so a leak of one cannot forge the other family.
	PurposeSecret string `env:"IDENTITY_PURPOSE_SECRET"`

	Issuer string `env:"IDENTITY_ISSUER" envDefault:"identity-service"`

	AccessTTL  time.Duration `env:"IDENTITY_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL time.Duration `env:"IDENTITY_REFRESH_TTL" envDefault:"168h"`
	PurposeTTL time.Duration `env:"IDENTITY_PURPOSE_TTL" envDefault:"30m"`

	DatabaseFile string `env:"IDENTITY_DATABASE_FILE" envDefault:"identity.db"`
	PepperFile   string `env:"IDENTITY_PEPPER_FILE" envDefault:"pepper"`

	// FrontendBaseURL is where reset and invitation links point.
	FrontendBaseURL string `env:"IDENTITY_FRONTEND_URL" envDefault:"http://localhost:3000"`

	SMTP SMTPConfig `envPrefix:"IDENTITY_SMTP_"`

	// Bootstrap admin, created only when the user table is empty. With no
	// password configured a random one is generated and logged once.
	BootstrapAdminEmail    string `env:"IDENTITY_BOOTSTRAP_ADMIN_EMAIL"`
	BootstrapAdminName     string `env:"IDENTITY_BOOTSTRAP_ADMIN_NAME" envDefault:"Administrator"`
	BootstrapAdminPassword string `env:"IDENTITY_BOOTSTRAP_ADMIN_PASSWORD"`

	// AppleClientID enables Sign in with Apple when set.
	AppleClientID string `env:"IDENTITY_APPLE_CLIENT_ID"`

	Env       string `env:"ENV" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// SMTPConfig configures the outgoing mail client. With no host set the
// service logs emails instead of sending them.
type SMTPConfig struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"no-reply@localhost"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if cfg.SessionSecret == "" {
		return Config{}, errors.New("IDENTITY_SESSION_SECRET is required")
	}
	if cfg.PurposeSecret == "" {
		return Config{}, errors.New("IDENTITY_PURPOSE_SECRET is required")
	}
	if cfg.SessionSecret == cfg.PurposeSecret {
		return Config{}, errors.New("session and purpose secrets must differ")
	}

	return cfg, nil
}
