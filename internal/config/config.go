package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// InsecureSessionSecret is the development signing secret. It is refused in production.
const InsecureSessionSecret = "insecure-dev-secret-change-me"

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Rate limit backends.
const (
	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

// Config contains server configuration parameters.
type Config struct {
	LogLevel     int           `env:"LOG_LEVEL" envDefault:"0"`
	App          App           `envPrefix:"APP_"`
	HTTP         HTTP          `envPrefix:"HTTP_"`
	Database     Database      `envPrefix:"DATABASE_"`
	Session      Session       `envPrefix:"SESSION_"`
	BcryptCost   int           `env:"BCRYPT_COST" envDefault:"12"`
	RateLimit    RateLimit     `envPrefix:"RATE_LIMIT_"`
	Redis        Redis         `envPrefix:"REDIS_"`
	Mail         Mail          `envPrefix:"MAIL_"`
	StoreTimeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
}

// App contains deployment-wide parameters.
type App struct {
	Env     string `env:"ENV" envDefault:"development"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	Issuer  string `env:"ISSUER" envDefault:"TradeJournal"`
}

// HTTP contains HTTP server parameters.
type HTTP struct {
	Port               string `env:"PORT" envDefault:"8080"`
	EnableHTTPS        bool   `env:"ENABLE_HTTPS" envDefault:"false"`
	CertFileName       string `env:"CERT_FILE_NAME" envDefault:"cert.pem"`
	PrivateKeyFileName string `env:"PRIVATE_KEY_FILE_NAME" envDefault:"key.pem"`
}

// Database contains database connection parameters. An empty DSN selects
// in-memory stores.
type Database struct {
	DSN string `env:"DSN"`
}

// Session contains session token parameters.
type Session struct {
	Secret     string        `env:"SECRET" envDefault:"insecure-dev-secret-change-me"`
	TTL        time.Duration `env:"TTL" envDefault:"168h"`
	PendingTTL time.Duration `env:"PENDING_TTL" envDefault:"5m"`
}

// Policy is one rate limit rule.
type Policy struct {
	Max    int           `env:"MAX"`
	Window time.Duration `env:"WINDOW"`
}

// RateLimit contains limiter backend and policy parameters.
type RateLimit struct {
	Backend       string        `env:"BACKEND" envDefault:"memory"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
	Login         Policy        `envPrefix:"LOGIN_"`
	Register      Policy        `envPrefix:"REGISTER_"`
	Import        Policy        `envPrefix:"IMPORT_"`
	TwoFactor     Policy        `envPrefix:"TWO_FACTOR_"`
	Email         Policy        `envPrefix:"EMAIL_"`
}

// Redis contains shared cache connection parameters.
type Redis struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

// Mail contains outbound mail parameters. An empty host selects the log mailer.
type Mail struct {
	Host          string        `env:"HOST"`
	Port          int           `env:"PORT" envDefault:"587"`
	Username      string        `env:"USERNAME"`
	Password      string        `env:"PASSWORD"`
	From          string        `env:"FROM" envDefault:"no-reply@localhost"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"10s"`
	RatePerSecond float64       `env:"RATE_PER_SECOND" envDefault:"5"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{
		RateLimit: RateLimit{
			Login:     Policy{Max: 5, Window: 15 * time.Minute},
			Register:  Policy{Max: 5, Window: time.Hour},
			Import:    Policy{Max: 10, Window: 15 * time.Minute},
			TwoFactor: Policy{Max: 10, Window: 15 * time.Minute},
			Email:     Policy{Max: 3, Window: 15 * time.Minute},
		},
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Production reports whether the service runs in production.
func (c *Config) Production() bool {
	return c.App.Env == EnvProduction
}

// Validate rejects combinations that must not reach a running server.
func (c *Config) Validate() error {
	var errs []error

	if c.App.Env != EnvDevelopment && c.App.Env != EnvProduction {
		errs = append(errs, fmt.Errorf("unknown APP_ENV %q", c.App.Env))
	}
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET must not be empty"))
	}
	if c.Production() && c.Session.Secret == InsecureSessionSecret {
		errs = append(errs, errors.New("SESSION_SECRET must be set in production"))
	}
	if c.Production() && c.Database.DSN == "" {
		errs = append(errs, errors.New("DATABASE_DSN must be set in production"))
	}
	if c.RateLimit.Backend != RateLimitMemory && c.RateLimit.Backend != RateLimitRedis {
		errs = append(errs, fmt.Errorf("unknown RATE_LIMIT_BACKEND %q", c.RateLimit.Backend))
	}

	for name, p := range map[string]Policy{
		"login":      c.RateLimit.Login,
		"register":   c.RateLimit.Register,
		"import":     c.RateLimit.Import,
		"two_factor": c.RateLimit.TwoFactor,
		"email":      c.RateLimit.Email,
	} {
		if p.Max <= 0 || p.Window <= 0 {
			errs = append(errs, fmt.Errorf("rate limit policy %s must have positive max and window", name))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
