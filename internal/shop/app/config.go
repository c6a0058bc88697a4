package app

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	SessionBackendSQLite = "sqlite"
	SessionBackendRedis  = "redis"
)

type Config struct {
	DatabaseFile string `env:"SHOP_DATABASE_FILE" envDefault:"shop.db"`
	PepperFile   string `env:"SHOP_PEPPER_FILE" envDefault:"pepper"`

	SessionSecret  string        `env:"SHOP_SESSION_SECRET"` // random per process when empty
	SessionBackend string        `env:"SHOP_SESSION_BACKEND" envDefault:"sqlite"`
	SessionTTL     time.Duration `env:"SHOP_SESSION_TTL" envDefault:"24h"`
	SecureCookies  bool          `env:"SHOP_SECURE_COOKIES" envDefault:"false"`
	RedisAddr      string        `env:"SHOP_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword  string        `env:"SHOP_REDIS_PASSWORD"`

	OTPIssuer      string `env:"SHOP_OTP_ISSUER" envDefault:"Fruit Shop"`
	AdminUsername  string `env:"SHOP_ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword  string `env:"SHOP_ADMIN_PASSWORD"`   // generated and logged on first start when empty
	AdminOTPSecret string `env:"SHOP_ADMIN_OTP_SECRET"` // generated when empty

	Env                  string        `env:"ENV" envDefault:"dev"`
	LogLevel             string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat            string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                 int           `env:"PORT" envDefault:"8080"`
	TrustProxyHeaders    bool          `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory if there is one.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.SessionBackend {
	case SessionBackendSQLite, SessionBackendRedis:
	default:
		return fmt.Errorf("SHOP_SESSION_BACKEND must be %q or %q, got %q",
			SessionBackendSQLite, SessionBackendRedis, c.SessionBackend)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SHOP_SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	return nil
}
