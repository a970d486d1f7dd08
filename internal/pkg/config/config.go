package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, secrets, store identity)
// - default: Values common across all environments (timezone, loyalty policy, limits)
// -----------------------------------------------------------------------------

const (
	DBDriverPostgres = "postgres"
	DBDriverMemory   = "memory"
)

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	Store     StoreConfig
	Loyalty   LoyaltyConfig
	ScanToken ScanTokenConfig
	Admin     AdminConfig
	Cookie    CookieConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port            string        `envconfig:"PORT" required:"true"`
	PublicBaseURL   string        `envconfig:"PUBLIC_BASE_URL" default:"http://localhost:8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// User, Password and DBName are only required by the postgres driver; see Validate.
type DBConfig struct {
	Driver   string `envconfig:"DB_DRIVER" default:"postgres"`
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER"`
	Password string `envconfig:"DB_PASSWORD"`
	DBName   string `envconfig:"DB_NAME"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"10"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Admin-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Retry-After"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
	// File enables a rotated log file next to stdout when set.
	File       string `envconfig:"LOG_FILE"`
	MaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"100"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"5"`
}

type StoreConfig struct {
	ID        string `envconfig:"STORE_ID" required:"true"`
	RedeemPIN string `envconfig:"REDEEM_PIN" required:"true"`
}

type LoyaltyConfig struct {
	Threshold int           `envconfig:"LOYALTY_THRESHOLD" default:"5"`
	Cooldown  time.Duration `envconfig:"LOYALTY_COOLDOWN" default:"10m"`
}

type ScanTokenConfig struct {
	Secret string `envconfig:"APP_SECRET" required:"true"`
	// MaxAge of zero keeps issued QR codes valid forever.
	MaxAge    time.Duration `envconfig:"SCAN_TOKEN_MAX_AGE" default:"720h"`
	ClockSkew time.Duration `envconfig:"SCAN_TOKEN_CLOCK_SKEW" default:"5m"`
}

type AdminConfig struct {
	Key             string        `envconfig:"ADMIN_KEY" required:"true"`
	SessionSecret   string        `envconfig:"ADMIN_SESSION_SECRET" required:"true"`
	SessionDuration time.Duration `envconfig:"ADMIN_SESSION_DURATION" default:"12h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN"`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

type RateLimitConfig struct {
	RequestsPerMinute float64 `envconfig:"RATE_LIMIT_RPM" default:"30"`
	Burst             int     `envconfig:"RATE_LIMIT_BURST" default:"10"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c Config) Validate() error {
	switch c.DB.Driver {
	case DBDriverPostgres:
		if c.DB.User == "" || c.DB.Password == "" || c.DB.DBName == "" {
			return fmt.Errorf("DB_USER, DB_PASSWORD and DB_NAME are required for the %s driver", DBDriverPostgres)
		}
	case DBDriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.Loyalty.Threshold < 1 {
		return fmt.Errorf("LOYALTY_THRESHOLD must be at least 1, got %d", c.Loyalty.Threshold)
	}
	if c.Loyalty.Cooldown < 0 {
		return fmt.Errorf("LOYALTY_COOLDOWN must not be negative")
	}
	if c.ScanToken.MaxAge < 0 || c.ScanToken.ClockSkew < 0 {
		return fmt.Errorf("SCAN_TOKEN_MAX_AGE and SCAN_TOKEN_CLOCK_SKEW must not be negative")
	}
	return nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            "8889", // Test port
			PublicBaseURL:   "http://localhost:8889",
			ShutdownTimeout: time.Second,
		},
		DB: DBConfig{
			Driver:   DBDriverMemory,
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 4,
		},
		CORS: CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Admin-Key"},
			ExposeHeaders:    []string{"Retry-After"},
			AllowCredentials: true,
			MaxAge:           time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		Store: StoreConfig{
			ID:        "test-store",
			RedeemPIN: "2468",
		},
		Loyalty: LoyaltyConfig{
			Threshold: 5,
			Cooldown:  10 * time.Minute,
		},
		ScanToken: ScanTokenConfig{
			Secret:    "test-app-secret",
			MaxAge:    720 * time.Hour,
			ClockSkew: 5 * time.Minute,
		},
		Admin: AdminConfig{
			Key:             "test-admin-key",
			SessionSecret:   "test-session-secret",
			SessionDuration: time.Hour,
		},
		Cookie: CookieConfig{
			SameSite: "Lax",
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 600,
			Burst:             100,
		},
	}
}
