package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "GESTOR"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Siesa        SiesaConfig
	Woo          WooConfig
	Sync         SyncConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Siesa.validate(); err != nil {
		return nil, err
	}
	if err := cfg.Woo.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GESTOR_APP_ENV" required:"true"`
	Port         string `envconfig:"GESTOR_APP_PORT" default:"3000"`
	LogLevel     string `envconfig:"GESTOR_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GESTOR_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GESTOR_DB_DSN"`
	Driver string `envconfig:"GESTOR_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"GESTOR_DB_HOST"`
	Port     int    `envconfig:"GESTOR_DB_PORT" default:"5432"`
	User     string `envconfig:"GESTOR_DB_USER"`
	Password string `envconfig:"GESTOR_DB_PASSWORD"`
	Name     string `envconfig:"GESTOR_DB_NAME"`
	SSLMode  string `envconfig:"GESTOR_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GESTOR_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GESTOR_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GESTOR_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GESTOR_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	var missing []string
	for name, value := range map[string]string{
		"GESTOR_DB_HOST": db.Host,
		"GESTOR_DB_USER": db.User,
		"GESTOR_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either GESTOR_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     db.Name,
		RawQuery: url.Values{"sslmode": []string{db.SSLMode}}.Encode(),
	}
	db.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"GESTOR_REDIS_URL"`
	Address      string        `envconfig:"GESTOR_REDIS_ADDR"`
	Password     string        `envconfig:"GESTOR_REDIS_PASSWORD"`
	DB           int           `envconfig:"GESTOR_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GESTOR_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"GESTOR_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GESTOR_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GESTOR_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// SiesaConfig holds the Connekta query-execution API credentials.
type SiesaConfig struct {
	BaseURL   string        `envconfig:"GESTOR_SIESA_BASE_URL"`
	Key       string        `envconfig:"GESTOR_SIESA_KEY"`
	Token     string        `envconfig:"GESTOR_SIESA_TOKEN"`
	CompanyID string        `envconfig:"GESTOR_SIESA_COMPANY_ID" default:"7375"`
	Timeout   time.Duration `envconfig:"GESTOR_SIESA_TIMEOUT" default:"45s"`
}

func (s SiesaConfig) validate() error {
	if strings.TrimSpace(s.BaseURL) == "" {
		return fmt.Errorf("GESTOR_SIESA_BASE_URL is required")
	}
	if strings.TrimSpace(s.Key) == "" || strings.TrimSpace(s.Token) == "" {
		return fmt.Errorf("GESTOR_SIESA_KEY and GESTOR_SIESA_TOKEN are required")
	}
	return nil
}

// WooConfig holds the WooCommerce REST credentials.
type WooConfig struct {
	StoreURL       string        `envconfig:"GESTOR_WC_URL"`
	ConsumerKey    string        `envconfig:"GESTOR_WC_CONSUMER_KEY"`
	ConsumerSecret string        `envconfig:"GESTOR_WC_CONSUMER_SECRET"`
	Timeout        time.Duration `envconfig:"GESTOR_WC_TIMEOUT" default:"15s"`
}

func (w WooConfig) validate() error {
	if strings.TrimSpace(w.StoreURL) == "" {
		return fmt.Errorf("GESTOR_WC_URL is required")
	}
	if strings.TrimSpace(w.ConsumerKey) == "" || strings.TrimSpace(w.ConsumerSecret) == "" {
		return fmt.Errorf("GESTOR_WC_CONSUMER_KEY and GESTOR_WC_CONSUMER_SECRET are required")
	}
	return nil
}

// SyncConfig tunes the background re-adoption worker.
type SyncConfig struct {
	Interval time.Duration `envconfig:"GESTOR_SYNC_INTERVAL" default:"6h"`
	LockTTL  time.Duration `envconfig:"GESTOR_SYNC_LOCK_TTL" default:"1h"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"GESTOR_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"GESTOR_AUTO_MIGRATE" default:"false"`
}
