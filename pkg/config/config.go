package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	RateFeed     RateFeedConfig
	Billing      BillingConfig
	Cache        CacheConfig
	SaleLimit    SaleRateLimitConfig
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
	if err := cfg.RateFeed.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"JEWELPOS_APP_ENV" required:"true"`
	Port         string `envconfig:"JEWELPOS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"JEWELPOS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"JEWELPOS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"JEWELPOS_DB_DSN"`
	Driver string `envconfig:"JEWELPOS_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"JEWELPOS_DB_HOST"`
	LegacyPort     int    `envconfig:"JEWELPOS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"JEWELPOS_DB_USER"`
	LegacyPassword string `envconfig:"JEWELPOS_DB_PASSWORD"`
	LegacyName     string `envconfig:"JEWELPOS_DB_NAME"`
	LegacySSLMode  string `envconfig:"JEWELPOS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"JEWELPOS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"JEWELPOS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"JEWELPOS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"JEWELPOS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"JEWELPOS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"JEWELPOS_REDIS_ADDR"`
	Password     string        `envconfig:"JEWELPOS_REDIS_PASSWORD"`
	DB           int           `envconfig:"JEWELPOS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"JEWELPOS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"JEWELPOS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"JEWELPOS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"JEWELPOS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"JEWELPOS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// RateFeedConfig wires the external spot-price collaborator. The credential
// is a hard requirement: billing cannot derive per-gram rates without it.
type RateFeedConfig struct {
	BaseURL         string        `envconfig:"JEWELPOS_RATE_FEED_BASE_URL" default:"https://api.metals.dev/v1"`
	APIKey          string        `envconfig:"JEWELPOS_RATE_FEED_API_KEY"`
	Currency        string        `envconfig:"JEWELPOS_RATE_FEED_CURRENCY" default:"INR"`
	Timeout         time.Duration `envconfig:"JEWELPOS_RATE_FEED_TIMEOUT" default:"10s"`
	CacheTTL        time.Duration `envconfig:"JEWELPOS_RATE_FEED_CACHE_TTL" default:"30m"`
	RefreshInterval time.Duration `envconfig:"JEWELPOS_RATE_FEED_REFRESH_INTERVAL" default:"30m"`
}

func (r RateFeedConfig) validate() error {
	if strings.TrimSpace(r.APIKey) == "" {
		return fmt.Errorf("%s is required", EnvRateFeedAPIKey)
	}
	return nil
}

type BillingConfig struct {
	MakingChargePercent float64 `envconfig:"JEWELPOS_MAKING_CHARGE_PERCENT" default:"10"`
	GSTPercent          float64 `envconfig:"JEWELPOS_GST_PERCENT" default:"3"`
}

type CacheConfig struct {
	FreshFor   time.Duration `envconfig:"JEWELPOS_CACHE_FRESH_FOR" default:"5m"`
	EvictAfter time.Duration `envconfig:"JEWELPOS_CACHE_EVICT_AFTER" default:"30m"`
	CartTTL    time.Duration `envconfig:"JEWELPOS_CART_TTL" default:"2h"`
}

type SaleRateLimitConfig struct {
	Window time.Duration `envconfig:"JEWELPOS_SALE_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"JEWELPOS_SALE_RATE_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"JEWELPOS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
