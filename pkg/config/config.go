package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "AUTOSHOP"

	AppEnvDev = "dev"

	EnvAppEnv       = "AUTOSHOP_APP_ENV"
	EnvPort         = "AUTOSHOP_APP_PORT"
	EnvDBDSN        = "AUTOSHOP_DB_DSN"
	EnvDBDriver     = "AUTOSHOP_DB_DRIVER"
	EnvDBHost       = "AUTOSHOP_DB_HOST"
	EnvDBUser       = "AUTOSHOP_DB_USER"
	EnvDBName       = "AUTOSHOP_DB_NAME"
	EnvRedisURL     = "AUTOSHOP_REDIS_URL"
	EnvRedisEnabled = "AUTOSHOP_REDIS_ENABLED"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	HTTP         HTTPConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if cfg.Redis.Enabled && cfg.Redis.URL == "" && cfg.Redis.Address == "" {
		return nil, fmt.Errorf("%s is required when %s is set", EnvRedisURL, EnvRedisEnabled)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"AUTOSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"AUTOSHOP_APP_PORT" default:"5000"`
	LogLevel     string `envconfig:"AUTOSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AUTOSHOP_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"AUTOSHOP_LOG_FORMAT" default:"json"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

type DBConfig struct {
	DSN    string `envconfig:"AUTOSHOP_DB_DSN"`
	Driver string `envconfig:"AUTOSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AUTOSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"AUTOSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AUTOSHOP_DB_USER"`
	LegacyPassword string `envconfig:"AUTOSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"AUTOSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"AUTOSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AUTOSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AUTOSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AUTOSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AUTOSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"AUTOSHOP_DB_SLOW_QUERY" default:"200ms"`
}

// IsSQLite reports whether the configured driver is the embedded sqlite engine.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

type RedisConfig struct {
	Enabled      bool          `envconfig:"AUTOSHOP_REDIS_ENABLED" default:"true"`
	Namespace    string        `envconfig:"AUTOSHOP_REDIS_NAMESPACE" default:"autoshop"`
	URL          string        `envconfig:"AUTOSHOP_REDIS_URL"`
	Address      string        `envconfig:"AUTOSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"AUTOSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"AUTOSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AUTOSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AUTOSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AUTOSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AUTOSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AUTOSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `envconfig:"AUTOSHOP_HTTP_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"AUTOSHOP_HTTP_WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `envconfig:"AUTOSHOP_HTTP_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"AUTOSHOP_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
	MaxBodyBytes    int64         `envconfig:"AUTOSHOP_HTTP_MAX_BODY_BYTES" default:"10485760"`
	CORSOrigins     []string      `envconfig:"AUTOSHOP_HTTP_CORS_ORIGINS" default:"*"`
}

type RateLimitConfig struct {
	Window time.Duration `envconfig:"AUTOSHOP_RATE_LIMIT_WINDOW" default:"1m"`
	Limit  int           `envconfig:"AUTOSHOP_RATE_LIMIT_MAX" default:"1000"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AUTOSHOP_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AUTOSHOP_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = "file:autoshop.db?_foreign_keys=1"
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
