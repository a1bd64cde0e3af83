package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "SOLSTICE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Env var names referenced by tests and error messages.
const (
	EnvAppEnv     = "SOLSTICE_APP_ENV"
	EnvPort       = "SOLSTICE_APP_PORT"
	EnvDBDSN      = "SOLSTICE_DB_DSN"
	EnvDBHost     = "SOLSTICE_DB_HOST"
	EnvDBUser     = "SOLSTICE_DB_USER"
	EnvDBName     = "SOLSTICE_DB_NAME"
	EnvRedisURL   = "SOLSTICE_REDIS_URL"
	EnvJWTSecret  = "SOLSTICE_JWT_SECRET"
	EnvJWTIssuer  = "SOLSTICE_JWT_ISSUER"
	EnvJWTExpMins = "SOLSTICE_JWT_EXPIRATION_MINUTES"
	EnvIGToken    = "SOLSTICE_INSTAGRAM_ACCESS_TOKEN"
	EnvIGAccount  = "SOLSTICE_INSTAGRAM_ACCOUNT_ID"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Instagram    InstagramConfig
	LinkedIn     LinkedInConfig
	OpenAI       OpenAIConfig
	SMTP         SMTPConfig
	Newsletter   NewsletterConfig
	Cron         CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SOLSTICE_APP_ENV" required:"true"`
	Port         string `envconfig:"SOLSTICE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SOLSTICE_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"SOLSTICE_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"SOLSTICE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SOLSTICE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SOLSTICE_DB_DSN"`
	Driver string `envconfig:"SOLSTICE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"SOLSTICE_DB_HOST"`
	LegacyPort     int    `envconfig:"SOLSTICE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SOLSTICE_DB_USER"`
	LegacyPassword string `envconfig:"SOLSTICE_DB_PASSWORD"`
	LegacyName     string `envconfig:"SOLSTICE_DB_NAME"`
	LegacySSLMode  string `envconfig:"SOLSTICE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SOLSTICE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SOLSTICE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SOLSTICE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SOLSTICE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SOLSTICE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SOLSTICE_REDIS_ADDR"`
	Password     string        `envconfig:"SOLSTICE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SOLSTICE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SOLSTICE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SOLSTICE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SOLSTICE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SOLSTICE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SOLSTICE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SOLSTICE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SOLSTICE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SOLSTICE_JWT_EXPIRATION_MINUTES" required:"true"`
}

// Expiration returns the configured access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"SOLSTICE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"SOLSTICE_AUTO_MIGRATE" default:"false"`
}

// InstagramConfig carries the Graph API credentials plus the container
// readiness polling policy.
type InstagramConfig struct {
	AccessToken  string        `envconfig:"SOLSTICE_INSTAGRAM_ACCESS_TOKEN"`
	AccountID    string        `envconfig:"SOLSTICE_INSTAGRAM_ACCOUNT_ID"`
	GraphBaseURL string        `envconfig:"SOLSTICE_INSTAGRAM_GRAPH_BASE_URL" default:"https://graph.facebook.com/v19.0"`
	PollInterval time.Duration `envconfig:"SOLSTICE_INSTAGRAM_POLL_INTERVAL" default:"3s"`
	PollAttempts int           `envconfig:"SOLSTICE_INSTAGRAM_POLL_ATTEMPTS" default:"20"`
}

// LinkedInConfig holds endpoint settings only. The access token and author URN
// live in the settings store and are resolved per request.
type LinkedInConfig struct {
	BaseURL string `envconfig:"SOLSTICE_LINKEDIN_BASE_URL" default:"https://api.linkedin.com"`
	Version string `envconfig:"SOLSTICE_LINKEDIN_VERSION" default:"202401"`
}

type OpenAIConfig struct {
	APIKey  string `envconfig:"SOLSTICE_OPENAI_API_KEY"`
	BaseURL string `envconfig:"SOLSTICE_OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Model   string `envconfig:"SOLSTICE_OPENAI_MODEL" default:"gpt-4o-mini"`
}

type SMTPConfig struct {
	Host     string `envconfig:"SOLSTICE_SMTP_HOST"`
	Port     int    `envconfig:"SOLSTICE_SMTP_PORT" default:"587"`
	Username string `envconfig:"SOLSTICE_SMTP_USERNAME"`
	Password string `envconfig:"SOLSTICE_SMTP_PASSWORD"`
}

type NewsletterConfig struct {
	FromName  string `envconfig:"SOLSTICE_NEWSLETTER_FROM_NAME" default:"Solstice Digital"`
	FromEmail string `envconfig:"SOLSTICE_NEWSLETTER_FROM_EMAIL"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"SOLSTICE_CRON_INTERVAL" default:"1m"`
	LockTTL  time.Duration `envconfig:"SOLSTICE_CRON_LOCK_TTL" default:"5m"`
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
