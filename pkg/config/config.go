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
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	RateLimit    RateLimitConfig
	FeatureFlags FeatureFlagsConfig
	GoogleMaps   GoogleMapsConfig
	Delivery     DeliveryConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"ZESTCART_APP_ENV" required:"true"`
	Port         string `envconfig:"ZESTCART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"ZESTCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ZESTCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"ZESTCART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"ZESTCART_DB_DSN"`
	Driver string `envconfig:"ZESTCART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ZESTCART_DB_HOST"`
	LegacyPort     int    `envconfig:"ZESTCART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ZESTCART_DB_USER"`
	LegacyPassword string `envconfig:"ZESTCART_DB_PASSWORD"`
	LegacyName     string `envconfig:"ZESTCART_DB_NAME"`
	LegacySSLMode  string `envconfig:"ZESTCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ZESTCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ZESTCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ZESTCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ZESTCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ZESTCART_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"ZESTCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ZESTCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ZESTCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ZESTCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ZESTCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"ZESTCART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"ZESTCART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"ZESTCART_JWT_EXPIRATION_MINUTES" default:"60"`
}

type RateLimitConfig struct {
	CheckoutWindow time.Duration `envconfig:"ZESTCART_RATE_LIMIT_CHECKOUT_WINDOW" default:"1m"`
	CheckoutLimit  int           `envconfig:"ZESTCART_RATE_LIMIT_CHECKOUT_LIMIT" default:"10"`
	QuoteWindow    time.Duration `envconfig:"ZESTCART_RATE_LIMIT_QUOTE_WINDOW" default:"1m"`
	QuoteLimit     int           `envconfig:"ZESTCART_RATE_LIMIT_QUOTE_LIMIT" default:"30"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ZESTCART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ZESTCART_AUTO_MIGRATE" default:"false"`
}

type GoogleMapsConfig struct {
	APIKey  string        `envconfig:"ZESTCART_GOOGLE_MAPS_API_KEY"`
	Timeout time.Duration `envconfig:"ZESTCART_GOOGLE_MAPS_TIMEOUT" default:"5s"`
}

// DeliveryConfig carries operator overrides for the quote surface.
type DeliveryConfig struct {
	// MaxQuoteDistanceKM is an operator safety cap applied before the
	// shop's own delivery condition. Zero disables it; availability is
	// then decided by the shop condition alone.
	MaxQuoteDistanceKM float64 `envconfig:"ZESTCART_DELIVERY_MAX_QUOTE_DISTANCE_KM" default:"0"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"ZESTCART_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"ZESTCART_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"ZESTCART_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"ZESTCART_PUBSUB_ORDERS_TOPIC" default:"zc-order-events"`
	OrdersSubscription string `envconfig:"ZESTCART_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"ZESTCART_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"ZESTCART_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"ZESTCART_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
