package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Admin         AdminConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Paystack      PaystackConfig
	Checkout      CheckoutConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
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
	Env          string `envconfig:"VELVETROW_APP_ENV" required:"true"`
	Port         string `envconfig:"VELVETROW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VELVETROW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VELVETROW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"VELVETROW_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"VELVETROW_DB_DSN"`
	Driver string `envconfig:"VELVETROW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VELVETROW_DB_HOST"`
	LegacyPort     int    `envconfig:"VELVETROW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VELVETROW_DB_USER"`
	LegacyPassword string `envconfig:"VELVETROW_DB_PASSWORD"`
	LegacyName     string `envconfig:"VELVETROW_DB_NAME"`
	LegacySSLMode  string `envconfig:"VELVETROW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VELVETROW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VELVETROW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VELVETROW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VELVETROW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VELVETROW_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VELVETROW_REDIS_ADDR"`
	Password     string        `envconfig:"VELVETROW_REDIS_PASSWORD"`
	DB           int           `envconfig:"VELVETROW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VELVETROW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VELVETROW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VELVETROW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VELVETROW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VELVETROW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VELVETROW_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VELVETROW_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VELVETROW_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"VELVETROW_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VELVETROW_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VELVETROW_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VELVETROW_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VELVETROW_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VELVETROW_ARGON_KEY_LEN" default:"32"`
}

// AdminConfig seeds the first back-office account at startup. Both
// fields must be set for seeding to run.
type AdminConfig struct {
	Email    string `envconfig:"VELVETROW_ADMIN_EMAIL"`
	Password string `envconfig:"VELVETROW_ADMIN_PASSWORD"`
}

// Enabled reports whether admin seeding is configured.
func (a AdminConfig) Enabled() bool {
	return strings.TrimSpace(a.Email) != "" && a.Password != ""
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"VELVETROW_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"VELVETROW_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"VELVETROW_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"VELVETROW_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"VELVETROW_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"VELVETROW_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"VELVETROW_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"VELVETROW_AUTO_MIGRATE" default:"false"`
}

// PaystackConfig carries the payment gateway credentials and endpoints.
type PaystackConfig struct {
	SecretKey   string        `envconfig:"VELVETROW_PAYSTACK_SECRET_KEY"`
	PublicKey   string        `envconfig:"VELVETROW_PAYSTACK_PUBLIC_KEY"`
	BaseURL     string        `envconfig:"VELVETROW_PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
	CallbackURL string        `envconfig:"VELVETROW_PAYSTACK_CALLBACK_URL"`
	Timeout     time.Duration `envconfig:"VELVETROW_PAYSTACK_TIMEOUT" default:"15s"`
}

// CheckoutConfig bounds how long an initialized checkout attempt stays claimable.
type CheckoutConfig struct {
	AttemptTTL time.Duration `envconfig:"VELVETROW_CHECKOUT_ATTEMPT_TTL" default:"30m"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"VELVETROW_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"VELVETROW_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"VELVETROW_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"VELVETROW_PUBSUB_ORDERS_TOPIC" default:"vr-order-events"`
	OrdersSubscription string `envconfig:"VELVETROW_PUBSUB_ORDERS_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int    `envconfig:"VELVETROW_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int    `envconfig:"VELVETROW_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int    `envconfig:"VELVETROW_OUTBOX_MAX_ATTEMPTS" default:"10"`
	MetricsPort    string `envconfig:"VELVETROW_OUTBOX_METRICS_PORT" default:"9091"`
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
