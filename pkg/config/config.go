package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable consumed by the app.
const EnvPrefix = "VELOSHOP"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "VELOSHOP_DB_DSN"
	EnvDBHost = "VELOSHOP_DB_HOST"
	EnvDBUser = "VELOSHOP_DB_USER"
	EnvDBName = "VELOSHOP_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
	SMTP          SMTPConfig
	Stripe        StripeConfig
	Paystack      PaystackConfig
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
	Env          string `envconfig:"VELOSHOP_APP_ENV" required:"true"`
	Port         string `envconfig:"VELOSHOP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VELOSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VELOSHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"VELOSHOP_DB_DSN"`
	Driver string `envconfig:"VELOSHOP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"VELOSHOP_DB_HOST"`
	LegacyPort     int    `envconfig:"VELOSHOP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"VELOSHOP_DB_USER"`
	LegacyPassword string `envconfig:"VELOSHOP_DB_PASSWORD"`
	LegacyName     string `envconfig:"VELOSHOP_DB_NAME"`
	LegacySSLMode  string `envconfig:"VELOSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VELOSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VELOSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VELOSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VELOSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VELOSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VELOSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"VELOSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"VELOSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VELOSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VELOSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VELOSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VELOSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VELOSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VELOSHOP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VELOSHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VELOSHOP_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"VELOSHOP_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VELOSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VELOSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VELOSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VELOSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VELOSHOP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"VELOSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"VELOSHOP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"VELOSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"VELOSHOP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"VELOSHOP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"VELOSHOP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
	ResetWindow        time.Duration `envconfig:"VELOSHOP_AUTH_RATE_LIMIT_RESET_WINDOW" default:"15m"`
	ResetEmailLimit    int           `envconfig:"VELOSHOP_AUTH_RATE_LIMIT_RESET_EMAIL_LIMIT" default:"3"`
	ResetIPLimit       int           `envconfig:"VELOSHOP_AUTH_RATE_LIMIT_RESET_IP_LIMIT" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"VELOSHOP_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"VELOSHOP_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type SMTPConfig struct {
	Host     string `envconfig:"VELOSHOP_SMTP_HOST"`
	Port     string `envconfig:"VELOSHOP_SMTP_PORT" default:"587"`
	Username string `envconfig:"VELOSHOP_SMTP_USERNAME"`
	Password string `envconfig:"VELOSHOP_SMTP_PASSWORD"`
	From     string `envconfig:"VELOSHOP_SMTP_FROM"`
}

type StripeConfig struct {
	APIKey     string `envconfig:"VELOSHOP_STRIPE_API_KEY"`
	Env        string `envconfig:"VELOSHOP_STRIPE_ENV" default:"test"`
	SuccessURL string `envconfig:"VELOSHOP_STRIPE_SUCCESS_URL" default:"http://localhost:3000/payment/success"`
	CancelURL  string `envconfig:"VELOSHOP_STRIPE_CANCEL_URL" default:"http://localhost:3000/payment/cancel"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type PaystackConfig struct {
	SecretKey string `envconfig:"VELOSHOP_PAYSTACK_SECRET_KEY"`
	BaseURL   string `envconfig:"VELOSHOP_PAYSTACK_BASE_URL" default:"https://api.paystack.co"`
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
