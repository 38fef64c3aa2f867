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
	Password     PasswordConfig
	Money        MoneyConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	CORS         CORSConfig
	AuthRL       AuthRateLimitConfig
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
	Env          string `envconfig:"PRESU_APP_ENV" required:"true"`
	Port         string `envconfig:"PRESU_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PRESU_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PRESU_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PRESU_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PRESU_DB_DSN"`
	Driver string `envconfig:"PRESU_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PRESU_DB_HOST"`
	LegacyPort     int    `envconfig:"PRESU_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PRESU_DB_USER"`
	LegacyPassword string `envconfig:"PRESU_DB_PASSWORD"`
	LegacyName     string `envconfig:"PRESU_DB_NAME"`
	LegacySSLMode  string `envconfig:"PRESU_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PRESU_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PRESU_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PRESU_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PRESU_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PRESU_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PRESU_REDIS_ADDR"`
	Password     string        `envconfig:"PRESU_REDIS_PASSWORD"`
	DB           int           `envconfig:"PRESU_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PRESU_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PRESU_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PRESU_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PRESU_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PRESU_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PRESU_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PRESU_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PRESU_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PRESU_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PRESU_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PRESU_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PRESU_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PRESU_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PRESU_ARGON_KEY_LEN" default:"32"`
}

// MoneyConfig carries the locale/currency pair each money-rendering surface
// uses. The budget builder and the budget tracker render in different
// currencies, so each gets its own pair instead of a single global.
type MoneyConfig struct {
	BudgetCurrency   string `envconfig:"PRESU_BUDGET_CURRENCY" default:"ARS"`
	BudgetLocale     string `envconfig:"PRESU_BUDGET_LOCALE" default:"es-AR"`
	TrackingCurrency string `envconfig:"PRESU_TRACKING_CURRENCY" default:"EUR"`
	TrackingLocale   string `envconfig:"PRESU_TRACKING_LOCALE" default:"es-ES"`
}

type FeatureFlagsConfig struct {
	AutoMigrate     bool `envconfig:"PRESU_AUTO_MIGRATE" default:"false"`
	RealtimePublish bool `envconfig:"PRESU_REALTIME_PUBLISH" default:"true"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PRESU_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"PRESU_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PRESU_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	ChangesTopic        string `envconfig:"PRESU_PUBSUB_CHANGES_TOPIC" default:"presu-change-events"`
	ChangesSubscription string `envconfig:"PRESU_PUBSUB_CHANGES_SUBSCRIPTION"`
}

// AuthRateLimitConfig throttles the credential endpoints per IP and per
// email within a sliding window.
type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PRESU_AUTH_RL_LOGIN_WINDOW" default:"1m"`
	LoginIPLimit       int           `envconfig:"PRESU_AUTH_RL_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit    int           `envconfig:"PRESU_AUTH_RL_LOGIN_EMAIL_LIMIT" default:"5"`
	RegisterWindow     time.Duration `envconfig:"PRESU_AUTH_RL_REGISTER_WINDOW" default:"1h"`
	RegisterIPLimit    int           `envconfig:"PRESU_AUTH_RL_REGISTER_IP_LIMIT" default:"10"`
	RegisterEmailLimit int           `envconfig:"PRESU_AUTH_RL_REGISTER_EMAIL_LIMIT" default:"3"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"PRESU_CORS_ALLOWED_ORIGINS" default:"http://localhost:4028,http://localhost:3000"`
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
