package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	FeatureFlags FeatureFlagsConfig
	Loyalty      LoyaltyConfig
	Checkout     CheckoutConfig
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
	if err := multierr.Combine(cfg.Loyalty.validate(), cfg.Checkout.validate(), cfg.Cron.validate()); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PACKFINDERZ_APP_ENV" required:"true"`
	Port         string `envconfig:"PACKFINDERZ_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PACKFINDERZ_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"PACKFINDERZ_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"PACKFINDERZ_LOG_WARN_STACK" default:"false"`

	CORSAllowedOrigins []string `envconfig:"PACKFINDERZ_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"PACKFINDERZ_DB_DSN"`
	Driver string `envconfig:"PACKFINDERZ_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PACKFINDERZ_DB_HOST"`
	LegacyPort     int    `envconfig:"PACKFINDERZ_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PACKFINDERZ_DB_USER"`
	LegacyPassword string `envconfig:"PACKFINDERZ_DB_PASSWORD"`
	LegacyName     string `envconfig:"PACKFINDERZ_DB_NAME"`
	LegacySSLMode  string `envconfig:"PACKFINDERZ_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PACKFINDERZ_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PACKFINDERZ_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PACKFINDERZ_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PACKFINDERZ_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"PACKFINDERZ_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
}

// IsSQLite reports whether the configured driver targets the embedded SQLite database.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"PACKFINDERZ_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PACKFINDERZ_REDIS_ADDR"`
	Password     string        `envconfig:"PACKFINDERZ_REDIS_PASSWORD"`
	DB           int           `envconfig:"PACKFINDERZ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PACKFINDERZ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PACKFINDERZ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PACKFINDERZ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PACKFINDERZ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PACKFINDERZ_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PACKFINDERZ_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PACKFINDERZ_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PACKFINDERZ_JWT_EXPIRATION_MINUTES" required:"true"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"PACKFINDERZ_AUTO_MIGRATE" default:"false"`
}

// LoyaltyConfig holds the redemption policy knobs. Defaults match the storefront rules:
// 2000 points buy 10% off, capped at five blocks.
type LoyaltyConfig struct {
	BlockSize       int64 `envconfig:"PACKFINDERZ_LOYALTY_BLOCK_SIZE" default:"2000"`
	PercentPerBlock int64 `envconfig:"PACKFINDERZ_LOYALTY_PERCENT_PER_BLOCK" default:"10"`
	MaxBlocks       int64 `envconfig:"PACKFINDERZ_LOYALTY_MAX_BLOCKS" default:"5"`
}

func (l LoyaltyConfig) validate() error {
	var err error
	if l.BlockSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive", EnvLoyaltyBlockSize))
	}
	if l.PercentPerBlock <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive", EnvLoyaltyPercentPerBlock))
	}
	if l.MaxBlocks < 0 {
		err = multierr.Append(err, fmt.Errorf("%s must not be negative", EnvLoyaltyMaxBlocks))
	}
	return err
}

type CheckoutConfig struct {
	HomeDeliveryFee string `envconfig:"PACKFINDERZ_CHECKOUT_HOME_DELIVERY_FEE" default:"8.000"`

	RateLimitPerCustomer int           `envconfig:"PACKFINDERZ_CHECKOUT_RATE_LIMIT_CUSTOMER" default:"20"`
	RateLimitPerIP       int           `envconfig:"PACKFINDERZ_CHECKOUT_RATE_LIMIT_IP" default:"60"`
	RateLimitWindow      time.Duration `envconfig:"PACKFINDERZ_CHECKOUT_RATE_LIMIT_WINDOW" default:"1m"`
}

// HomeDeliveryFeeAmount parses the flat fee charged when an order is delivered to the customer.
func (c CheckoutConfig) HomeDeliveryFeeAmount() (decimal.Decimal, error) {
	fee, err := decimal.NewFromString(strings.TrimSpace(c.HomeDeliveryFee))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", EnvCheckoutHomeDeliveryFee, err)
	}
	if fee.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", EnvCheckoutHomeDeliveryFee)
	}
	return fee, nil
}

func (c CheckoutConfig) validate() error {
	_, err := c.HomeDeliveryFeeAmount()
	if c.RateLimitPerCustomer < 0 {
		err = multierr.Append(err, fmt.Errorf("%s must not be negative", EnvCheckoutRateLimitCustomer))
	}
	if c.RateLimitPerIP < 0 {
		err = multierr.Append(err, fmt.Errorf("%s must not be negative", EnvCheckoutRateLimitIP))
	}
	if c.RateLimitWindow <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive", EnvCheckoutRateLimitWindow))
	}
	return err
}

// CronConfig drives the cron worker cadence and the balance audit batch size.
type CronConfig struct {
	Interval       time.Duration `envconfig:"PACKFINDERZ_CRON_INTERVAL" default:"1h"`
	AuditBatchSize int           `envconfig:"PACKFINDERZ_CRON_AUDIT_BATCH_SIZE" default:"500"`
}

func (c CronConfig) validate() error {
	var err error
	if c.Interval <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive", EnvCronInterval))
	}
	if c.AuditBatchSize <= 0 {
		err = multierr.Append(err, fmt.Errorf("%s must be positive", EnvCronAuditBatchSize))
	}
	return err
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = defaultSQLiteDSN
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
