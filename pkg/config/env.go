package config

const EnvPrefix = "PACKFINDERZ"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names, shared by tests and operator docs.
const (
	EnvAppEnv       = "PACKFINDERZ_APP_ENV"
	EnvPort         = "PACKFINDERZ_APP_PORT"
	EnvLogLevel     = "PACKFINDERZ_LOG_LEVEL"
	EnvLogFormat    = "PACKFINDERZ_LOG_FORMAT"
	EnvLogWarnStack = "PACKFINDERZ_LOG_WARN_STACK"
	EnvCORSOrigins  = "PACKFINDERZ_CORS_ALLOWED_ORIGINS"

	EnvDBDSN      = "PACKFINDERZ_DB_DSN"
	EnvDBDriver   = "PACKFINDERZ_DB_DRIVER"
	EnvDBHost     = "PACKFINDERZ_DB_HOST"
	EnvDBPort     = "PACKFINDERZ_DB_PORT"
	EnvDBUser     = "PACKFINDERZ_DB_USER"
	EnvDBPassword = "PACKFINDERZ_DB_PASSWORD"
	EnvDBName     = "PACKFINDERZ_DB_NAME"
	EnvDBSSLMode  = "PACKFINDERZ_DB_SSLMODE"

	EnvRedisURL = "PACKFINDERZ_REDIS_URL"

	EnvJWTSecret  = "PACKFINDERZ_JWT_SECRET"
	EnvJWTIssuer  = "PACKFINDERZ_JWT_ISSUER"
	EnvJWTExpMins = "PACKFINDERZ_JWT_EXPIRATION_MINUTES"

	EnvAutoMigrate = "PACKFINDERZ_AUTO_MIGRATE"

	EnvLoyaltyBlockSize       = "PACKFINDERZ_LOYALTY_BLOCK_SIZE"
	EnvLoyaltyPercentPerBlock = "PACKFINDERZ_LOYALTY_PERCENT_PER_BLOCK"
	EnvLoyaltyMaxBlocks       = "PACKFINDERZ_LOYALTY_MAX_BLOCKS"

	EnvCheckoutHomeDeliveryFee   = "PACKFINDERZ_CHECKOUT_HOME_DELIVERY_FEE"
	EnvCheckoutRateLimitCustomer = "PACKFINDERZ_CHECKOUT_RATE_LIMIT_CUSTOMER"
	EnvCheckoutRateLimitIP       = "PACKFINDERZ_CHECKOUT_RATE_LIMIT_IP"
	EnvCheckoutRateLimitWindow   = "PACKFINDERZ_CHECKOUT_RATE_LIMIT_WINDOW"

	EnvCronInterval       = "PACKFINDERZ_CRON_INTERVAL"
	EnvCronAuditBatchSize = "PACKFINDERZ_CRON_AUDIT_BATCH_SIZE"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:packfinderz_loyalty.db?cache=shared"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
