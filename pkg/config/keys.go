package config

// EnvPrefix is the envconfig prefix shared by every setting.
const EnvPrefix = "presu"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (error messages,
// tests, scripts).
const (
	EnvAppEnv   = "PRESU_APP_ENV"
	EnvPort     = "PRESU_APP_PORT"
	EnvLogLevel = "PRESU_LOG_LEVEL"

	EnvDBDSN  = "PRESU_DB_DSN"
	EnvDBHost = "PRESU_DB_HOST"
	EnvDBUser = "PRESU_DB_USER"
	EnvDBName = "PRESU_DB_NAME"

	EnvRedisURL = "PRESU_REDIS_URL"

	EnvJWTSecret  = "PRESU_JWT_SECRET"
	EnvJWTIssuer  = "PRESU_JWT_ISSUER"
	EnvJWTExpMins = "PRESU_JWT_EXPIRATION_MINUTES"

	EnvGCPProjectID       = "PRESU_GCP_PROJECT_ID"
	EnvPubSubChangesTopic = "PRESU_PUBSUB_CHANGES_TOPIC"
	EnvPubSubChangesSub   = "PRESU_PUBSUB_CHANGES_SUBSCRIPTION"
)

// legacyDBEnvVars are the discrete connection vars accepted when PRESU_DB_DSN
// is unset.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
