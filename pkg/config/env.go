package config

// EnvPrefix namespaces every environment variable consumed by the service.
const EnvPrefix = "JEWELPOS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

const (
	EnvAppEnv = "JEWELPOS_APP_ENV"
	EnvPort   = "JEWELPOS_APP_PORT"

	EnvDBDSN  = "JEWELPOS_DB_DSN"
	EnvDBHost = "JEWELPOS_DB_HOST"
	EnvDBUser = "JEWELPOS_DB_USER"
	EnvDBName = "JEWELPOS_DB_NAME"

	EnvRedisURL = "JEWELPOS_REDIS_URL"

	EnvRateFeedAPIKey = "JEWELPOS_RATE_FEED_API_KEY"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
