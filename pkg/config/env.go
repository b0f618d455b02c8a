package config

// EnvPrefix is the envconfig prefix shared by every variable the service reads.
const EnvPrefix = "VELVETROW"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "VELVETROW_APP_ENV"
	EnvPort       = "VELVETROW_APP_PORT"
	EnvRedisURL   = "VELVETROW_REDIS_URL"
	EnvJWTSecret  = "VELVETROW_JWT_SECRET"
	EnvJWTIssuer  = "VELVETROW_JWT_ISSUER"
	EnvJWTExpMins = "VELVETROW_JWT_EXPIRATION_MINUTES"

	EnvDBDSN  = "VELVETROW_DB_DSN"
	EnvDBHost = "VELVETROW_DB_HOST"
	EnvDBUser = "VELVETROW_DB_USER"
	EnvDBName = "VELVETROW_DB_NAME"
)

// legacyDBEnvVars are the discrete connection variables accepted when
// VELVETROW_DB_DSN is not set.
var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
