package config

const (
	// EnvPrefix is the envconfig prefix shared by every service binary.
	EnvPrefix = "LUMAMART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "LUMAMART_DB_DSN"
	EnvDBHost = "LUMAMART_DB_HOST"
	EnvDBUser = "LUMAMART_DB_USER"
	EnvDBName = "LUMAMART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
