package config

const (
	EnvPrefix = "zestcart"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "ZESTCART_DB_DSN"
	EnvDBHost = "ZESTCART_DB_HOST"
	EnvDBUser = "ZESTCART_DB_USER"
	EnvDBName = "ZESTCART_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
