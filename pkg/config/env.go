package config

// EnvPrefix is handed to envconfig; every field also carries its full variable name.
const EnvPrefix = "INDIEREEL"

const (
	AppEnvDev        = "dev"
	AppEnvProd       = "prod"
	AppEnvProduction = "production"
)

const (
	EnvAppEnv            = "INDIEREEL_APP_ENV"
	EnvPort              = "INDIEREEL_APP_PORT"
	EnvDBDSN             = "INDIEREEL_DB_DSN"
	EnvDBHost            = "INDIEREEL_DB_HOST"
	EnvDBUser            = "INDIEREEL_DB_USER"
	EnvDBName            = "INDIEREEL_DB_NAME"
	EnvRedisURL          = "INDIEREEL_REDIS_URL"
	EnvJWTSecret         = "INDIEREEL_JWT_SECRET"
	EnvJWTIssuer         = "INDIEREEL_JWT_ISSUER"
	EnvGCPProjectID      = "INDIEREEL_GCP_PROJECT_ID"
	EnvGCSBucket         = "INDIEREEL_GCS_BUCKET_NAME"
	EnvPubSubDomainTopic = "INDIEREEL_PUBSUB_DOMAIN_TOPIC"
	EnvRazorpayKeyID     = "INDIEREEL_RAZORPAY_KEY_ID"
	EnvRazorpaySecret    = "INDIEREEL_RAZORPAY_KEY_SECRET"
	EnvRatingFreeze      = "INDIEREEL_RATING_FREEZE_WINDOW"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
