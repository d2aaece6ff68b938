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
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	PubSub       PubSubConfig
	Razorpay     RazorpayConfig
	Outbox       OutboxConfig
	Cron         CronConfig
	Review       ReviewConfig
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
	Env          string   `envconfig:"INDIEREEL_APP_ENV" required:"true"`
	Port         string   `envconfig:"INDIEREEL_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"INDIEREEL_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"INDIEREEL_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"INDIEREEL_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, AppEnvProduction)
}

type ServiceConfig struct {
	Kind string `envconfig:"INDIEREEL_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"INDIEREEL_DB_DSN"`
	Driver string `envconfig:"INDIEREEL_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"INDIEREEL_DB_HOST"`
	LegacyPort     int    `envconfig:"INDIEREEL_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"INDIEREEL_DB_USER"`
	LegacyPassword string `envconfig:"INDIEREEL_DB_PASSWORD"`
	LegacyName     string `envconfig:"INDIEREEL_DB_NAME"`
	LegacySSLMode  string `envconfig:"INDIEREEL_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"INDIEREEL_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"INDIEREEL_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"INDIEREEL_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"INDIEREEL_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL            string        `envconfig:"INDIEREEL_REDIS_URL" required:"true"`
	Address        string        `envconfig:"INDIEREEL_REDIS_ADDR"`
	Password       string        `envconfig:"INDIEREEL_REDIS_PASSWORD"`
	DB             int           `envconfig:"INDIEREEL_REDIS_DB" default:"0"`
	PoolSize       int           `envconfig:"INDIEREEL_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns   int           `envconfig:"INDIEREEL_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout    time.Duration `envconfig:"INDIEREEL_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout    time.Duration `envconfig:"INDIEREEL_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout   time.Duration `envconfig:"INDIEREEL_REDIS_WRITE_TIMEOUT" default:"5s"`
	IdempotencyTTL time.Duration `envconfig:"INDIEREEL_IDEMPOTENCY_TTL" default:"24h"`
}

type JWTConfig struct {
	Secret            string `envconfig:"INDIEREEL_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"INDIEREEL_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"INDIEREEL_JWT_EXPIRATION_MINUTES" default:"60"`
}

// TokenTTL returns the access token lifetime used when minting tokens for tooling.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"INDIEREEL_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"INDIEREEL_AUTO_MIGRATE" default:"false"`
	// PublicPosters serves poster URLs straight from the bucket instead of signed reads.
	PublicPosters bool `envconfig:"INDIEREEL_PUBLIC_POSTERS" default:"true"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"INDIEREEL_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"INDIEREEL_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"INDIEREEL_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName     string        `envconfig:"INDIEREEL_GCS_BUCKET_NAME" required:"true"`
	PosterPrefix   string        `envconfig:"INDIEREEL_GCS_POSTER_PREFIX" default:"posters"`
	UploadTimeout  time.Duration `envconfig:"INDIEREEL_GCS_UPLOAD_TIMEOUT" default:"30s"`
	MaxPosterBytes int64         `envconfig:"INDIEREEL_MAX_POSTER_BYTES" default:"5242880"`
}

type PubSubConfig struct {
	DomainTopic        string `envconfig:"INDIEREEL_PUBSUB_DOMAIN_TOPIC" required:"true"`
	DomainSubscription string `envconfig:"INDIEREEL_PUBSUB_DOMAIN_SUBSCRIPTION"`
	NotificationTopic  string `envconfig:"INDIEREEL_PUBSUB_NOTIFICATION_TOPIC" default:"ir-notification-events"`
}

type RazorpayConfig struct {
	KeyID     string `envconfig:"INDIEREEL_RAZORPAY_KEY_ID"`
	KeySecret string `envconfig:"INDIEREEL_RAZORPAY_KEY_SECRET"`
	Currency  string `envconfig:"INDIEREEL_RAZORPAY_CURRENCY" default:"INR"`
	Env       string `envconfig:"INDIEREEL_RAZORPAY_ENV" default:"test"`
}

// Environment returns the normalized Razorpay environment (test/live).
func (r RazorpayConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(r.Env))
	if env == "" {
		return "test"
	}
	return env
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"INDIEREEL_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"INDIEREEL_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"INDIEREEL_OUTBOX_MAX_ATTEMPTS" default:"10"`
	RetentionDays  int `envconfig:"INDIEREEL_OUTBOX_RETENTION_DAYS" default:"30"`
}

type CronConfig struct {
	Interval        time.Duration `envconfig:"INDIEREEL_CRON_INTERVAL" default:"1h"`
	LockTTL         time.Duration `envconfig:"INDIEREEL_CRON_LOCK_TTL" default:"30m"`
	LeaderboardSize int           `envconfig:"INDIEREEL_LEADERBOARD_SIZE" default:"50"`
}

type ReviewConfig struct {
	RatingFreezeWindow time.Duration `envconfig:"INDIEREEL_RATING_FREEZE_WINDOW" default:"9s"`
	WriteLimit         int           `envconfig:"INDIEREEL_REVIEW_WRITE_LIMIT" default:"30"`
	WriteWindow        time.Duration `envconfig:"INDIEREEL_REVIEW_WRITE_WINDOW" default:"1m"`
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
