package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "PARTNERFLOW"

// Config holds every runtime setting, loaded from PARTNERFLOW_* env vars.
type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	SMTP          SMTPConfig
	Commerce      CommerceConfig
	Commission    CommissionConfig
	Outbox        OutboxConfig
	Cron          CronConfig
}

type AppConfig struct {
	Env             string        `envconfig:"APP_ENV" default:"development"`
	HTTPPort        int           `envconfig:"HTTP_PORT" default:"8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
	PortalBaseURL   string        `envconfig:"PORTAL_BASE_URL" default:"http://localhost:3000"`
}

type DBConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"5432"`
	User            string        `envconfig:"DB_USER" default:"partnerflow"`
	Password        string        `envconfig:"DB_PASSWORD" default:"partnerflow"`
	Name            string        `envconfig:"DB_NAME" default:"partnerflow"`
	SSLMode         string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type JWTConfig struct {
	Secret          string        `envconfig:"JWT_SECRET" required:"true"`
	Issuer          string        `envconfig:"JWT_ISSUER" default:"partnerflow"`
	AccessTTL       time.Duration `envconfig:"JWT_ACCESS_TTL" default:"15m"`
	RefreshTTL      time.Duration `envconfig:"JWT_REFRESH_TTL" default:"720h"`
	PortalSecret    string        `envconfig:"JWT_PORTAL_SECRET" required:"true"`
	PortalTokenTTL  time.Duration `envconfig:"JWT_PORTAL_TOKEN_TTL" default:"2160h"`
	ClockSkewLeeway time.Duration `envconfig:"JWT_CLOCK_SKEW_LEEWAY" default:"30s"`
}

type PasswordConfig struct {
	ArgonMemory      uint32 `envconfig:"PASSWORD_ARGON_MEMORY" default:"65536"`
	ArgonIterations  uint32 `envconfig:"PASSWORD_ARGON_ITERATIONS" default:"3"`
	ArgonParallelism uint8  `envconfig:"PASSWORD_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLength  uint32 `envconfig:"PASSWORD_ARGON_SALT_LENGTH" default:"16"`
	ArgonKeyLength   uint32 `envconfig:"PASSWORD_ARGON_KEY_LENGTH" default:"32"`
}

type AuthRateLimitConfig struct {
	MaxAttempts int           `envconfig:"AUTH_RATE_LIMIT_MAX_ATTEMPTS" default:"10"`
	Window      time.Duration `envconfig:"AUTH_RATE_LIMIT_WINDOW" default:"5m"`
}

type GCPConfig struct {
	ProjectID string `envconfig:"GCP_PROJECT_ID" default:""`
}

type PubSubConfig struct {
	TopicWorkflowEvents string `envconfig:"PUBSUB_TOPIC_WORKFLOW_EVENTS" default:"workflow-events"`
	TopicEmailRequests  string `envconfig:"PUBSUB_TOPIC_EMAIL_REQUESTS" default:"workflow-email-requests"`
	SubEmailRequests    string `envconfig:"PUBSUB_SUB_EMAIL_REQUESTS" default:"workflow-email-requests-worker"`
}

type SMTPConfig struct {
	Host        string `envconfig:"SMTP_HOST" default:"localhost"`
	Port        int    `envconfig:"SMTP_PORT" default:"587"`
	Username    string `envconfig:"SMTP_USERNAME" default:""`
	Password    string `envconfig:"SMTP_PASSWORD" default:""`
	FromAddress string `envconfig:"SMTP_FROM_ADDRESS" default:"partnerships@partnerflow.io"`
	FromName    string `envconfig:"SMTP_FROM_NAME" default:"PartnerFlow"`
}

type CommerceConfig struct {
	BaseURL     string        `envconfig:"COMMERCE_BASE_URL" default:""`
	AccessToken string        `envconfig:"COMMERCE_ACCESS_TOKEN" default:""`
	PriceRuleID string        `envconfig:"COMMERCE_PRICE_RULE_ID" default:""`
	Timeout     time.Duration `envconfig:"COMMERCE_TIMEOUT" default:"10s"`
}

type CommissionConfig struct {
	Rate string `envconfig:"COMMISSION_RATE" default:"0.10"`
}

type OutboxConfig struct {
	PollInterval    time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"2s"`
	BatchSize       int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	MaxAttempts     int           `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"8"`
	BaseBackoff     time.Duration `envconfig:"OUTBOX_BASE_BACKOFF" default:"5s"`
	MaxBackoff      time.Duration `envconfig:"OUTBOX_MAX_BACKOFF" default:"10m"`
	RetentionPeriod time.Duration `envconfig:"OUTBOX_RETENTION_PERIOD" default:"168h"`
}

type CronConfig struct {
	TickInterval         time.Duration `envconfig:"CRON_TICK_INTERVAL" default:"1m"`
	LockTTL              time.Duration `envconfig:"CRON_LOCK_TTL" default:"5m"`
	CommissionSyncEvery  time.Duration `envconfig:"CRON_COMMISSION_SYNC_EVERY" default:"1h"`
	OutboxRetentionEvery time.Duration `envconfig:"CRON_OUTBOX_RETENTION_EVERY" default:"24h"`
}

// Load reads .env (if present) then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("process env config: %w", err)
	}
	return &cfg, nil
}
