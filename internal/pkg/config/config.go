package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, fee policy, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Payment  PaymentConfig
	Checkout CheckoutConfig
	Pricing  PricingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	Migrate  bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location,X-Request-ID"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Kuala_Lumpur"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"28800"` // 8*60*60
}

// Tokens are issued by the identity service; only the shared secret is needed here.
type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// Empty Addr disables Redis; webhook dedup and the status cache fall back to no-ops.
type RedisConfig struct {
	Addr           string        `envconfig:"REDIS_ADDR" default:""`
	Password       string        `envconfig:"REDIS_PASSWORD" default:""`
	DB             int           `envconfig:"REDIS_DB" default:"0"`
	DedupTTL       time.Duration `envconfig:"REDIS_DEDUP_TTL" default:"48h"`
	StatusCacheTTL time.Duration `envconfig:"REDIS_STATUS_CACHE_TTL" default:"5m"`
}

// Empty Brokers makes the outbox relay log events instead of producing them.
type KafkaConfig struct {
	Brokers      []string      `envconfig:"KAFKA_BROKERS" default:""`
	TopicPrefix  string        `envconfig:"KAFKA_TOPIC_PREFIX" default:"marketplace"`
	RelayEvery   time.Duration `envconfig:"KAFKA_RELAY_INTERVAL" default:"2s"`
	RelayBatch   int           `envconfig:"KAFKA_RELAY_BATCH" default:"100"`
	WriteTimeout time.Duration `envconfig:"KAFKA_WRITE_TIMEOUT" default:"10s"`
}

// Empty StripeSecretKey selects the sandbox gateway.
type PaymentConfig struct {
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY" default:""`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET" default:""`
	Currency            string `envconfig:"PAYMENT_CURRENCY" default:"myr"`
}

type CheckoutConfig struct {
	SessionTTL         time.Duration `envconfig:"CHECKOUT_SESSION_TTL" default:"10m"`
	ReaperInterval     time.Duration `envconfig:"CHECKOUT_REAPER_INTERVAL" default:"1m"`
	ReaperBatch        int           `envconfig:"CHECKOUT_REAPER_BATCH" default:"200"`
	TerminalRetention  time.Duration `envconfig:"CHECKOUT_TERMINAL_RETENTION" default:"24h"`
	MaxItemsPerSession int           `envconfig:"CHECKOUT_MAX_ITEMS" default:"50"`
}

// Percentages, e.g. "2.5" means 2.5%.
type PricingConfig struct {
	PlatformFeePercent      string `envconfig:"PRICING_PLATFORM_FEE_PERCENT" default:"0"`
	GatewayFeePercent       string `envconfig:"PRICING_GATEWAY_FEE_PERCENT" default:"0"`
	SellerCommissionPercent string `envconfig:"PRICING_SELLER_COMMISSION_PERCENT" default:"0"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 20,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Kuala_Lumpur",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 28800,
		},
		JWT: JWTConfig{
			Secret:   "test-secret-key-for-checkout",
			Duration: "1h",
		},
		Redis: RedisConfig{
			DedupTTL:       time.Hour,
			StatusCacheTTL: time.Minute,
		},
		Kafka: KafkaConfig{
			TopicPrefix:  "test",
			RelayEvery:   time.Hour,
			RelayBatch:   10,
			WriteTimeout: time.Second,
		},
		Payment: PaymentConfig{
			Currency: "myr",
		},
		Checkout: CheckoutConfig{
			SessionTTL:         10 * time.Minute,
			ReaperInterval:     time.Hour,
			ReaperBatch:        50,
			TerminalRetention:  24 * time.Hour,
			MaxItemsPerSession: 50,
		},
		Pricing: PricingConfig{
			PlatformFeePercent:      "0",
			GatewayFeePercent:       "0",
			SellerCommissionPercent: "0",
		},
	}
}
