package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Processor      ProcessorConfig      `mapstructure:"processor"`
	Webhook        WebhookConfig        `mapstructure:"webhook"`
	Validation     ValidationConfig     `mapstructure:"validation"`
	Fraud          FraudConfig          `mapstructure:"fraud"`
	Transport      TransportConfig      `mapstructure:"transport"`
	Encryption     EncryptionConfig     `mapstructure:"encryption"`
	Log            LogConfig            `mapstructure:"log"`
	RequestQueue   RequestQueueConfig   `mapstructure:"request_queue"`
	RateLimiter    RateLimiterConfig    `mapstructure:"rate_limiter"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// DatabaseConfig covers EASYPAY_DATABASE_* connectivity and pool sizing.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	PoolSize        int32         `mapstructure:"pool_size"`
	MaxOverflow     int32         `mapstructure:"max_overflow"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// MaxConns is the pool's total connection ceiling: PoolSize + MaxOverflow.
func (d DatabaseConfig) MaxConns() int32 {
	return d.PoolSize + d.MaxOverflow
}

// RedisConfig covers EASYPAY_REDIS_* connectivity and pool sizing.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ProcessorConfig covers the Authorize.net credentials, sandbox flag, and
// endpoint override.
type ProcessorConfig struct {
	APILoginID     string `mapstructure:"api_login_id"`
	TransactionKey string `mapstructure:"transaction_key"`
	Sandbox        bool   `mapstructure:"sandbox"`
	APIURL         string `mapstructure:"api_url"`
}

// ResolvedURL returns APIURL if set, else the sandbox or production
// Authorize.net endpoint depending on the Sandbox flag.
func (p ProcessorConfig) ResolvedURL() string {
	if p.APIURL != "" {
		return p.APIURL
	}
	if p.Sandbox {
		return "https://apitest.authorize.net/xml/v1/request.api"
	}
	return "https://api.authorize.net/xml/v1/request.api"
}

// WebhookConfig covers AUTHORIZE_NET_WEBHOOK_SECRET, WEBHOOK_SECRET,
// WEBHOOK_MAX_RETRIES, WEBHOOK_RETRY_INTERVAL, WEBHOOK_TIMEOUT.
type WebhookConfig struct {
	AuthorizeNetWebhookSecret string        `mapstructure:"authorize_net_webhook_secret"`
	Secret                    string        `mapstructure:"secret"`
	TargetURL                 string        `mapstructure:"target_url"`
	MaxRetries                int           `mapstructure:"max_retries"`
	RetryInterval             time.Duration `mapstructure:"retry_interval"`
	Timeout                   time.Duration `mapstructure:"timeout"`
}

// ValidationConfig covers SUPPORTED_CURRENCIES, DEFAULT_CURRENCY.
type ValidationConfig struct {
	SupportedCurrencies []string `mapstructure:"supported_currencies"`
	DefaultCurrency     string   `mapstructure:"default_currency"`
}

// AllowList returns SupportedCurrencies as a lookup map for domain.ValidCurrency.
func (v ValidationConfig) AllowList() map[string]bool {
	m := make(map[string]bool, len(v.SupportedCurrencies))
	for _, c := range v.SupportedCurrencies {
		m[strings.ToUpper(c)] = true
	}
	return m
}

// FraudConfig carries reserved thresholds. They are read but not
// enforced anywhere yet.
type FraudConfig struct {
	Threshold            float64 `mapstructure:"threshold"`
	MaxDailyTransactions int     `mapstructure:"max_daily_transactions"`
}

// TransportConfig covers ALLOWED_HOSTS and CORS_ORIGINS, carried through
// config for the HTTP adapter.
type TransportConfig struct {
	AllowedHosts []string `mapstructure:"allowed_hosts"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
}

// EncryptionConfig supplies the master secret HKDF-derives the AES-256 key
// from (see internal/service/encryption_service.go).
type EncryptionConfig struct {
	MasterSecret string `mapstructure:"master_secret"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// RequestQueueConfig sizes the admission queue and its worker pool.
type RequestQueueConfig struct {
	MaxQueueSize   int           `mapstructure:"max_queue_size"`
	MaxWorkers     int           `mapstructure:"max_workers"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// RateLimiterConfig sets the sliding-window limits per client identity.
type RateLimiterConfig struct {
	PerMinute int `mapstructure:"per_minute"`
	PerHour   int `mapstructure:"per_hour"`
}

// CircuitBreakerConfig sets the processor breaker thresholds.
type CircuitBreakerConfig struct {
	FailureThreshold int           `mapstructure:"failure_threshold"`
	RecoveryTimeout  time.Duration `mapstructure:"recovery_timeout"`
	SuccessThreshold int           `mapstructure:"success_threshold"`
}

// Load reads configuration from file and environment variables. Environment
// variables override file values. Prefix: EASYPAY_. Nested keys use
// underscore, e.g. EASYPAY_DATABASE_HOST, EASYPAY_PROCESSOR_SANDBOX.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "easypay")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.pool_size", 10)
	v.SetDefault("database.max_overflow", 20)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("processor.api_login_id", "")
	v.SetDefault("processor.transaction_key", "")
	v.SetDefault("processor.sandbox", true)
	v.SetDefault("processor.api_url", "")

	v.SetDefault("webhook.authorize_net_webhook_secret", "")
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.target_url", "")
	v.SetDefault("webhook.max_retries", 3)
	v.SetDefault("webhook.retry_interval", "60s")
	v.SetDefault("webhook.timeout", "30s")

	v.SetDefault("validation.supported_currencies", []string{"USD", "EUR", "GBP", "CAD", "AUD"})
	v.SetDefault("validation.default_currency", "USD")

	v.SetDefault("fraud.threshold", 0.0)
	v.SetDefault("fraud.max_daily_transactions", 0)

	v.SetDefault("transport.allowed_hosts", []string{"*"})
	v.SetDefault("transport.cors_origins", []string{})

	v.SetDefault("encryption.master_secret", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("request_queue.max_queue_size", 1000)
	v.SetDefault("request_queue.max_workers", 10)
	v.SetDefault("request_queue.request_timeout", "30s")

	v.SetDefault("rate_limiter.per_minute", 100)
	v.SetDefault("rate_limiter.per_hour", 1000)

	v.SetDefault("circuit_breaker.failure_threshold", 5)
	v.SetDefault("circuit_breaker.recovery_timeout", "60s")
	v.SetDefault("circuit_breaker.success_threshold", 3)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("EASYPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}
