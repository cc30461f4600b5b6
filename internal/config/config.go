package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	NATS     NATSConfig
	JWT      JWTConfig
	OTP      OTPConfig
	Notify   NotifyConfig
	Registry RegistryConfig
	Dispense DispenseConfig
	Admin    AdminConfig
	CORS     CORSConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	URL string
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

type OTPConfig struct {
	// TTL is how long an issued code stays valid.
	TTL time.Duration
}

// NotifyConfig carries settings for the two out-of-band delivery channels:
// SMTP email (OTP codes, must-succeed) and the SMS gateway (post-dispense
// receipts, best-effort).
type NotifyConfig struct {
	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	EmailFrom   string
	SMSBaseURL  string
	SMSUserID   string
	SMSAPIKey   string
	SMSSenderID string
}

// RegistryConfig points at the traffic-department validation API.
// AssumeValidOnError controls the degraded-mode behavior when the registry
// is unreachable; it must be enabled explicitly.
type RegistryConfig struct {
	BaseURL            string
	APIKey             string
	AssumeValidOnError bool
}

type DispenseConfig struct {
	// Resolver selects the credential resolution strategy: "text" parses a
	// structured QR payload, "token" treats the payload as a stored QR
	// identifier.
	Resolver string
	// IdempotencyTTL is how long a dispense idempotency key is remembered.
	IdempotencyTTL time.Duration
}

// AdminConfig is the bootstrap admin credential pair. The password is a
// bcrypt hash, never plaintext.
type AdminConfig struct {
	Email        string
	PasswordHash string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Load .env file if it exists (ignore error if missing)
	_ = k.Load(file.Provider(".env"), dotenv.Parser())

	// Load environment variables (override .env)
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(s, "_", "."))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: k.String("server.host"),
			Port: k.Int("server.port"),
		},
		DB: DBConfig{
			Host:     k.String("db.host"),
			Port:     k.Int("db.port"),
			User:     k.String("db.user"),
			Password: k.String("db.password"),
			Name:     k.String("db.name"),
			SSLMode:  k.String("db.sslmode"),
			MaxConns: int32(k.Int("db.max.conns")),
		},
		Redis: RedisConfig{
			Host:     k.String("redis.host"),
			Port:     k.Int("redis.port"),
			Password: k.String("redis.password"),
			DB:       k.Int("redis.db"),
		},
		NATS: NATSConfig{
			URL: k.String("nats.url"),
		},
		JWT: JWTConfig{
			AccessSecret:  k.String("jwt.access.secret"),
			RefreshSecret: k.String("jwt.refresh.secret"),
		},
		Notify: NotifyConfig{
			SMTPHost:    k.String("notify.smtp.host"),
			SMTPPort:    k.Int("notify.smtp.port"),
			SMTPUser:    k.String("notify.smtp.user"),
			SMTPPass:    k.String("notify.smtp.pass"),
			EmailFrom:   k.String("notify.email.from"),
			SMSBaseURL:  k.String("notify.sms.base.url"),
			SMSUserID:   k.String("notify.sms.user.id"),
			SMSAPIKey:   k.String("notify.sms.api.key"),
			SMSSenderID: k.String("notify.sms.sender.id"),
		},
		Registry: RegistryConfig{
			BaseURL:            k.String("registry.base.url"),
			APIKey:             k.String("registry.api.key"),
			AssumeValidOnError: k.Bool("registry.assume.valid.on.error"),
		},
		Dispense: DispenseConfig{
			Resolver: k.String("dispense.resolver"),
		},
		Admin: AdminConfig{
			Email:        k.String("admin.email"),
			PasswordHash: k.String("admin.password.hash"),
		},
		CORS: CORSConfig{
			AllowedOrigins: k.Strings("cors.allowed.origins"),
		},
		Log: LogConfig{
			Level:  k.String("log.level"),
			Format: k.String("log.format"),
		},
	}

	// Apply defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "localhost"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.DB.User == "" {
		cfg.DB.User = "fuelquota"
	}
	if cfg.DB.Name == "" {
		cfg.DB.Name = "fuelquota"
	}
	if cfg.DB.SSLMode == "" {
		cfg.DB.SSLMode = "disable"
	}
	if cfg.DB.MaxConns == 0 {
		cfg.DB.MaxConns = 25
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://localhost:4222"
	}
	if cfg.Notify.SMTPPort == 0 {
		cfg.Notify.SMTPPort = 587
	}
	if cfg.Dispense.Resolver == "" {
		cfg.Dispense.Resolver = "text"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}

	// Parse durations
	accessExpStr := k.String("jwt.access.expiry")
	if accessExpStr == "" {
		accessExpStr = "15m"
	}
	cfg.JWT.AccessExpiry, err = time.ParseDuration(accessExpStr)
	if err != nil {
		return nil, fmt.Errorf("parsing jwt access expiry: %w", err)
	}

	refreshExpStr := k.String("jwt.refresh.expiry")
	if refreshExpStr == "" {
		refreshExpStr = "168h"
	}
	cfg.JWT.RefreshExpiry, err = time.ParseDuration(refreshExpStr)
	if err != nil {
		return nil, fmt.Errorf("parsing jwt refresh expiry: %w", err)
	}

	otpTTLStr := k.String("otp.ttl")
	if otpTTLStr == "" {
		otpTTLStr = "5m"
	}
	cfg.OTP.TTL, err = time.ParseDuration(otpTTLStr)
	if err != nil {
		return nil, fmt.Errorf("parsing otp ttl: %w", err)
	}

	idemTTLStr := k.String("dispense.idempotency.ttl")
	if idemTTLStr == "" {
		idemTTLStr = "10m"
	}
	cfg.Dispense.IdempotencyTTL, err = time.ParseDuration(idemTTLStr)
	if err != nil {
		return nil, fmt.Errorf("parsing dispense idempotency ttl: %w", err)
	}

	return cfg, nil
}
