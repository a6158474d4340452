package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Storage      StorageConfig
	Logging      LoggingConfig
	Realtime     RealtimeConfig
	Scheduler    SchedulerConfig
	CORS         CORSConfig
	GeminiAPIKey string
}

type ServerConfig struct {
	Host         string
	Port         int `validate:"min=1,max=65535"`
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string `validate:"required"`
	Port            int    `validate:"min=1,max=65535"`
	User            string `validate:"required"`
	Password        string
	DBName          string `validate:"required"`
	SSLMode         string `validate:"oneof=disable require verify-ca verify-full"`
	AutoMigrate     bool
	MaxOpenConns    int `validate:"min=1"`
	MaxIdleConns    int `validate:"min=0"`
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int `validate:"min=0"`
	PoolSize int `validate:"min=1"`
}

type JWTConfig struct {
	AccessSecret    string `validate:"required,min=32"`
	AccessExpiryMin int    `validate:"min=1"`
	SessionTTLDays  int    `validate:"min=1"`
}

type StorageConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	Bucket     string `validate:"required_with=Endpoint"`
	UseSSL     bool
	PresignTTL time.Duration
}

type LoggingConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

type RealtimeConfig struct {
	SubscriberBuffer int `validate:"min=1"`
}

type SchedulerConfig struct {
	ReconcileInterval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()
	setDefaults(v)

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	config := fromViper(v)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_MAX_OPEN_CONNS", 50)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_POOL_SIZE", 20)
	v.SetDefault("JWT_ACCESS_EXPIRY_MIN", 60)
	v.SetDefault("SESSION_TTL_DAYS", 7)
	v.SetDefault("STORAGE_BUCKET", "collabswipe-media")
	v.SetDefault("STORAGE_PRESIGN_TTL", "15m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("REALTIME_SUBSCRIBER_BUFFER", 32)
	v.SetDefault("RECONCILE_INTERVAL", "10m")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSL_MODE"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		},
		JWT: JWTConfig{
			AccessSecret:    v.GetString("JWT_ACCESS_SECRET"),
			AccessExpiryMin: v.GetInt("JWT_ACCESS_EXPIRY_MIN"),
			SessionTTLDays:  v.GetInt("SESSION_TTL_DAYS"),
		},
		Storage: StorageConfig{
			Endpoint:   v.GetString("STORAGE_ENDPOINT"),
			AccessKey:  v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey:  v.GetString("STORAGE_SECRET_KEY"),
			Bucket:     v.GetString("STORAGE_BUCKET"),
			UseSSL:     v.GetBool("STORAGE_USE_SSL"),
			PresignTTL: v.GetDuration("STORAGE_PRESIGN_TTL"),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(v.GetString("LOG_LEVEL")),
		},
		Realtime: RealtimeConfig{
			SubscriberBuffer: v.GetInt("REALTIME_SUBSCRIBER_BUFFER"),
		},
		Scheduler: SchedulerConfig{
			ReconcileInterval: v.GetDuration("RECONCILE_INTERVAL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		GeminiAPIKey: v.GetString("GEMINI_API_KEY"),
	}
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Scheduler.ReconcileInterval < time.Minute {
		return fmt.Errorf("reconcile interval must be at least 1m")
	}
	return nil
}

// IsProduction reports whether the server runs with ENV=production
func (c *ServerConfig) IsProduction() bool {
	return c.Env == "production"
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AccessTTL returns the lifetime of an access token
func (c *JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessExpiryMin) * time.Minute
}

// SessionTTL returns the lifetime of a session record
func (c *JWTConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLDays) * 24 * time.Hour
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
