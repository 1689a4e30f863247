package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the application reads from the environment.
type Config struct {
	AppPort string

	// StoreDriver selects the catalog store backend:
	// "mongo" (default), "postgres", "sqlite", or "memory".
	StoreDriver string
	MongoURI    string
	MongoDB     string
	DatabaseDSN string
	SQLitePath  string

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// RabbitMQURL enables event publishing when non-empty.
	RabbitMQURL string

	// RedisAddr enables the catalog cache when non-empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	UploadDir string

	RateLimitMax int
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("STORE_DRIVER", "mongo")
	viper.SetDefault("MONGO_URI", "mongodb://localhost:27017/")
	viper.SetDefault("MONGO_DB", "marketplace")
	viper.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=marketplace port=5432 sslmode=disable")
	viper.SetDefault("SQLITE_PATH", "marketplace.db")
	viper.SetDefault("JWT_SECRET", "change-me")
	viper.SetDefault("JWT_ACCESS_TTL", "15m")
	viper.SetDefault("JWT_REFRESH_TTL", "168h")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("UPLOAD_DIR", "./uploads/products")
	viper.SetDefault("RATE_LIMIT_MAX", 100)
	viper.AutomaticEnv()

	return &Config{
		AppPort:       viper.GetString("APP_PORT"),
		StoreDriver:   viper.GetString("STORE_DRIVER"),
		MongoURI:      viper.GetString("MONGO_URI"),
		MongoDB:       viper.GetString("MONGO_DB"),
		DatabaseDSN:   viper.GetString("DATABASE_DSN"),
		SQLitePath:    viper.GetString("SQLITE_PATH"),
		JWTSecret:     viper.GetString("JWT_SECRET"),
		AccessTTL:     viper.GetDuration("JWT_ACCESS_TTL"),
		RefreshTTL:    viper.GetDuration("JWT_REFRESH_TTL"),
		RabbitMQURL:   viper.GetString("RABBITMQ_URL"),
		RedisAddr:     viper.GetString("REDIS_ADDR"),
		RedisPassword: viper.GetString("REDIS_PASSWORD"),
		RedisDB:       viper.GetInt("REDIS_DB"),
		UploadDir:     viper.GetString("UPLOAD_DIR"),
		RateLimitMax:  viper.GetInt("RATE_LIMIT_MAX"),
	}
}
