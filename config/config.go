package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Stripe secret key used by the refund gateway worker.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Capacity accounting knobs.
	SlotLockWaitMS          int `mapstructure:"SLOT_LOCK_WAIT_MS"`
	AvailabilityCacheTTLSec int `mapstructure:"AVAILABILITY_CACHE_TTL_SEC"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "roamly")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("SLOT_LOCK_WAIT_MS", 3000)
	viper.SetDefault("AVAILABILITY_CACHE_TTL_SEC", 15)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// SlotLockWait bounds how long a booking request may wait for a slot's
// accounting unit before reporting a contention timeout.
func SlotLockWait() time.Duration {
	if AppConfig.SlotLockWaitMS <= 0 {
		return 3 * time.Second
	}
	return time.Duration(AppConfig.SlotLockWaitMS) * time.Millisecond
}

// AvailabilityCacheTTL is the lifetime of cached availability snapshots.
func AvailabilityCacheTTL() time.Duration {
	if AppConfig.AvailabilityCacheTTLSec <= 0 {
		return 15 * time.Second
	}
	return time.Duration(AppConfig.AvailabilityCacheTTLSec) * time.Second
}
