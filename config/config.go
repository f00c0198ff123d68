package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB (catalog + customer read sources).
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisDraftDB     int    `mapstructure:"REDIS_DRAFT_DB"`
	RedisCacheDB     int    `mapstructure:"REDIS_CACHE_DB"`
	RedisTaskQueueDB int    `mapstructure:"REDIS_TASK_QUEUE_DB"`

	// Draft/preview lifecycle.
	DraftTTLMinutes    int `mapstructure:"DRAFT_TTL_MINUTES"`
	PreviewTTLMinutes  int `mapstructure:"PREVIEW_TTL_MINUTES"`
	PreviewOccurrences int `mapstructure:"PREVIEW_OCCURRENCE_LIMIT"`

	// External service base URLs.
	PricingBaseURL    string `mapstructure:"PRICING_BASE_URL"`
	OrdersBaseURL     string `mapstructure:"ORDERS_BASE_URL"`
	ClientTimeoutSecs int    `mapstructure:"CLIENT_TIMEOUT_SECS"`

	// Stripe (saved payment methods).
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Cloudinary (open-post image uploads).
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`

	// Firebase (submission push notifications).
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
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
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "homely")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DRAFT_DB", 0)
	viper.SetDefault("REDIS_CACHE_DB", 1)
	viper.SetDefault("REDIS_TASK_QUEUE_DB", 2)
	viper.SetDefault("DRAFT_TTL_MINUTES", 30)
	viper.SetDefault("PREVIEW_TTL_MINUTES", 5)
	viper.SetDefault("PREVIEW_OCCURRENCE_LIMIT", 12)
	viper.SetDefault("PRICING_BASE_URL", "http://localhost:8081")
	viper.SetDefault("ORDERS_BASE_URL", "http://localhost:8082")
	viper.SetDefault("CLIENT_TIMEOUT_SECS", 15)

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

// DraftTTL is how long an untouched draft survives in the session store.
func DraftTTL() time.Duration {
	if AppConfig.DraftTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(AppConfig.DraftTTLMinutes) * time.Minute
}

// PreviewFreshness is the window after which a server preview no longer
// counts as confirmed at submission time.
func PreviewFreshness() time.Duration {
	if AppConfig.PreviewTTLMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(AppConfig.PreviewTTLMinutes) * time.Minute
}
