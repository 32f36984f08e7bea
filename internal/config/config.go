/**
 * @description
 * Configuration management for the marketplace service. It uses the 'viper'
 * library to load configuration from environment variables, providing a
 * centralized and consistent way to manage application settings.
 */
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	ServerPort     string `mapstructure:"SERVER_PORT"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	GatewayBaseURL string `mapstructure:"GATEWAY_BASE_URL"`
	GatewayAPIKey  string `mapstructure:"GATEWAY_API_KEY"`
	StoreAPIURL    string `mapstructure:"STORE_API_URL"`
	StoreAPIToken  string `mapstructure:"STORE_API_TOKEN"`
	WebhookSecret  string `mapstructure:"GATEWAY_WEBHOOK_SECRET"`
	InternalAPIKey string `mapstructure:"INTERNAL_API_KEY"`
	AdminJWTSecret string `mapstructure:"ADMIN_JWT_SECRET"`
	RabbitMQURL    string `mapstructure:"RABBITMQ_URL"`
	RedisURL       string `mapstructure:"REDIS_URL"`

	SubscriptionSyncSchedule string `mapstructure:"SUBSCRIPTION_SYNC_SCHEDULE"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SUBSCRIPTION_SYNC_SCHEDULE", "0 3 * * *")
	viper.AutomaticEnv()

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("GATEWAY_BASE_URL")
	_ = viper.BindEnv("GATEWAY_API_KEY")
	_ = viper.BindEnv("STORE_API_URL")
	_ = viper.BindEnv("STORE_API_TOKEN")
	_ = viper.BindEnv("GATEWAY_WEBHOOK_SECRET")
	_ = viper.BindEnv("INTERNAL_API_KEY")
	_ = viper.BindEnv("ADMIN_JWT_SECRET")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("SUBSCRIPTION_SYNC_SCHEDULE")

	if err = viper.Unmarshal(&config); err != nil {
		return
	}
	if port := os.Getenv("PORT"); port != "" {
		config.ServerPort = port
	}

	if config.DatabaseURL == "" {
		err = fmt.Errorf("DATABASE_URL is required")
		return
	}
	if config.GatewayBaseURL == "" {
		err = fmt.Errorf("GATEWAY_BASE_URL is required")
		return
	}

	return
}
