package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all process-wide settings, read once at startup and passed
// down explicitly. Nothing below main holds viper state.
type Config struct {
	AppPort   string
	ClientURL string

	MongoURI      string
	MongoDatabase string

	RabbitMQURL string
	RedisAddr   string

	StripeSecretKey     string
	StripeWebhookSecret string
	// CheckoutTimeout bounds the single outbound call to the payment
	// provider when creating a session.
	CheckoutTimeout time.Duration

	DefaultCurrency     string
	SupportedCurrencies []string

	JWTSecret string

	SendGridAPIKey   string
	ContactFromEmail string
	ContactToEmail   string
}

// Load reads configuration from environment variables with sensible
// defaults for local development.
func Load() Config {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("CLIENT_URL", "http://localhost:5173")
	viper.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	viper.SetDefault("MONGODB_DATABASE", "storefront")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("STRIPE_SECRET_KEY", "")
	viper.SetDefault("STRIPE_WEBHOOK_SECRET", "")
	viper.SetDefault("CHECKOUT_TIMEOUT", "10s")
	viper.SetDefault("DEFAULT_CURRENCY", "JPY")
	viper.SetDefault("SUPPORTED_CURRENCIES", "JPY,USD,EUR")
	viper.SetDefault("JWT_SECRET", "dev_secret_change_me")
	viper.SetDefault("SENDGRID_API_KEY", "")
	viper.SetDefault("CONTACT_FROM_EMAIL", "")
	viper.SetDefault("CONTACT_TO_EMAIL", "")
	viper.AutomaticEnv()

	return Config{
		AppPort:             viper.GetString("APP_PORT"),
		ClientURL:           strings.TrimRight(viper.GetString("CLIENT_URL"), "/"),
		MongoURI:            viper.GetString("MONGODB_URI"),
		MongoDatabase:       viper.GetString("MONGODB_DATABASE"),
		RabbitMQURL:         viper.GetString("RABBITMQ_URL"),
		RedisAddr:           viper.GetString("REDIS_ADDR"),
		StripeSecretKey:     viper.GetString("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: viper.GetString("STRIPE_WEBHOOK_SECRET"),
		CheckoutTimeout:     viper.GetDuration("CHECKOUT_TIMEOUT"),
		DefaultCurrency:     strings.ToUpper(viper.GetString("DEFAULT_CURRENCY")),
		SupportedCurrencies: splitCurrencies(viper.GetString("SUPPORTED_CURRENCIES")),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		SendGridAPIKey:      viper.GetString("SENDGRID_API_KEY"),
		ContactFromEmail:    viper.GetString("CONTACT_FROM_EMAIL"),
		ContactToEmail:      viper.GetString("CONTACT_TO_EMAIL"),
	}
}

func splitCurrencies(s string) []string {
	var out []string
	for _, c := range strings.Split(s, ",") {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
