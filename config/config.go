package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Razorpay Razorpay
	Stripe   Stripe
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type Razorpay struct {
	KeyID     string
	KeySecret string
}

type Stripe struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Razorpay.KeyID = viper.GetString("RAZORPAY_KEY_ID")
	config.Razorpay.KeySecret = viper.GetString("RAZORPAY_KEY_SECRET")

	config.Stripe.SecretKey = viper.GetString("STRIPE_SECRET_KEY")
	config.Stripe.WebhookSecret = viper.GetString("STRIPE_WEBHOOK_SECRET")
	config.Stripe.SuccessURL = viper.GetString("STRIPE_SUCCESS_URL")
	config.Stripe.CancelURL = viper.GetString("STRIPE_CANCEL_URL")

	log.Info().Str("port", config.Server.Port).Msg("Config loaded")
	return &config, nil
}
