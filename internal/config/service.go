package config

import "time"

type ServiceConfig struct {
	Name        string         `yaml:"name"`
	Environment string         `yaml:"environment"`
	Version     string         `yaml:"version"`
	ClientURL   string         `yaml:"client_url"`
	JWTSecret   string         `yaml:"jwt_secret"`
	Paystack    PaystackConfig `yaml:"paystack"`

	// ReapInterval is how often the expiry reaper sweeps pending payments.
	ReapInterval time.Duration `yaml:"reap_interval"`
}

type PaystackConfig struct {
	BaseURL     string `yaml:"base_url"`
	SecretKey   string `yaml:"secret_key"`
	CallbackURL string `yaml:"callback_url"`
}
