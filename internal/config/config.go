package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config carries all runtime configuration. Values are read from the
// environment (LEDGERLINE_ prefix) with an optional config file overlay.
type Config struct {
	HTTPAddr string `mapstructure:"http_addr"`

	DatabaseDriver string `mapstructure:"database_driver"` // postgres or sqlite
	DatabaseDSN    string `mapstructure:"database_dsn"`

	BusinessName    string `mapstructure:"business_name"`
	BusinessAddress string `mapstructure:"business_address"`
	BusinessPhone   string `mapstructure:"business_phone"`
	BusinessEmail   string `mapstructure:"business_email"`
	BusinessWebsite string `mapstructure:"business_website"`

	DefaultCurrency string  `mapstructure:"default_currency"`
	DefaultTaxRate  float64 `mapstructure:"default_tax_rate"`
	PaymentTermDays int     `mapstructure:"payment_term_days"`

	MailHost   string `mapstructure:"mail_host"`
	MailPort   int    `mapstructure:"mail_port"`
	MailSender string `mapstructure:"mail_sender"`

	RecurringRunInterval string `mapstructure:"recurring_run_interval"` // Go duration, e.g. 24h
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("ledgerline")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("http_addr", ":8080")
	v.SetDefault("database_driver", "sqlite")
	v.SetDefault("database_dsn", "file:ledgerline.db")
	v.SetDefault("business_name", "Ledgerline")
	v.SetDefault("default_currency", "IDR")
	v.SetDefault("default_tax_rate", 0.11)
	v.SetDefault("payment_term_days", 30)
	v.SetDefault("mail_host", "localhost")
	v.SetDefault("mail_port", 1025)
	v.SetDefault("mail_sender", "noreply@ledgerline.local")
	v.SetDefault("recurring_run_interval", "24h")

	v.SetConfigName("ledgerline")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/ledgerline")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
