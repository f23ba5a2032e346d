package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL     string
	Port            string
	IsProduction    bool
	JournalNoPrefix string
	RateLimit       string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JOURNAL_NO_PREFIX", "JRN")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JournalNoPrefix = viper.GetString("JOURNAL_NO_PREFIX")
	if cfg.JournalNoPrefix == "" {
		cfg.JournalNoPrefix = "JRN"
		log.Printf("Warning: JOURNAL_NO_PREFIX is empty. Defaulting to %s.\n", cfg.JournalNoPrefix)
	}

	// Rate limit uses the "<limit>-<period>" format, e.g. "100-M" for 100
	// requests per minute.
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
