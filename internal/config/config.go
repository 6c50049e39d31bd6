package config

import (
	"flag"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Address     string `env:"RUN_ADDRESS" envDefault:":8080"`
	DatabaseURI string `env:"DATABASE_URI"`
	Secret      string `env:"SECRET"`
}

func New() (*Config, error) {
	// A missing .env is fine, the system environment still applies.
	_ = godotenv.Load()

	flags := parseFlags()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if flags.Address != "" {
		cfg.Address = flags.Address
	}
	if flags.DatabaseURI != "" {
		cfg.DatabaseURI = flags.DatabaseURI
	}

	return cfg, nil
}

func parseFlags() *Config {
	address := flag.String("a", "", "HTTP server address")
	dbURI := flag.String("d", "", "DB URI")
	flag.Parse()
	return &Config{Address: *address, DatabaseURI: *dbURI}
}
