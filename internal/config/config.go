package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

type Config struct {
	DatabaseURI        string `envconfig:"DATABASE_URI" default:"sqlite://calcledger.db"`
	LogLevel           string `envconfig:"LOG_LEVEL" default:"info"`
	LogSQL             bool   `envconfig:"LOG_SQL" default:"false"`
	ListLimit          int    `envconfig:"LIST_LIMIT" default:"100"`
	DefaultDescription string `envconfig:"DEFAULT_DESCRIPTION" default:"Transaction Description"`
	NoColor            bool   `envconfig:"NO_COLOR" default:"false"`
}

// Load reads .env files when present and then the environment.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, err
	}
	return c, nil
}

// Level parses LogLevel, falling back to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
