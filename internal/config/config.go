// Package config loads the example CLI's settings from the environment.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	AppName      string   `env:"APP_NAME" envDefault:"twitch-auth"`
	ClientID     string   `env:"TWITCH_CLIENT_ID,required,notEmpty"`
	ClientSecret string   `env:"TWITCH_CLIENT_SECRET"`
	RedirectURL  string   `env:"TWITCH_REDIRECT_URL" envDefault:"http://localhost:8080/callback"`
	ListenAddr   string   `env:"LISTEN_ADDR" envDefault:":8080"`
	Scopes       []string `env:"TWITCH_SCOPES" envSeparator:" " envDefault:"chat:read"`
	ForceVerify  bool     `env:"TWITCH_FORCE_VERIFY" envDefault:"false"`
	LogLevel     string   `env:"LOG_LEVEL" envDefault:"info"`
}

// New reads the configuration from the environment, with an optional .env
// file in the working directory.
func New() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "config.New")
	}
	return cfg, nil
}
