// Package config loads the message board configuration from FOMTREE_
// prefixed environment variables, reading a .env file first when present.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/bsv-blockchain/go-fomtree-messages/pkg/walletconn"
)

// Prefix is prepended to every environment variable name.
const Prefix = "FOMTREE_"

// Wallet modes.
const (
	WalletModeSubstrate = "substrate"
	WalletModeToolbox   = "toolbox"
)

// Environments.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Static error variables for err113 compliance
var (
	ErrInvalidEnv         = errors.New("invalid environment")
	ErrInvalidWalletMode  = errors.New("invalid wallet mode")
	ErrPrivateKeyRequired = errors.New("private key is required in toolbox mode")
	ErrWalletURLRequired  = errors.New("wallet url is required in substrate mode")
	ErrInvalidTimeout     = errors.New("timeout must be positive")
)

// Config holds all configuration for the application.
type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":3000"`
	Env      string `env:"ENV" envDefault:"development"`

	// Wallet
	WalletMode       string `env:"WALLET_MODE" envDefault:"substrate"`
	WalletURL        string `env:"WALLET_URL" envDefault:"http://localhost:3321"`
	WalletOriginator string `env:"WALLET_ORIGINATOR" envDefault:"localhost:3000"`
	WalletNetwork    string `env:"WALLET_NETWORK" envDefault:"main"`
	WalletPrivateKey string `env:"WALLET_PRIVATE_KEY"`

	// Journal, disabled when MongoURI is empty
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"fomtree"`

	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Load reads configuration from the process environment.
// In development, it loads from .env file if present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse(nil)
}

// Parse reads configuration from environment, or from the process
// environment when environment is nil, and validates it.
func Parse(environment map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{
		Prefix:      Prefix,
		Environment: environment,
	}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerations and the settings the wallet mode requires.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidEnv, c.Env)
	}

	if c.RequestTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if _, err := walletconn.ParseNetwork(c.WalletNetwork); err != nil {
		return err
	}

	switch c.WalletMode {
	case WalletModeSubstrate:
		if c.WalletURL == "" {
			return ErrWalletURLRequired
		}
	case WalletModeToolbox:
		if c.WalletPrivateKey == "" {
			return ErrPrivateKeyRequired
		}
		if err := walletconn.ValidatePrivateKey(c.WalletPrivateKey); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidWalletMode, c.WalletMode)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// JournalEnabled reports whether submissions are recorded in MongoDB.
func (c *Config) JournalEnabled() bool {
	return c.MongoURI != ""
}
