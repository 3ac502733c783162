// Package config loads the msig configuration from a toml file with
// MSIG_* environment overrides, and writes the commented default file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"github.com/stellar/go/network"
)

const (
	DefaultAddr       = "127.0.0.1:8475"
	DefaultHorizonURL = "https://horizon-testnet.stellar.org"

	defaultTimeoutSeconds = 30
)

type Server struct {
	Addr  string `toml:"addr" mapstructure:"addr"`
	Token string `toml:"token" mapstructure:"token"`
}

type Horizon struct {
	URL            string `toml:"url" mapstructure:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

type Network struct {
	Passphrase string `toml:"passphrase" mapstructure:"passphrase"`
}

type Secrets struct {
	Dir string `toml:"dir" mapstructure:"dir"`
}

type Config struct {
	Server  Server  `toml:"server" mapstructure:"server"`
	Horizon Horizon `toml:"horizon" mapstructure:"horizon"`
	Network Network `toml:"network" mapstructure:"network"`
	Secrets Secrets `toml:"secrets" mapstructure:"secrets"`
}

func (c Config) HorizonTimeout() time.Duration {
	if c.Horizon.TimeoutSeconds <= 0 {
		return defaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.Horizon.TimeoutSeconds) * time.Second
}

func Default() Config {
	return Config{
		Server:  Server{Addr: DefaultAddr},
		Horizon: Horizon{URL: DefaultHorizonURL, TimeoutSeconds: defaultTimeoutSeconds},
		Network: Network{Passphrase: network.TestNetworkPassphrase},
	}
}

// Load reads the configuration from path, or from the default locations
// when path is empty. A missing file is not an error; defaults and MSIG_*
// environment variables still apply.
func Load(v *viper.Viper, path string) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	defaults := Default()
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.token", defaults.Server.Token)
	v.SetDefault("horizon.url", defaults.Horizon.URL)
	v.SetDefault("horizon.timeout_seconds", defaults.Horizon.TimeoutSeconds)
	v.SetDefault("network.passphrase", defaults.Network.Passphrase)
	v.SetDefault("secrets.dir", defaults.Secrets.Dir)

	v.SetEnvPrefix("MSIG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "msig"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s: %w", path, os.ErrExist)
	}

	data, err := toml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("encode default config: %w", err)
	}

	header := []byte("# msig configuration. Every key can be overridden with an\n" +
		"# MSIG_<SECTION>_<KEY> environment variable, e.g. MSIG_SERVER_TOKEN.\n\n")

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, append(header, data...), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// DefaultPath is where `msig config init` writes and `msig serve` looks
// first.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(dir, "msig", "config.toml"), nil
}
