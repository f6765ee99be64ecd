package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config represents the structure of the configuration file
type Config struct {
	Root         string        `mapstructure:"root"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	Offline      bool          `mapstructure:"offline"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Root:         ".",
	FetchTimeout: 60 * time.Second,
	Offline:      false,
}

// Load initializes the configuration from file and environment variables, and returns the final config.
// Each call builds its own viper instance so repeated loads stay independent.
func Load(cwd string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Automatically read environment variables
	v.AutomaticEnv()

	// Explicitly bind environment variables to config keys
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	// Look for a configuration file in the working directory
	v.SetConfigName("ingestr")
	v.SetConfigType("yaml")
	v.AddConfigPath(cwd)
	if err := v.ReadInConfig(); err != nil {
		// Continue with defaults when no config file is present
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("root", DefaultConfig.Root)
	v.SetDefault("fetch_timeout", DefaultConfig.FetchTimeout)
	v.SetDefault("offline", DefaultConfig.Offline)
}

func bindEnv(v *viper.Viper) error {
	if err := v.BindEnv("root", "INGESTR_ROOT"); err != nil {
		return err
	}
	if err := v.BindEnv("fetch_timeout", "INGESTR_FETCH_TIMEOUT"); err != nil {
		return err
	}
	return v.BindEnv("offline", "INGESTR_OFFLINE")
}

// GetRootDir resolves the project root: environment, then config, then the working directory
func GetRootDir(cfg *Config) string {
	root := os.Getenv("INGESTR_ROOT")
	if root != "" {
		return root
	}
	if cfg != nil && cfg.Root != "" {
		return cfg.Root
	}
	return "."
}
