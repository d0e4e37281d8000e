package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/warefleet/scanloc/internal/model"
)

const defaultUpdateInterval = model.DefaultUpdateInterval

// cliConfig holds only picker-relevant configuration.
type cliConfig struct {
	UpdateInterval     time.Duration `mapstructure:"update-interval"`
	HistoryEnabled     bool          `mapstructure:"history-enabled"`
	DBPath             string        `mapstructure:"db-path"`
	ReverseScrollWheel bool          `mapstructure:"reverse-scroll-wheel"`
}

func loadCLIConfig(configPath string) (cliConfig, error) {
	var cfg cliConfig

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, fmt.Errorf("finding home directory: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("SCANLOC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("update-interval", defaultUpdateInterval)
	v.SetDefault("history-enabled", true)
	v.SetDefault("reverse-scroll-wheel", false)
	v.SetDefault("db-path", filepath.Join(home, ".local", "share", "scanloc", "picker.duckdb"))

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigFile(filepath.Join(home, ".config", "scanloc", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	if strings.HasPrefix(cfg.DBPath, "~/") {
		cfg.DBPath = filepath.Join(home, cfg.DBPath[2:])
	}

	return cfg, nil
}
