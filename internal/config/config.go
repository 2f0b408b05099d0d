// Package config loads service configuration from file and environment.
// Environment variables use the RECON_ prefix with underscores, e.g.
// RECON_NOMIS_BASE_URL overrides nomis.base_url.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Nomis          UpstreamConfig       `mapstructure:"nomis"`
	Dps            UpstreamConfig       `mapstructure:"dps"`
	Mapping        UpstreamConfig       `mapstructure:"mapping"`
	Retry          RetryConfig          `mapstructure:"retry"`
	Reconciliation ReconciliationConfig `mapstructure:"reconciliation"`
	Logging        LoggingConfig        `mapstructure:"logging"`
}

// ServerConfig configures the admin HTTP surface.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// UpstreamConfig configures one upstream API.
type UpstreamConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RetryConfig configures the shared retry policy for upstream calls.
type RetryConfig struct {
	MaxAttempts         uint64        `mapstructure:"max_attempts"`
	InitialInterval     time.Duration `mapstructure:"initial_interval"`
	MaxInterval         time.Duration `mapstructure:"max_interval"`
	RandomizationFactor float64       `mapstructure:"randomization_factor"`
}

// ReconciliationConfig tunes the batch runs. PrisonFilter is a
// comma-separated list of prison ids restricting the prisoner-level run;
// empty means every prison.
type ReconciliationConfig struct {
	PageSize     int    `mapstructure:"page_size"`
	PrisonFilter string `mapstructure:"prison_filter"`
}

// PrisonIDs parses the comma-separated filter into a slice, dropping
// blanks.
func (c ReconciliationConfig) PrisonIDs() []string {
	if c.PrisonFilter == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(c.PrisonFilter, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load reads configuration from an optional config.yaml in path (or the
// working directory) with environment overrides applied on top.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("RECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env and defaults carry it.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("nomis.base_url", "http://localhost:8081")
	v.SetDefault("nomis.timeout", 30*time.Second)
	v.SetDefault("dps.base_url", "http://localhost:8082")
	v.SetDefault("dps.timeout", 30*time.Second)
	v.SetDefault("mapping.base_url", "http://localhost:8083")
	v.SetDefault("mapping.timeout", 10*time.Second)
	v.SetDefault("retry.max_attempts", 3)
	v.SetDefault("retry.initial_interval", 100*time.Millisecond)
	v.SetDefault("retry.max_interval", 2*time.Second)
	v.SetDefault("retry.randomization_factor", 0.5)
	v.SetDefault("reconciliation.page_size", 200)
	v.SetDefault("reconciliation.prison_filter", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
}
