// Package config loads application configuration from file and environment
// and owns global logger setup.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig     `yaml:"data" mapstructure:"data"`
	Match    MatchConfig    `yaml:"match" mapstructure:"match"`
	Download DownloadConfig `yaml:"download" mapstructure:"download"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the local dataset cache.
type DataConfig struct {
	Dir  string `yaml:"dir" mapstructure:"dir"`
	Year int    `yaml:"year" mapstructure:"year"`
}

// MatchConfig tunes the address matcher's score ceilings.
type MatchConfig struct {
	ExactScore              float64 `yaml:"exact_score" mapstructure:"exact_score"`
	TypeRelaxedScore        float64 `yaml:"type_relaxed_score" mapstructure:"type_relaxed_score"`
	DirectionalRelaxedScore float64 `yaml:"directional_relaxed_score" mapstructure:"directional_relaxed_score"`
	OutOfRangePenalty       float64 `yaml:"out_of_range_penalty" mapstructure:"out_of_range_penalty"`
}

// DownloadConfig configures census file downloads.
type DownloadConfig struct {
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	FTPTimeoutSecs int     `yaml:"ftp_timeout_secs" mapstructure:"ftp_timeout_secs"`
	CountyFetchers int     `yaml:"county_fetchers" mapstructure:"county_fetchers"`
}

// BatchConfig configures batch geocoding.
type BatchConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CENSUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data.dir", defaultDataDir())
	v.SetDefault("data.year", 2020)
	v.SetDefault("match.exact_score", 1.0)
	v.SetDefault("match.type_relaxed_score", 0.9)
	v.SetDefault("match.directional_relaxed_score", 0.8)
	v.SetDefault("match.out_of_range_penalty", 0.5)
	v.SetDefault("download.timeout_secs", 600)
	v.SetDefault("download.requests_per_sec", 2.0)
	v.SetDefault("download.ftp_timeout_secs", 30)
	v.SetDefault("download.county_fetchers", 4)
	v.SetDefault("batch.workers", 8)
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a mode depends on. Modes: "lookup" for the
// CLI commands, "serve" for the HTTP API.
func (c *Config) Validate(mode string) error {
	var problems []string

	if c.Data.Dir == "" {
		problems = append(problems, "data.dir is required")
	}
	if c.Data.Year < 2020 {
		problems = append(problems, "data.year must be 2020 or later")
	}
	if c.Match.ExactScore < c.Match.TypeRelaxedScore ||
		c.Match.TypeRelaxedScore < c.Match.DirectionalRelaxedScore {
		problems = append(problems, "match scores must not increase as rungs relax")
	}
	if c.Match.OutOfRangePenalty <= 0 || c.Match.OutOfRangePenalty > 1 {
		problems = append(problems, "match.out_of_range_penalty must be in (0, 1]")
	}
	if c.Batch.Workers < 1 || c.Batch.Workers > 64 {
		problems = append(problems, "batch.workers must be between 1 and 64")
	}

	switch mode {
	case "lookup":
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".census-lookup"
	}
	return filepath.Join(home, ".census-lookup")
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
