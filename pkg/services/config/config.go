package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "ATLAS"

type Config struct {
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Server    ServerConfig    `mapstructure:"server"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	DuckDB    DuckDBConfig    `mapstructure:"duckdb"`
}

type DatasetConfig struct {
	// Path is a local CSV file or an s3://bucket/key location.
	Path     string `mapstructure:"path"`
	Region   string `mapstructure:"region"`
	Profile  string `mapstructure:"profile"`
	Profiles string `mapstructure:"profiles"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type DashboardConfig struct {
	HistogramBins int    `mapstructure:"histogram_bins"`
	GenderMatch   string `mapstructure:"gender_match"`
	// Engine is "memory" or "duckdb".
	Engine string `mapstructure:"engine"`
}

type DuckDBConfig struct {
	Path    string `mapstructure:"path"`
	Threads int    `mapstructure:"threads"`
}

const (
	EngineMemory = "memory"
	EngineDuckDB = "duckdb"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("dataset.path", "shopping_trends.csv")
	v.SetDefault("dataset.region", "")
	v.SetDefault("dataset.profile", "")
	v.SetDefault("dataset.profiles", "")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("dashboard.histogram_bins", 20)
	v.SetDefault("dashboard.gender_match", "contains")
	v.SetDefault("dashboard.engine", EngineMemory)
	v.SetDefault("duckdb.path", ":memory:")
	v.SetDefault("duckdb.threads", 4)
}

// LoadConfig reads path (optional) and applies ATLAS_* environment overrides on top
// of the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Dataset.Path == "" && c.Dataset.Profile == "" {
		errs = append(errs, errors.New("dataset.path or dataset.profile is required"))
	}
	if c.Dashboard.HistogramBins <= 0 {
		errs = append(errs, fmt.Errorf("dashboard.histogram_bins must be positive, got %d", c.Dashboard.HistogramBins))
	}
	switch c.Dashboard.GenderMatch {
	case "contains", "exact":
	default:
		errs = append(errs, fmt.Errorf("dashboard.gender_match must be contains or exact, got %q", c.Dashboard.GenderMatch))
	}
	switch c.Dashboard.Engine {
	case EngineMemory, EngineDuckDB:
	default:
		errs = append(errs, fmt.Errorf("dashboard.engine must be %s or %s, got %q", EngineMemory, EngineDuckDB, c.Dashboard.Engine))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	return errors.Join(errs...)
}
