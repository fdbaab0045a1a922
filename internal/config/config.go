package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every user-tunable setting. Values come from
// ~/.dayflow/config.yaml, overridable via DAYFLOW_* environment variables.
type Config struct {
	DB       DBConfig       `mapstructure:"db"`
	Planner  PlannerConfig  `mapstructure:"planner"`
	Progress ProgressConfig `mapstructure:"progress"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type PlannerConfig struct {
	StartHour int `mapstructure:"start_hour"`
	EndHour   int `mapstructure:"end_hour"`
}

type ProgressConfig struct {
	Strategy string `mapstructure:"strategy"`
}

// Load reads the config file if present and applies defaults otherwise. A
// missing file is not an error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".dayflow"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("DAYFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db.path", "")
	v.SetDefault("planner.start_hour", 7)
	v.SetDefault("planner.end_hour", 22)
	v.SetDefault("progress.strategy", "counter_sum")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Planner.StartHour < 0 || cfg.Planner.StartHour > 23 ||
		cfg.Planner.EndHour < 0 || cfg.Planner.EndHour > 23 ||
		cfg.Planner.EndHour < cfg.Planner.StartHour {
		return nil, fmt.Errorf("planner hours out of range: start %d, end %d", cfg.Planner.StartHour, cfg.Planner.EndHour)
	}
	return &cfg, nil
}
