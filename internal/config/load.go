package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally config files.
// Environment variables (prefixed INCREMENTUM_, with underscores for nesting,
// e.g. INCREMENTUM_DATABASE_URL) take precedence over values from config
// files. Returns a populated Config struct or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// An incrementum.yaml next to the binary or in the working directory is
	// optional; only a malformed file is an error.
	v.SetConfigName("incrementum")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("INCREMENTUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	// Registered with an empty default so AutomaticEnv can see the key;
	// validation rejects the empty value if nothing supplies it.
	v.SetDefault("database.url", "")

	v.SetDefault("scheduler.desired_retention", 0.9)
	v.SetDefault("scheduler.learning_step_minutes", []int{1, 10})
	v.SetDefault("scheduler.relearning_step_minutes", []int{10})
	v.SetDefault("scheduler.graduating_interval_days", 1)
	v.SetDefault("scheduler.easy_bonus", 1.0)
	v.SetDefault("scheduler.hard_interval_multiplier", 1.0)
	v.SetDefault("scheduler.maximum_interval_days", 36500)
	v.SetDefault("scheduler.max_queue_items", 200)
	v.SetDefault("scheduler.max_new_items", 20)
	v.SetDefault("scheduler.new_item_ratio", 0.2)
	v.SetDefault("scheduler.streak_timezone", "UTC")
}
