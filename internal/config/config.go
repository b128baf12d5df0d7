package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// SchedulerConfig contains the scheduling parameters: memory-model tuning,
// learning-step ladders, queue shaping, and streak settings. Zero-valued
// fields fall back to the scheduler's built-in defaults at wiring time.
type SchedulerConfig struct {
	// DesiredRetention is the retrievability target intervals aim for.
	DesiredRetention float64 `mapstructure:"desired_retention" validate:"required,gt=0,lt=1"`

	// Weights overrides the built-in memory-model parameter set.
	// Empty keeps the defaults; a non-empty override must be complete.
	Weights []float64 `mapstructure:"weights" validate:"omitempty,len=21"`

	// LearningStepMinutes and RelearningStepMinutes are the sub-day step
	// ladders for new and lapsed items.
	LearningStepMinutes   []int `mapstructure:"learning_step_minutes" validate:"omitempty,dive,gte=1"`
	RelearningStepMinutes []int `mapstructure:"relearning_step_minutes" validate:"omitempty,dive,gte=1"`

	// GraduatingIntervalDays floors the first interval after graduation.
	GraduatingIntervalDays int `mapstructure:"graduating_interval_days" validate:"required,gte=1"`

	// EasyBonus and HardIntervalMultiplier scale Review-state intervals for
	// the respective ratings. 1.0 leaves the computed interval unchanged.
	EasyBonus              float64 `mapstructure:"easy_bonus" validate:"required,gt=0"`
	HardIntervalMultiplier float64 `mapstructure:"hard_interval_multiplier" validate:"required,gt=0"`

	// MaximumIntervalDays caps every scheduled interval.
	MaximumIntervalDays int `mapstructure:"maximum_interval_days" validate:"required,gte=1"`

	// Queue shaping. Zero caps mean unlimited.
	MaxQueueItems int     `mapstructure:"max_queue_items" validate:"gte=0"`
	MaxNewItems   int     `mapstructure:"max_new_items" validate:"gte=0"`
	NewItemRatio  float64 `mapstructure:"new_item_ratio" validate:"gte=0,lte=1"`

	// StreakTimezone names the IANA location whose calendar days define
	// streak boundaries.
	StreakTimezone string `mapstructure:"streak_timezone" validate:"required"`
}
