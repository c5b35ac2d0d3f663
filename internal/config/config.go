package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env               string        `mapstructure:"env"`                 // current application environment (local, dev, prod etc)
	TelegramAPIToken  string        `mapstructure:"-"`                   // Telegram API token loaded from environment
	QuestionsJSONPath string        `mapstructure:"questions_json_path"` // path to the JSON question catalog
	ScoresJSONPath    string        `mapstructure:"scores_json_path"`    // path to the JSON score ledger file
	Timezone          string        `mapstructure:"timezone"`            // location for job wall-clock times
	RevealAfter       time.Duration `mapstructure:"reveal_after"`        // poll open period and reveal delay
	Jobs              Jobs          `mapstructure:"jobs"`                // recurring job schedule section
	DB                DB            `mapstructure:"database"`            // database configuration section
}

// Jobs contains the wall-clock schedule for the recurring jobs.
type Jobs struct {
	DailyQuizTime     string `mapstructure:"daily_quiz_time"`     // HH:MM
	DailyReminderTime string `mapstructure:"daily_reminder_time"` // HH:MM
	WeeklyDigestTime  string `mapstructure:"weekly_digest_time"`  // HH:MM
	WeeklyDigestDay   string `mapstructure:"weekly_digest_day"`   // cron day-of-week name
}

// DB contains database-related configuration parameters. The database is
// optional: with no DATABASE_URL the score ledger lives in the JSON file.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("questions_json_path", "assets/questions.json")
	v.SetDefault("scores_json_path", "scores.json")
	v.SetDefault("timezone", "Asia/Almaty")
	v.SetDefault("reveal_after", "24h")
	v.SetDefault("jobs.daily_quiz_time", "09:00")
	v.SetDefault("jobs.daily_reminder_time", "18:00")
	v.SetDefault("jobs.weekly_digest_time", "20:00")
	v.SetDefault("jobs.weekly_digest_day", "SUN")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	// DATABASE_URL is optional; an empty value selects the file-backed ledger.
	cfg.DB.URL = v.GetString("database_url")

	return &cfg, nil
}
