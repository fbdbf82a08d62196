// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Data          DataConfig          `yaml:"data"`
	Models        ModelsConfig        `yaml:"models"`
	Pricing       PricingConfig       `yaml:"pricing"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Alerts        AlertsConfig        `yaml:"alerts"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines optional PostgreSQL persistence of recommendation
// runs. With Enabled false the engine runs CSV-only.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// DataConfig defines the CSV dataset locations.
type DataConfig struct {
	Dir       string `yaml:"dir"`
	OutputCSV string `yaml:"output_csv"` // written after each pass; empty disables
}

// ModelsConfig defines the trained model artifact store.
type ModelsConfig struct {
	Dir string `yaml:"dir"`
}

// PricingConfig defines core engine thresholds.
type PricingConfig struct {
	MinHistoryRows  int `yaml:"min_history_rows"`
	MinTrainingRows int `yaml:"min_training_rows"`
	CompetitorDays  int `yaml:"competitor_window_days"`
}

// ScheduleConfig defines cron intervals.
type ScheduleConfig struct {
	RecommendInterval time.Duration `yaml:"recommend_interval"`
	TrainInterval     time.Duration `yaml:"train_interval"`
}

// AlertsConfig defines when a recommendation row is alert-worthy.
type AlertsConfig struct {
	PriceMovePct   float64 `yaml:"price_move_pct"`   // relative move threshold
	MinProfitDelta float64 `yaml:"min_profit_delta"` // absolute delta threshold
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Slack SlackConfig `yaml:"slack"`
	Email EmailConfig `yaml:"email"`
}

// SlackConfig defines Slack incoming-webhook settings.
type SlackConfig struct {
	Enabled    bool    `yaml:"enabled"`
	WebhookURL string  `yaml:"webhook_url"`
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
}

// EmailConfig defines SMTP delivery settings.
type EmailConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyDataDefaults(&cfg.Data)
	applyModelsDefaults(&cfg.Models)
	applyPricingDefaults(&cfg.Pricing)
	applyScheduleDefaults(&cfg.Schedule)
	applyAlertsDefaults(&cfg.Alerts)
	applyNotificationDefaults(&cfg.Notifications)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyDataDefaults(d *DataConfig) {
	if d.Dir == "" {
		d.Dir = "data"
	}
	if d.OutputCSV == "" {
		d.OutputCSV = "price_recommendations.csv"
	}
}

func applyModelsDefaults(m *ModelsConfig) {
	if m.Dir == "" {
		m.Dir = "models"
	}
}

func applyPricingDefaults(p *PricingConfig) {
	if p.MinHistoryRows == 0 {
		p.MinHistoryRows = 5
	}
	if p.MinTrainingRows == 0 {
		p.MinTrainingRows = 30
	}
	if p.CompetitorDays == 0 {
		p.CompetitorDays = 7
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.RecommendInterval == 0 {
		s.RecommendInterval = time.Hour
	}
	if s.TrainInterval == 0 {
		s.TrainInterval = 24 * time.Hour
	}
}

func applyAlertsDefaults(a *AlertsConfig) {
	if a.PriceMovePct == 0 {
		a.PriceMovePct = 0.10
	}
	if a.MinProfitDelta == 0 {
		a.MinProfitDelta = 50.0
	}
}

func applyNotificationDefaults(n *NotificationsConfig) {
	if n.Slack.PerSecond == 0 {
		n.Slack.PerSecond = 1.0
	}
	if n.Slack.Burst == 0 {
		n.Slack.Burst = 3
	}
	if n.Email.Port == 0 {
		n.Email.Port = 465
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Database.Enabled {
		if cfg.Database.Host == "" {
			errs = append(errs, fmt.Errorf("database.host is required when database.enabled"))
		}
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required when database.enabled"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required when database.enabled"))
		}
	}

	if cfg.Notifications.Slack.Enabled && cfg.Notifications.Slack.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("notifications.slack.webhook_url is required when slack is enabled"))
	}

	if cfg.Notifications.Email.Enabled {
		if cfg.Notifications.Email.Host == "" {
			errs = append(errs, fmt.Errorf("notifications.email.host is required when email is enabled"))
		}
		if cfg.Notifications.Email.To == "" {
			errs = append(errs, fmt.Errorf("notifications.email.to is required when email is enabled"))
		}
	}

	if cfg.Alerts.PriceMovePct < 0 || cfg.Alerts.PriceMovePct > 1 {
		errs = append(errs, fmt.Errorf("alerts.price_move_pct must be in [0, 1] (got %v)", cfg.Alerts.PriceMovePct))
	}

	return errors.Join(errs...)
}
