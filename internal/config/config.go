package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	SendGrid   SendGridConfig   `yaml:"sendgrid"`
	Token      TokenConfig      `yaml:"token"`
	Invitation InvitationConfig `yaml:"invitation"`
	Log        LogConfig        `yaml:"log"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// SendGridConfig contains email provider settings
type SendGridConfig struct {
	APIKey   string `yaml:"api_key"`
	FromName string `yaml:"from_name"`
}

// TokenConfig contains signing settings for invitation tokens and sessions
type TokenConfig struct {
	Secret               string `yaml:"secret"`
	InvitationExpiryDays int    `yaml:"invitation_expiry_days"`
	SessionExpiryMinutes int    `yaml:"session_expiry_minutes"`
}

// InvitationConfig contains invitation workflow settings
type InvitationConfig struct {
	CallbackBaseURL string `yaml:"callback_base_url"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpireInvitations string `yaml:"expire_invitations"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM_NAME"); val != "" {
		c.SendGrid.FromName = val
	}

	// Token
	if val := os.Getenv("TOKEN_SECRET"); val != "" {
		c.Token.Secret = val
	}

	// Invitation
	if val := os.Getenv("INVITATION_CALLBACK_BASE_URL"); val != "" {
		c.Invitation.CallbackBaseURL = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// Token validation
	if c.Token.Secret == "" {
		return fmt.Errorf("token secret is required")
	}
	if len(c.Token.Secret) < 32 {
		return fmt.Errorf("token secret must be at least 32 characters")
	}

	// Invitation validation
	if c.Invitation.CallbackBaseURL == "" {
		return fmt.Errorf("invitation callback base URL is required")
	}

	// Token defaults
	if c.Token.InvitationExpiryDays == 0 {
		c.Token.InvitationExpiryDays = 2
	}
	if c.Token.SessionExpiryMinutes == 0 {
		c.Token.SessionExpiryMinutes = 1440 // 24 hours
	}

	// Scheduler defaults
	if c.Scheduler.ExpireInvitations == "" {
		c.Scheduler.ExpireInvitations = "0 0 1 * * *" // 1 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// InvitationExpiry returns the invitation token lifetime
func (c *Config) InvitationExpiry() time.Duration {
	return time.Duration(c.Token.InvitationExpiryDays) * 24 * time.Hour
}

// SessionExpiry returns the session token lifetime
func (c *Config) SessionExpiry() time.Duration {
	return time.Duration(c.Token.SessionExpiryMinutes) * time.Minute
}
