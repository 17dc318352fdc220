package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535

	// DefaultQueueReportInterval is how often the queue size is logged
	DefaultQueueReportInterval = time.Minute
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Broker   BrokerConfig   `yaml:"broker"`
	Database DatabaseConfig `yaml:"database"`
	Download DownloadConfig `yaml:"download"`
	Logging  LoggingConfig  `yaml:"logging"`
	App      AppConfig      `yaml:"app"`
}

// ServerConfig holds HTTP control server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// BrokerConfig holds notification broker connection configuration
type BrokerConfig struct {
	Host       string           `yaml:"host"`
	Port       int              `yaml:"port"`
	User       string           `yaml:"user"`
	Password   string           `yaml:"password"`
	VHost      string           `yaml:"vhost"`
	Exchange   string           `yaml:"exchange"`
	Connection ConnectionConfig `yaml:"connection"`
}

// ConnectionConfig holds broker connection settings
type ConnectionConfig struct {
	RetryAttempts     int           `yaml:"retry_attempts"`
	RetryInterval     time.Duration `yaml:"retry_interval"`
	Heartbeat         time.Duration `yaml:"heartbeat"`
	ConnectionTimeout time.Duration `yaml:"connection_timeout"`
}

// DatabaseConfig holds the optional download history database
// configuration. The pipeline runs without it when disabled.
type DatabaseConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Database        string        `yaml:"database"`
	SSLMode         string        `yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// DownloadConfig holds the download pipeline configuration
type DownloadConfig struct {
	// Directory is the default download directory; it must exist and
	// be writable at startup.
	Directory string `yaml:"directory"`

	// Topics are subscribed at startup, each targeting Directory.
	Topics []string `yaml:"topics"`

	// Workers overrides the download worker count; 0 derives it from
	// the available cores.
	Workers int `yaml:"workers"`

	// FetchTimeout bounds a single artifact fetch; 0 keeps the
	// transport default.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`

	// QueueReportInterval is how often the queue size is logged.
	QueueReportInterval time.Duration `yaml:"queue_report_interval"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// Load reads and parses the configuration file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if config.Download.QueueReportInterval <= 0 {
		config.Download.QueueReportInterval = DefaultQueueReportInterval
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.Broker.Host == "" {
		return fmt.Errorf("broker host is required")
	}

	if c.Broker.Port < MinPort || c.Broker.Port > MaxPort {
		return fmt.Errorf("invalid broker port: %d (must be between %d and %d)", c.Broker.Port, MinPort, MaxPort)
	}

	if c.Broker.Exchange == "" {
		return fmt.Errorf("broker exchange name is required")
	}

	if c.Download.Directory == "" {
		return fmt.Errorf("download directory is required")
	}

	if c.Download.Workers < 0 {
		return fmt.Errorf("download workers must not be negative")
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}

		if c.Database.Port < MinPort || c.Database.Port > MaxPort {
			return fmt.Errorf("invalid database port: %d (must be between %d and %d)", c.Database.Port, MinPort, MaxPort)
		}

		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	return nil
}
