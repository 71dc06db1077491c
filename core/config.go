package core

import (
	"fmt"
	"strings"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

const (
	DefaultNotionBaseURL       = "https://api.notion.com/v1"
	DefaultNotionVersion       = "2022-06-28"
	DefaultNotionTitleProperty = "标题"
)

type ServerConfig struct {
	Host                   string `koanf:"host" mapstructure:"host"`
	Port                   int    `koanf:"port" mapstructure:"port"`
	ShutdownTimeoutSeconds int    `koanf:"shutdown_timeout_seconds" mapstructure:"shutdown_timeout_seconds"`
}

type MikeXConfig struct {
	AccessKey string `koanf:"access_key" mapstructure:"access_key"`
	SecretKey string `koanf:"secret_key" mapstructure:"secret_key"`
}

type NotionConfig struct {
	Token           string `koanf:"token" mapstructure:"token"`
	RootPageID      string `koanf:"root_page_id" mapstructure:"root_page_id"`
	BaseURL         string `koanf:"base_url" mapstructure:"base_url"`
	Version         string `koanf:"version" mapstructure:"version"`
	TitleProperty   string `koanf:"title_property" mapstructure:"title_property"`
	TimeoutSeconds  int    `koanf:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxReadAttempts int    `koanf:"max_read_attempts" mapstructure:"max_read_attempts"`
}

type LoggingConfig struct {
	Level  string `koanf:"level" mapstructure:"level"`
	Format string `koanf:"format" mapstructure:"format"`
}

type Config struct {
	ServiceName string        `koanf:"service_name" mapstructure:"service_name"`
	Env         string        `koanf:"env" mapstructure:"env"`
	Server      ServerConfig  `koanf:"server" mapstructure:"server"`
	MikeX       MikeXConfig   `koanf:"mikex" mapstructure:"mikex"`
	Notion      NotionConfig  `koanf:"notion" mapstructure:"notion"`
	Logging     LoggingConfig `koanf:"logging" mapstructure:"logging"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "formsync",
		Env:         EnvDevelopment,
		Server: ServerConfig{
			Host:                   "0.0.0.0",
			Port:                   5000,
			ShutdownTimeoutSeconds: 10,
		},
		Notion: NotionConfig{
			BaseURL:         DefaultNotionBaseURL,
			Version:         DefaultNotionVersion,
			TitleProperty:   DefaultNotionTitleProperty,
			TimeoutSeconds:  30,
			MaxReadAttempts: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate fails fast on anything the paid-submission path cannot run without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.Env)) {
	case EnvDevelopment, EnvProduction, EnvTesting:
	default:
		return fmt.Errorf("core: unsupported env %q", c.Env)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("core: server.port %d is out of range", c.Server.Port)
	}
	if strings.TrimSpace(c.MikeX.AccessKey) == "" {
		return fmt.Errorf("core: mikex.access_key is required")
	}
	if strings.TrimSpace(c.MikeX.SecretKey) == "" {
		return fmt.Errorf("core: mikex.secret_key is required")
	}
	if strings.TrimSpace(c.Notion.Token) == "" {
		return fmt.Errorf("core: notion.token is required")
	}
	if strings.TrimSpace(c.Notion.RootPageID) == "" {
		return fmt.Errorf("core: notion.root_page_id is required")
	}
	if strings.TrimSpace(c.Notion.BaseURL) == "" {
		return fmt.Errorf("core: notion.base_url is required")
	}
	if strings.TrimSpace(c.Notion.TitleProperty) == "" {
		return fmt.Errorf("core: notion.title_property is required")
	}
	if c.Notion.MaxReadAttempts <= 0 {
		return fmt.Errorf("core: notion.max_read_attempts must be positive")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "text", "json":
	default:
		return fmt.Errorf("core: unsupported logging.format %q", c.Logging.Format)
	}
	return nil
}

func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", strings.TrimSpace(c.Server.Host), c.Server.Port)
}
