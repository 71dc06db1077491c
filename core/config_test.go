package core

import "testing"

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.MikeX.AccessKey = "ak"
	cfg.MikeX.SecretKey = "sk"
	cfg.Notion.Token = "ntn_token"
	cfg.Notion.RootPageID = "page_1"
	return cfg
}

func TestDefaultConfig_MatchesPlatformDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 5000 {
		t.Fatalf("expected port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Notion.Version != "2022-06-28" {
		t.Fatalf("expected notion version 2022-06-28, got %q", cfg.Notion.Version)
	}
	if cfg.Notion.MaxReadAttempts != 5 {
		t.Fatalf("expected 5 read attempts, got %d", cfg.Notion.MaxReadAttempts)
	}
	if cfg.Notion.TitleProperty != DefaultNotionTitleProperty {
		t.Fatalf("expected default title property, got %q", cfg.Notion.TitleProperty)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := map[string]func(*Config){
		"missing access key": func(c *Config) { c.MikeX.AccessKey = "" },
		"missing secret key": func(c *Config) { c.MikeX.SecretKey = " " },
		"missing token":      func(c *Config) { c.Notion.Token = "" },
		"missing root page":  func(c *Config) { c.Notion.RootPageID = "" },
		"bad port":           func(c *Config) { c.Server.Port = 70000 },
		"bad env":            func(c *Config) { c.Env = "staging" },
		"bad log format":     func(c *Config) { c.Logging.Format = "xml" },
		"zero attempts":      func(c *Config) { c.Notion.MaxReadAttempts = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestConfigAddress(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 8081
	if got := cfg.Address(); got != "127.0.0.1:8081" {
		t.Fatalf("unexpected address %q", got)
	}
}
