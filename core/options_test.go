package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func validRuntimeLayer() map[string]any {
	return map[string]any{
		"mikex": map[string]any{
			"access_key": "ak",
			"secret_key": "sk",
		},
		"notion": map[string]any{
			"token":        "ntn_token",
			"root_page_id": "page_1",
		},
	}
}

func TestEnvLayer_MapsKnownKeys(t *testing.T) {
	layer, err := EnvLayer(map[string]string{
		"APP_PORT":         "8080",
		"MIKEX_ACCESS_KEY": "ak",
		"NOTION_PAGE_ID":   " page_1 ",
		"LOG_LEVEL":        "",
		"UNRELATED":        "ignored",
	})
	if err != nil {
		t.Fatalf("env layer: %v", err)
	}
	server, ok := layer["server"].(map[string]any)
	if !ok || server["port"] != 8080 {
		t.Fatalf("expected integer server.port, got %#v", layer["server"])
	}
	mikex, ok := layer["mikex"].(map[string]any)
	if !ok || mikex["access_key"] != "ak" {
		t.Fatalf("expected mikex.access_key, got %#v", layer["mikex"])
	}
	notion, ok := layer["notion"].(map[string]any)
	if !ok || notion["root_page_id"] != "page_1" {
		t.Fatalf("expected trimmed notion.root_page_id, got %#v", layer["notion"])
	}
	if _, ok := layer["logging"]; ok {
		t.Fatalf("expected empty LOG_LEVEL to be treated as unset")
	}
	if _, ok := layer["UNRELATED"]; ok {
		t.Fatalf("expected unknown keys to be ignored")
	}
}

func TestEnvLayer_RejectsNonIntegerPort(t *testing.T) {
	if _, err := EnvLayer(map[string]string{"APP_PORT": "eighty"}); err == nil {
		t.Fatalf("expected integer parse failure")
	}
}

func TestGoOptionsResolver_PrecedenceEnvOverFileOverDefaults(t *testing.T) {
	file := validRuntimeLayer()
	file["server"] = map[string]any{"port": 7000}
	file["notion"].(map[string]any)["title_property"] = "Name"

	runtime := map[string]any{
		"server": map[string]any{"port": 9000},
	}

	cfg, err := GoOptionsResolver{}.Resolve(DefaultConfig(), file, runtime)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Fatalf("expected environment port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Fatalf("expected default host, got %q", cfg.Server.Host)
	}
	if cfg.Notion.TitleProperty != "Name" {
		t.Fatalf("expected env file title property, got %q", cfg.Notion.TitleProperty)
	}
	if cfg.Notion.BaseURL != DefaultNotionBaseURL {
		t.Fatalf("expected default notion base url, got %q", cfg.Notion.BaseURL)
	}
	if cfg.MikeX.AccessKey != "ak" || cfg.Notion.RootPageID != "page_1" {
		t.Fatalf("expected secrets from env file, got %#v", cfg)
	}
}

func TestGoOptionsResolver_ProductionProfileSwitchesToJSON(t *testing.T) {
	runtime := validRuntimeLayer()
	runtime["env"] = EnvProduction

	cfg, err := GoOptionsResolver{}.Resolve(DefaultConfig(), nil, runtime)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected json logging in production, got %q", cfg.Logging.Format)
	}
}

func TestGoOptionsResolver_FailsFastWithoutSecrets(t *testing.T) {
	_, err := GoOptionsResolver{}.Resolve(DefaultConfig(), nil, nil)
	if err == nil {
		t.Fatalf("expected validation failure without secrets")
	}
}

func TestEnvConfigLoader_ReadsFirstExistingFileAndEnviron(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "MIKEX_ACCESS_KEY=file_ak\nNOTION_PAGE_ID=file_page\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	loader := NewEnvConfigLoader(filepath.Join(dir, "missing.env"), path)
	loader.Environ = func() []string {
		return []string{"NOTION_TOKEN=env_token", "MALFORMED"}
	}

	file, err := loader.LoadFile(context.Background())
	if err != nil {
		t.Fatalf("load file: %v", err)
	}
	if file["mikex"].(map[string]any)["access_key"] != "file_ak" {
		t.Fatalf("expected file access key, got %#v", file)
	}
	runtime, err := loader.LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("load raw: %v", err)
	}
	if runtime["notion"].(map[string]any)["token"] != "env_token" {
		t.Fatalf("expected environ token, got %#v", runtime)
	}
}

func TestEnvConfigLoader_NoFileIsNotAnError(t *testing.T) {
	loader := NewEnvConfigLoader(filepath.Join(t.TempDir(), "absent.env"))
	file, err := loader.LoadFile(context.Background())
	if err != nil {
		t.Fatalf("expected missing env file to be ignored, got %v", err)
	}
	if len(file) != 0 {
		t.Fatalf("expected empty layer, got %#v", file)
	}
}

func TestCfgxConfigProvider_BuildsAndValidates(t *testing.T) {
	provider := NewCfgxConfigProvider(staticRawConfigLoader{Values: validRuntimeLayer()})
	cfg, err := provider.Load(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Notion.Token != "ntn_token" {
		t.Fatalf("expected token from raw values, got %q", cfg.Notion.Token)
	}

	_, err = NewCfgxConfigProvider(nil).Load(context.Background(), DefaultConfig())
	if err == nil {
		t.Fatalf("expected defaults alone to fail validation")
	}
}
