package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/goliatone/go-config/cfgx"
	opts "github.com/goliatone/go-options"
	"github.com/joho/godotenv"
)

type ConfigProvider interface {
	Load(ctx context.Context, defaults Config) (Config, error)
}

type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type OptionsResolver interface {
	Resolve(defaults Config, file map[string]any, runtime map[string]any) (Config, error)
}

type envBinding struct {
	path    []string
	integer bool
}

var envBindings = map[string]envBinding{
	"APP_ENV":                  {path: []string{"env"}},
	"APP_HOST":                 {path: []string{"server", "host"}},
	"APP_PORT":                 {path: []string{"server", "port"}, integer: true},
	"SHUTDOWN_TIMEOUT_SECONDS": {path: []string{"server", "shutdown_timeout_seconds"}, integer: true},
	"LOG_LEVEL":                {path: []string{"logging", "level"}},
	"LOG_FORMAT":               {path: []string{"logging", "format"}},
	"MIKEX_ACCESS_KEY":         {path: []string{"mikex", "access_key"}},
	"MIKEX_SECRET_KEY":         {path: []string{"mikex", "secret_key"}},
	"NOTION_TOKEN":             {path: []string{"notion", "token"}},
	"NOTION_PAGE_ID":           {path: []string{"notion", "root_page_id"}},
	"NOTION_BASE_URL":          {path: []string{"notion", "base_url"}},
	"NOTION_VERSION":           {path: []string{"notion", "version"}},
	"NOTION_TITLE_PROPERTY":    {path: []string{"notion", "title_property"}},
	"NOTION_TIMEOUT_SECONDS":   {path: []string{"notion", "timeout_seconds"}, integer: true},
	"NOTION_MAX_READ_ATTEMPTS": {path: []string{"notion", "max_read_attempts"}, integer: true},
}

// EnvLayer maps environment style keys onto the nested config shape. Unknown
// keys are ignored and empty values are treated as unset.
func EnvLayer(values map[string]string) (map[string]any, error) {
	layer := map[string]any{}
	for key, binding := range envBindings {
		raw, ok := values[key]
		if !ok {
			continue
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		var value any = raw
		if binding.integer {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return nil, fmt.Errorf("core: %s must be an integer: %w", key, err)
			}
			value = parsed
		}
		setPath(layer, binding.path, value)
	}
	return layer, nil
}

func setPath(target map[string]any, path []string, value any) {
	current := target
	for index, key := range path {
		if index == len(path)-1 {
			current[key] = value
			return
		}
		next, ok := current[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			current[key] = next
		}
		current = next
	}
}

type EnvConfigLoader struct {
	Files   []string
	Environ func() []string
}

// NewEnvConfigLoader reads the first .env file found among files (none is not
// an error) and the process environment.
func NewEnvConfigLoader(files ...string) *EnvConfigLoader {
	if len(files) == 0 {
		files = []string{".env"}
	}
	return &EnvConfigLoader{
		Files:   append([]string(nil), files...),
		Environ: os.Environ,
	}
}

func (l *EnvConfigLoader) LoadFile(context.Context) (map[string]any, error) {
	if l == nil {
		return map[string]any{}, nil
	}
	for _, file := range l.Files {
		file = strings.TrimSpace(file)
		if file == "" {
			continue
		}
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("core: read env file %s: %w", file, err)
		}
		return EnvLayer(values)
	}
	return map[string]any{}, nil
}

func (l *EnvConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	environ := os.Environ
	if l != nil && l.Environ != nil {
		environ = l.Environ
	}
	values := map[string]string{}
	for _, entry := range environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		values[key] = value
	}
	return EnvLayer(values)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

type CfgxConfigProvider struct {
	Loader RawConfigLoader
}

func NewCfgxConfigProvider(loader RawConfigLoader) *CfgxConfigProvider {
	return &CfgxConfigProvider{Loader: loader}
}

func (p *CfgxConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type GoOptionsResolver struct{}

// Resolve merges defaults < profile defaults < env file < process env.
func (GoOptionsResolver) Resolve(defaults Config, file map[string]any, runtime map[string]any) (Config, error) {
	if file == nil {
		file = map[string]any{}
	}
	if runtime == nil {
		runtime = map[string]any{}
	}
	profile := ProfileLayer(resolveEnvName(defaults.Env, file, runtime))

	stack, err := opts.NewStack(
		opts.NewLayer(
			opts.NewScope("defaults", 0),
			configToLayerMap(defaults),
			opts.WithSnapshotID[map[string]any]("defaults"),
		),
		opts.NewLayer(
			opts.NewScope("profile", 5),
			profile,
			opts.WithSnapshotID[map[string]any]("profile"),
		),
		opts.NewLayer(
			opts.NewScope("env_file", 10),
			file,
			opts.WithSnapshotID[map[string]any]("env_file"),
		),
		opts.NewLayer(
			opts.NewScope("environment", 20),
			runtime,
			opts.WithSnapshotID[map[string]any]("environment"),
		),
	)
	if err != nil {
		return Config{}, fmt.Errorf("core: options stack build failed: %w", err)
	}
	merged, err := stack.Merge()
	if err != nil {
		return Config{}, fmt.Errorf("core: options merge failed: %w", err)
	}
	resolved, err := cfgx.Build[Config](merged.Value,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	if err := resolved.Validate(); err != nil {
		return Config{}, err
	}
	return resolved, nil
}

// ProfileLayer holds the per-environment defaults.
func ProfileLayer(env string) map[string]any {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case EnvProduction:
		return map[string]any{
			"logging": map[string]any{"level": "info", "format": "json"},
		}
	case EnvTesting:
		return map[string]any{
			"logging": map[string]any{"level": "debug", "format": "text"},
		}
	default:
		return map[string]any{
			"logging": map[string]any{"level": "debug", "format": "text"},
		}
	}
}

func resolveEnvName(fallback string, layers ...map[string]any) string {
	env := fallback
	for _, layer := range layers {
		if value, ok := layer["env"].(string); ok && strings.TrimSpace(value) != "" {
			env = value
		}
	}
	return env
}

func configToLayerMap(cfg Config) map[string]any {
	return map[string]any{
		"service_name": cfg.ServiceName,
		"env":          cfg.Env,
		"server": map[string]any{
			"host":                     cfg.Server.Host,
			"port":                     cfg.Server.Port,
			"shutdown_timeout_seconds": cfg.Server.ShutdownTimeoutSeconds,
		},
		"mikex": map[string]any{
			"access_key": cfg.MikeX.AccessKey,
			"secret_key": cfg.MikeX.SecretKey,
		},
		"notion": map[string]any{
			"token":             cfg.Notion.Token,
			"root_page_id":      cfg.Notion.RootPageID,
			"base_url":          cfg.Notion.BaseURL,
			"version":           cfg.Notion.Version,
			"title_property":    cfg.Notion.TitleProperty,
			"timeout_seconds":   cfg.Notion.TimeoutSeconds,
			"max_read_attempts": cfg.Notion.MaxReadAttempts,
		},
		"logging": map[string]any{
			"level":  cfg.Logging.Level,
			"format": cfg.Logging.Format,
		},
	}
}

// LoadConfig resolves the runtime configuration from the given env files and
// the process environment.
func LoadConfig(ctx context.Context, files ...string) (Config, error) {
	loader := NewEnvConfigLoader(files...)
	file, err := loader.LoadFile(ctx)
	if err != nil {
		return Config{}, err
	}
	runtime, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	return GoOptionsResolver{}.Resolve(DefaultConfig(), file, runtime)
}
