package gologger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/goliatone/go-formsync/core"
	glog "github.com/goliatone/go-logger/glog"
)

const (
	LevelTrace = slog.LevelDebug - 4
	LevelFatal = slog.LevelError + 4
)

// SlogLogger is the glog sink used by the binary: text output for local runs,
// JSON in production.
type SlogLogger struct {
	handler slog.Handler
	ctx     context.Context
	exit    func(code int)
}

// New builds a logger from the logging section of the config. A nil writer
// means stderr.
func New(cfg core.LoggingConfig, w io.Writer) *SlogLogger {
	if w == nil {
		w = os.Stderr
	}
	options := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key != slog.LevelKey {
				return attr
			}
			if level, ok := attr.Value.Any().(slog.Level); ok {
				attr.Value = slog.StringValue(levelName(level))
			}
			return attr
		},
	}
	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "json") {
		handler = slog.NewJSONHandler(w, options)
	} else {
		handler = slog.NewTextHandler(w, options)
	}
	return &SlogLogger{handler: handler, exit: os.Exit}
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "fatal":
		return LevelFatal
	default:
		return slog.LevelInfo
	}
}

func levelName(level slog.Level) string {
	switch {
	case level <= LevelTrace:
		return "TRACE"
	case level >= LevelFatal:
		return "FATAL"
	default:
		return level.String()
	}
}

func (l *SlogLogger) Trace(msg string, args ...any) { l.log(LevelTrace, msg, args) }
func (l *SlogLogger) Debug(msg string, args ...any) { l.log(slog.LevelDebug, msg, args) }
func (l *SlogLogger) Info(msg string, args ...any)  { l.log(slog.LevelInfo, msg, args) }
func (l *SlogLogger) Warn(msg string, args ...any)  { l.log(slog.LevelWarn, msg, args) }
func (l *SlogLogger) Error(msg string, args ...any) { l.log(slog.LevelError, msg, args) }

// Fatal logs and exits the process with status 1.
func (l *SlogLogger) Fatal(msg string, args ...any) {
	l.log(LevelFatal, msg, args)
	if l != nil && l.exit != nil {
		l.exit(1)
	}
}

func (l *SlogLogger) WithContext(ctx context.Context) glog.Logger {
	if l == nil {
		return glog.Nop()
	}
	clone := *l
	clone.ctx = ctx
	return &clone
}

func (l *SlogLogger) WithFields(fields map[string]any) glog.Logger {
	if l == nil {
		return glog.Nop()
	}
	if len(fields) == 0 {
		return l
	}
	attrs := make([]slog.Attr, 0, len(fields))
	for key, value := range fields {
		attrs = append(attrs, slog.Any(key, normalizeValue(value)))
	}
	clone := *l
	clone.handler = l.handler.WithAttrs(attrs)
	return &clone
}

func (l *SlogLogger) named(name string) *SlogLogger {
	clone := *l
	clone.handler = l.handler.WithAttrs([]slog.Attr{slog.String("logger", name)})
	return &clone
}

func (l *SlogLogger) log(level slog.Level, msg string, args []any) {
	if l == nil || l.handler == nil {
		return
	}
	ctx := l.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if !l.handler.Enabled(ctx, level) {
		return
	}
	logger := slog.New(l.handler)
	logger.Log(ctx, level, msg, normalizeArgs(args)...)
}

// normalizeArgs renders error values as strings; slog's JSON handler would
// otherwise encode them as empty objects.
func normalizeArgs(args []any) []any {
	out := make([]any, len(args))
	for index, arg := range args {
		out[index] = normalizeValue(arg)
	}
	return out
}

func normalizeValue(value any) any {
	if err, ok := value.(error); ok && err != nil {
		return err.Error()
	}
	return value
}

// Provider hands out named children of one base logger.
type Provider struct {
	base *SlogLogger
}

func NewProvider(base *SlogLogger) *Provider {
	return &Provider{base: base}
}

func (p *Provider) GetLogger(name string) glog.Logger {
	if p == nil || p.base == nil {
		return glog.Nop()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return p.base
	}
	return p.base.named(name)
}

var (
	_ glog.Logger         = (*SlogLogger)(nil)
	_ glog.FieldsLogger   = (*SlogLogger)(nil)
	_ glog.LoggerProvider = (*Provider)(nil)
)
