package gologger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-formsync/core"
	glog "github.com/goliatone/go-logger/glog"
)

func TestResolveDeterministicFallback(t *testing.T) {
	loggerOnly := &capturingLogger{id: "logger"}
	providerLogger := &capturingLogger{id: "provider"}
	provider := &capturingProvider{logger: providerLogger}

	_, resolved := Resolve("formsync", provider, loggerOnly)
	if got := resolved.(*capturingLogger); got.id != "provider" {
		t.Fatalf("expected provider logger precedence, got %q", got.id)
	}

	resolvedProvider, resolved := Resolve("formsync", nil, loggerOnly)
	if got := resolved.(*capturingLogger); got.id != "logger" {
		t.Fatalf("expected direct logger when provider is nil, got %q", got.id)
	}
	if resolvedProvider == nil {
		t.Fatalf("expected provider wrapper from logger")
	}

	if _, resolved = Resolve("formsync", nil, nil); resolved == nil {
		t.Fatalf("expected nop logger fallback")
	}
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("decode %q: %v", line, err)
		}
		lines = append(lines, entry)
	}
	return lines
}

func TestSlogLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(core.LoggingConfig{Level: "info", Format: "json"}, &buf)

	logger.Debug("hidden")
	logger.Info("sync done", "row_id", "row-1", "error", errors.New("boom"))

	lines := decodeLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("expected debug to be filtered, got %d lines", len(lines))
	}
	entry := lines[0]
	if entry["msg"] != "sync done" || entry["level"] != "INFO" {
		t.Fatalf("unexpected entry %#v", entry)
	}
	if entry["row_id"] != "row-1" || entry["error"] != "boom" {
		t.Fatalf("expected structured args, got %#v", entry)
	}
}

func TestSlogLoggerTraceAndFatalLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New(core.LoggingConfig{Level: "trace", Format: "json"}, &buf)
	exitCode := -1
	logger.exit = func(code int) { exitCode = code }

	logger.Trace("deep")
	logger.Fatal("dead")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 || lines[0]["level"] != "TRACE" || lines[1]["level"] != "FATAL" {
		t.Fatalf("unexpected levels %#v", lines)
	}
	if exitCode != 1 {
		t.Fatalf("expected fatal to exit with 1, got %d", exitCode)
	}
}

func TestProviderNamesChildLoggers(t *testing.T) {
	var buf bytes.Buffer
	provider := NewProvider(New(core.LoggingConfig{Level: "debug", Format: "json"}, &buf))

	provider.GetLogger("notion").Warn("slow")
	fields, ok := provider.GetLogger("inbound").(glog.FieldsLogger)
	if !ok {
		t.Fatalf("expected fields logger")
	}
	fields.WithFields(map[string]any{"req_uuid": "r1"}).WithContext(context.Background()).Error("failed")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %d", len(lines))
	}
	if lines[0]["logger"] != "notion" || lines[0]["level"] != "WARN" {
		t.Fatalf("unexpected first line %#v", lines[0])
	}
	if lines[1]["logger"] != "inbound" || lines[1]["req_uuid"] != "r1" {
		t.Fatalf("unexpected second line %#v", lines[1])
	}
}

func TestTextFormatIsDefault(t *testing.T) {
	var buf bytes.Buffer
	New(core.LoggingConfig{Level: "info"}, &buf).Info("hello", "k", "v")
	if !strings.Contains(buf.String(), "msg=hello") || !strings.Contains(buf.String(), "k=v") {
		t.Fatalf("expected text output, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]string{"": "INFO", "DEBUG": "DEBUG", "warning": "WARN", "error": "ERROR", "bogus": "INFO"}
	for input, want := range cases {
		if got := levelName(ParseLevel(input)); got != want {
			t.Fatalf("%q: expected %s, got %s", input, want, got)
		}
	}
}

var (
	_ glog.Logger         = (*capturingLogger)(nil)
	_ glog.LoggerProvider = (*capturingProvider)(nil)
)

type capturingProvider struct {
	logger *capturingLogger
}

func (p *capturingProvider) GetLogger(string) glog.Logger {
	if p == nil || p.logger == nil {
		return glog.Nop()
	}
	return p.logger
}

type capturingLogger struct {
	id string
}

func (l *capturingLogger) Trace(string, ...any) {}
func (l *capturingLogger) Debug(string, ...any) {}
func (l *capturingLogger) Info(string, ...any)  {}
func (l *capturingLogger) Warn(string, ...any)  {}
func (l *capturingLogger) Error(string, ...any) {}
func (l *capturingLogger) Fatal(string, ...any) {}

func (l *capturingLogger) WithContext(context.Context) glog.Logger {
	return l
}
