package obslog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"":        zapcore.WarnLevel,
		"verbose": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_TO_CONSOLE", "")
	t.Setenv("LOG_TO_FILE", "")
	o := OptionsFromEnv()
	if o.Level != "warn" || !o.Console || o.File != "" {
		t.Fatalf("unexpected defaults %+v", o)
	}

	t.Setenv("LOG_TO_FILE", "true")
	t.Setenv("LOG_FILE", "x.log")
	if o := OptionsFromEnv(); o.File != "x.log" {
		t.Fatalf("file = %q", o.File)
	}
}

func TestInitFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "test.log")
	t.Cleanup(func() { Set(nil) })

	if err := Init(Options{Level: "info", Format: "json", File: path}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	L().Info("report_written")
	L().Debug("hidden")
	Sync()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), `"msg":"report_written"`) || strings.Contains(string(b), "hidden") {
		t.Fatalf("unexpected log content: %s", b)
	}
}

func TestInitConsoleSink(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { Set(nil) })

	if err := Init(Options{Level: "warn", Format: "legacy", Console: true, Stderr: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	L().Info("quiet")
	L().Warn("report_cache_save_failed")

	out := buf.String()
	if strings.Contains(out, "quiet") || !strings.Contains(out, " | WARN | ") {
		t.Fatalf("unexpected console output %q", out)
	}
}

func TestInitNoSinks(t *testing.T) {
	if err := Init(Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	L().Error("dropped")
}
