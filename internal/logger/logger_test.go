package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dynafed.dev/signblock/config"
)

func TestNewLogger_WritesJSONToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")
	l, err := NewLogger(&config.LogConfig{Level: "debug", Encoding: "json", OutputPath: out})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.With("run_id", "abc").Debug("slot verified", "index", 3)
	_ = l.Sync()

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(b)
	for _, want := range []string{`"msg":"slot verified"`, `"index":3`, `"run_id":"abc"`, `"timestamp"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q missing %s", line, want)
		}
	}
}

func TestNewLogger_LevelFilters(t *testing.T) {
	out := filepath.Join(t.TempDir(), "log.json")
	l, err := NewLogger(&config.LogConfig{Level: "warn", Encoding: "json", OutputPath: out})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	l.Info("dropped")
	l.Warn("kept")
	_ = l.Sync()
	b, _ := os.ReadFile(out)
	if strings.Contains(string(b), "dropped") || !strings.Contains(string(b), "kept") {
		t.Fatalf("unexpected log output: %s", b)
	}
}

func TestNewLogger_NilConfig(t *testing.T) {
	if _, err := NewLogger(nil); err == nil {
		t.Fatalf("expected error")
	}
}

func TestArgsToFields(t *testing.T) {
	fields := argsToFields("a", 1, 2, "skipped", "dangling")
	if len(fields) != 1 || fields[0].Key != "a" {
		t.Fatalf("fields=%v", fields)
	}
}
