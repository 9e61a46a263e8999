package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/optimapped/optimapped/internal/config"
)

func TestNewWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	logger, err := New(config.LogConfig{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("map saved")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := strings.TrimSpace(strings.Split(string(raw), "\n")[0])

	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("log line is not JSON: %q", line)
	}
	if entry["msg"] != "map saved" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["app"] != "optimapped" {
		t.Errorf("app = %v", entry["app"])
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if _, err := New(config.LogConfig{Level: "loud", File: path}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatal("expected a logger")
	}
}
