package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerStdoutOnly(t *testing.T) {
	l, err := NewLogger("")
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	// No directory, no files; these must simply not panic.
	l.Info("starting")
	l.Error("boom: %v", os.ErrNotExist)
	l.Access("127.0.0.1", "GET", "/api/health", "HTTP/1.1", 200, 17, "curl/8.0", "abc-123")
}

func TestNewLoggerWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	l, err := NewLogger(dir)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	l.Info("server ready on %s", "127.0.0.1:5055")
	l.Error("something failed")
	l.Access("10.0.0.1", "POST", "/api/devices", "HTTP/1.1", 201, 120, "test-agent", "req-1")

	read := func(name string) string {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("Failed to read %s: %v", name, err)
		}
		return string(data)
	}

	if !strings.Contains(read("server.log"), "server ready on 127.0.0.1:5055") {
		t.Error("server.log missing info line")
	}
	if !strings.Contains(read("error.log"), "something failed") {
		t.Error("error.log missing error line")
	}
	access := read("access.log")
	for _, want := range []string{"10.0.0.1", "POST /api/devices HTTP/1.1", "201", "req-1"} {
		if !strings.Contains(access, want) {
			t.Errorf("access.log missing %q: %s", want, access)
		}
	}
}
