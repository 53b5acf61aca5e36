package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestIsTruthy(t *testing.T) {
	truthy := []string{"1", "true", "TRUE", " yes ", "on", "Enabled"}
	for _, v := range truthy {
		if !IsTruthy(v) {
			t.Errorf("IsTruthy(%q) = false, want true", v)
		}
	}

	falsy := []string{"", "0", "false", "no", "off", "nope"}
	for _, v := range falsy {
		if IsTruthy(v) {
			t.Errorf("IsTruthy(%q) = true, want false", v)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Mode != "development" {
		t.Errorf("Mode = %q, want development", cfg.Mode)
	}
	if cfg.Bind != "127.0.0.1" || cfg.Port != 5055 {
		t.Errorf("Listen = %s:%d, want 127.0.0.1:5055", cfg.Bind, cfg.Port)
	}
	if cfg.DBFile != "./data.db" {
		t.Errorf("DBFile = %q", cfg.DBFile)
	}
	if cfg.Redirect.Port != 5173 {
		t.Errorf("Redirect port = %d, want 5173", cfg.Redirect.Port)
	}
	if cfg.Backup.Enabled {
		t.Error("Backup enabled by default")
	}
	if cfg.Backup.Schedule != "0 3 * * *" {
		t.Errorf("Backup schedule = %q", cfg.Backup.Schedule)
	}
	if cfg.IsProduction() {
		t.Error("Development config reports production")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yml"))
	t.Setenv("MODE", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_FILE", "/var/lib/chipdesk/data.db")
	t.Setenv("BACKUP_ENABLED", "yes")
	t.Setenv("BACKUP_KEEP", "3")
	t.Setenv("REDIRECT_TARGET", "https://example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("MODE=production not applied")
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.DBFile != "/var/lib/chipdesk/data.db" {
		t.Errorf("DBFile = %q", cfg.DBFile)
	}
	if !cfg.Backup.Enabled || cfg.Backup.Keep != 3 {
		t.Errorf("Backup = %+v", cfg.Backup)
	}
	if cfg.Redirect.Target != "https://example.com" {
		t.Errorf("Redirect target = %q", cfg.Redirect.Target)
	}
}

func TestLoadYAMLFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yml")
	yml := []byte("mode: production\nport: 9000\nlog_dir: /tmp/logs\n")
	if err := os.WriteFile(path, yml, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Mode != "production" {
		t.Errorf("Mode = %q, want value from file", cfg.Mode)
	}
	if cfg.LogDir != "/tmp/logs" {
		t.Errorf("LogDir = %q, want value from file", cfg.LogDir)
	}
	// Environment wins over the file.
	if cfg.Port != 9100 {
		t.Errorf("Port = %d, want env override 9100", cfg.Port)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.yml")
	if err := os.WriteFile(path, []byte("mode: [unclosed"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Error("Malformed YAML accepted")
	}
}
