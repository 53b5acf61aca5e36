// Package config loads application configuration: defaults, then an
// optional server.yml, then environment variables (which win). A .env
// file in the working directory is honored the way the deployment
// scripts expect.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	// development or production; production enables static SPA serving
	Mode string `yaml:"mode"`

	Bind           string `yaml:"bind"`
	Port           int    `yaml:"port"`
	DBFile         string `yaml:"db_file"`
	ClientDistPath string `yaml:"client_dist_path"`
	LogDir         string `yaml:"log_dir"`

	Redirect RedirectConfig `yaml:"redirect"`
	Backup   BackupConfig   `yaml:"backup"`
}

// RedirectConfig configures the auxiliary redirect-only listener. The
// listener runs only when Target is set.
type RedirectConfig struct {
	Port   int    `yaml:"port"`
	Target string `yaml:"target"`
}

// BackupConfig configures the scheduled database snapshots.
type BackupConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Dir      string `yaml:"dir"`
	Keep     int    `yaml:"keep"`
	Schedule string `yaml:"schedule"`
}

// IsProduction reports whether static asset serving should be enabled.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Mode, "production")
}

// Load builds the configuration. Order of precedence, lowest first:
// built-in defaults, server.yml (path overridable via CONFIG_FILE),
// environment variables.
func Load() (*Config, error) {
	// Missing .env is fine; values already in the environment win anyway.
	_ = godotenv.Load()

	cfg := &Config{
		Mode:   "development",
		Bind:   "127.0.0.1",
		Port:   5055,
		DBFile: "./data.db",
		Redirect: RedirectConfig{
			Port: 5173,
		},
		Backup: BackupConfig{
			Dir:      "./backups",
			Keep:     7,
			Schedule: "0 3 * * *",
		},
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = "server.yml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Mode, "MODE")
	setString(&cfg.Bind, "BIND")
	setInt(&cfg.Port, "PORT")
	setString(&cfg.DBFile, "DB_FILE")
	setString(&cfg.ClientDistPath, "CLIENT_DIST_PATH")
	setString(&cfg.LogDir, "LOG_DIR")

	setInt(&cfg.Redirect.Port, "REDIRECT_PORT")
	setString(&cfg.Redirect.Target, "REDIRECT_TARGET")

	if v := os.Getenv("BACKUP_ENABLED"); v != "" {
		cfg.Backup.Enabled = IsTruthy(v)
	}
	setString(&cfg.Backup.Dir, "BACKUP_DIR")
	setInt(&cfg.Backup.Keep, "BACKUP_KEEP")
	setString(&cfg.Backup.Schedule, "BACKUP_SCHEDULE")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// IsTruthy interprets common boolean spellings in environment values.
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on", "enabled":
		return true
	}
	return false
}
