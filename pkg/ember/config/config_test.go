package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yourusername/ember/pkg/ember/logger"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", cfg.Server.Addr)
	}
	if cfg.Server.Workers != 64 {
		t.Errorf("Workers = %d, want 64", cfg.Server.Workers)
	}
	if cfg.Server.Logger != nil {
		t.Error("Default should leave Logger unset")
	}
	if cfg.PublicDir != "public" || cfg.MetricsAddr != "" || cfg.LogLevel != logger.LevelInfo {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestParseProperties(t *testing.T) {
	input := `
# ember server
LISTENER_PORT=8080
CONCURRENCY_PEAK = 16
READ_LIMIT=8192
READ_TIMEOUT_MS=2500
MAX_BODY_BYTES=-1
LOG_LEVEL=debug
PUBLIC_DIR=/srv/www
METRICS_ADDR=127.0.0.1:9100
CACHE_ENTRIES=0
! legacy comment
UNKNOWN_KEY=ignored
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.Workers != 16 {
		t.Errorf("Workers = %d", cfg.Server.Workers)
	}
	if cfg.Server.ReadLimit != 8192 {
		t.Errorf("ReadLimit = %d", cfg.Server.ReadLimit)
	}
	if cfg.Server.ReadTimeout != 2500*time.Millisecond {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.MaxBodyBytes != -1 {
		t.Errorf("MaxBodyBytes = %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.LogLevel != logger.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
	if cfg.PublicDir != "/srv/www" || cfg.MetricsAddr != "127.0.0.1:9100" || cfg.CacheEntries != 0 {
		t.Errorf("unexpected values: %+v", cfg)
	}
}

func TestParseValueWithEquals(t *testing.T) {
	cfg, err := Parse(strings.NewReader("PUBLIC_DIR=/srv/a=b\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if cfg.PublicDir != "/srv/a=b" {
		t.Errorf("PublicDir = %q", cfg.PublicDir)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"port not a number", "LISTENER_PORT=http"},
		{"port out of range", "LISTENER_PORT=70000"},
		{"zero workers", "CONCURRENCY_PEAK=0"},
		{"tiny read limit", "READ_LIMIT=4"},
		{"negative timeout", "READ_TIMEOUT_MS=-5"},
		{"zero body cap", "MAX_BODY_BYTES=0"},
		{"bad level", "LOG_LEVEL=loud"},
		{"empty public dir", "PUBLIC_DIR="},
		{"negative cache", "CACHE_ENTRIES=-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			if !errors.Is(err, ErrInvalidValue) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidValue", tt.input, err)
			}
		})
	}
}

func TestParseMissingEquals(t *testing.T) {
	_, err := Parse(strings.NewReader("LISTENER_PORT=1\nnonsense\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error = %v, want line 2 reported", err)
	}
}

func TestParseYAML(t *testing.T) {
	input := `
listener_port: 7000
concurrency_peak: 8
log_level: warn
public_dir: ./site
metrics_addr: ":9100"
`
	cfg, err := ParseYAML([]byte(input))
	if err != nil {
		t.Fatalf("ParseYAML failed: %v", err)
	}
	if cfg.Server.Addr != ":7000" || cfg.Server.Workers != 8 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.LogLevel != logger.LevelWarn || cfg.PublicDir != "./site" || cfg.MetricsAddr != ":9100" {
		t.Errorf("unexpected values: %+v", cfg)
	}
}

func TestParseYAMLInvalid(t *testing.T) {
	if _, err := ParseYAML([]byte("concurrency_peak: many\n")); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("error = %v, want ErrInvalidValue", err)
	}
	if _, err := ParseYAML([]byte("listener_port: [1, 2\n")); err == nil {
		t.Error("malformed YAML should fail")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	props := filepath.Join(dir, "ember.properties")
	if err := os.WriteFile(props, []byte("LISTENER_PORT=1234\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(props)
	if err != nil || cfg.Server.Addr != ":1234" {
		t.Errorf("Load(properties) = %q, %v", cfg.Server.Addr, err)
	}

	yml := filepath.Join(dir, "ember.yml")
	if err := os.WriteFile(yml, []byte("listener_port: 4321\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(yml)
	if err != nil || cfg.Server.Addr != ":4321" {
		t.Errorf("Load(yaml) = %q, %v", cfg.Server.Addr, err)
	}

	if _, err := Load(filepath.Join(dir, "missing.properties")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want ErrNotExist", err)
	}
}
