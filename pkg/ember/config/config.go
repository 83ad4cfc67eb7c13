// Package config loads process configuration for an ember server from a
// KEY=VALUE properties file or a YAML document.
//
// Recognized keys (YAML uses the lower-case form, e.g. listener_port):
//
//	LISTENER_PORT     TCP port to listen on
//	CONCURRENCY_PEAK  number of worker slots
//	READ_LIMIT        bytes of the single header read
//	READ_TIMEOUT_MS   read deadline in milliseconds, 0 disables it
//	MAX_BODY_BYTES    Content-Length cap, negative disables it
//	LOG_LEVEL         debug, info, warn or error
//	PUBLIC_DIR        directory served by static handlers
//	METRICS_ADDR      address of the Prometheus endpoint, empty disables it
//	CACHE_ENTRIES     static file cache capacity, 0 disables caching
//
// Unknown keys are ignored. Malformed values are errors.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/yourusername/ember/pkg/ember/logger"
	"github.com/yourusername/ember/pkg/ember/server"
)

// Property keys
const (
	KeyListenerPort  = "LISTENER_PORT"
	KeyConcurrency   = "CONCURRENCY_PEAK"
	KeyReadLimit     = "READ_LIMIT"
	KeyReadTimeoutMS = "READ_TIMEOUT_MS"
	KeyMaxBodyBytes  = "MAX_BODY_BYTES"
	KeyLogLevel      = "LOG_LEVEL"
	KeyPublicDir     = "PUBLIC_DIR"
	KeyMetricsAddr   = "METRICS_ADDR"
	KeyCacheEntries  = "CACHE_ENTRIES"
)

// ErrInvalidValue indicates a key carried a value of the wrong shape or range
var ErrInvalidValue = errors.New("config: invalid value")

// Config is the complete process configuration.
type Config struct {
	// Server is handed to server.New; Logger is left for the caller to set
	Server server.Config

	// PublicDir is the root of static files
	// Default: "public"
	PublicDir string

	// MetricsAddr serves /metrics when non-empty
	// Default: "" (disabled)
	MetricsAddr string

	// LogLevel is the minimum level written
	// Default: info
	LogLevel logger.Level

	// CacheEntries bounds the static file cache
	// Default: 128
	CacheEntries int
}

// Default returns the configuration used when no file is given.
func Default() Config {
	srv := server.DefaultConfig()
	srv.Logger = nil
	return Config{
		Server:       srv,
		PublicDir:    "public",
		MetricsAddr:  "",
		LogLevel:     logger.LevelInfo,
		CacheEntries: 128,
	}
}

// Load reads path on top of Default. Files ending in .yaml or .yml are
// decoded as YAML, anything else as properties.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := io.ReadAll(f)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		return ParseYAML(data)
	default:
		return Parse(f)
	}
}

// Parse reads KEY=VALUE lines. Blank lines and lines starting with '#' or '!'
// are skipped; only the first '=' separates key from value.
func Parse(r io.Reader) (Config, error) {
	values := make(map[string]string)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return Config{}, fmt.Errorf("config: line %d: missing '=' in %q", lineNo, line)
		}
		values[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	return build(values)
}

// ParseYAML decodes a flat YAML mapping using the lower-case key names.
func ParseYAML(data []byte) (Config, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("config: yaml: %w", err)
	}

	values := make(map[string]string, len(doc))
	for k, v := range doc {
		if v == nil {
			values[strings.ToUpper(k)] = ""
			continue
		}
		values[strings.ToUpper(k)] = fmt.Sprint(v)
	}
	return build(values)
}

func build(values map[string]string) (Config, error) {
	cfg := Default()

	if v, ok := values[KeyListenerPort]; ok {
		port, err := parseInt(KeyListenerPort, v, 0, 65535)
		if err != nil {
			return Config{}, err
		}
		cfg.Server.Addr = ":" + strconv.Itoa(port)
	}
	if v, ok := values[KeyConcurrency]; ok {
		n, err := parseInt(KeyConcurrency, v, 1, 1<<20)
		if err != nil {
			return Config{}, err
		}
		cfg.Server.Workers = n
	}
	if v, ok := values[KeyReadLimit]; ok {
		n, err := parseInt(KeyReadLimit, v, 16, 1<<20)
		if err != nil {
			return Config{}, err
		}
		cfg.Server.ReadLimit = n
	}
	if v, ok := values[KeyReadTimeoutMS]; ok {
		ms, err := parseInt(KeyReadTimeoutMS, v, 0, 1<<31-1)
		if err != nil {
			return Config{}, err
		}
		cfg.Server.ReadTimeout = time.Duration(ms) * time.Millisecond
	}
	if v, ok := values[KeyMaxBodyBytes]; ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n == 0 {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidValue, KeyMaxBodyBytes, v)
		}
		cfg.Server.MaxBodyBytes = n
	}
	if v, ok := values[KeyLogLevel]; ok {
		level, err := logger.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("%w: %s=%q", ErrInvalidValue, KeyLogLevel, v)
		}
		cfg.LogLevel = level
	}
	if v, ok := values[KeyPublicDir]; ok {
		if v == "" {
			return Config{}, fmt.Errorf("%w: %s is empty", ErrInvalidValue, KeyPublicDir)
		}
		cfg.PublicDir = v
	}
	if v, ok := values[KeyMetricsAddr]; ok {
		cfg.MetricsAddr = v
	}
	if v, ok := values[KeyCacheEntries]; ok {
		n, err := parseInt(KeyCacheEntries, v, 0, 1<<20)
		if err != nil {
			return Config{}, err
		}
		cfg.CacheEntries = n
	}

	return cfg, nil
}

func parseInt(key, v string, min, max int) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("%w: %s=%q (want integer in [%d, %d])", ErrInvalidValue, key, v, min, max)
	}
	return n, nil
}
