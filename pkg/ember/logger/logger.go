// Package logger provides the leveled structured logger used across ember.
//
// Output format: one JSON object per line
//
//	{"time":"2026-01-02T15:04:05Z","level":"info","msg":"listening","fields":{"addr":":9999"}}
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel maps a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("logger: unknown level %q", s)
	}
}

// Logger is the logging surface ember components depend on.
// kv holds alternating keys and values.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
}

// Entry is one encoded log record.
type Entry struct {
	Time   string         `json:"time"`
	Level  string         `json:"level"`
	Msg    string         `json:"msg"`
	Fields map[string]any `json:"fields,omitempty"`
}

// JSON writes entries at or above its level to an io.Writer.
// It is safe for concurrent use.
type JSON struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
	now   func() time.Time
}

// New returns a JSON logger writing to out. A nil out means os.Stdout.
func New(out io.Writer, level Level) *JSON {
	if out == nil {
		out = os.Stdout
	}
	return &JSON{out: out, level: level, now: time.Now}
}

// Default returns an info-level JSON logger on stdout.
func Default() *JSON {
	return New(os.Stdout, LevelInfo)
}

// Enabled reports whether records at level l are written.
func (j *JSON) Enabled(l Level) bool {
	return l >= j.level
}

func (j *JSON) Debug(msg string, kv ...any) { j.log(LevelDebug, msg, kv) }
func (j *JSON) Info(msg string, kv ...any)  { j.log(LevelInfo, msg, kv) }
func (j *JSON) Warn(msg string, kv ...any)  { j.log(LevelWarn, msg, kv) }
func (j *JSON) Error(msg string, kv ...any) { j.log(LevelError, msg, kv) }

func (j *JSON) log(level Level, msg string, kv []any) {
	if !j.Enabled(level) {
		return
	}

	entry := Entry{
		Time:   j.now().UTC().Format(time.RFC3339Nano),
		Level:  level.String(),
		Msg:    msg,
		Fields: fields(kv),
	}

	line, err := json.Marshal(entry)
	if err != nil {
		log.Printf("logger: failed to encode entry: %v", err)
		return
	}
	line = append(line, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.out.Write(line); err != nil {
		log.Printf("logger: failed to write entry: %v", err)
	}
}

// fields pairs up kv. Errors and Stringers are rendered as text so they survive
// encoding; a trailing key without value is kept under "!BADKEY".
func fields(kv []any) map[string]any {
	if len(kv) == 0 {
		return nil
	}
	m := make(map[string]any, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		if i+1 == len(kv) {
			m["!BADKEY"] = value(kv[i])
			break
		}
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		m[key] = value(kv[i+1])
	}
	return m
}

func value(v any) any {
	switch v := v.(type) {
	case error:
		return v.Error()
	case time.Duration:
		return v.String()
	case fmt.Stringer:
		return v.String()
	default:
		return v
	}
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}
