// Package logger provides leveled, structured JSON logging for the merit
// portal. Entries are written as flat JSON objects so they can be ingested
// by log collectors without unnesting.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Level is the minimum severity a logger will emit.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a configuration string to a Level. Unrecognized values
// fall back to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Field is a single structured attribute attached to a log entry.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field      { return Field{Key: key, Value: value} }
func Int(key string, value int) Field     { return Field{Key: key, Value: value} }
func Int64(key string, value int64) Field { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field   { return Field{Key: key, Value: value} }
func Any(key string, value any) Field     { return Field{Key: key, Value: value} }

// Duration renders the value in its human-readable form ("1.5s", "20ms").
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

// Err attaches an error under the conventional "error" key.
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Options configures a Logger.
type Options struct {
	// Output defaults to os.Stdout.
	Output io.Writer
	Level  Level
	// AddCaller records the short file:line of the call site.
	AddCaller bool
}

// Logger writes structured entries at or above its configured level.
// It is safe for concurrent use; With produces derived loggers that
// share the underlying writer.
type Logger struct {
	mu        *sync.Mutex
	out       io.Writer
	level     Level
	addCaller bool
	base      []Field
}

// New builds a Logger from opts.
func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	return &Logger{
		mu:        &sync.Mutex{},
		out:       out,
		level:     opts.Level,
		addCaller: opts.AddCaller,
	}
}

// Default returns an info-level logger on stdout with caller annotation.
func Default() *Logger {
	return New(Options{Level: LevelInfo, AddCaller: true})
}

// With returns a derived logger that includes fields on every entry.
func (l *Logger) With(fields ...Field) *Logger {
	child := *l
	child.base = append(append([]Field(nil), l.base...), fields...)
	return &child
}

func (l *Logger) Debug(msg string, fields ...Field) { l.emit(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.emit(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.emit(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.emit(LevelError, msg, fields) }

func (l *Logger) emit(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}

	// Reserved keys plus attached fields, flattened into one object.
	entry := make(map[string]any, len(l.base)+len(fields)+4)
	for _, f := range l.base {
		entry[f.Key] = f.Value
	}
	for _, f := range fields {
		entry[f.Key] = f.Value
	}
	entry["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["msg"] = msg
	if l.addCaller {
		if caller := callSite(3); caller != "" {
			entry["caller"] = caller
		}
	}

	line, err := json.Marshal(entry)
	if err != nil {
		line = []byte(fmt.Sprintf(`{"level":%q,"msg":%q,"marshal_error":%q}`,
			level.String(), msg, err.Error()))
	}
	line = append(line, '\n')

	l.mu.Lock()
	l.out.Write(line)
	l.mu.Unlock()
}

// callSite returns "file.go:42" for the frame skip levels up the stack.
func callSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok {
		return ""
	}
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		file = file[idx+1:]
	}
	return fmt.Sprintf("%s:%d", file, line)
}
