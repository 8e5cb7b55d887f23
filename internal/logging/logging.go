// Package logging provides structured logging for clinfo
// Log records are written through zerolog to a size-rotated file
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level represents log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerologLevel() zerolog.Level {
	switch l {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ParseLevel reads a level name such as "debug" or "WARN"
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
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger provides structured logging
type Logger struct {
	root      zerolog.Logger
	zl        zerolog.Logger
	sink      *rotatingFile
	filePath  string
	component string
	fields    map[string]any
}

// Config holds logger configuration
type Config struct {
	Level     Level
	FilePath  string
	MaxSizeMB int  // Max log file size in MB (default 10)
	JSONMode  bool // Output as JSON
	Component string
}

// DefaultConfig returns default logger configuration
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Level:     LevelInfo,
		FilePath:  filepath.Join(home, ".cache", "clinfo", "clinfo.log"),
		MaxSizeMB: 10,
		Component: "clinfo",
	}
}

var (
	defaultLogger *Logger
	mu            sync.Mutex
)

// Init installs the default logger, closing the one it replaces
func Init(cfg Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	mu.Lock()
	prev := defaultLogger
	defaultLogger = l
	mu.Unlock()
	if prev != nil {
		prev.Close()
	}
	return nil
}

// Default returns the logger installed by Init, or a discarding logger
// before Init is called
func Default() *Logger {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		return Nop()
	}
	return defaultLogger
}

// Close closes the default logger and uninstalls it
func Close() error {
	mu.Lock()
	l := defaultLogger
	defaultLogger = nil
	mu.Unlock()
	if l == nil {
		return nil
	}
	return l.Close()
}

// New creates a new logger. A log file that cannot be opened falls back to
// stderr
func New(cfg Config) (*Logger, error) {
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}

	var out io.Writer = os.Stderr
	var sink *rotatingFile
	if cfg.FilePath != "" {
		sink = &rotatingFile{path: cfg.FilePath, maxSize: int64(cfg.MaxSizeMB) * 1024 * 1024}
		if err := sink.open(); err != nil {
			sink = nil
		} else {
			out = sink
		}
	}
	return newLogger(out, cfg, sink), nil
}

// NewWriter creates a logger that writes to w without rotation
func NewWriter(w io.Writer, cfg Config) *Logger {
	return newLogger(w, cfg, nil)
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{root: zerolog.Nop(), zl: zerolog.Nop()}
}

func newLogger(out io.Writer, cfg Config, sink *rotatingFile) *Logger {
	if !cfg.JSONMode {
		out = zerolog.ConsoleWriter{Out: out, NoColor: true, TimeFormat: time.DateTime}
	}
	l := &Logger{
		root:      zerolog.New(out).Level(cfg.Level.zerologLevel()).With().Timestamp().Logger(),
		sink:      sink,
		filePath:  cfg.FilePath,
		component: cfg.Component,
	}
	l.build()
	return l
}

// build derives the emitting logger from root, the component and fields
func (l *Logger) build() {
	ctx := l.root.With()
	if l.component != "" {
		ctx = ctx.Str("component", l.component)
	}
	if len(l.fields) > 0 {
		ctx = ctx.Fields(l.fields)
	}
	l.zl = ctx.Logger()
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.sink == nil {
		return nil
	}
	return l.sink.Close()
}

// WithComponent returns a new logger with the given component name
func (l *Logger) WithComponent(component string) *Logger {
	return l.derive(component, l.fields)
}

// WithField returns a new logger with the given field added
func (l *Logger) WithField(key string, value any) *Logger {
	return l.WithFields(map[string]any{key: value})
}

// WithFields returns a new logger with the given fields added
func (l *Logger) WithFields(fields map[string]any) *Logger {
	merged := copyFields(l.fields)
	for k, v := range fields {
		merged[k] = v
	}
	return l.derive(l.component, merged)
}

func (l *Logger) derive(component string, fields map[string]any) *Logger {
	d := &Logger{
		root:      l.root,
		sink:      l.sink,
		filePath:  l.filePath,
		component: component,
		fields:    fields,
	}
	d.build()
	return d
}

func copyFields(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level Level) {
	l.root = l.root.Level(level.zerologLevel())
	l.build()
}

// GetLevel reports the minimum log level
func (l *Logger) GetLevel() Level {
	switch l.zl.GetLevel() {
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return LevelDebug
	case zerolog.WarnLevel:
		return LevelWarn
	case zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel:
		return LevelError
	}
	return LevelInfo
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) {
	l.zl.Debug().Caller(1).Msg(msg)
}

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...any) {
	l.zl.Debug().Caller(1).Msgf(format, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string) {
	l.zl.Info().Msg(msg)
}

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string) {
	l.zl.Warn().Msg(msg)
}

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string) {
	l.zl.Error().Caller(1).Msg(msg)
}

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...any) {
	l.zl.Error().Caller(1).Msgf(format, args...)
}

// LogPath returns the path to the log file
func (l *Logger) LogPath() string {
	return l.filePath
}

// rotatingFile appends to a log file and shifts it to .1 through .5 once it
// grows past maxSize
type rotatingFile struct {
	mu      sync.Mutex
	path    string
	maxSize int64
	file    *os.File
	size    int64
}

func (r *rotatingFile) open() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return err
	}
	r.file = f
	r.size = stat.Size()
	return nil
}

func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return os.Stderr.Write(p)
	}
	if r.maxSize > 0 && r.size >= r.maxSize {
		r.rotate()
	}
	n, err := r.file.Write(p)
	r.size += int64(n)
	return n, err
}

func (r *rotatingFile) rotate() {
	r.file.Close()
	r.file = nil

	// Rotate: rename current to .1, .1 to .2, etc.
	for i := 4; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", r.path, i), fmt.Sprintf("%s.%d", r.path, i+1))
	}
	os.Rename(r.path, r.path+".1")

	r.open()
}

func (r *rotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// Global helper functions that use the default logger

// Warnf logs a formatted warning message
func Warnf(format string, args ...any) {
	Default().Warnf(format, args...)
}

// Errorf logs a formatted error message
func Errorf(format string, args ...any) {
	Default().Errorf(format, args...)
}

// WithComponent returns a logger with the given component name
func WithComponent(component string) *Logger {
	return Default().WithComponent(component)
}
