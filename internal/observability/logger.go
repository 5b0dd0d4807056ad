package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger тонкая обёртка над slog: пишет JSON в ротируемый файл и stderr
type Logger struct {
	log    *slog.Logger
	closer io.Closer
}

type Options struct {
	LogPath    string
	LogLevel   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewLogger создаёт логгер. При пустом LogPath пишет только в stderr.
func NewLogger(opts Options) *Logger {
	var w io.Writer = os.Stderr
	var closer io.Closer

	if opts.LogPath != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.LogPath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		}
		w = io.MultiWriter(os.Stderr, rotator)
		closer = rotator
	}

	l := NewLoggerWithWriter(w, opts.LogLevel)
	l.closer = closer
	return l
}

// NewLoggerWithWriter пишет в произвольный writer (удобно в тестах)
func NewLoggerWithWriter(w io.Writer, level string) *Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(level)})
	return &Logger{log: slog.New(handler)}
}

// NewNopLogger отбрасывает все записи
func NewNopLogger() *Logger {
	return NewLoggerWithWriter(io.Discard, "error")
}

func (l *Logger) Debug(msg string, fields ...any) {
	l.log.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...any) {
	l.log.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...any) {
	l.log.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...any) {
	l.log.Error(msg, fields...)
}

// With возвращает логгер с постоянными полями
func (l *Logger) With(fields ...any) *Logger {
	return &Logger{log: l.log.With(fields...), closer: l.closer}
}

// Close закрывает файл ротации, если он был открыт
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
