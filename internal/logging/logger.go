package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger writes one JSON object per line.
type Logger struct {
	level  Level
	logger zerolog.Logger
}

func ParseLevel(levelStr string) Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func NewLogger(levelStr string) *Logger {
	return NewLoggerWithWriter(levelStr, os.Stderr)
}

func NewLoggerWithWriter(levelStr string, w io.Writer) *Logger {
	level := ParseLevel(levelStr)
	zl := zerolog.New(w).Level(toZerolog(level)).With().Timestamp().Logger()
	return &Logger{level: level, logger: zl}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{level: LevelError + 1, logger: zerolog.Nop()}
}

func toZerolog(l Level) zerolog.Level {
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

func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		level:  l.level,
		logger: l.logger.With().Str("component", component).Logger(),
	}
}

func (l *Logger) Level() Level { return l.level }

func (l *Logger) Debug(format string, args ...interface{}) {
	l.logger.Debug().Msgf(format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.logger.Info().Msgf(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.logger.Warn().Msgf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.logger.Error().Msgf(format, args...)
}

func (l *Logger) Debugw(msg string, fields map[string]any) {
	l.logger.Debug().Fields(fields).Msg(msg)
}

func (l *Logger) Infow(msg string, fields map[string]any) {
	l.logger.Info().Fields(fields).Msg(msg)
}

func (l *Logger) Warnw(msg string, fields map[string]any) {
	l.logger.Warn().Fields(fields).Msg(msg)
}

func (l *Logger) Errorw(msg string, fields map[string]any) {
	l.logger.Error().Fields(fields).Msg(msg)
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.logger.WithLevel(zerolog.FatalLevel).Msgf(format, args...)
	os.Exit(1)
}

// Printf writes unstructured console output to stdout.
func (l *Logger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}
