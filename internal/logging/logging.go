// internal/logging/logging.go
// Package logging provides the process-wide structured logger.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mwiater/llmbridge/internal/util"
)

// maxPayloadRunes caps request/response bodies written to the log.
const maxPayloadRunes = 2000

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = newConsoleLogger(os.Stderr, zerolog.InfoLevel)
)

func newConsoleLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// Init routes log output to stderr and, when logPath is set, appends JSON
// lines to that file. Debug enables request/response payload logging.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}}

	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).Level(level).With().Timestamp().Logger()
	return nil
}

// SetOutput replaces the logger with one writing JSON lines to w.
func SetOutput(w io.Writer, level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Close flushes and closes the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	logger = newConsoleLogger(os.Stderr, logger.GetLevel())
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// Logger returns the current logger for callers that want structured fields.
func Logger() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

func LogEvent(format string, args ...any) {
	l := Logger()
	l.Info().Msg(fmt.Sprintf(format, args...))
}

func LogWarn(format string, args ...any) {
	l := Logger()
	l.Warn().Msg(fmt.Sprintf(format, args...))
}

func LogError(err error, format string, args ...any) {
	l := Logger()
	l.Error().Err(err).Msg(fmt.Sprintf(format, args...))
}

func LogDebug(format string, args ...any) {
	l := Logger()
	l.Debug().Msg(fmt.Sprintf(format, args...))
}

// LogRequest records one side of a backend exchange at debug level.
func LogRequest(direction, host, model, requestID string, payload any) {
	l := Logger()
	l.Debug().
		Str("direction", normalizeDirection(direction)).
		Str("host", orUnknown(host)).
		Str("model", orUnknown(model)).
		Str("request_id", strings.TrimSpace(requestID)).
		Msg(buildRequestMessage(direction, host, model, payload))
}

func normalizeDirection(direction string) string {
	return strings.ToUpper(strings.TrimSpace(direction))
}

func orUnknown(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return "unknown"
	}
	return v
}

func buildRequestMessage(direction, host, model string, payload any) string {
	parts := []string{fmt.Sprintf("[%s]", normalizeDirection(direction))}
	parts = append(parts, fmt.Sprintf("host=%s", orUnknown(host)))
	parts = append(parts, fmt.Sprintf("model=%s", orUnknown(model)))
	parts = append(parts, fmt.Sprintf("payload=%s", util.TruncateRunes(formatPayload(payload), maxPayloadRunes)))
	return strings.Join(parts, " ")
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
