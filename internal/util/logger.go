// photosync ⸻ internal/util/logger.go
// append-only run log shared by all components

package util

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// severity of log entries
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

// Logger records one line per operation into an append-only file.
// Created once per run and handed to each component; it is never
// behavior-affecting.
type Logger struct {
	logFile *os.File
	level   LogLevel
	path    string
}

func NewLogger(logPath string, level LogLevel) (*Logger, error) {
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return &Logger{
		logFile: logFile,
		level:   level,
		path:    logPath,
	}, nil
}

// writes a message to the log with timestamp
func (l *Logger) Log(level LogLevel, format string, args ...any) error {
	if l == nil || l.logFile == nil {
		return nil
	}

	if level < l.level {
		return nil // skip those below threshold
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	logLine := fmt.Sprintf("[%s] %s: %s\n", timestamp, levelString(level), fmt.Sprintf(format, args...))

	_, err := l.logFile.WriteString(logLine)
	return err
}

func (l *Logger) Debug(format string, args ...any) error {
	return l.Log(LevelDebug, format, args...)
}

func (l *Logger) Info(format string, args ...any) error {
	return l.Log(LevelInfo, format, args...)
}

func (l *Logger) Warning(format string, args ...any) error {
	return l.Log(LevelWarning, format, args...)
}

func (l *Logger) Error(format string, args ...any) error {
	return l.Log(LevelError, format, args...)
}

func (l *Logger) Close() error {
	if l == nil || l.logFile == nil {
		return nil
	}

	err := l.logFile.Close()
	l.logFile = nil
	return err
}

// new log file and archives the old one
func (l *Logger) Rotate() error {
	if l.logFile == nil {
		return fmt.Errorf("logger not initialized")
	}

	if err := l.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	newPath := fmt.Sprintf("%s.%s", l.path, timestamp)
	if err := os.Rename(l.path, newPath); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	logFile, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to create new log file: %w", err)
	}

	l.logFile = logFile
	return l.Info("Log rotated, previous log saved as %s", newPath)
}

func levelString(level LogLevel) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
