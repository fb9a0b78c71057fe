package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/npratt/causalview/internal/config"
)

// DebugLogName is the file the TUI logs to.
const DebugLogName = "causalview-debug.log"

// newSessionID returns the id stamped on every log line of one run.
func newSessionID() string {
	return uuid.NewString()
}

// newLogger creates a JSON logger tagged with the run's session id.
func newLogger(w io.Writer, level slog.Leveler, sessionID string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("session_id", sessionID)
}

// TUILogger is a file logger for TUI mode.
type TUILogger struct {
	Logger   *slog.Logger
	LogFile  io.WriteCloser
	FilePath string
}

// Close closes the log file if it was opened.
func (r *TUILogger) Close() error {
	if r.LogFile != nil {
		return r.LogFile.Close()
	}
	return nil
}

// SetupTUILogger creates a logger that writes to a rotating file in logDir
// instead of stderr, so log output never lands on the terminal the TUI
// draws to. An empty logDir uses the working directory.
func SetupTUILogger(logDir string, level slog.Leveler, rotation config.LogRotationConfig, sessionID string) (*TUILogger, error) {
	if logDir == "" {
		logDir = "."
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(logDir, DebugLogName)

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    rotation.MaxSizeMB,
		MaxBackups: rotation.MaxBackups,
		MaxAge:     rotation.MaxAgeDays,
		Compress:   rotation.Compress,
	}

	return &TUILogger{
		Logger:   newLogger(w, level, sessionID),
		LogFile:  w,
		FilePath: path,
	}, nil
}
