// Package utils holds small shared helpers: the file-backed logger.
package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Logger writes application logs to files under a log directory and
// mirrors them to stdout/stderr. Three streams: access (one line per
// request), server (lifecycle messages) and error.
type Logger struct {
	accessLog *log.Logger
	serverLog *log.Logger
	errorLog  *log.Logger
}

// NewLogger opens the log files under logDir, creating the directory if
// needed. An empty logDir logs to stdout/stderr only.
func NewLogger(logDir string) (*Logger, error) {
	l := &Logger{
		accessLog: log.New(os.Stdout, "", 0),
		serverLog: log.New(os.Stdout, "", 0),
		errorLog:  log.New(os.Stderr, "", 0),
	}
	if logDir == "" {
		return l, nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	open := func(name string) (*os.File, error) {
		return os.OpenFile(
			filepath.Join(logDir, name),
			os.O_APPEND|os.O_CREATE|os.O_WRONLY,
			0644,
		)
	}

	accessFile, err := open("access.log")
	if err != nil {
		return nil, fmt.Errorf("failed to open access.log: %w", err)
	}
	serverFile, err := open("server.log")
	if err != nil {
		accessFile.Close()
		return nil, fmt.Errorf("failed to open server.log: %w", err)
	}
	errorFile, err := open("error.log")
	if err != nil {
		accessFile.Close()
		serverFile.Close()
		return nil, fmt.Errorf("failed to open error.log: %w", err)
	}

	l.accessLog = log.New(io.MultiWriter(accessFile, os.Stdout), "", 0)
	l.serverLog = log.New(io.MultiWriter(serverFile, os.Stdout), "", 0)
	l.errorLog = log.New(io.MultiWriter(errorFile, os.Stderr), "", 0)
	return l, nil
}

func timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// Access writes one combined-log-style line per request.
func (l *Logger) Access(clientIP, method, path, protocol string, status int, bytes int64, userAgent, requestID string) {
	l.accessLog.Printf(`%s - [%s] "%s %s %s" %d %d %q %q`,
		clientIP, timestamp(), method, path, protocol, status, bytes, userAgent, requestID)
}

// Info logs a server lifecycle message.
func (l *Logger) Info(format string, args ...any) {
	l.serverLog.Printf("[%s] INFO  %s", timestamp(), fmt.Sprintf(format, args...))
}

// Error logs an error.
func (l *Logger) Error(format string, args ...any) {
	l.errorLog.Printf("[%s] ERROR %s", timestamp(), fmt.Sprintf(format, args...))
}
