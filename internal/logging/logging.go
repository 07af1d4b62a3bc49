package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level represents a logging level
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Format represents the log output format
type Format int

const (
	Text Format = iota
	JSON
)

// Logger handles structured logging
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	format Format
}

// LogConfig contains logger configuration
type LogConfig struct {
	Level  Level
	Format Format
}

var (
	defaultLogger = &Logger{
		out:    os.Stderr,
		level:  INFO,
		format: Text,
	}

	debugColor = color.New(color.FgCyan)
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed)
)

// Configure sets up the default logger
func Configure(config LogConfig) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.level = config.Level
	defaultLogger.format = config.Format
}

type logEntry struct {
	Timestamp string      `json:"timestamp"`
	Level     string      `json:"level"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
}

func (l *Logger) log(level Level, msg string, data interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006/01/02 15:04:05")

	if l.format == JSON {
		entry := logEntry{
			Timestamp: timestamp,
			Level:     level.String(),
			Message:   msg,
			Data:      data,
		}
		if err := json.NewEncoder(l.out).Encode(entry); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode log entry: %v\n", err)
		}
		return
	}

	var levelColor *color.Color
	switch level {
	case DEBUG:
		levelColor = debugColor
	case WARN:
		levelColor = warnColor
	case ERROR:
		levelColor = errorColor
	default:
		levelColor = infoColor
	}

	levelStr := levelColor.Sprintf("%-5s", level.String())
	fmt.Fprintf(l.out, "%s %s: %s", timestamp, levelStr, msg)
	if data != nil {
		fmt.Fprintf(l.out, " %+v", data)
	}
	fmt.Fprintln(l.out)
}

func (l *Logger) Debug(msg string, data ...interface{}) {
	l.log(DEBUG, msg, firstOrNil(data))
}

func (l *Logger) Info(msg string, data ...interface{}) {
	l.log(INFO, msg, firstOrNil(data))
}

func (l *Logger) Warn(msg string, data ...interface{}) {
	l.log(WARN, msg, firstOrNil(data))
}

func (l *Logger) Error(msg string, err error, data ...interface{}) {
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	l.log(ERROR, msg, firstOrNil(data))
}

// firstOrNil returns the first element of data if present, nil otherwise
func firstOrNil(data []interface{}) interface{} {
	if len(data) > 0 {
		return data[0]
	}
	return nil
}

// CleanStart logs the start of a cleaning run
func (l *Logger) CleanStart(accounts []string, regions []string) {
	l.Info("Starting volume cleaning run", map[string]interface{}{
		"accounts": accounts,
		"regions":  regions,
	})
}

// RegionStart logs the start of a single account/region pass
func (l *Logger) RegionStart(accountID, region string) {
	l.Info("Scanning for unattached volumes", map[string]interface{}{
		"account_id": accountID,
		"region":     region,
	})
}

// RegionSkipped logs an authorization failure for a single region
func (l *Logger) RegionSkipped(accountID, region string, err error) {
	l.Error("Not authorized to collect volumes, skipping region", err, map[string]interface{}{
		"account_id": accountID,
		"region":     region,
	})
}

// AccountSkipped logs an authorization failure for a whole account
func (l *Logger) AccountSkipped(accountID string, err error) {
	l.Error("Not authorized to collect volumes, skipping account", err, map[string]interface{}{
		"account_id": accountID,
	})
}

// CleanComplete logs the completion of a cleaning run
func (l *Logger) CleanComplete(removed int) {
	l.Info("Cleaning run complete", map[string]interface{}{
		"volumes_removed": removed,
	})
}

// Default logger methods
func Debug(msg string, data ...interface{}) {
	defaultLogger.Debug(msg, data...)
}

func Info(msg string, data ...interface{}) {
	defaultLogger.Info(msg, data...)
}

func Warn(msg string, data ...interface{}) {
	defaultLogger.Warn(msg, data...)
}

func Error(msg string, err error, data ...interface{}) {
	defaultLogger.Error(msg, err, data...)
}

func CleanStart(accounts []string, regions []string) {
	defaultLogger.CleanStart(accounts, regions)
}

func RegionStart(accountID, region string) {
	defaultLogger.RegionStart(accountID, region)
}

func RegionSkipped(accountID, region string, err error) {
	defaultLogger.RegionSkipped(accountID, region, err)
}

func AccountSkipped(accountID string, err error) {
	defaultLogger.AccountSkipped(accountID, err)
}

func CleanComplete(removed int) {
	defaultLogger.CleanComplete(removed)
}
