// Package logging wraps the process-wide logrus logger.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

var Logger *logrus.Logger

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, text, simple, or compact
}

// DefaultLogConfig returns the configuration used before a config file is loaded.
func DefaultLogConfig() LogConfig {
	return LogConfig{Level: "info", Format: "simple"}
}

// Fields rendered as a bracketed prefix, in this order.
var bracketFields = []string{"component", "interface", "profile"}

// CompactFormatter renders one line per entry:
//
//	[LEVEL][component][interface][profile] message (key=value, ..., error=...)
type CompactFormatter struct {
	ShowTime bool
}

// Format renders a single log entry
func (f *CompactFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	b := entry.Buffer
	if b == nil {
		b = &bytes.Buffer{}
	}

	if f.ShowTime {
		fmt.Fprintf(b, "[%s]", entry.Time.Format("15:04:05"))
	}
	fmt.Fprintf(b, "[%s]", strings.ToUpper(entry.Level.String()))
	for _, key := range bracketFields {
		if v, ok := entry.Data[key]; ok {
			fmt.Fprintf(b, "[%v]", v)
		}
	}

	b.WriteByte(' ')
	b.WriteString(entry.Message)

	if keys := trailingKeys(entry.Data); len(keys) > 0 {
		b.WriteString(" (")
		for i, key := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(b, "%s=%s", key, fieldValue(entry.Data[key]))
		}
		b.WriteByte(')')
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// trailingKeys returns the non-bracket field names sorted, with the error
// field moved to the end.
func trailingKeys(data logrus.Fields) []string {
	keys := make([]string, 0, len(data))
	hasError := false
	for k := range data {
		switch {
		case k == logrus.ErrorKey:
			hasError = true
		case !isBracketField(k):
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if hasError {
		keys = append(keys, logrus.ErrorKey)
	}
	return keys
}

func fieldValue(v interface{}) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, " ,()") {
		return fmt.Sprintf("%q", s)
	}
	return s
}

func isBracketField(key string) bool {
	for _, f := range bracketFields {
		if f == key {
			return true
		}
	}
	return false
}

// formatterFor maps a configured format name to a logrus formatter. The
// boolean is false when the name was not recognized.
func formatterFor(format string) (logrus.Formatter, bool) {
	text := &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"}

	switch strings.ToLower(format) {
	case "json":
		return &logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"}, true
	case "simple":
		return &CompactFormatter{ShowTime: false}, true
	case "compact":
		return &CompactFormatter{ShowTime: true}, true
	case "text", "":
		return text, true
	default:
		return text, false
	}
}

// InitLogger initializes the global logger with the provided configuration.
// Output goes to stderr; stdout carries command results.
func InitLogger(config LogConfig) {
	InitLoggerWithOutput(config, os.Stderr)
}

// InitLoggerWithOutput is InitLogger with an explicit destination.
func InitLoggerWithOutput(config LogConfig, out io.Writer) {
	Logger = logrus.New()
	Logger.SetOutput(out)

	formatter, known := formatterFor(config.Format)
	Logger.SetFormatter(formatter)
	if !known {
		Logger.Warnf("Invalid log format '%s', defaulting to 'text'", config.Format)
	}

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
		Logger.Warnf("Invalid log level '%s', defaulting to 'info'", config.Level)
	}
	Logger.SetLevel(level)

	Logger.Debugf("Logger initialized with level: %s, format: %s", level.String(), config.Format)
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	if Logger == nil {
		InitLogger(DefaultLogConfig())
	}
	return Logger
}

// Helper functions for common logging patterns
func WithComponent(component string) *logrus.Entry {
	return GetLogger().WithField("component", component)
}

func WithComponentAndInterface(component, iface string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"component": component,
		"interface": iface,
	})
}

// WithProfile tags an entry with the profile being applied.
func WithProfile(component, iface, profile string) *logrus.Entry {
	return GetLogger().WithFields(logrus.Fields{
		"component": component,
		"interface": iface,
		"profile":   profile,
	})
}
