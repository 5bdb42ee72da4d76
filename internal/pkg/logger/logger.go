// Package logger provides structured JSON logging with automatic redaction
// of subscriber email addresses. Mailing-list members' addresses are PII and
// must never land in log aggregation unmasked.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
}

// Logger writes structured JSON entries.
type Logger struct {
	mu        sync.Mutex
	out       io.Writer
	level     Level
	redactPII bool
}

var defaultLogger = &Logger{out: os.Stderr, level: INFO, redactPII: true}

// SetLevel sets the minimum level for the default logger.
func SetLevel(l Level) { defaultLogger.level = l }

// SetOutput redirects the default logger, mainly for tests.
func SetOutput(w io.Writer) { defaultLogger.out = w }

// Debug emits a DEBUG-level entry with key/value fields.
func Debug(msg string, fields ...any) { defaultLogger.log(DEBUG, msg, fields...) }

// Info emits an INFO-level entry with key/value fields.
func Info(msg string, fields ...any) { defaultLogger.log(INFO, msg, fields...) }

// Warn emits a WARN-level entry with key/value fields.
func Warn(msg string, fields ...any) { defaultLogger.log(WARN, msg, fields...) }

// Error emits an ERROR-level entry with key/value fields.
func Error(msg string, fields ...any) { defaultLogger.log(ERROR, msg, fields...) }

func (l *Logger) log(level Level, msg string, fields ...any) {
	if level < l.level {
		return
	}

	entry := map[string]any{
		"time":  time.Now().UTC().Format(time.RFC3339),
		"level": levelNames[level],
		"msg":   msg,
	}
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprintf("%v", fields[i])
		val := fmt.Sprintf("%v", fields[i+1])
		if l.redactPII {
			val = redactValue(val)
		}
		entry[key] = val
	}

	data, _ := json.Marshal(entry)
	l.mu.Lock()
	fmt.Fprintln(l.out, string(data))
	l.mu.Unlock()
}

var emailRegex = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

// redactValue masks every email address embedded in a field value.
func redactValue(val string) string {
	return emailRegex.ReplaceAllStringFunc(val, RedactEmail)
}
