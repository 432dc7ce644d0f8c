package debug

import (
	"io"
	"log"
	"os"
)

const DefaultLogFile = "debug.log"

// Logger writes to a log file only when enabled. A nil *Logger is valid and
// discards everything.
type Logger struct {
	enabled bool
	logger  *log.Logger
}

func NewFileLogger(enabled bool, path string) *Logger {
	if !enabled {
		return &Logger{}
	}

	var out io.Writer = os.Stderr
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err == nil {
		out = logFile
	}
	l := &Logger{enabled: true, logger: log.New(out, "", log.LstdFlags)}
	l.logger.Printf("=== DEBUG MODE ENABLED ===")
	return l
}

// NewWriterLogger logs to w without timestamps.
func NewWriterLogger(w io.Writer) *Logger {
	return &Logger{enabled: true, logger: log.New(w, "", 0)}
}

func (d *Logger) Printf(format string, args ...interface{}) {
	if d.IsEnabled() {
		d.logger.Printf(format, args...)
	}
}

func (d *Logger) Println(args ...interface{}) {
	if d.IsEnabled() {
		d.logger.Println(args...)
	}
}

func (d *Logger) IsEnabled() bool {
	return d != nil && d.enabled
}
