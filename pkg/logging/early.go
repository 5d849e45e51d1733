package logging

import (
	"fmt"
	"io"
	"os"
)

// EarlyLog reports startup failures that happen before the zap logger is
// built, such as an unreadable config file or a bad log level.
type EarlyLog struct {
	out io.Writer
	err io.Writer
}

func NewEarlyLog() *EarlyLog {
	return &EarlyLog{out: os.Stdout, err: os.Stderr}
}

func (l *EarlyLog) Error(msg string, args ...interface{}) {
	l.write(l.err, "ERROR", msg, args...)
}

func (l *EarlyLog) Info(msg string, args ...interface{}) {
	l.write(l.out, "INFO", msg, args...)
}

func (l *EarlyLog) write(w io.Writer, level, msg string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s: %s\n", level, serviceTag, fmt.Sprintf(msg, args...))
}

const serviceTag = "[relay-service]"
