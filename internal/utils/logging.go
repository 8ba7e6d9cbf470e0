// Copyright (c) 2024 RoseLoverX

package utils

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

type LogLevel int

const (
	TraceLevel LogLevel = iota + 1
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	NoLevel
)

func (l LogLevel) String() string {
	switch l {
	case TraceLevel:
		return "TRACE"
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case NoLevel:
		return "NONE"
	default:
		return "UNKNOWN"
	}
}

var (
	colorReset  = "\033[0m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func levelColor(l LogLevel) string {
	switch l {
	case TraceLevel:
		return colorDim
	case DebugLevel:
		return colorCyan
	case InfoLevel:
		return colorGreen
	case WarnLevel:
		return colorYellow
	case ErrorLevel:
		return colorRed
	default:
		return colorReset
	}
}

// Logger is a minimal leveled logger with a prefix, used across the
// environment for dispatch and state-change reporting.
type Logger struct {
	mu     sync.Mutex
	level  LogLevel
	prefix string
	output io.Writer
	color  bool
}

func NewLogger(prefix string) *Logger {
	return &Logger{
		level:  InfoLevel,
		prefix: prefix,
		output: os.Stdout,
	}
}

func (l *Logger) SetLevel(level LogLevel) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < TraceLevel || level > NoLevel {
		level = InfoLevel
	}
	l.level = level
	return l
}

func (l *Logger) Lev() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *Logger) SetOutput(w io.Writer) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	return l
}

func (l *Logger) SetColor(enabled bool) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = enabled
	return l
}

// WithPrefix returns a copy of the logger with a different prefix,
// sharing the output and level of the original.
func (l *Logger) WithPrefix(prefix string) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return &Logger{
		level:  l.level,
		prefix: prefix,
		output: l.output,
		color:  l.color,
	}
}

func (l *Logger) log(level LogLevel, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level || l.level == NoLevel {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	if l.color {
		fmt.Fprintf(l.output, "%s %s%-5s%s [%s] %s\n", ts, levelColor(level), level, colorReset, l.prefix, msg)
		return
	}
	fmt.Fprintf(l.output, "%s %-5s [%s] %s\n", ts, level, l.prefix, msg)
}

func (l *Logger) Trace(args ...any) { l.log(TraceLevel, fmt.Sprint(args...)) }
func (l *Logger) Debug(args ...any) { l.log(DebugLevel, fmt.Sprint(args...)) }
func (l *Logger) Info(args ...any)  { l.log(InfoLevel, fmt.Sprint(args...)) }
func (l *Logger) Warn(args ...any)  { l.log(WarnLevel, fmt.Sprint(args...)) }
func (l *Logger) Error(args ...any) { l.log(ErrorLevel, fmt.Sprint(args...)) }

func (l *Logger) Tracef(format string, args ...any) { l.log(TraceLevel, fmt.Sprintf(format, args...)) }
func (l *Logger) Debugf(format string, args ...any) { l.log(DebugLevel, fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)  { l.log(InfoLevel, fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(WarnLevel, fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.log(ErrorLevel, fmt.Sprintf(format, args...)) }
