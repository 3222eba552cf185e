package halite

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// Logger is the structured logging interface consumed by the client and the
// LoggingInterceptor. Key/value pairs alternate in keysAndValues.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SimpleLogger writes colored, timestamped lines to a writer. Safe for
// concurrent use.
type SimpleLogger struct {
	mu  sync.Mutex
	out io.Writer
}

// NewSimpleLogger creates a SimpleLogger writing to stderr.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{out: os.Stderr}
}

// NewSimpleLoggerWithWriter creates a SimpleLogger writing to out.
func NewSimpleLoggerWithWriter(out io.Writer) *SimpleLogger {
	return &SimpleLogger{out: out}
}

var (
	debugLevel = color.New(color.FgCyan).Sprint("DEBUG")
	infoLevel  = color.New(color.FgGreen).Sprint("INFO")
	warnLevel  = color.New(color.FgYellow).Sprint("WARN")
	errorLevel = color.New(color.FgRed).Sprint("ERROR")
)

// Debug implements Logger.
func (l *SimpleLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log(debugLevel, msg, keysAndValues)
}

// Info implements Logger.
func (l *SimpleLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log(infoLevel, msg, keysAndValues)
}

// Warn implements Logger.
func (l *SimpleLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log(warnLevel, msg, keysAndValues)
}

// Error implements Logger.
func (l *SimpleLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log(errorLevel, msg, keysAndValues)
}

func (l *SimpleLogger) log(level, msg string, keysAndValues []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s %s %s", time.Now().Format(time.RFC3339), level, msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(l.out, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	fmt.Fprintln(l.out)
}

// DebugConfig controls what the client logs when a Logger is set. Disabled by
// default; enable selectively to get insight without noise.
type DebugConfig struct {
	Enabled      bool
	LogRequests  bool
	LogResponses bool
	LogRedirects bool
	RequestIDGen func() string
}

// DefaultDebugConfig returns a disabled config with all categories selected
// and a UUID-based request ID generator.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogResponses: true,
		LogRedirects: true,
		RequestIDGen: DefaultRequestIDGen,
	}
}

// DefaultRequestIDGen returns a short unique ID for correlating log lines.
func DefaultRequestIDGen() string {
	return uuid.NewString()[:8]
}
