package diag

import "log"

// Logger emits level-prefixed diagnostic lines the way tqserver's
// cmd/main.go does for its HTTP server, reused here for the CLI's
// warning/verbose output instead of an HTTP request log.
type Logger struct {
	verbose bool
}

// NewLogger creates a Logger. When verbose is false, Debugf calls are
// silently dropped; Warnf and Errorf always print.
func NewLogger(verbose bool) *Logger {
	return &Logger{verbose: verbose}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if !l.verbose {
		return
	}
	log.Printf("DEBUG "+format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	log.Printf("WARN  "+format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	log.Printf("ERROR "+format, args...)
}

// Warn logs each Warning collected during a parse (e.g. an unrecognized
// SetProperty target) at WARN level.
func (l *Logger) Warn(warnings []Warning) {
	for _, w := range warnings {
		l.Warnf("%s", w.String())
	}
}
