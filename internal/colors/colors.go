// Package colors provides color output utilities.
package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Color constants
const (
	Red     = "\033[0;31m"
	Green   = "\033[0;32m"
	Yellow  = "\033[1;33m"
	Blue    = "\033[0;34m"
	Magenta = "\033[0;35m"
	Cyan    = "\033[0;36m"
	Bold    = "\033[1m"
	Reset   = "\033[0m"
)

const checkmark = "✓"

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	debugEnabled = false
	quiet        = false
	stateMu      sync.RWMutex
	logger       Logger
	stdout       io.Writer = os.Stdout
	stderr       io.Writer = os.Stderr
)

func init() {
	if val := os.Getenv("QUOTEDESK_DEBUG"); val == "true" || val == "1" {
		debugEnabled = true
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	stateMu.Lock()
	defer stateMu.Unlock()
	debugEnabled = enabled
}

// SetQuiet suppresses success and info output. Errors and warnings still print.
func SetQuiet(enabled bool) {
	stateMu.Lock()
	defer stateMu.Unlock()
	quiet = enabled
}

// SetLogger sets the structured logger to mirror console output.
func SetLogger(l Logger) {
	stateMu.Lock()
	defer stateMu.Unlock()
	logger = l
}

// SetOutput redirects console output. Nil writers restore the process defaults.
func SetOutput(out, errOut io.Writer) {
	stateMu.Lock()
	defer stateMu.Unlock()
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout = out
	stderr = errOut
}

type line struct {
	toStderr bool
	format   string
	mirror   func(Logger, string)
	info     bool
}

func emit(l line, msgs []string) {
	msg := strings.Join(msgs, " ")
	stateMu.RLock()
	lg := logger
	w := stdout
	if l.toStderr {
		w = stderr
	}
	silenced := quiet && l.info
	stateMu.RUnlock()

	if lg != nil && l.mirror != nil {
		l.mirror(lg, msg)
	}
	if silenced {
		return
	}
	if _, err := fmt.Fprintf(w, l.format, msg); err != nil {
		// Last resort; never recurse into emit.
		fmt.Fprintf(os.Stderr, "failed to print message: %v\n", err)
	}
}

// Error outputs an error message to stderr.
func Error(msgs ...string) {
	emit(line{
		toStderr: true,
		format:   Red + "Error:" + Reset + " %s" + Reset + "\n",
		mirror:   func(l Logger, m string) { l.Error(m) },
	}, msgs)
}

// Success outputs a success message to stdout.
func Success(msgs ...string) {
	emit(line{
		format: Green + checkmark + Reset + " %s" + Reset + "\n",
		mirror: func(l Logger, m string) { l.Info(m, "type", "success") },
		info:   true,
	}, msgs)
}

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) {
	emit(line{
		toStderr: true,
		format:   Yellow + "Warning:" + Reset + " %s" + Reset + "\n",
		mirror:   func(l Logger, m string) { l.Warn(m) },
	}, msgs)
}

// Info outputs an informational message to stdout.
func Info(msgs ...string) {
	emit(line{
		format: Blue + "%s" + Reset + "\n",
		mirror: func(l Logger, m string) { l.Info(m) },
		info:   true,
	}, msgs)
}

// Debug outputs a debug message to stderr if debug is enabled.
func Debug(msgs ...string) {
	stateMu.RLock()
	enabled := debugEnabled
	stateMu.RUnlock()
	if !enabled {
		return
	}
	emit(line{
		toStderr: true,
		format:   Cyan + "Debug:" + Reset + " %s" + Reset + "\n",
		mirror:   func(l Logger, m string) { l.Debug(m) },
	}, msgs)
}

// Toast prints a user-facing notification with a kind-specific color.
// Error and warning toasts go to stderr.
func Toast(kind, title, body string) {
	color, prefix, toStderr := Blue, "i", false
	switch kind {
	case "success":
		color, prefix = Green, checkmark
	case "error":
		color, prefix, toStderr = Red, "✗", true
	case "warning":
		color, prefix, toStderr = Yellow, "!", true
	}
	text := Bold + title + Reset
	if body != "" {
		text += " " + body
	}
	emit(line{
		toStderr: toStderr,
		format:   color + prefix + Reset + " %s" + Reset + "\n",
		mirror:   func(l Logger, m string) { l.Info(m, "type", "toast", "kind", kind) },
		info:     kind == "success" || kind == "info",
	}, []string{text})
}
