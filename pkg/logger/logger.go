// Package logger provides namespaced debug logging controlled by the DEBUG
// environment variable, in the style of the Node "debug" package.
//
// Each source file declares its own logger:
//
//	var fetchLog = logger.New("cli:workflows_client")
//
// and nothing is written unless DEBUG selects the namespace:
//
//	DEBUG=*                  all namespaces
//	DEBUG=cli:*              every namespace starting with "cli:"
//	DEBUG=cli:*,-cli:health  all cli namespaces except cli:health
//
// Output always goes to stderr so debug lines never mix with reports on stdout.
// Set DEBUG_COLORS=0 to disable namespace colors on a terminal.
package logger

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/urunc-dev/urunc-workflows/pkg/tty"
)

// Logger writes debug lines for a single namespace.
type Logger struct {
	namespace string
	enabled   bool
	out       io.Writer
	prefix    string

	mu      sync.Mutex
	lastLog time.Time
}

var palette = []lipgloss.Color{"33", "39", "44", "49", "70", "75", "141", "170", "178", "208"}

var stderrRenderer = lipgloss.NewRenderer(os.Stderr)

// New creates a logger for namespace using the process DEBUG settings.
func New(namespace string) *Logger {
	return newLogger(namespace, os.Getenv("DEBUG"), os.Stderr, os.Getenv("DEBUG_COLORS") != "0" && tty.IsStderrTerminal())
}

func newLogger(namespace, debugEnv string, out io.Writer, colors bool) *Logger {
	prefix := namespace
	if colors {
		style := stderrRenderer.NewStyle().Foreground(colorFor(namespace)).Bold(true)
		prefix = style.Render(namespace)
	}
	return &Logger{
		namespace: namespace,
		enabled:   computeEnabled(namespace, debugEnv),
		out:       out,
		prefix:    prefix,
	}
}

// Enabled reports whether the logger writes anything. Use it to guard
// expensive argument construction.
func (l *Logger) Enabled() bool {
	return l.enabled
}

// Printf writes a formatted line when the namespace is enabled.
func (l *Logger) Printf(format string, args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprintf(format, args...))
}

// Print writes its arguments, formatted as fmt.Sprint, when the namespace is enabled.
func (l *Logger) Print(args ...any) {
	if !l.enabled {
		return
	}
	l.write(fmt.Sprint(args...))
}

func (l *Logger) write(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	diff := time.Duration(0)
	if !l.lastLog.IsZero() {
		diff = now.Sub(l.lastLog)
	}
	l.lastLog = now

	fmt.Fprintf(l.out, "%s %s +%s\n", l.prefix, strings.TrimRight(message, "\n"), formatDiff(diff))
}

// computeEnabled matches namespace against a comma separated DEBUG value.
// Exclusions (prefixed with "-") win over inclusions.
func computeEnabled(namespace, debugEnv string) bool {
	if debugEnv == "" {
		return false
	}

	enabled := false
	for _, pattern := range strings.Split(debugEnv, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if strings.HasPrefix(pattern, "-") {
			if matchPattern(namespace, pattern[1:]) {
				return false
			}
			continue
		}
		if matchPattern(namespace, pattern) {
			enabled = true
		}
	}
	return enabled
}

func matchPattern(namespace, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(namespace, prefix)
	}
	return namespace == pattern
}

func colorFor(namespace string) lipgloss.Color {
	h := fnv.New32a()
	_, _ = h.Write([]byte(namespace))
	return palette[h.Sum32()%uint32(len(palette))]
}

func formatDiff(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "0ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
}
