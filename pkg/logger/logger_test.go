//go:build !integration

package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeEnabled(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		debugEnv  string
		expected  bool
	}{
		{name: "empty DEBUG", namespace: "cli:fetch", debugEnv: "", expected: false},
		{name: "wildcard", namespace: "cli:fetch", debugEnv: "*", expected: true},
		{name: "exact match", namespace: "cli:fetch", debugEnv: "cli:fetch", expected: true},
		{name: "exact mismatch", namespace: "cli:fetch", debugEnv: "cli:export", expected: false},
		{name: "prefix wildcard", namespace: "cli:fetch", debugEnv: "cli:*", expected: true},
		{name: "prefix wildcard other package", namespace: "console:table", debugEnv: "cli:*", expected: false},
		{name: "list with match", namespace: "cli:fetch", debugEnv: "console:*, cli:fetch", expected: true},
		{name: "exclusion wins", namespace: "cli:fetch", debugEnv: "*,-cli:fetch", expected: false},
		{name: "exclusion of other namespace", namespace: "cli:fetch", debugEnv: "*,-cli:export", expected: true},
		{name: "exclusion before inclusion", namespace: "cli:fetch", debugEnv: "-cli:*,*", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, computeEnabled(tt.namespace, tt.debugEnv))
		})
	}
}

func TestLoggerWritesWhenEnabled(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("cli:test", "cli:*", &buf, false)

	require.True(t, log.Enabled(), "Logger should be enabled by cli:*")

	log.Printf("fetched %d workflows", 3)
	log.Print("done")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2, "Should write one line per call")
	assert.True(t, strings.HasPrefix(lines[0], "cli:test fetched 3 workflows +"), "First line: %q", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "cli:test done +"), "Second line: %q", lines[1])
}

func TestLoggerSilentWhenDisabled(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger("cli:test", "", &buf, false)

	assert.False(t, log.Enabled())
	log.Printf("should not appear %s", "at all")
	log.Print("nor this")

	assert.Empty(t, buf.String(), "Disabled logger should write nothing")
}

func TestFormatDiff(t *testing.T) {
	assert.Equal(t, "0ms", formatDiff(0))
	assert.Equal(t, "15ms", formatDiff(15*time.Millisecond))
	assert.Equal(t, "2.5s", formatDiff(2500*time.Millisecond))
	assert.Equal(t, "1.5m", formatDiff(90*time.Second))
}

func TestColorForIsStable(t *testing.T) {
	assert.Equal(t, colorFor("cli:fetch"), colorFor("cli:fetch"), "Same namespace should always get the same color")
}
