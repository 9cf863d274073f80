package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, &Config{Level: "warn", Format: "text"})

	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestJSONFormatAndComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, &Config{Level: "debug", Format: "json"}).WithComponent("client")

	l.Request("GET", "http://localhost:4000/items", 200, 3*time.Millisecond, nil)

	out := buf.String()
	assert.Contains(t, out, `"component":"client"`)
	assert.Contains(t, out, `"subsystem":"http"`)
	assert.Contains(t, out, `"timestamp"`)
}

func TestRequestFailureIsWarn(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, &Config{Level: "warn"})

	l.Request("PATCH", "http://localhost:4000/items/9", 404, time.Millisecond, errors.New("not found"))

	assert.Contains(t, buf.String(), "request failed")
	assert.Contains(t, buf.String(), "error=\"not found\"")
}

func TestNewLoggerFileOutput(t *testing.T) {
	p := filepath.Join(t.TempDir(), "shopster.log")
	l, err := NewLogger(&Config{Level: "info", Output: p})
	require.NoError(t, err)

	l.Mirror("item added", "id", 4)
	require.NoError(t, l.Close())

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), "item added")
	assert.Contains(t, string(b), "subsystem=mirror")
}

func TestWritesToTerminal(t *testing.T) {
	assert.True(t, (&Config{Output: "stderr"}).WritesToTerminal())
	assert.True(t, (&Config{Output: ""}).WritesToTerminal())
	assert.False(t, (&Config{Output: "/tmp/x.log"}).WritesToTerminal())
	assert.False(t, (&Config{Output: "discard"}).WritesToTerminal())
}
