package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLoggerFiltersLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewConsoleLogger("sim", &buf)

	l.Debug("скрыто")
	l.Info("волна %d", 2)
	l.Error("сбой")

	out := buf.String()
	assert.NotContains(t, out, "скрыто")
	assert.Contains(t, out, "[INFO] [sim] волна 2")
	assert.Contains(t, out, "[ERROR] [sim] сбой")

	l.SetLevels(TRACE, ERROR)
	l.Trace("видно")
	assert.Contains(t, buf.String(), "видно")
}

func TestFileLoggerWritesAllLevels(t *testing.T) {
	LogDir = t.TempDir()
	defer func() { LogDir = "logs" }()

	l, err := NewLogger("storage")
	require.NoError(t, err)
	l.Trace("трассировка")
	require.NoError(t, l.Close())
	assert.NoError(t, l.Close(), "повторное закрытие безопасно")

	files, err := filepath.Glob(filepath.Join(LogDir, "storage_*.log"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "[TRACE] [storage] трассировка"))
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DEBUG, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, INFO, lvl)

	_, err = ParseLevel("громко")
	assert.Error(t, err)
}

func TestManagerReturnsSameLogger(t *testing.T) {
	LogDir = t.TempDir()
	defer func() { LogDir = "logs" }()

	m := &LoggerManager{loggers: make(map[string]*Logger)}
	m.EnableFileOutput()
	a := m.MustGetLogger("api")
	b := m.MustGetLogger("api")
	assert.Same(t, a, b)
	assert.Equal(t, []string{"api"}, m.ListComponents())

	require.NoError(t, m.SetLogLevel("api", DEBUG, DEBUG))
	assert.Error(t, m.SetLogLevel("нет", DEBUG, DEBUG))
	assert.NoError(t, m.CloseAll())
}

func TestManagerDefaultLevels(t *testing.T) {
	m := &LoggerManager{loggers: make(map[string]*Logger)}
	before := m.MustGetLogger("sim")
	assert.False(t, before.Enabled(DEBUG))

	m.SetDefaultLevels(DEBUG, DEBUG)
	assert.True(t, before.Enabled(DEBUG), "уровни применяются к существующим логгерам")

	after := m.MustGetLogger("events")
	assert.True(t, after.Enabled(DEBUG), "и к новым")
	assert.False(t, after.Enabled(TRACE))
}
