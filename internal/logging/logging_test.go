package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"", LevelInfo},
		{"warning", LevelWarn},
		{" error ", LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, Config{Level: LevelDebug, JSONMode: true, Component: "clinfo"})

	l.WithComponent("report").WithField("platforms", 2).Infof("walked %d", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "report", entry["component"])
	assert.Equal(t, float64(2), entry["platforms"])
	assert.Equal(t, "walked 2", entry["message"])
	assert.Equal(t, 1, strings.Count(buf.String(), `"component"`))
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, Config{Level: LevelWarn, JSONMode: true})

	l.Info("hidden")
	l.Debugf("hidden %d", 1)
	assert.Empty(t, buf.String())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")

	l.SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, l.GetLevel())
	l.Debug("now shown")
	assert.Contains(t, buf.String(), "now shown")
}

func TestConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf, Config{Level: LevelInfo, Component: "clinfo"})

	l.Info("backend opened")
	assert.Contains(t, buf.String(), "backend opened")
	assert.Contains(t, buf.String(), "component=clinfo")
}

func TestFileRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "clinfo.log")
	l, err := New(Config{Level: LevelInfo, FilePath: path, JSONMode: true})
	require.NoError(t, err)
	defer l.Close()
	require.NotNil(t, l.sink)
	assert.Equal(t, path, l.LogPath())

	l.sink.maxSize = 64
	for i := 0; i < 10; i++ {
		l.Infof("entry %d with enough text to grow the file", i)
	}

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err)
	_, err = os.Stat(path + ".6")
	assert.True(t, os.IsNotExist(err))
}

func TestNewFallsBackToStderr(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	l, err := New(Config{FilePath: filepath.Join(blocker, "clinfo.log")})
	require.NoError(t, err)
	assert.Nil(t, l.sink)
	assert.NoError(t, l.Close())
}

func TestNop(t *testing.T) {
	l := Nop()
	l.WithComponent("x").WithFields(map[string]any{"a": 1}).Error("dropped")
	assert.NoError(t, l.Close())
}

func TestDefaultLogger(t *testing.T) {
	// Nothing installed yet: the default discards
	Warnf("dropped %d", 1)

	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	require.NoError(t, Init(Config{Level: LevelInfo, FilePath: first, Component: "clinfo"}))
	WithComponent("main").WithField("backend", "fixture").Infof("opened %s", "fixture")
	Errorf("failed %d", 1)

	require.NoError(t, Init(Config{Level: LevelInfo, FilePath: second, Component: "clinfo"}))
	Warnf("second %d", 2)
	assert.Equal(t, second, Default().LogPath())
	require.NoError(t, Close())
	assert.Empty(t, Default().LogPath())

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Contains(t, string(data), "opened fixture")
	assert.Contains(t, string(data), "component=main")
	assert.Contains(t, string(data), "backend=fixture")
	assert.Contains(t, string(data), "failed 1")
	assert.NotContains(t, string(data), "dropped")

	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(data), "second 2")
}
