package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/salesboard/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTarget(t *testing.T) {
	v, err := parseTarget(" 1,50,000 ")
	require.NoError(t, err)
	assert.InDelta(t, 150000, v, 1e-9)

	for _, bad := range []string{"", "abc", "-5", "NaN", "Inf"} {
		_, err := parseTarget(bad)
		assert.Error(t, err, bad)
	}
}

func TestPrevPoint(t *testing.T) {
	history := []model.WeekPoint{{WeekID: "2026-39"}, {WeekID: "2026-40"}, {WeekID: "2026-41"}}

	prev := prevPoint(history, "2026-41")
	require.NotNil(t, prev)
	assert.Equal(t, "2026-40", prev.WeekID)

	assert.Nil(t, prevPoint(history, "2026-39"))
	assert.Nil(t, prevPoint(history, "2030-01"))
}

func TestPIDFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "serve.pid")

	_, err := readPID(path)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.NoError(t, ensureServerNotRunning(path))

	require.NoError(t, writePID(path, os.Getpid()))
	pid, err := readPID(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
	assert.True(t, processAlive(pid))
	assert.Error(t, ensureServerNotRunning(path))
}

func TestStateFileRoundTrip(t *testing.T) {
	path := statePath(filepath.Join(t.TempDir(), "serve.pid"))
	require.NoError(t, writeState(path, serveRuntimeState{PID: 42, Addr: "127.0.0.1:9000"}))

	st, err := readState(path)
	require.NoError(t, err)
	assert.Equal(t, 42, st.PID)
	assert.Equal(t, "127.0.0.1:9000", st.Addr)
}
