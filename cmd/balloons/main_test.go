package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrashGuardKeepsShutdownRunning(t *testing.T) {
	shutdown := false
	code := func() (code int) {
		defer func() { shutdown = true }()

		screen := tcell.NewSimulationScreen("")
		require.NoError(t, screen.Init())
		defer crashGuard(screen, &code)
		panic("balloon physics exploded")
	}()

	assert.Equal(t, 1, code)
	assert.True(t, shutdown, "deferred shutdown must run after a crash")
}

func TestCrashGuardNoPanic(t *testing.T) {
	code := func() (code int) {
		screen := tcell.NewSimulationScreen("")
		require.NoError(t, screen.Init())
		defer screen.Fini()
		defer crashGuard(screen, &code)
		return 0
	}()
	assert.Equal(t, 0, code)
}
