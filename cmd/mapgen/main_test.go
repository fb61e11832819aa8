package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GridFastMap/internal/dijkstra"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
	"github.com/mitchelldurbincs/GridFastMap/internal/mapfile"
)

func TestRun_Stdout(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"-width", "12", "-height", "6", "-seed", "9", "-log-level", "error"}, &out))

	m, err := mapfile.Read(&out)
	require.NoError(t, err)
	assert.Equal(t, 12, m.Width)
	assert.Equal(t, 6, m.Height)
}

func TestRun_Deterministic(t *testing.T) {
	args := []string{"-width", "20", "-height", "10", "-seed", "4", "-log-level", "error"}
	var a, b bytes.Buffer
	require.NoError(t, run(args, &a))
	require.NoError(t, run(args, &b))
	assert.Equal(t, a.String(), b.String())
}

func TestRun_WritesScenarios(t *testing.T) {
	dir := t.TempDir()
	mapPath := filepath.Join(dir, "gen.map")
	scenPath := filepath.Join(dir, "gen.map.scen")

	require.NoError(t, run([]string{
		"-width", "16", "-height", "16", "-seed", "2",
		"-out", mapPath, "-scen", scenPath, "-scenarios", "20",
		"-log-level", "error",
	}, &bytes.Buffer{}))

	m, err := mapfile.ReadFile(mapPath)
	require.NoError(t, err)
	g, err := m.Grid(mapfile.DefaultObstacles, grid.Conn8)
	require.NoError(t, err)

	scens, err := mapfile.ReadScenarioFile(scenPath)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(scens), 20)

	for _, s := range scens {
		assert.Equal(t, "gen.map", s.Map)
		dist, err := dijkstra.ShortestPathsFrom(g, s.Start)
		require.NoError(t, err)
		d, ok := dist.Distance(s.Goal)
		require.True(t, ok)
		assert.InDelta(t, d, s.Optimal, 1e-6)
	}
}

func TestRun_ScenRequiresOut(t *testing.T) {
	err := run([]string{"-scen", filepath.Join(t.TempDir(), "x.scen"), "-log-level", "error"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_Help(t *testing.T) {
	var out bytes.Buffer
	assert.NoError(t, run([]string{"-h"}, &out), "-h is not a failure")
	assert.Zero(t, out.Len(), "no map is generated")

	assert.Error(t, run([]string{"-no-such-flag"}, &bytes.Buffer{}))
}
