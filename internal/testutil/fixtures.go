package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
)

// BlockedSquareRows is a 5x5 map with (1,1),(1,2),(2,1),(2,2) blocked
var BlockedSquareRows = []string{
	".....",
	".##..",
	".##..",
	".....",
	".....",
}

// WallRows separates the top row from the bottom row with a full wall
var WallRows = []string{
	".....",
	"#####",
	".....",
}

// MazeRows is a small maze with dead ends, a loop and one enclosed pocket
var MazeRows = []string{
	"........#.....",
	".######.#.###.",
	".#....#.#...#.",
	".#.##.#.###.#.",
	".#..#...#...#.",
	".##.#####.###.",
	"....#.........",
	"###.#.########",
	"......#.......",
}

// MustGrid builds a grid from rows where '#' marks obstacles
func MustGrid(t testing.TB, conn grid.Connectivity, rows ...string) *grid.Grid {
	t.Helper()
	g, err := grid.FromRows(rows, "#", conn)
	require.NoError(t, err)
	return g
}

// WriteMapFile writes rows as an octile map into a temp dir and returns its path
func WriteMapFile(t testing.TB, rows []string) string {
	t.Helper()
	var b strings.Builder
	fmt.Fprintf(&b, "type octile\nheight %d\nwidth %d\nmap\n", len(rows), len(rows[0]))
	for _, r := range rows {
		b.WriteString(r + "\n")
	}
	path := filepath.Join(t.TempDir(), "fixture.map")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}
