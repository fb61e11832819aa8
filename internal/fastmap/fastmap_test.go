package fastmap

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GridFastMap/internal/dijkstra"
	"github.com/mitchelldurbincs/GridFastMap/internal/grid"
	"github.com/mitchelldurbincs/GridFastMap/internal/testutil"
)

var roomsRows = []string{
	"..........",
	".####.....",
	".#....##..",
	".#.##..#..",
	"...#...#..",
	"####......",
}

func roomsGrid(t testing.TB, conn grid.Connectivity) *grid.Grid {
	return testutil.MustGrid(t, conn, roomsRows...)
}

func quiet() Option { return WithLogger(testutil.NopLogger()) }

func TestBuild_Corridor(t *testing.T) {
	g := testutil.MustGrid(t, grid.Conn4, ".....")
	emb := Build(g, quiet())

	require.Equal(t, 1, emb.Dims(), "a corridor is fully explained by one axis")
	assert.Equal(t, 5, emb.Len())

	for c := 0; c < 5; c++ {
		v, ok := emb.Coordinates(grid.Node{Row: 0, Col: c})
		require.True(t, ok)
		assert.InDelta(t, float64(c), v[0], 1e-12)
	}

	axes := emb.Axes()
	assert.Equal(t, grid.Node{Row: 0, Col: 0}, axes[0].PivotA)
	assert.Equal(t, grid.Node{Row: 0, Col: 4}, axes[0].PivotB)
	assert.Equal(t, 4.0, axes[0].Distance)
	assert.Equal(t, 5, axes[0].Reached)
	assert.Equal(t, 4.0, emb.Distance(grid.Node{Row: 0, Col: 0}, grid.Node{Row: 0, Col: 4}))
}

func TestBuild_PivotsAtAxisExtremes(t *testing.T) {
	tests := []struct {
		name string
		conn grid.Connectivity
		proj Projection
	}{
		{"Conn4Midpoint", grid.Conn4, Midpoint},
		{"Conn8Midpoint", grid.Conn8, Midpoint},
		{"Conn8Cosines", grid.Conn8, LawOfCosines},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := roomsGrid(t, tt.conn)
			emb := Build(g, quiet(), WithProjection(tt.proj))
			require.GreaterOrEqual(t, emb.Dims(), 1)

			axis := emb.Axes()[0]
			a, ok := emb.Coordinates(axis.PivotA)
			require.True(t, ok)
			b, ok := emb.Coordinates(axis.PivotB)
			require.True(t, ok)

			assert.InDelta(t, 0, a[0], 1e-9)
			assert.InDelta(t, axis.Distance, b[0], 1e-9)
			assert.InDelta(t, axis.Distance, math.Abs(a[0]-b[0]), 1e-9)
		})
	}
}

func TestBuild_Deterministic(t *testing.T) {
	g := roomsGrid(t, grid.Conn8)

	t.Run("DefaultStart", func(t *testing.T) {
		e1 := Build(g, quiet())
		e2 := Build(g, quiet())
		assert.Equal(t, e1.coords, e2.coords)
		assert.Equal(t, e1.Axes(), e2.Axes())
	})

	t.Run("SameSeed", func(t *testing.T) {
		e1 := Build(g, quiet(), WithSeed(42))
		e2 := Build(g, quiet(), WithSeed(42))
		assert.Equal(t, e1.coords, e2.coords)
		assert.Equal(t, e1.Axes(), e2.Axes())
	})
}

func TestBuild_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		opts []Option
	}{
		{"SingleCell", []string{"#.#"}, nil},
		{"AllBlocked", []string{"##", "##"}, nil},
		{"IsolatedCells", []string{".#."}, nil},
		{"ZeroDims", []string{"...."}, []Option{WithMaxDims(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testutil.MustGrid(t, grid.Conn4, tt.rows...)
			emb := Build(g, append(tt.opts, quiet())...)
			assert.Zero(t, emb.Dims())
			assert.Zero(t, emb.Len())
			assert.Empty(t, emb.Nodes())
		})
	}
}

func TestBuild_Disconnected(t *testing.T) {
	g := testutil.MustGrid(t, grid.Conn4, "..#..")
	emb := Build(g, quiet())

	// only the component of the initial node receives coordinates
	assert.Equal(t, 1, emb.Dims())
	assert.Equal(t, []grid.Node{{Row: 0, Col: 0}, {Row: 0, Col: 1}}, emb.Nodes())

	_, ok := emb.Coordinates(grid.Node{Row: 0, Col: 3})
	assert.False(t, ok)
	assert.Zero(t, emb.Distance(grid.Node{Row: 0, Col: 0}, grid.Node{Row: 0, Col: 3}))
}

func TestBuild_EpsilonStopsEarly(t *testing.T) {
	g := roomsGrid(t, grid.Conn8)
	full := Build(g, quiet(), WithMaxDims(8))
	require.GreaterOrEqual(t, full.Dims(), 2)

	first := full.Axes()[0].Distance
	capped := Build(g, quiet(), WithMaxDims(8), WithEpsilon(first+1))
	assert.Zero(t, capped.Dims())
}

func TestBuild_MaxDims(t *testing.T) {
	g := roomsGrid(t, grid.Conn8)
	emb := Build(g, quiet(), WithMaxDims(2))
	assert.LessOrEqual(t, emb.Dims(), 2)
	for _, n := range emb.Nodes() {
		v, _ := emb.Coordinates(n)
		assert.LessOrEqual(t, len(v), 2)
	}
}

func TestBuild_Admissible(t *testing.T) {
	for _, conn := range []grid.Connectivity{grid.Conn4, grid.Conn8} {
		t.Run(conn.String(), func(t *testing.T) {
			g := roomsGrid(t, conn)
			emb := Build(g, quiet())

			for _, a := range g.TraversableNodes() {
				dist, err := dijkstra.ShortestPathsFrom(g, a)
				require.NoError(t, err)
				for b, d := range dist {
					assert.LessOrEqual(t, emb.Distance(a, b), d+1e-9, "%s -> %s", a, b)
				}
			}
		})
	}
}

func TestBuild_LogsAxes(t *testing.T) {
	logger, buf := testutil.BufferLogger()

	g := testutil.MustGrid(t, grid.Conn4, ".....")
	Build(g, WithLogger(logger))

	assert.Contains(t, buf.String(), "FastMap axis built")
	assert.Contains(t, buf.String(), `"pivot_b":"(0,4)"`)
}

func TestEmbedding_ZeroPadding(t *testing.T) {
	g := testutil.MustGrid(t, grid.Conn4, "...")
	emb := newEmbedding(g)
	a, b := grid.Node{Row: 0, Col: 0}, grid.Node{Row: 0, Col: 2}

	emb.set(a, 0, 1)
	emb.set(a, 1, 2)
	emb.set(b, 1, 5)

	v, ok := emb.Coordinates(b)
	require.True(t, ok)
	assert.Equal(t, []float64{0, 5}, v)

	emb.set(a, 2, 4)
	// |1-0| + |2-5| + |4-0|
	assert.Equal(t, 8.0, emb.Distance(a, b))
	assert.Equal(t, 8.0, emb.Distance(b, a))
	assert.Zero(t, emb.Distance(a, a))
}

func TestOptions(t *testing.T) {
	assert.Panics(t, func() { WithMaxDims(-1)(&Options{}) })
	assert.Panics(t, func() { WithEpsilon(-0.5)(&Options{}) })

	o := DefaultOptions()
	WithPivotRounds(-3)(&o)
	assert.Zero(t, o.PivotRounds)

	for _, tt := range []struct {
		in   string
		want Projection
		err  error
	}{
		{"", Midpoint, nil},
		{"midpoint", Midpoint, nil},
		{"cosines", LawOfCosines, nil},
		{"euclid", 0, ErrUnknownProjection},
	} {
		got, err := ParseProjection(tt.in)
		assert.ErrorIs(t, err, tt.err)
		assert.Equal(t, tt.want, got)
	}
	assert.Equal(t, "cosines", LawOfCosines.String())
}

func BenchmarkBuild(b *testing.B) {
	rows := make([]string, 64)
	for r := range rows {
		line := make([]byte, 64)
		for c := range line {
			line[c] = '.'
			if (r%8 == 4 && c%16 != 3) || (c%12 == 6 && r%10 != 1) {
				line[c] = '#'
			}
		}
		rows[r] = string(line)
	}
	g := testutil.MustGrid(b, grid.Conn8, rows...)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Build(g, WithLogger(testutil.NopLogger()))
	}
}
