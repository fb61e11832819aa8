package grid

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRows(t *testing.T, conn Connectivity, rows ...string) *Grid {
	t.Helper()
	g, err := FromRows(rows, "#", conn)
	require.NoError(t, err)
	return g
}

func TestNew(t *testing.T) {
	t.Run("RejectsEmpty", func(t *testing.T) {
		_, err := New(0, 5, Conn4, nil)
		assert.ErrorIs(t, err, ErrEmptyGrid)
	})

	t.Run("RejectsConnectivity", func(t *testing.T) {
		_, err := New(3, 3, Connectivity(6), nil)
		assert.ErrorIs(t, err, ErrBadConnectivity)
	})

	t.Run("SamplesPredicateOnce", func(t *testing.T) {
		calls := 0
		g, err := New(3, 4, Conn8, func(n Node) bool {
			calls++
			return n.Row == 1
		})
		require.NoError(t, err)
		assert.Equal(t, 12, calls)

		_ = g.IsTraversable(Node{1, 1})
		_ = g.IsTraversable(Node{0, 0})
		assert.Equal(t, 12, calls, "queries must not re-evaluate the predicate")
		assert.Equal(t, 8, g.TraversableCount())
	})
}

func TestFromRows(t *testing.T) {
	_, err := FromRows([]string{"..", "..."}, "#", Conn4)
	assert.ErrorIs(t, err, ErrNonRectangular)

	_, err = FromRows(nil, "#", Conn4)
	assert.ErrorIs(t, err, ErrEmptyGrid)

	g := mustRows(t, Conn4,
		".#.",
		"@..",
	)
	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, 3, g.Cols())
	assert.False(t, g.IsTraversable(Node{0, 1}))
	assert.True(t, g.IsTraversable(Node{1, 0}), "only listed characters are obstacles")
}

func TestGrid_Validate(t *testing.T) {
	g := mustRows(t, Conn4, ".#")

	assert.NoError(t, g.Validate(Node{0, 0}))
	assert.ErrorIs(t, g.Validate(Node{0, 1}), ErrBlocked)
	assert.ErrorIs(t, g.Validate(Node{-1, 0}), ErrOutOfBounds)
	assert.ErrorIs(t, g.Validate(Node{0, 2}), ErrOutOfBounds)
}

func TestGrid_TraversableNodes(t *testing.T) {
	g := mustRows(t, Conn4,
		"#.",
		".#",
	)
	assert.Equal(t, []Node{{0, 1}, {1, 0}}, g.TraversableNodes())
}

func TestGrid_Neighbors(t *testing.T) {
	tests := []struct {
		name     string
		conn     Connectivity
		rows     []string
		from     Node
		expected []Node
	}{
		{
			name:     "Conn4Open",
			conn:     Conn4,
			rows:     []string{"...", "...", "..."},
			from:     Node{1, 1},
			expected: []Node{{0, 1}, {2, 1}, {1, 0}, {1, 2}},
		},
		{
			name:     "Conn8OpenCanonicalOrder",
			conn:     Conn8,
			rows:     []string{"...", "...", "..."},
			from:     Node{1, 1},
			expected: []Node{{0, 1}, {2, 1}, {1, 0}, {1, 2}, {0, 0}, {0, 2}, {2, 0}, {2, 2}},
		},
		{
			name:     "CornerClipped",
			conn:     Conn8,
			rows:     []string{".#.", "...", "..."},
			from:     Node{1, 1},
			expected: []Node{{2, 1}, {1, 0}, {1, 2}, {2, 0}, {2, 2}},
		},
		{
			name:     "GridEdge",
			conn:     Conn8,
			rows:     []string{"..", ".."},
			from:     Node{0, 0},
			expected: []Node{{1, 0}, {0, 1}, {1, 1}},
		},
		{
			name:     "BlockedSourceHasNoNeighbors",
			conn:     Conn8,
			rows:     []string{"#.", ".."},
			from:     Node{0, 0},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustRows(t, tt.conn, tt.rows...)
			got := slices.Collect(g.Neighbors(tt.from))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestGrid_NeighborsNoCornerCutting(t *testing.T) {
	// (0,1) is blocked and (1,0) is open: the diagonal (1,1)->(0,0) passes the
	// blocked corner and must be excluded even though (0,0) itself is open.
	g := mustRows(t, Conn8,
		".#.",
		"...",
		"...",
	)
	got := slices.Collect(g.Neighbors(Node{1, 1}))
	assert.NotContains(t, got, Node{0, 0})
	assert.NotContains(t, got, Node{0, 2})
	assert.False(t, g.CanMove(Node{1, 1}, Node{0, 0}))
	assert.True(t, g.CanMove(Node{1, 1}, Node{2, 2}))
}

func TestGrid_NeighborsIsRestartable(t *testing.T) {
	g := mustRows(t, Conn8, "...", "...", "...")
	seq := g.Neighbors(Node{1, 1})

	first := slices.Collect(seq)
	second := slices.Collect(seq)
	assert.Equal(t, first, second)

	// Early break must not disturb later iteration
	for range seq {
		break
	}
	assert.Len(t, slices.Collect(seq), 8)
}

func TestGrid_EdgeCost(t *testing.T) {
	g := mustRows(t, Conn8, "...", "...")

	assert.Equal(t, 1.0, g.EdgeCost(Node{0, 0}, Node{0, 1}))
	assert.Equal(t, 1.0, g.EdgeCost(Node{1, 1}, Node{0, 1}))
	assert.Equal(t, math.Sqrt2, g.EdgeCost(Node{0, 0}, Node{1, 1}))
	assert.Panics(t, func() { g.EdgeCost(Node{0, 0}, Node{0, 2}) })
	assert.Panics(t, func() { g.EdgeCost(Node{0, 0}, Node{0, 0}) })

	assert.InDelta(t, 2+math.Sqrt2, g.PathCost([]Node{{0, 0}, {0, 1}, {1, 2}, {1, 1}}), 1e-12)
	assert.Zero(t, g.PathCost([]Node{{0, 0}}))
}

func TestDirectionIndex(t *testing.T) {
	from := Node{3, 3}
	for i, off := range Offsets {
		assert.Equal(t, i, DirectionIndex(from, from.Add(off)))
	}
	assert.Equal(t, -1, DirectionIndex(from, from))
	assert.Equal(t, -1, DirectionIndex(from, Node{5, 3}))
}

func TestParseConnectivity(t *testing.T) {
	c, err := ParseConnectivity(8)
	require.NoError(t, err)
	assert.Equal(t, Conn8, c)
	assert.Equal(t, "8-connected", c.String())

	_, err = ParseConnectivity(6)
	assert.ErrorIs(t, err, ErrBadConnectivity)
}
