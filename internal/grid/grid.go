// Package grid models a rectangular map of cells as an implicit graph.
//
// A Grid is immutable once built: passability is sampled once at construction
// and every query afterwards is a pure function of coordinates, so a single
// Grid may be shared by any number of concurrent searches.
package grid

import (
	"fmt"
	"iter"
	"strings"
)

// Connectivity selects how many neighbors a cell can have
type Connectivity int

const (
	// Conn4 moves only along rows and columns: N, S, W, E
	Conn4 Connectivity = 4
	// Conn8 adds the four diagonals: NW, NE, SW, SE
	Conn8 Connectivity = 8
)

// ParseConnectivity converts 4 or 8 into a Connectivity
func ParseConnectivity(n int) (Connectivity, error) {
	switch Connectivity(n) {
	case Conn4, Conn8:
		return Connectivity(n), nil
	}
	return 0, fmt.Errorf("%w: got %d", ErrBadConnectivity, n)
}

// String returns "4-connected" or "8-connected"
func (c Connectivity) String() string {
	return fmt.Sprintf("%d-connected", int(c))
}

// Graph is the read-only view that searches run against
type Graph interface {
	InBounds(n Node) bool
	IsTraversable(n Node) bool
	Neighbors(n Node) iter.Seq[Node]
	EdgeCost(from, to Node) float64
}

// Grid is a rows×cols map with a fixed set of obstacle cells
type Grid struct {
	rows, cols int
	conn       Connectivity
	blocked    []bool // length = rows*cols (row-major)
	open       int
}

// New builds a grid, sampling blocked once for every cell.
// A nil blocked function yields a grid without obstacles.
func New(rows, cols int, conn Connectivity, blocked func(Node) bool) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrEmptyGrid
	}
	if conn != Conn4 && conn != Conn8 {
		return nil, fmt.Errorf("%w: got %d", ErrBadConnectivity, int(conn))
	}

	g := &Grid{
		rows:    rows,
		cols:    cols,
		conn:    conn,
		blocked: make([]bool, rows*cols),
	}
	for idx := range g.blocked {
		if blocked != nil && blocked(FromIndex(idx, cols)) {
			g.blocked[idx] = true
			continue
		}
		g.open++
	}
	return g, nil
}

// FromRows builds a grid from equal-length text rows. Any character listed in
// obstacles marks a blocked cell; every other character is open.
func FromRows(rows []string, obstacles string, conn Connectivity) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	width := len(rows[0])
	for i, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrNonRectangular, i, len(row), width)
		}
	}
	return New(len(rows), width, conn, func(n Node) bool {
		return strings.IndexByte(obstacles, rows[n.Row][n.Col]) >= 0
	})
}

// Rows returns the number of rows
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns
func (g *Grid) Cols() int { return g.cols }

// Size returns the total number of cells
func (g *Grid) Size() int { return g.rows * g.cols }

// Connectivity returns the movement model of the grid
func (g *Grid) Connectivity() Connectivity { return g.conn }

// InBounds checks if n lies inside the grid
func (g *Grid) InBounds(n Node) bool {
	return n.Row >= 0 && n.Row < g.rows && n.Col >= 0 && n.Col < g.cols
}

// IsTraversable reports whether n is in bounds and not an obstacle
func (g *Grid) IsTraversable(n Node) bool {
	return g.InBounds(n) && !g.blocked[n.ToIndex(g.cols)]
}

// Validate returns ErrOutOfBounds or ErrBlocked when n cannot be stood on
func (g *Grid) Validate(n Node) error {
	if !g.InBounds(n) {
		return fmt.Errorf("%w: %s not in %dx%d", ErrOutOfBounds, n, g.rows, g.cols)
	}
	if g.blocked[n.ToIndex(g.cols)] {
		return fmt.Errorf("%w: %s", ErrBlocked, n)
	}
	return nil
}

// TraversableCount returns the number of open cells
func (g *Grid) TraversableCount() int { return g.open }

// TraversableNodes returns every open cell in row-major order
func (g *Grid) TraversableNodes() []Node {
	nodes := make([]Node, 0, g.open)
	for idx, blocked := range g.blocked {
		if !blocked {
			nodes = append(nodes, FromIndex(idx, g.cols))
		}
	}
	return nodes
}
