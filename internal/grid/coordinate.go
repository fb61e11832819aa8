package grid

import "fmt"

// Node identifies a grid cell by row and column
type Node struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// NewNode creates a node at the given row and column
func NewNode(row, col int) Node {
	return Node{Row: row, Col: col}
}

// FromIndex creates a node from a row-major cell index
func FromIndex(idx, cols int) Node {
	return Node{
		Row: idx / cols,
		Col: idx % cols,
	}
}

// ToIndex converts the node to a row-major cell index
func (n Node) ToIndex(cols int) int {
	return n.Row*cols + n.Col
}

// Add returns the sum of this node and an offset
func (n Node) Add(offset Node) Node {
	return Node{
		Row: n.Row + offset.Row,
		Col: n.Col + offset.Col,
	}
}

// Sub returns the offset from other to this node
func (n Node) Sub(other Node) Node {
	return Node{
		Row: n.Row - other.Row,
		Col: n.Col - other.Col,
	}
}

// Less reports whether n comes before other in row-major (canonical) order
func (n Node) Less(other Node) bool {
	if n.Row != other.Row {
		return n.Row < other.Row
	}
	return n.Col < other.Col
}

// Delta returns the absolute row and column differences to other
func (n Node) Delta(other Node) (dr, dc int) {
	dr = n.Row - other.Row
	dc = n.Col - other.Col
	if dr < 0 {
		dr = -dr
	}
	if dc < 0 {
		dc = -dc
	}
	return dr, dc
}

// IsAdjacentTo checks if other is one of the eight cells around n
func (n Node) IsAdjacentTo(other Node) bool {
	dr, dc := n.Delta(other)
	return dr <= 1 && dc <= 1 && dr+dc > 0
}

// IsDiagonalTo checks if other touches n only at a corner
func (n Node) IsDiagonalTo(other Node) bool {
	dr, dc := n.Delta(other)
	return dr == 1 && dc == 1
}

// String returns a string representation of the node
func (n Node) String() string {
	return fmt.Sprintf("(%d,%d)", n.Row, n.Col)
}
