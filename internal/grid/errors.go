package grid

import "errors"

var (
	ErrEmptyGrid       = errors.New("grid: must have at least one row and one column")
	ErrNonRectangular  = errors.New("grid: all rows must have the same length")
	ErrBadConnectivity = errors.New("grid: connectivity must be 4 or 8")
	ErrOutOfBounds     = errors.New("grid: node out of bounds")
	ErrBlocked         = errors.New("grid: node is an obstacle")
)
