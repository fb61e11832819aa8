package mapfile

import "errors"

var (
	ErrMissingHeader = errors.New("mapfile: missing header field")
	ErrBadDimension  = errors.New("mapfile: invalid map dimension")
	ErrRowCount      = errors.New("mapfile: row count does not match height")
	ErrRowLength     = errors.New("mapfile: row length does not match width")
	ErrBadScenario   = errors.New("mapfile: malformed scenario line")
)
