package fastmap

import "errors"

var (
	ErrBadMaxDims        = errors.New("fastmap: MaxDims must be non-negative")
	ErrBadEpsilon        = errors.New("fastmap: Epsilon must be non-negative")
	ErrUnknownProjection = errors.New("fastmap: unknown projection (want midpoint or cosines)")
)
