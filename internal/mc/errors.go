package mc

import "errors"

// ErrInvalidConfig indicates a construction or runtime parameter outside
// its valid range. It is reported before any state is created or mutated.
var ErrInvalidConfig = errors.New("mc: invalid configuration")
