package workpool

import "errors"

// Pool errors
var (
	ErrInvalidConfig = errors.New("invalid pool configuration")
	ErrPoolClosed    = errors.New("pool is shut down")
)
