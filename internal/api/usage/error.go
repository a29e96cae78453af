package usage

import "errors"

var (
	ErrCounterUnavailable = errors.New("usage counter unavailable")
)
