package fortune

import "errors"

var (
	// ErrModelOverloaded means every candidate model exhausted its retryable
	// attempts. Mapped to 503 with a dedicated client-facing code so the UI
	// can show a "try again shortly" message instead of a generic failure.
	ErrModelOverloaded = errors.New("model overloaded")
)
