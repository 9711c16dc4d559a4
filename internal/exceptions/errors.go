package exceptions

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownTerminal   = errors.New("unknown terminal")
	ErrDuplicateTerminal = errors.New("duplicate terminal code")
	ErrRendererOutput    = errors.New("renderer produced no usable output")
)

// FetchError reports a terminal that could not be reached: a transport error, a non-2xx
// status or a renderer failure. It ends up in ResolutionResult.Error, it is never raised.
type FetchError struct {
	Terminal string
	Status   int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: http status %d: %v", e.Terminal, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Terminal, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err carries a FetchError anywhere in its chain.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
