package render

import (
	"errors"
	"fmt"
)

var (
	// ErrResourceUnavailable is matched by every ResourceError.
	ErrResourceUnavailable = errors.New("graphics resource unavailable")
	// ErrStopped is returned by Tick once the scheduler has been stopped.
	ErrStopped = errors.New("frame scheduler stopped")
)

// ResourceError reports a surface, texture or buffer that could not be
// acquired at mount. The host decides whether to show a fallback.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("acquire %s: %v", e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() []error {
	return []error{ErrResourceUnavailable, e.Err}
}

// DrawError is a failed draw for one frame. The loop carries on.
type DrawError struct {
	Frame uint64
	Err   error
}

func (e *DrawError) Error() string {
	return fmt.Sprintf("draw frame %d: %v", e.Frame, e.Err)
}

func (e *DrawError) Unwrap() error { return e.Err }
