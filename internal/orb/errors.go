package orb

import "errors"

// ErrInvalidConfig is wrapped by every error caused by bad geometry,
// palette or tuning parameters. It is raised at construction time only.
var ErrInvalidConfig = errors.New("invalid orb configuration")
