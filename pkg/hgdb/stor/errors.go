package stor

import "errors"

// ErrInvalidTransition is returned when an entity is not in a status that
// allows the requested workflow operation. The entity is left untouched.
var ErrInvalidTransition = errors.New("invalid transition for entity status")
