package ballot

import "github.com/iov-one/weave-ballot/errors"

// ErrCycle is returned when following a delegation chain leads back to an
// already visited voter.
var ErrCycle = errors.Register(500, "delegation cycle")
