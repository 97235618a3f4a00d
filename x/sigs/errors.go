package sigs

import "github.com/iov-one/weave-ballot/errors"

// ErrInvalidSequence is returned when a signature sequence does not match
// the expected value.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")
