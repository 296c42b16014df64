package rng

import "errors"

// ErrInvalidArgument is returned when a caller hands the stream a
// non-finite bound or an inverted [lo, hi] range. This is a programming
// error per spec.md Section 7 category 1 — callers should treat it as
// fatal to the tick, not recover from it in-band.
var ErrInvalidArgument = errors.New("invalid argument")
