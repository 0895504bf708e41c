package recommend

import "errors"

// ErrNoBestTrack reports a course with no usable track membership in the
// snapshot. Every aggregated course comes from the reduced catalog, so
// hitting this means the caller mixed indexes from different catalog
// snapshots; it surfaces as a hard error instead of an empty result.
var ErrNoBestTrack = errors.New("no track membership for course")
