package schedule

import "errors"

// ValidationError reports malformed schedule input caught before any
// write: an empty interval list, an inverted date range, a
// non-sequential interval or an out-of-range current index. Handlers
// translate it into an HTTP 400 response.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ErrNoActiveInterval is returned by Close and Adjust when the
// schedule's sequence is already exhausted (current_schedule is
// null). Handlers translate it into an HTTP 400 response.
var ErrNoActiveInterval = errors.New("bed schedule has no active interval")

// ErrSyncFailed is returned when a synchronization write reported
// zero effect where one was required. It flags a data-consistency
// hazard and maps to an HTTP 500 response; repair is left to
// operational tooling.
var ErrSyncFailed = errors.New("bed schedule sync produced no changes")
