package interval

import "fmt"

// UnrecognizedIntervalError reports an interval token that names none
// of the supported granularity/count combinations
type UnrecognizedIntervalError struct {
	Token string
	// Reason is set when the token parsed but the combination is
	// rejected (zero count, count on week/quarter/year)
	Reason string
}

func (e *UnrecognizedIntervalError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("interval: unrecognized interval %q: %s", e.Token, e.Reason)
	}
	return fmt.Sprintf(
		"interval: unrecognized interval %q (accepted: an optional count followed by "+
			"second, minute, hour, day, week, month, quarter or year)", e.Token)
}

// InsufficientDataError reports an inference attempt over too few
// distinct timestamps to carry a recurrence pattern
type InsufficientDataError struct {
	Distinct int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf(
		"interval: cannot infer an interval from %d distinct timestamps (need at least 1)",
		e.Distinct)
}
