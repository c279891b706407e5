package reshape

import (
	"fmt"
	"time"

	"timegrid/internal/core/interval"
)

// NonAlignedTimestampError reports source timestamps that fall off the
// padding grid. It can only arise from a caller-supplied interval: an
// inferred grid holds every observation by construction
type NonAlignedTimestampError struct {
	Column string
	Grid   interval.Interval
	// Values holds the first offenders, at most three; Count is the
	// full tally
	Values []time.Time
	Count  int
}

func (e *NonAlignedTimestampError) Error() string {
	first := ""
	if len(e.Values) > 0 {
		first = fmt.Sprintf(" (first: %s)", e.Values[0].Format(time.RFC3339))
	}
	return fmt.Sprintf(
		"reshape: %d timestamps in column %q are off the %s grid%s; use a finer interval or align the data",
		e.Count, e.Column, e.Grid, first)
}
