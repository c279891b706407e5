package grid

import (
	"fmt"
	"time"
)

// EmptyRangeError reports a sequence request whose start boundary lies
// after its end boundary
type EmptyRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *EmptyRangeError) Error() string {
	return fmt.Sprintf("grid: empty range: start %s is after end %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// InvalidCalendarDateError reports a calendar step that would preserve
// a day-of-month the target month does not have. Step clamps instead
// of failing; only StepStrict produces this error
type InvalidCalendarDateError struct {
	Year  int
	Month time.Month
	Day   int
}

func (e *InvalidCalendarDateError) Error() string {
	return fmt.Sprintf("grid: %s %d has no day %d", e.Month, e.Year, e.Day)
}
