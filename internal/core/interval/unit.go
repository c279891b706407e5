// Package interval defines the canonical grid granularities and infers
// the recurrence interval of observed timestamp sets
package interval

import "time"

// Unit is a canonical grid granularity. The declaration order is the
// canonical ordering, finest first
type Unit int

const (
	// Second is the finest supported granularity
	Second Unit = iota
	// Minute is 60 seconds
	Minute
	// Hour is 60 minutes
	Hour
	// Day is one civil day (23-25 elapsed hours across zone transitions)
	Day
	// Week is seven civil days, boundaries on Sunday
	Week
	// Month is one calendar month
	Month
	// Quarter is three calendar months, boundaries on Jan/Apr/Jul/Oct
	Quarter
	// Year is one calendar year
	Year
)

// units lists all granularities finest to coarsest
var units = [...]Unit{Second, Minute, Hour, Day, Week, Month, Quarter, Year}

// String returns the singular lowercase name of the unit
func (u Unit) String() string {
	switch u {
	case Second:
		return "second"
	case Minute:
		return "minute"
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Week:
		return "week"
	case Month:
		return "month"
	case Quarter:
		return "quarter"
	case Year:
		return "year"
	}
	return "unknown"
}

// Finer reports whether u is strictly finer than v
func (u Unit) Finer(v Unit) bool { return u < v }

// Coarser reports whether u is strictly coarser than v
func (u Unit) Coarser(v Unit) bool { return u > v }

// Calendar reports whether the unit's span varies with the calendar.
// Calendar units step by field arithmetic, never by fixed duration
func (u Unit) Calendar() bool {
	switch u {
	case Month, Quarter, Year:
		return true
	}
	return false
}

// Span returns the nominal duration of one unit. For Day and Week the
// value is nominal only (elapsed time differs across zone transitions).
// Calendar units have no fixed span and report ok false
func (u Unit) Span() (time.Duration, bool) {
	switch u {
	case Second:
		return time.Second, true
	case Minute:
		return time.Minute, true
	case Hour:
		return time.Hour, true
	case Day:
		return 24 * time.Hour, true
	case Week:
		return 7 * 24 * time.Hour, true
	}
	return 0, false
}

// AcceptsCount reports whether the unit may carry a count above one.
// Week and quarter are fixed multiples of day and month and take no
// count of their own; year steps are always single
func (u Unit) AcceptsCount() bool {
	switch u {
	case Second, Minute, Hour, Day, Month:
		return true
	}
	return false
}

// Truncate snaps t down to the unit boundary at or before it, keeping
// t's location. Week boundaries fall on Sunday 00:00:00, quarter
// boundaries on the first day of January, April, July and October
func (u Unit) Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch u {
	case Second:
		return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, loc)
	case Minute:
		return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, loc)
	case Hour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, loc)
	case Day:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case Week:
		return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, loc)
	case Month:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case Quarter:
		q := (int(m) - 1) / 3
		return time.Date(y, time.Month(q*3+1), 1, 0, 0, 0, 0, loc)
	case Year:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	}
	return t
}

// UnitsBetween reports the whole-unit distance from a to b. Both
// arguments must already lie on u boundaries; ok is false otherwise.
// Day and week distances count civil days, so the result is exact
// across zone transitions
func (u Unit) UnitsBetween(a, b time.Time) (int64, bool) {
	if !u.Truncate(a).Equal(a) || !u.Truncate(b).Equal(b) {
		return 0, false
	}
	switch u {
	case Second, Minute, Hour:
		span, _ := u.Span()
		d := b.Sub(a)
		if d%span != 0 {
			return 0, false
		}
		return int64(d / span), true
	case Day:
		return civilDays(a, b), true
	case Week:
		return civilDays(a, b) / 7, true
	case Month:
		return monthsBetween(a, b), true
	case Quarter:
		return monthsBetween(a, b) / 3, true
	case Year:
		return int64(b.Year() - a.Year()), true
	}
	return 0, false
}

// civilDays counts calendar days from a to b ignoring time zone
// offsets. Both must be at civil midnight in their own locations
func civilDays(a, b time.Time) int64 {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	au := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	bu := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int64(bu.Sub(au) / (24 * time.Hour))
}

// monthsBetween counts whole calendar months between two month starts
func monthsBetween(a, b time.Time) int64 {
	return int64((b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month()))
}
