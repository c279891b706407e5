// Package grid implements boundary arithmetic over an anchored
// recurrence grid: snapping timestamps onto boundaries, stepping by
// whole intervals and enumerating gap-free boundary sequences.
//
// All arithmetic for day and coarser units works in civil (wall clock)
// fields and reattaches the governing zone afterwards, so a daily grid
// holds exactly one point per civil day across zone transitions even
// though the elapsed span may be 23 or 25 hours. A civil time skipped
// by a forward transition resolves to the next valid instant; a civil
// time doubled by a fall-back transition resolves to its first
// occurrence. Sub-day units step on the instant timeline
package grid

import (
	"time"

	"timegrid/internal/core/interval"
)

// Grid is an infinite, strictly increasing sequence of boundary
// timestamps: an interval, an anchor boundary all points are offset
// from, and the governing zone
type Grid struct {
	Interval interval.Interval
	Anchor   time.Time
	Loc      *time.Location
}

// New builds a grid over loc anchored at the boundary at or before
// anchor. A nil loc adopts the anchor's location
func New(iv interval.Interval, anchor time.Time, loc *time.Location) (Grid, error) {
	if err := iv.Validate(); err != nil {
		return Grid{}, err
	}
	if loc == nil {
		loc = anchor.Location()
	}
	return Grid{
		Interval: iv,
		Anchor:   iv.Unit.Truncate(anchor.In(loc)),
		Loc:      loc,
	}, nil
}

// SnapDown moves t to the nearest grid boundary at or before it
func (g Grid) SnapDown(t time.Time) time.Time {
	t = t.In(g.Loc)
	u := g.Interval.Unit
	switch u {
	case interval.Second, interval.Minute, interval.Hour:
		span, _ := u.Span()
		span *= time.Duration(g.Interval.Count)
		d := t.Sub(g.Anchor) % span
		if d < 0 {
			d += span
		}
		return t.Add(-d)
	default:
		floor := u.Truncate(t)
		n, _ := u.UnitsBetween(g.Anchor, floor)
		return g.offset(n - floorMod(n, int64(g.Interval.Count)))
	}
}

// SnapUp moves t to the nearest grid boundary at or after it
func (g Grid) SnapUp(t time.Time) time.Time {
	down := g.SnapDown(t)
	if down.Equal(t.In(g.Loc)) {
		return down
	}
	return g.Step(down, 1)
}

// Step moves t by n grid intervals. t need not be a boundary: fixed
// units add elapsed duration, day and week add civil days preserving
// the wall clock, and calendar units add fields, clamping the
// day-of-month to the last valid day of the target month (stepping one
// month from January 31 lands on February 28 or 29)
func (g Grid) Step(t time.Time, n int) time.Time {
	t = t.In(g.Loc)
	k := n * g.Interval.Count
	switch g.Interval.Unit {
	case interval.Second, interval.Minute, interval.Hour:
		span, _ := g.Interval.Unit.Span()
		return t.Add(span * time.Duration(k))
	case interval.Day:
		return addCivilDays(t, k)
	case interval.Week:
		return addCivilDays(t, 7*k)
	case interval.Month:
		return addMonthsClamped(t, k)
	case interval.Quarter:
		return addMonthsClamped(t, 3*k)
	case interval.Year:
		return addMonthsClamped(t, 12*k)
	}
	return t
}

// StepStrict is Step under strict day preservation: instead of
// clamping, a calendar step whose target month lacks the source
// day-of-month fails with InvalidCalendarDateError
func (g Grid) StepStrict(t time.Time, n int) (time.Time, error) {
	if !g.Interval.Unit.Calendar() {
		return g.Step(t, n), nil
	}
	t = t.In(g.Loc)
	months := g.Interval.Count * n
	switch g.Interval.Unit {
	case interval.Quarter:
		months = 3 * n
	case interval.Year:
		months = 12 * n
	}
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, g.Loc)
	if last := daysIn(first.Year(), first.Month()); d > last {
		return time.Time{}, &InvalidCalendarDateError{
			Year:  first.Year(),
			Month: first.Month(),
			Day:   d,
		}
	}
	return g.Step(t, n), nil
}

// Aligned reports whether t is a grid boundary
func (g Grid) Aligned(t time.Time) bool {
	return g.SnapDown(t).Equal(t.In(g.Loc))
}

// offset returns the boundary n intervals from the anchor
func (g Grid) offset(n int64) time.Time {
	u := g.Interval.Unit
	switch u {
	case interval.Day:
		return addCivilDays(g.Anchor, int(n))
	case interval.Week:
		return addCivilDays(g.Anchor, 7*int(n))
	case interval.Month:
		return addMonthsClamped(g.Anchor, int(n))
	case interval.Quarter:
		return addMonthsClamped(g.Anchor, 3*int(n))
	case interval.Year:
		return addMonthsClamped(g.Anchor, 12*int(n))
	}
	span, _ := u.Span()
	return g.Anchor.Add(span * time.Duration(n))
}

// addCivilDays adds calendar days keeping the wall clock, resolving
// the result through the location's transition rules
func addCivilDays(t time.Time, days int) time.Time {
	y, m, d := t.Date()
	h, min, s := t.Clock()
	return time.Date(y, m, d+days, h, min, s, t.Nanosecond(), t.Location())
}

// addMonthsClamped adds calendar months, clamping the day-of-month to
// the last valid day of the target month
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	h, min, s := t.Clock()
	first := time.Date(y, m+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, h, min, s, t.Nanosecond(), t.Location())
}

// daysIn returns the number of days in a month; day zero of the next
// month normalizes backwards to the last day of this one
func daysIn(y int, m time.Month) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
