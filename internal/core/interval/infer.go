package interval

import (
	"sort"
	"time"
)

// chain is the main inference walk, finest to coarsest. Week and
// quarter are refinements of day and month, not chain members
var chain = [...]Unit{Second, Minute, Hour, Day, Month, Year}

// Infer determines the finest interval that explains every observed
// timestamp as lying on a common boundary-aligned grid.
//
// Duplicate instants are discarded. An empty set fails with
// InsufficientDataError; a single distinct timestamp is reported as
// (second, 1) by convention, since no pattern can be inferred. The
// result is invariant under input order and duplication.
//
// Consistency walks the unit chain finest to coarsest: a unit explains
// the data when every timestamp sits on one of its boundaries. The
// coarsest explaining unit wins, its count is the GCD of the
// whole-unit offsets from the earliest observation, and two special
// cases refine the winner: day offsets that are Sunday-aligned
// multiples of seven report (week, 1), month offsets that are
// quarter-aligned multiples of three report (quarter, 1)
func Infer(times []time.Time) (Interval, error) {
	ts := dedupe(times)
	if len(ts) == 0 {
		return Interval{}, &InsufficientDataError{Distinct: 0}
	}
	if len(ts) == 1 {
		return Interval{Unit: Second, Count: 1}, nil
	}

	var (
		winner Unit
		offs   []int64
		found  bool
	)
	for _, u := range chain {
		cand, ok := offsetsOn(u, ts)
		if !ok {
			break
		}
		winner, offs, found = u, cand, true
	}
	if !found {
		// Sub-second precision; out of scope, reported at the finest
		// supported granularity
		return Interval{Unit: Second, Count: 1}, nil
	}

	switch winner {
	case Day:
		if aligned(Week, ts, 7) {
			return Interval{Unit: Week, Count: 1}, nil
		}
	case Month:
		if aligned(Quarter, ts, 3) {
			return Interval{Unit: Quarter, Count: 1}, nil
		}
	}

	count := gcd64(offs)
	if count < 1 || !winner.AcceptsCount() {
		count = 1
	}
	return Interval{Unit: winner, Count: int(count)}, nil
}

// dedupe sorts the input by instant and drops exact duplicates
func dedupe(times []time.Time) []time.Time {
	ts := make([]time.Time, len(times))
	copy(ts, times)
	sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
	out := ts[:0]
	for i, t := range ts {
		if i > 0 && t.Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// offsetsOn computes the whole-unit offsets of every timestamp from
// the earliest one snapped down to a u boundary. ok is false as soon
// as any timestamp falls off the unit's boundaries
func offsetsOn(u Unit, ts []time.Time) ([]int64, bool) {
	anchor := u.Truncate(ts[0])
	offs := make([]int64, len(ts))
	for i, t := range ts {
		n, ok := u.UnitsBetween(anchor, t)
		if !ok {
			return nil, false
		}
		offs[i] = n
	}
	return offs, true
}

// aligned reports whether every timestamp is a whole multiple of div
// base units away from the earliest timestamp snapped to a u boundary
func aligned(u Unit, ts []time.Time, div int64) bool {
	base := Day
	if u == Quarter {
		base = Month
	}
	anchor := u.Truncate(ts[0])
	for _, t := range ts {
		n, ok := base.UnitsBetween(anchor, t)
		if !ok || n%div != 0 {
			return false
		}
	}
	return true
}

func gcd64(vs []int64) int64 {
	var g int64
	for _, v := range vs {
		if v < 0 {
			v = -v
		}
		for v != 0 {
			g, v = v, g%v
		}
	}
	return g
}
