package grid

import "time"

// Walker enumerates grid boundaries lazily, in increasing order. It is
// a pure cursor over the grid: re-walking the same range reproduces
// the same sequence
type Walker struct {
	g    Grid
	next time.Time
	end  time.Time
	done bool
}

// Walk starts a walker at start, which the caller has already aligned
// to the grid, and stops it after the largest boundary not exceeding
// end. A start after end fails with EmptyRangeError
func (g Grid) Walk(start, end time.Time) (*Walker, error) {
	start = start.In(g.Loc)
	end = end.In(g.Loc)
	if start.After(end) {
		return nil, &EmptyRangeError{Start: start, End: end}
	}
	return &Walker{g: g, next: start, end: end}, nil
}

// Next yields the following boundary; ok is false once the walk has
// passed the end of the range
func (w *Walker) Next() (time.Time, bool) {
	if w.done || w.next.After(w.end) {
		w.done = true
		return time.Time{}, false
	}
	cur := w.next
	w.next = w.g.Step(cur, 1)
	return cur, true
}

// Sequence materializes the full boundary sequence between start and
// end inclusive, first element start, last element the largest
// boundary not exceeding end
func (g Grid) Sequence(start, end time.Time) ([]time.Time, error) {
	w, err := g.Walk(start, end)
	if err != nil {
		return nil, err
	}
	var out []time.Time
	for t, ok := w.Next(); ok; t, ok = w.Next() {
		out = append(out, t)
	}
	return out, nil
}
