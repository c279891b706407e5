// Package reshape binds the interval and grid arithmetic to frames:
// thickening derives a coarser grid-aligned timestamp per row, padding
// materializes the complete gap-free grid as rows
package reshape

import (
	"fmt"
	"time"

	"timegrid/internal/core/frame"
	"timegrid/internal/core/grid"
	"timegrid/internal/core/interval"
)

// Direction selects the snapping side
type Direction int

const (
	// Down snaps to the boundary at or before the timestamp
	Down Direction = iota
	// Up snaps to the boundary at or after the timestamp
	Up
)

// ThickenOptions controls Thicken
type ThickenOptions struct {
	// Column names the datetime column; empty resolves the single one
	Column string
	// Interval is the target grid, coarser than the column's inferred
	// interval unless Force is set
	Interval interval.Interval
	// Direction defaults to snapping down
	Direction Direction
	// NewColumn defaults to "<column>_<unit>"
	NewColumn string
	// Force skips the coarser-than-source check
	Force bool
	// GroupBy is accepted for symmetry with padding and ignored: a
	// coarser snap is pointwise, so grouping cannot change the result
	GroupBy string
}

// Thicken appends one coarser grid-aligned timestamp per row, snapped
// from the row's datetime cell. Row count, order and existing cells
// are untouched; absent datetime cells thicken to absent cells. The
// input frame is not modified
func Thicken(f *frame.Frame, o ThickenOptions) (*frame.Frame, error) {
	if err := o.Interval.Validate(); err != nil {
		return nil, err
	}
	col, err := f.DatetimeColumn(o.Column)
	if err != nil {
		return nil, err
	}

	times := validTimes(col)
	if !o.Force && len(times) > 0 {
		inferred, err := interval.Infer(times)
		if err != nil {
			return nil, err
		}
		if !coarserThan(o.Interval, inferred) {
			return nil, fmt.Errorf(
				"reshape: thicken interval %s is not coarser than the inferred %s of column %q",
				o.Interval, inferred, col.Name())
		}
	}

	name := o.NewColumn
	if name == "" {
		name = col.Name() + "_" + o.Interval.Unit.String()
	}

	out := f.CloneEmpty()
	added := frame.NewTimeColumn(name, col.Location())
	for i := 0; i < f.NRows(); i++ {
		out.AppendRowFrom(f, i)
	}

	if len(times) > 0 {
		g, err := grid.New(o.Interval, earliest(times), col.Location())
		if err != nil {
			return nil, err
		}
		for i := 0; i < col.Len(); i++ {
			t, ok := col.Time(i)
			if !ok {
				added.AppendMissing()
				continue
			}
			if o.Direction == Up {
				added.AppendTime(g.SnapUp(t))
			} else {
				added.AppendTime(g.SnapDown(t))
			}
		}
	} else {
		for i := 0; i < col.Len(); i++ {
			added.AppendMissing()
		}
	}

	if err := out.AddColumn(added); err != nil {
		return nil, err
	}
	return out, nil
}

// coarserThan reports whether target is a strictly coarser grid than
// source: a coarser unit, or the same unit with a larger count
func coarserThan(target, source interval.Interval) bool {
	if target.Unit.Coarser(source.Unit) {
		return true
	}
	return target.Unit == source.Unit && target.Count > source.Count
}

func validTimes(c *frame.Column) []time.Time {
	out := make([]time.Time, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if t, ok := c.Time(i); ok {
			out = append(out, t)
		}
	}
	return out
}

func earliest(ts []time.Time) time.Time {
	min := ts[0]
	for _, t := range ts[1:] {
		if t.Before(min) {
			min = t
		}
	}
	return min
}
