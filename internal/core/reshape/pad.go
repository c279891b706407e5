package reshape

import (
	"fmt"
	"strconv"
	"time"

	"timegrid/internal/core/frame"
	"timegrid/internal/core/grid"
	"timegrid/internal/core/interval"
)

// PadOptions controls Pad
type PadOptions struct {
	// Column names the datetime column; empty resolves the single one
	Column string
	// GroupBy pads each partition of the named column over its own
	// observed range
	GroupBy string
	// Interval overrides inference. Inference always runs over the
	// union of all partitions, never per partition
	Interval *interval.Interval
	// Start, when set, becomes the grid anchor and the first boundary
	// of every partition. End caps every partition's last boundary.
	// Without them each partition spans its own observed range
	Start *time.Time
	End   *time.Time
	// MaxPoints caps the total generated grid length; zero is
	// unlimited. Hosts guard far-future bounds with it
	MaxPoints int
}

// Pad materializes the complete gap-free boundary sequence between
// each partition's bounds and left-merges the source rows onto it by
// exact timestamp. Grid points with no source row become rows whose
// non-key cells are absent. Source rows off the grid fail with
// NonAlignedTimestampError; with an inferred interval this cannot
// happen. Output rows are ordered by partition first appearance, then
// timestamp ascending. The input frame is not modified
func Pad(f *frame.Frame, o PadOptions) (*frame.Frame, error) {
	col, err := f.DatetimeColumn(o.Column)
	if err != nil {
		return nil, err
	}
	for i := 0; i < col.Len(); i++ {
		if !col.Valid(i) {
			return nil, fmt.Errorf("reshape: pad: column %q has an absent timestamp at row %d",
				col.Name(), i)
		}
	}

	times := validTimes(col)
	iv, err := padInterval(times, o)
	if err != nil {
		return nil, err
	}

	loc := col.Location()
	anchor := time.Time{}
	switch {
	case o.Start != nil:
		anchor = *o.Start
	case len(times) > 0:
		anchor = earliest(times)
	default:
		return nil, fmt.Errorf("reshape: pad: column %q is empty and no explicit bounds were given",
			col.Name())
	}
	g, err := grid.New(iv, anchor, loc)
	if err != nil {
		return nil, err
	}

	parts, err := f.Partitions(o.GroupBy)
	if err != nil {
		return nil, err
	}

	out := f.CloneEmpty()
	points := 0
	for _, p := range parts {
		if err := padPartition(out, f, col, g, p, o, &points); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// padInterval picks the caller's interval or infers one from the
// whole column
func padInterval(times []time.Time, o PadOptions) (interval.Interval, error) {
	if o.Interval != nil {
		if err := o.Interval.Validate(); err != nil {
			return interval.Interval{}, err
		}
		return *o.Interval, nil
	}
	return interval.Infer(times)
}

// padPartition walks one partition's boundary sequence and merges its
// source rows onto it
func padPartition(
	out, src *frame.Frame,
	col *frame.Column,
	g grid.Grid,
	p frame.Partition,
	o PadOptions,
	points *int,
) error {
	start, end, ok := partitionBounds(col, g, p, o)
	if !ok {
		// Nothing observed and no explicit bounds; an empty partition
		// contributes no rows
		return nil
	}

	w, err := g.Walk(start, end)
	if err != nil {
		return err
	}

	// Index partition rows by instant; duplicates keep source order
	byInstant := make(map[int64][]int, len(p.Rows))
	for _, row := range p.Rows {
		t, _ := col.Time(row)
		key := t.UnixNano()
		byInstant[key] = append(byInstant[key], row)
	}

	matched := 0
	groupCol := groupColumn(out, o.GroupBy)
	for t, more := w.Next(); more; t, more = w.Next() {
		*points++
		if o.MaxPoints > 0 && *points > o.MaxPoints {
			return fmt.Errorf(
				"reshape: pad: grid from %s to %s at %s exceeds %d points",
				start.Format(time.RFC3339), end.Format(time.RFC3339),
				g.Interval, o.MaxPoints)
		}
		rows := byInstant[t.UnixNano()]
		if len(rows) > 0 {
			matched += len(rows)
			for _, row := range rows {
				out.AppendRowFrom(src, row)
			}
			continue
		}
		appendGridRow(out, col.Name(), groupCol, t, p)
	}

	// Rows inside the padded range but off the grid are the caller's
	// interval override disagreeing with the data
	if matched < len(p.Rows) {
		if err := offGridError(col, g, p, start, end); err != nil {
			return err
		}
	}
	return nil
}

// partitionBounds resolves one partition's first and last boundary.
// Explicit overrides apply identically to every partition; otherwise
// the bounds snap down from the partition's own observed range
func partitionBounds(
	col *frame.Column,
	g grid.Grid,
	p frame.Partition,
	o PadOptions,
) (start, end time.Time, ok bool) {
	var min, max time.Time
	for i, row := range p.Rows {
		t, _ := col.Time(row)
		if i == 0 || t.Before(min) {
			min = t
		}
		if i == 0 || t.After(max) {
			max = t
		}
	}

	switch {
	case o.Start != nil:
		start = g.SnapDown(*o.Start)
	case len(p.Rows) > 0:
		start = g.SnapDown(min)
	default:
		return time.Time{}, time.Time{}, false
	}
	switch {
	case o.End != nil:
		end = *o.End
	case len(p.Rows) > 0:
		end = max
	default:
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// appendGridRow emits a generated boundary row: the boundary itself,
// the partition key when grouping, absence everywhere else
func appendGridRow(out *frame.Frame, timeCol string, groupCol *frame.Column, t time.Time, p frame.Partition) {
	for _, c := range out.Columns() {
		switch {
		case c.Name() == timeCol:
			c.AppendTime(t)
		case groupCol != nil && c.Name() == groupCol.Name() && !p.Missing:
			appendKey(c, p.Key)
		default:
			c.AppendMissing()
		}
	}
}

// groupColumn returns the output's grouping column, nil when not
// grouping
func groupColumn(out *frame.Frame, key string) *frame.Column {
	if key == "" {
		return nil
	}
	c, ok := out.Col(key)
	if !ok {
		return nil
	}
	return c
}

// appendKey writes a rendered partition key back into a grouping
// cell. Non-string keys round-trip through their rendered form; a
// parse failure leaves the cell absent
func appendKey(c *frame.Column, key string) {
	switch c.Kind() {
	case frame.KindString:
		c.AppendString(key)
	case frame.KindInt:
		if v, err := strconv.ParseInt(key, 10, 64); err == nil {
			c.AppendInt(v)
			return
		}
		c.AppendMissing()
	case frame.KindFloat:
		if v, err := strconv.ParseFloat(key, 64); err == nil {
			c.AppendFloat(v)
			return
		}
		c.AppendMissing()
	case frame.KindBool:
		if v, err := strconv.ParseBool(key); err == nil {
			c.AppendBool(v)
			return
		}
		c.AppendMissing()
	case frame.KindTime:
		if v, err := time.Parse(time.RFC3339, key); err == nil {
			c.AppendTime(v)
			return
		}
		c.AppendMissing()
	}
}

// offGridError collects the offending off-grid timestamps of one
// partition, ignoring rows the bounds cropped away
func offGridError(
	col *frame.Column,
	g grid.Grid,
	p frame.Partition,
	start, end time.Time,
) error {
	e := &NonAlignedTimestampError{Column: col.Name(), Grid: g.Interval}
	for _, row := range p.Rows {
		t, _ := col.Time(row)
		if t.Before(start) || t.After(end) {
			continue
		}
		if g.Aligned(t) {
			continue
		}
		e.Count++
		if len(e.Values) < 3 {
			e.Values = append(e.Values, t)
		}
	}
	if e.Count == 0 {
		return nil
	}
	return e
}
