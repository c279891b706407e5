// Package fill substitutes values for the absent cells padding leaves
// behind. Strategies work column by column on a copy of the frame and
// never consult the grid or the grouping
package fill

import (
	"fmt"
	"time"

	"timegrid/internal/core/frame"

	"github.com/montanaflynn/stats"
)

// Reduction collapses the observed cells of a float column into the
// replacement for its absent ones
type Reduction func([]float64) (float64, error)

// Reductions covering the usual summaries
var (
	Mean   Reduction = func(v []float64) (float64, error) { return stats.Mean(v) }
	Median Reduction = func(v []float64) (float64, error) { return stats.Median(v) }
	Min    Reduction = func(v []float64) (float64, error) { return stats.Min(v) }
	Max    Reduction = func(v []float64) (float64, error) { return stats.Max(v) }
	Sum    Reduction = func(v []float64) (float64, error) { return stats.Sum(v) }
)

// Value returns a copy of f with the absent cells of the named columns
// replaced by v. With no columns named every column holding absent
// cells is targeted. v must suit each targeted column's kind; float
// and int columns also take a plain int
func Value(f *frame.Frame, cols []string, v any) (*frame.Frame, error) {
	out := clone(f)
	targets, err := targetColumns(out, cols)
	if err != nil {
		return nil, err
	}
	for _, c := range targets {
		set, err := setter(c, v)
		if err != nil {
			return nil, err
		}
		for _, i := range absentRows(c) {
			set(i)
		}
	}
	return out, nil
}

// Func returns a copy of f with the absent cells of the named float
// columns replaced by fn over each column's observed cells. Columns of
// any other kind are refused
func Func(f *frame.Frame, cols []string, fn Reduction) (*frame.Frame, error) {
	out := clone(f)
	targets, err := targetColumns(out, cols)
	if err != nil {
		return nil, err
	}
	for _, c := range targets {
		if c.Kind() != frame.KindFloat {
			return nil, fmt.Errorf("fill: reductions need a float column; %q is %s",
				c.Name(), c.Kind())
		}
		missing := absentRows(c)
		if len(missing) == 0 {
			continue
		}
		obs := observedFloats(c)
		if len(obs) == 0 {
			return nil, fmt.Errorf("fill: column %q has no observed cells to reduce", c.Name())
		}
		v, err := fn(obs)
		if err != nil {
			return nil, fmt.Errorf("fill: reduce column %q: %w", c.Name(), err)
		}
		for _, i := range missing {
			c.SetFloat(i, v)
		}
	}
	return out, nil
}

// Prevalent returns a copy of f with the absent cells of the named
// columns replaced by each column's most frequent observed value. Ties
// go to the value observed first
func Prevalent(f *frame.Frame, cols []string) (*frame.Frame, error) {
	out := clone(f)
	targets, err := targetColumns(out, cols)
	if err != nil {
		return nil, err
	}
	for _, c := range targets {
		missing := absentRows(c)
		if len(missing) == 0 {
			continue
		}
		row, ok := prevalentRow(c)
		if !ok {
			return nil, fmt.Errorf("fill: column %q has no observed cells to draw from", c.Name())
		}
		for _, i := range missing {
			copyCell(c, i, row)
		}
	}
	return out, nil
}

// targetColumns resolves the requested columns against f. An empty
// request targets every column that holds at least one absent cell
func targetColumns(f *frame.Frame, cols []string) ([]*frame.Column, error) {
	if len(cols) == 0 {
		var out []*frame.Column
		for _, c := range f.Columns() {
			if len(absentRows(c)) > 0 {
				out = append(out, c)
			}
		}
		return out, nil
	}
	out := make([]*frame.Column, 0, len(cols))
	for _, name := range cols {
		c, ok := f.Col(name)
		if !ok {
			return nil, fmt.Errorf("fill: no column %q", name)
		}
		out = append(out, c)
	}
	return out, nil
}

// setter adapts v to c's kind once so the per-cell writes stay cheap
func setter(c *frame.Column, v any) (func(int), error) {
	switch c.Kind() {
	case frame.KindTime:
		if t, ok := v.(time.Time); ok {
			return func(i int) { c.SetTime(i, t) }, nil
		}
	case frame.KindFloat:
		switch x := v.(type) {
		case float64:
			return func(i int) { c.SetFloat(i, x) }, nil
		case int:
			return func(i int) { c.SetFloat(i, float64(x)) }, nil
		case int64:
			return func(i int) { c.SetFloat(i, float64(x)) }, nil
		}
	case frame.KindInt:
		switch x := v.(type) {
		case int64:
			return func(i int) { c.SetInt(i, x) }, nil
		case int:
			return func(i int) { c.SetInt(i, int64(x)) }, nil
		}
	case frame.KindString:
		if s, ok := v.(string); ok {
			return func(i int) { c.SetString(i, s) }, nil
		}
	case frame.KindBool:
		if b, ok := v.(bool); ok {
			return func(i int) { c.SetBool(i, b) }, nil
		}
	}
	return nil, fmt.Errorf("fill: %T value cannot fill %s column %q", v, c.Kind(), c.Name())
}

// prevalentRow picks the row of the most frequent observed value, the
// earliest such row on a tie. ok is false when nothing is observed
func prevalentRow(c *frame.Column) (int, bool) {
	counts := make(map[string]int)
	for i := 0; i < c.Len(); i++ {
		if c.Valid(i) {
			counts[c.Format(i)]++
		}
	}
	best := 0
	for _, n := range counts {
		if n > best {
			best = n
		}
	}
	if best == 0 {
		return 0, false
	}
	for i := 0; i < c.Len(); i++ {
		if c.Valid(i) && counts[c.Format(i)] == best {
			return i, true
		}
	}
	return 0, false
}

func copyCell(c *frame.Column, dst, src int) {
	switch c.Kind() {
	case frame.KindTime:
		t, _ := c.Time(src)
		c.SetTime(dst, t)
	case frame.KindFloat:
		v, _ := c.Float(src)
		c.SetFloat(dst, v)
	case frame.KindInt:
		v, _ := c.Int(src)
		c.SetInt(dst, v)
	case frame.KindString:
		v, _ := c.Str(src)
		c.SetString(dst, v)
	case frame.KindBool:
		v, _ := c.Bool(src)
		c.SetBool(dst, v)
	}
}

func absentRows(c *frame.Column) []int {
	var out []int
	for i := 0; i < c.Len(); i++ {
		if !c.Valid(i) {
			out = append(out, i)
		}
	}
	return out
}

func observedFloats(c *frame.Column) []float64 {
	out := make([]float64, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if v, ok := c.Float(i); ok {
			out = append(out, v)
		}
	}
	return out
}

func clone(f *frame.Frame) *frame.Frame {
	out := f.CloneEmpty()
	for i := 0; i < f.NRows(); i++ {
		out.AppendRowFrom(f, i)
	}
	return out
}
