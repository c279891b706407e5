// Package frame provides the in-memory columnar table that the
// reshape and fill operations work over. Cells are typed per column
// and absence is an explicit per-cell marker, never a sentinel value
package frame

import (
	"fmt"
	"strconv"
	"time"
)

// Kind is the cell type of a column
type Kind int

const (
	// KindTime cells are instants carrying the column's location
	KindTime Kind = iota
	// KindFloat cells are float64
	KindFloat
	// KindInt cells are int64
	KindInt
	// KindString cells are strings
	KindString
	// KindBool cells are bools
	KindBool
)

// String returns the lowercase kind name
func (k Kind) String() string {
	switch k {
	case KindTime:
		return "time"
	case KindFloat:
		return "float"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	}
	return "unknown"
}

// Column is a single named, typed column with a validity mask
type Column struct {
	name string
	kind Kind
	loc  *time.Location

	times  []time.Time
	floats []float64
	ints   []int64
	strs   []string
	bools  []bool
	valid  []bool
}

// NewTimeColumn creates an empty datetime column governed by loc.
// A nil loc defaults to UTC
func NewTimeColumn(name string, loc *time.Location) *Column {
	if loc == nil {
		loc = time.UTC
	}
	return &Column{name: name, kind: KindTime, loc: loc}
}

// NewFloatColumn creates an empty float column
func NewFloatColumn(name string) *Column { return &Column{name: name, kind: KindFloat} }

// NewIntColumn creates an empty int column
func NewIntColumn(name string) *Column { return &Column{name: name, kind: KindInt} }

// NewStringColumn creates an empty string column
func NewStringColumn(name string) *Column { return &Column{name: name, kind: KindString} }

// NewBoolColumn creates an empty bool column
func NewBoolColumn(name string) *Column { return &Column{name: name, kind: KindBool} }

// Name returns the column name
func (c *Column) Name() string { return c.name }

// Kind returns the column cell type
func (c *Column) Kind() Kind { return c.kind }

// Location returns the governing zone of a time column, nil otherwise
func (c *Column) Location() *time.Location { return c.loc }

// Len returns the number of cells
func (c *Column) Len() int { return len(c.valid) }

// Valid reports whether cell i holds a value
func (c *Column) Valid(i int) bool { return c.valid[i] }

// CloneEmpty returns a column with the same name, kind and zone and
// no cells
func (c *Column) CloneEmpty() *Column {
	return &Column{name: c.name, kind: c.kind, loc: c.loc}
}

// AppendTime appends an instant, rendered in the column's zone.
// Panics unless the column is a time column
func (c *Column) AppendTime(t time.Time) {
	c.mustKind(KindTime)
	c.times = append(c.times, t.In(c.loc))
	c.valid = append(c.valid, true)
}

// AppendFloat appends a float cell
func (c *Column) AppendFloat(v float64) {
	c.mustKind(KindFloat)
	c.floats = append(c.floats, v)
	c.valid = append(c.valid, true)
}

// AppendInt appends an int cell
func (c *Column) AppendInt(v int64) {
	c.mustKind(KindInt)
	c.ints = append(c.ints, v)
	c.valid = append(c.valid, true)
}

// AppendString appends a string cell
func (c *Column) AppendString(v string) {
	c.mustKind(KindString)
	c.strs = append(c.strs, v)
	c.valid = append(c.valid, true)
}

// AppendBool appends a bool cell
func (c *Column) AppendBool(v bool) {
	c.mustKind(KindBool)
	c.bools = append(c.bools, v)
	c.valid = append(c.valid, true)
}

// AppendMissing appends an absent cell
func (c *Column) AppendMissing() {
	switch c.kind {
	case KindTime:
		c.times = append(c.times, time.Time{})
	case KindFloat:
		c.floats = append(c.floats, 0)
	case KindInt:
		c.ints = append(c.ints, 0)
	case KindString:
		c.strs = append(c.strs, "")
	case KindBool:
		c.bools = append(c.bools, false)
	}
	c.valid = append(c.valid, false)
}

// AppendFrom appends cell i of src, which must share c's kind
func (c *Column) AppendFrom(src *Column, i int) {
	c.mustKind(src.kind)
	if !src.valid[i] {
		c.AppendMissing()
		return
	}
	switch c.kind {
	case KindTime:
		c.AppendTime(src.times[i])
	case KindFloat:
		c.AppendFloat(src.floats[i])
	case KindInt:
		c.AppendInt(src.ints[i])
	case KindString:
		c.AppendString(src.strs[i])
	case KindBool:
		c.AppendBool(src.bools[i])
	}
}

// SetTime overwrites cell i of a time column
func (c *Column) SetTime(i int, t time.Time) {
	c.mustKind(KindTime)
	c.times[i] = t.In(c.loc)
	c.valid[i] = true
}

// SetFloat overwrites cell i of a float column
func (c *Column) SetFloat(i int, v float64) {
	c.mustKind(KindFloat)
	c.floats[i] = v
	c.valid[i] = true
}

// SetInt overwrites cell i of an int column
func (c *Column) SetInt(i int, v int64) {
	c.mustKind(KindInt)
	c.ints[i] = v
	c.valid[i] = true
}

// SetString overwrites cell i of a string column
func (c *Column) SetString(i int, v string) {
	c.mustKind(KindString)
	c.strs[i] = v
	c.valid[i] = true
}

// SetBool overwrites cell i of a bool column
func (c *Column) SetBool(i int, v bool) {
	c.mustKind(KindBool)
	c.bools[i] = v
	c.valid[i] = true
}

// Time returns cell i of a time column; ok is false for absent cells
func (c *Column) Time(i int) (time.Time, bool) {
	c.mustKind(KindTime)
	return c.times[i], c.valid[i]
}

// Float returns cell i of a float column
func (c *Column) Float(i int) (float64, bool) {
	c.mustKind(KindFloat)
	return c.floats[i], c.valid[i]
}

// Int returns cell i of an int column
func (c *Column) Int(i int) (int64, bool) {
	c.mustKind(KindInt)
	return c.ints[i], c.valid[i]
}

// Str returns cell i of a string column
func (c *Column) Str(i int) (string, bool) {
	c.mustKind(KindString)
	return c.strs[i], c.valid[i]
}

// Bool returns cell i of a bool column
func (c *Column) Bool(i int) (bool, bool) {
	c.mustKind(KindBool)
	return c.bools[i], c.valid[i]
}

// Format renders cell i as text; absent cells render empty. Times use
// RFC 3339, floats the shortest exact form
func (c *Column) Format(i int) string {
	if !c.valid[i] {
		return ""
	}
	switch c.kind {
	case KindTime:
		return c.times[i].Format(time.RFC3339)
	case KindFloat:
		return strconv.FormatFloat(c.floats[i], 'g', -1, 64)
	case KindInt:
		return strconv.FormatInt(c.ints[i], 10)
	case KindString:
		return c.strs[i]
	case KindBool:
		return strconv.FormatBool(c.bools[i])
	}
	return ""
}

// Value returns cell i boxed for JSON encoding; absent cells are nil
func (c *Column) Value(i int) any {
	if !c.valid[i] {
		return nil
	}
	switch c.kind {
	case KindTime:
		return c.times[i]
	case KindFloat:
		return c.floats[i]
	case KindInt:
		return c.ints[i]
	case KindString:
		return c.strs[i]
	case KindBool:
		return c.bools[i]
	}
	return nil
}

func (c *Column) mustKind(k Kind) {
	if c.kind != k {
		panic(fmt.Sprintf("frame: column %q is %s, not %s", c.name, c.kind, k))
	}
}
