package frame

import (
	"fmt"
	"time"
)

// Frame is an ordered collection of equal-length columns
type Frame struct {
	cols   []*Column
	byName map[string]int
}

// New builds a frame. Column names must be unique and lengths equal
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{byName: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := f.AddColumn(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// AddColumn appends a column; its length must match the frame's
func (f *Frame) AddColumn(c *Column) error {
	if _, dup := f.byName[c.Name()]; dup {
		return fmt.Errorf("frame: duplicate column %q", c.Name())
	}
	if len(f.cols) > 0 && c.Len() != f.NRows() {
		return fmt.Errorf("frame: column %q has %d rows, frame has %d",
			c.Name(), c.Len(), f.NRows())
	}
	f.byName[c.Name()] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// NRows returns the row count
func (f *Frame) NRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// NCols returns the column count
func (f *Frame) NCols() int { return len(f.cols) }

// Names returns the column names in declaration order
func (f *Frame) Names() []string {
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.Name()
	}
	return out
}

// Columns returns the columns in declaration order
func (f *Frame) Columns() []*Column { return f.cols }

// Col returns the named column
func (f *Frame) Col(name string) (*Column, bool) {
	i, ok := f.byName[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// DatetimeColumn resolves the datetime column the grid operations work
// on. With a name it must exist and be a time column. With an empty
// name the frame must hold exactly one time column: none fails with
// NoDatetimeColumnError, several with AmbiguousColumnError listing the
// candidates
func (f *Frame) DatetimeColumn(name string) (*Column, error) {
	if name != "" {
		c, ok := f.Col(name)
		if !ok {
			return nil, fmt.Errorf("frame: unknown column %q", name)
		}
		if c.Kind() != KindTime {
			return nil, fmt.Errorf("frame: column %q is %s, not a datetime column",
				name, c.Kind())
		}
		return c, nil
	}

	var found []*Column
	for _, c := range f.cols {
		if c.Kind() == KindTime {
			found = append(found, c)
		}
	}
	switch len(found) {
	case 0:
		return nil, &NoDatetimeColumnError{}
	case 1:
		return found[0], nil
	}
	names := make([]string, len(found))
	for i, c := range found {
		names[i] = c.Name()
	}
	return nil, &AmbiguousColumnError{Candidates: names}
}

// CloneEmpty returns a frame with the same schema and no rows
func (f *Frame) CloneEmpty() *Frame {
	cols := make([]*Column, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.CloneEmpty()
	}
	out, _ := New(cols...)
	return out
}

// AppendRowFrom appends row i of src, which must share f's schema
// column for column
func (f *Frame) AppendRowFrom(src *Frame, i int) {
	for j, c := range f.cols {
		c.AppendFrom(src.cols[j], i)
	}
}

// Times returns every valid instant of the named time column, in row
// order, skipping absent cells
func (f *Frame) Times(name string) ([]time.Time, error) {
	c, err := f.DatetimeColumn(name)
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, c.Len())
	for i := 0; i < c.Len(); i++ {
		if t, ok := c.Time(i); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// Partition is one grouping-key equivalence class: the rendered key,
// whether the key cell was absent, and the member rows in first-seen
// order
type Partition struct {
	Key     string
	Missing bool
	Rows    []int
}

// Partitions splits the rows by the named grouping column's distinct
// values, partitions ordered by first appearance. Absent key cells
// form their own partition. An empty key yields a single partition
// covering every row
func (f *Frame) Partitions(key string) ([]Partition, error) {
	if key == "" {
		all := Partition{Rows: make([]int, f.NRows())}
		for i := range all.Rows {
			all.Rows[i] = i
		}
		return []Partition{all}, nil
	}

	c, ok := f.Col(key)
	if !ok {
		return nil, fmt.Errorf("frame: unknown grouping column %q", key)
	}

	index := make(map[string]int)
	var out []Partition
	missingAt := -1
	for i := 0; i < c.Len(); i++ {
		if !c.Valid(i) {
			if missingAt < 0 {
				missingAt = len(out)
				out = append(out, Partition{Missing: true})
			}
			out[missingAt].Rows = append(out[missingAt].Rows, i)
			continue
		}
		k := c.Format(i)
		at, seen := index[k]
		if !seen {
			at = len(out)
			index[k] = at
			out = append(out, Partition{Key: k})
		}
		out[at].Rows = append(out[at].Rows, i)
	}
	return out, nil
}
