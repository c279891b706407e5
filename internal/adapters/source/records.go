// records.go converts JSON row objects to and from frames. Record keys
// pass through verbatim so responses echo the caller's column names;
// only file and result-set headers go through FoldHeader
package source

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"timegrid/internal/core/frame"
)

// cell classes observed while sniffing record columns
type cellClass int

const (
	classNone cellClass = iota
	classTime
	classInt
	classFloat
	classBool
	classString
)

// classify buckets one decoded JSON value. Numbers arrive as float64
// off the wire; integral ones class as ints so columns of counts stay
// int columns. Strings that parse as timestamps class as times
func classify(v any, loc *time.Location) cellClass {
	switch x := v.(type) {
	case nil:
		return classNone
	case bool:
		return classBool
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return classInt
		}
		return classFloat
	case int, int32, int64:
		return classInt
	case time.Time:
		return classTime
	case string:
		if _, ok := ParseTime(x, loc); ok {
			return classTime
		}
		return classString
	}
	return classString
}

// merge folds a new cell class into the running column class. Int and
// float mix to float; any other disagreement demotes to string
func merge(col, cell cellClass) cellClass {
	switch {
	case cell == classNone:
		return col
	case col == classNone, col == cell:
		return cell
	case col == classInt && cell == classFloat, col == classFloat && cell == classInt:
		return classFloat
	}
	return classString
}

// FromRecords builds a frame from decoded row objects. Columns are the
// union of keys in lexicographic order; kinds are sniffed over every
// non-null value, null and absent keys become absent cells
func FromRecords(records []map[string]any, o Options) (*frame.Frame, error) {
	loc := o.Zone
	if loc == nil {
		loc = time.UTC
	}

	keySet := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			keySet[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(keySet))
	for k := range keySet {
		names = append(names, k)
	}
	sort.Strings(names)

	cols := make([]*frame.Column, len(names))
	for j, name := range names {
		class := classNone
		for _, rec := range records {
			class = merge(class, classify(rec[name], loc))
		}
		switch class {
		case classTime:
			cols[j] = frame.NewTimeColumn(name, loc)
		case classInt:
			cols[j] = frame.NewIntColumn(name)
		case classFloat:
			cols[j] = frame.NewFloatColumn(name)
		case classBool:
			cols[j] = frame.NewBoolColumn(name)
		default:
			cols[j] = frame.NewStringColumn(name)
		}
	}

	for _, rec := range records {
		for j, col := range cols {
			v, ok := rec[names[j]]
			if !ok || v == nil {
				col.AppendMissing()
				continue
			}
			if err := appendRecordCell(col, v, loc); err != nil {
				return nil, err
			}
		}
	}
	return frame.New(cols...)
}

// appendRecordCell coerces a non-null value into the sniffed column
// kind. The sniff pass makes disagreement impossible for typed
// columns; string columns render anything
func appendRecordCell(c *frame.Column, v any, loc *time.Location) error {
	switch c.Kind() {
	case frame.KindTime:
		switch x := v.(type) {
		case time.Time:
			c.AppendTime(x)
			return nil
		case string:
			if t, ok := ParseTime(x, loc); ok {
				c.AppendTime(t)
				return nil
			}
		}
	case frame.KindInt:
		switch x := v.(type) {
		case float64:
			c.AppendInt(int64(x))
			return nil
		case int:
			c.AppendInt(int64(x))
			return nil
		case int32:
			c.AppendInt(int64(x))
			return nil
		case int64:
			c.AppendInt(x)
			return nil
		}
	case frame.KindFloat:
		switch x := v.(type) {
		case float64:
			c.AppendFloat(x)
			return nil
		case int:
			c.AppendFloat(float64(x))
			return nil
		case int32:
			c.AppendFloat(float64(x))
			return nil
		case int64:
			c.AppendFloat(float64(x))
			return nil
		}
	case frame.KindBool:
		if x, ok := v.(bool); ok {
			c.AppendBool(x)
			return nil
		}
	case frame.KindString:
		c.AppendString(renderAny(v, loc))
		return nil
	}
	return fmt.Errorf("source: column %q: cannot read %T cell", c.Name(), v)
}

// renderAny prints a value the way the matching column kind would
func renderAny(v any, loc *time.Location) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case bool:
		return strconv.FormatBool(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return x.In(loc).Format(time.RFC3339)
	}
	if n, ok := asInt64(v); ok {
		return strconv.FormatInt(n, 10)
	}
	return fmt.Sprint(v)
}

// ToRecords renders a frame as one JSON-ready object per row. Absent
// cells come back as explicit nulls so padded rows keep their shape
func ToRecords(f *frame.Frame) []map[string]any {
	cols := f.Columns()
	out := make([]map[string]any, f.NRows())
	for i := range out {
		rec := make(map[string]any, len(cols))
		for _, c := range cols {
			rec[c.Name()] = c.Value(i)
		}
		out[i] = rec
	}
	return out
}
