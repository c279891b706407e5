// values.go classifies and appends values decoded by database drivers
package source

import (
	"fmt"
	"time"

	"timegrid/internal/core/frame"
)

// valueClass buckets a decoded driver value. Floats stay floats here,
// the driver already told us the column type. Exotic driver types
// (numeric, uuid, inet) render as text
func valueClass(v any) cellClass {
	switch v.(type) {
	case nil:
		return classNone
	case time.Time:
		return classTime
	case bool:
		return classBool
	case float32, float64:
		return classFloat
	case int, int8, int16, int32, int64, uint, uint16, uint32, uint64:
		return classInt
	case string, []byte:
		return classString
	}
	return classString
}

func asInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return int64(x), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	if n, ok := asInt64(v); ok {
		return float64(n), true
	}
	return 0, false
}

// appendValueCell coerces a non-nil decoded value into its column
func appendValueCell(c *frame.Column, v any, loc *time.Location) error {
	switch c.Kind() {
	case frame.KindTime:
		if t, ok := v.(time.Time); ok {
			c.AppendTime(t)
			return nil
		}
	case frame.KindBool:
		if b, ok := v.(bool); ok {
			c.AppendBool(b)
			return nil
		}
	case frame.KindInt:
		if n, ok := asInt64(v); ok {
			c.AppendInt(n)
			return nil
		}
	case frame.KindFloat:
		if x, ok := asFloat64(v); ok {
			c.AppendFloat(x)
			return nil
		}
	case frame.KindString:
		c.AppendString(renderAny(v, loc))
		return nil
	}
	return fmt.Errorf("source: column %q: cannot read %T cell", c.Name(), v)
}

// frameFromValues assembles buffered result-set rows into a frame,
// sniffing each column's kind from its decoded values
func frameFromValues(rawNames []string, rows [][]any, o Options) (*frame.Frame, error) {
	loc := o.Zone
	if loc == nil {
		loc = time.UTC
	}
	names := foldHeaders(rawNames)

	classes := make([]cellClass, len(names))
	for _, row := range rows {
		for j := range names {
			if j < len(row) {
				classes[j] = merge(classes[j], valueClass(row[j]))
			}
		}
	}

	cols := make([]*frame.Column, len(names))
	for j, name := range names {
		switch classes[j] {
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

	for _, row := range rows {
		for j, col := range cols {
			var v any
			if j < len(row) {
				v = row[j]
			}
			if v == nil {
				col.AppendMissing()
				continue
			}
			if err := appendValueCell(col, v, loc); err != nil {
				return nil, err
			}
		}
	}
	return frame.New(cols...)
}
