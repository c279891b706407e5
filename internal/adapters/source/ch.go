package source

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"timegrid/internal/core/frame"
	"timegrid/internal/platform/store"
)

// columnTyper is the metadata surface the ch rows adapter forwards
type columnTyper interface {
	ColumnTypes() []driver.ColumnType
}

// ReadCH runs the spec's query against clickhouse. The native driver
// refuses bare any destinations, so scan targets are allocated from
// the result's column metadata; Nullable cells deref or read as absent
func ReadCH(ctx context.Context, c store.Clickhouse, spec Spec, o Options) (*frame.Frame, error) {
	sql, err := selectSQL(spec)
	if err != nil {
		return nil, err
	}

	rows, err := c.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("source: ch query: %w", err)
	}
	defer rows.Close()

	meta, ok := rows.(columnTyper)
	if !ok || meta.ColumnTypes() == nil {
		return nil, fmt.Errorf("source: ch rows carry no column metadata")
	}
	types := meta.ColumnTypes()

	loc := o.Zone
	if loc == nil {
		loc = time.UTC
	}
	raw := make([]string, len(types))
	for j, ct := range types {
		raw[j] = ct.Name()
	}
	names := foldHeaders(raw)

	cols := make([]*frame.Column, len(types))
	for j, ct := range types {
		switch kindOfScanType(ct.ScanType()) {
		case frame.KindTime:
			cols[j] = frame.NewTimeColumn(names[j], loc)
		case frame.KindInt:
			cols[j] = frame.NewIntColumn(names[j])
		case frame.KindFloat:
			cols[j] = frame.NewFloatColumn(names[j])
		case frame.KindBool:
			cols[j] = frame.NewBoolColumn(names[j])
		default:
			cols[j] = frame.NewStringColumn(names[j])
		}
	}

	for rows.Next() {
		dests := make([]any, len(types))
		for j, ct := range types {
			dests[j] = reflect.New(ct.ScanType()).Interface()
		}
		if err := rows.Scan(dests...); err != nil {
			return nil, fmt.Errorf("source: ch scan: %w", err)
		}
		for j, d := range dests {
			if err := appendScanned(cols[j], d, loc); err != nil {
				return nil, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("source: ch rows: %w", err)
	}
	return frame.New(cols...)
}

var timeType = reflect.TypeOf(time.Time{})

// kindOfScanType maps a driver scan type to a column kind, looking
// through the pointer wrapping of Nullable columns. Types with no
// native column shape read as strings
func kindOfScanType(t reflect.Type) frame.Kind {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return frame.KindString
	}
	if t == timeType {
		return frame.KindTime
	}
	switch t.Kind() {
	case reflect.Bool:
		return frame.KindBool
	case reflect.Float32, reflect.Float64:
		return frame.KindFloat
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return frame.KindInt
	case reflect.String:
		return frame.KindString
	}
	return frame.KindString
}

// appendScanned unwraps one scan target and feeds the cell to its
// column; nil pointers from Nullable columns append as absent
func appendScanned(c *frame.Column, dest any, loc *time.Location) error {
	v := reflect.ValueOf(dest).Elem()
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			c.AppendMissing()
			return nil
		}
		v = v.Elem()
	}
	return appendValueCell(c, v.Interface(), loc)
}
