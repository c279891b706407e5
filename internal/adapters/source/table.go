// table.go turns string matrices from files into typed frames
package source

import (
	"strconv"
	"strings"
	"time"

	"timegrid/internal/core/frame"
)

// timeLayouts are the timestamp shapes readers recognize, tried in
// order. Zoned layouts keep their offset; naive ones parse in the
// reader's zone. Go accepts fractional seconds after any seconds field
// without a layout marker
var timeLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", false},
}

// ParseTime reads a timestamp cell in RFC 3339 or the naive ISO 8601
// forms, resolving naive values in loc
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	for _, tl := range timeLayouts {
		if tl.zoned {
			if t, err := time.Parse(tl.layout, s); err == nil {
				return t, true
			}
			continue
		}
		if t, err := time.ParseInLocation(tl.layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func isTimeCell(s string, loc *time.Location) bool {
	_, ok := ParseTime(s, loc)
	return ok
}

func isIntCell(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloatCell(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// isBoolCell stays strict so "1"/"0" sniff as ints, not bools
func isBoolCell(s string) bool {
	return strings.EqualFold(s, "true") || strings.EqualFold(s, "false")
}

// sniffKind picks the narrowest kind every non-empty cell of a column
// fits. Columns with no values at all read as strings
func sniffKind(cells []string, loc *time.Location) frame.Kind {
	if len(cells) == 0 {
		return frame.KindString
	}
	all := func(fits func(string) bool) bool {
		for _, c := range cells {
			if !fits(c) {
				return false
			}
		}
		return true
	}
	switch {
	case all(func(s string) bool { return isTimeCell(s, loc) }):
		return frame.KindTime
	case all(isIntCell):
		return frame.KindInt
	case all(isFloatCell):
		return frame.KindFloat
	case all(isBoolCell):
		return frame.KindBool
	}
	return frame.KindString
}

// frameFromStrings assembles a frame from a raw header row and data
// rows. Cell kinds are sniffed per column over every non-empty cell;
// empty and out-of-row cells become absent
func frameFromStrings(rawHeader []string, rows [][]string, o Options) (*frame.Frame, error) {
	loc := o.Zone
	if loc == nil {
		loc = time.UTC
	}
	names := foldHeaders(rawHeader)

	cols := make([]*frame.Column, len(names))
	for j, name := range names {
		var cells []string
		for _, row := range rows {
			if j < len(row) {
				if c := strings.TrimSpace(row[j]); c != "" {
					cells = append(cells, c)
				}
			}
		}
		switch sniffKind(cells, loc) {
		case frame.KindTime:
			cols[j] = frame.NewTimeColumn(name, loc)
		case frame.KindInt:
			cols[j] = frame.NewIntColumn(name)
		case frame.KindFloat:
			cols[j] = frame.NewFloatColumn(name)
		case frame.KindBool:
			cols[j] = frame.NewBoolColumn(name)
		default:
			cols[j] = frame.NewStringColumn(name)
		}
	}

	for _, row := range rows {
		for j, col := range cols {
			cell := ""
			if j < len(row) {
				cell = strings.TrimSpace(row[j])
			}
			if cell == "" {
				col.AppendMissing()
				continue
			}
			appendCell(col, cell, loc)
		}
	}
	return frame.New(cols...)
}

// appendCell parses a non-empty cell into a column of the sniffed
// kind; the sniff pass guarantees the parse succeeds
func appendCell(c *frame.Column, cell string, loc *time.Location) {
	switch c.Kind() {
	case frame.KindTime:
		t, _ := ParseTime(cell, loc)
		c.AppendTime(t)
	case frame.KindInt:
		v, _ := strconv.ParseInt(cell, 10, 64)
		c.AppendInt(v)
	case frame.KindFloat:
		v, _ := strconv.ParseFloat(cell, 64)
		c.AppendFloat(v)
	case frame.KindBool:
		c.AppendBool(strings.EqualFold(cell, "true"))
	default:
		c.AppendString(cell)
	}
}
