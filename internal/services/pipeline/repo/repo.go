// Package repo lands finished frames in database tables
package repo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"timegrid/internal/core/frame"
	"timegrid/internal/modkit/repokit"
	"timegrid/internal/platform/store"
)

// Storage lands one frame in one table
type Storage interface {
	// Ensure creates the table from the frame's schema when absent and
	// optionally empties it
	Ensure(ctx context.Context, table string, f *frame.Frame, truncate bool) error
	// Write appends every frame row; absent cells land as NULL
	Write(ctx context.Context, table string, f *frame.Frame) error
}

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a repo binder for postgres sinks
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// identRe admits plain or schema-qualified table names so sink specs
// never smuggle SQL into the statements built here
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

func checkTable(table string) error {
	if !identRe.MatchString(table) {
		return fmt.Errorf("pipeline: table %q is not a plain identifier", table)
	}
	return nil
}

// Ensure implements Storage
func (s *pg) Ensure(ctx context.Context, table string, f *frame.Frame, truncate bool) error {
	if err := checkTable(table); err != nil {
		return err
	}
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS " + table + " (")
	for i, c := range f.Columns() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(pgQuote(c.Name()) + " " + pgType(c.Kind()))
	}
	sb.WriteString(")")
	if _, err := s.q.Exec(ctx, sb.String()); err != nil {
		return err
	}
	if truncate {
		_, err := s.q.Exec(ctx, "TRUNCATE TABLE "+table)
		return err
	}
	return nil
}

// insertChunk bounds one statement's bind parameters well under the
// wire protocol's 65535 cap
const insertChunk = 1000

// Write implements Storage
func (s *pg) Write(ctx context.Context, table string, f *frame.Frame) error {
	if err := checkTable(table); err != nil {
		return err
	}
	cols := f.Columns()
	if len(cols) == 0 || f.NRows() == 0 {
		return nil
	}
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = pgQuote(c.Name())
	}
	head := "INSERT INTO " + table + " (" + strings.Join(names, ", ") + ") VALUES "

	for lo := 0; lo < f.NRows(); lo += insertChunk {
		hi := min(lo+insertChunk, f.NRows())

		var sb strings.Builder
		sb.WriteString(head)
		args := make([]any, 0, (hi-lo)*len(cols))
		for i := lo; i < hi; i++ {
			if i > lo {
				sb.WriteByte(',')
			}
			sb.WriteByte('(')
			for j, c := range cols {
				if j > 0 {
					sb.WriteByte(',')
				}
				args = append(args, c.Value(i))
				fmt.Fprintf(&sb, "$%d", len(args))
			}
			sb.WriteByte(')')
		}
		if _, err := s.q.Exec(ctx, sb.String(), args...); err != nil {
			return err
		}
	}
	return nil
}

func pgQuote(name string) string { return `"` + name + `"` }

func pgType(k frame.Kind) string {
	switch k {
	case frame.KindTime:
		return "timestamptz"
	case frame.KindFloat:
		return "double precision"
	case frame.KindInt:
		return "bigint"
	case frame.KindBool:
		return "boolean"
	}
	return "text"
}

// CHSink lands frames in clickhouse through the store seam
type CHSink struct{ ch store.Clickhouse }

// NewCH constructs a clickhouse sink
func NewCH(ch store.Clickhouse) *CHSink { return &CHSink{ch: ch} }

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) error
}

// Ensure implements Storage. Every column is Nullable and the table
// orders by tuple() so generated rows with absent cells always land
func (s *CHSink) Ensure(ctx context.Context, table string, f *frame.Frame, truncate bool) error {
	if err := checkTable(table); err != nil {
		return err
	}
	ex, ok := s.ch.(execer)
	if !ok {
		return errors.New("pipeline: clickhouse store cannot run DDL")
	}
	var sb strings.Builder
	sb.WriteString("CREATE TABLE IF NOT EXISTS " + table + " (")
	for i, c := range f.Columns() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.Name() + " " + chType(c.Kind()))
	}
	sb.WriteString(") ENGINE = MergeTree ORDER BY tuple()")
	if err := ex.Exec(ctx, sb.String()); err != nil {
		return err
	}
	if truncate {
		return ex.Exec(ctx, "TRUNCATE TABLE "+table)
	}
	return nil
}

// Write implements Storage. Rows carry the frame's columns in
// declaration order, which Ensure made the table's order
func (s *CHSink) Write(ctx context.Context, table string, f *frame.Frame) error {
	if err := checkTable(table); err != nil {
		return err
	}
	cols := f.Columns()
	if len(cols) == 0 || f.NRows() == 0 {
		return nil
	}
	rows := make([][]any, f.NRows())
	for i := range rows {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = c.Value(i)
		}
		rows[i] = row
	}
	return s.ch.Insert(ctx, table, rows)
}

func chType(k frame.Kind) string {
	switch k {
	case frame.KindTime:
		return "Nullable(DateTime64(9))"
	case frame.KindFloat:
		return "Nullable(Float64)"
	case frame.KindInt:
		return "Nullable(Int64)"
	case frame.KindBool:
		return "Nullable(Bool)"
	}
	return "Nullable(String)"
}
