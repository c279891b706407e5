// repo_test.go
package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"timegrid/internal/core/frame"
	"timegrid/internal/platform/store"
)

type fakeQ struct {
	execs []string
	args  [][]any
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	f.execs = append(f.execs, sql)
	f.args = append(f.args, args)
	return nil, nil
}

func (f *fakeQ) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("unused")
}

func (f *fakeQ) QueryRow(context.Context, string, ...any) store.Row { return nil }

func testFrame(t *testing.T) *frame.Frame {
	t.Helper()
	ts := frame.NewTimeColumn("ts", time.UTC)
	ts.AppendTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ts.AppendTime(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	amount := frame.NewFloatColumn("amount")
	amount.AppendFloat(1.5)
	amount.AppendMissing()
	shop := frame.NewStringColumn("shop")
	shop.AppendString("north")
	shop.AppendString("south")
	f, err := frame.New(ts, amount, shop)
	if err != nil {
		t.Fatalf("frame.New: %v", err)
	}
	return f
}

func TestPGEnsureBuildsSchema(t *testing.T) {
	q := &fakeQ{}
	st := NewPG().Bind(q)

	if err := st.Ensure(context.Background(), "public.prepped", testFrame(t), true); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if len(q.execs) != 2 {
		t.Fatalf("execs = %d, want create + truncate", len(q.execs))
	}
	ddl := q.execs[0]
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS public.prepped",
		`"ts" timestamptz`,
		`"amount" double precision`,
		`"shop" text`,
	} {
		if !strings.Contains(ddl, want) {
			t.Fatalf("ddl %q misses %q", ddl, want)
		}
	}
	if q.execs[1] != "TRUNCATE TABLE public.prepped" {
		t.Fatalf("truncate = %q", q.execs[1])
	}
}

func TestPGWriteBindsEveryCell(t *testing.T) {
	q := &fakeQ{}
	st := NewPG().Bind(q)
	f := testFrame(t)

	if err := st.Write(context.Background(), "prepped", f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(q.execs) != 1 {
		t.Fatalf("execs = %d", len(q.execs))
	}
	sql := q.execs[0]
	if !strings.HasPrefix(sql, `INSERT INTO prepped ("ts", "amount", "shop") VALUES `) {
		t.Fatalf("sql = %q", sql)
	}
	if !strings.Contains(sql, "($1,$2,$3),($4,$5,$6)") {
		t.Fatalf("placeholders wrong: %q", sql)
	}
	args := q.args[0]
	if len(args) != 6 {
		t.Fatalf("args = %d, want 6", len(args))
	}
	// absent amount lands as NULL
	if args[4] != nil {
		t.Fatalf("absent cell bound as %#v", args[4])
	}
	if args[5] != "south" {
		t.Fatalf("args[5] = %#v", args[5])
	}
}

func TestPGWriteChunks(t *testing.T) {
	ts := frame.NewTimeColumn("ts", time.UTC)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < insertChunk+2; i++ {
		ts.AppendTime(base.Add(time.Duration(i) * time.Hour))
	}
	f, err := frame.New(ts)
	if err != nil {
		t.Fatalf("frame.New: %v", err)
	}

	q := &fakeQ{}
	if err := NewPG().Bind(q).Write(context.Background(), "prepped", f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(q.execs) != 2 {
		t.Fatalf("execs = %d, want 2 chunks", len(q.execs))
	}
	if len(q.args[0]) != insertChunk || len(q.args[1]) != 2 {
		t.Fatalf("chunk sizes = %d, %d", len(q.args[0]), len(q.args[1]))
	}
}

func TestCheckTableRejectsInjection(t *testing.T) {
	q := &fakeQ{}
	st := NewPG().Bind(q)
	err := st.Ensure(context.Background(), "prepped; DROP TABLE users", testFrame(t), false)
	if err == nil || !strings.Contains(err.Error(), "not a plain identifier") {
		t.Fatalf("err = %v", err)
	}
	if len(q.execs) != 0 {
		t.Fatalf("execs ran anyway: %v", q.execs)
	}
}

type fakeCH struct {
	execs    []string
	inserted [][]any
	table    string
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return nil
}

func (f *fakeCH) Insert(_ context.Context, table string, data any) error {
	f.table = table
	f.inserted = data.([][]any)
	return nil
}

func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("unused")
}

func (f *fakeCH) Close() error { return nil }

func TestCHSinkNullableSchemaAndRows(t *testing.T) {
	ch := &fakeCH{}
	st := NewCH(ch)
	f := testFrame(t)

	if err := st.Ensure(context.Background(), "prepped", f, false); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	if len(ch.execs) != 1 {
		t.Fatalf("execs = %d", len(ch.execs))
	}
	ddl := ch.execs[0]
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS prepped",
		"ts Nullable(DateTime64(9))",
		"amount Nullable(Float64)",
		"shop Nullable(String)",
		"ENGINE = MergeTree ORDER BY tuple()",
	} {
		if !strings.Contains(ddl, want) {
			t.Fatalf("ddl %q misses %q", ddl, want)
		}
	}

	if err := st.Write(context.Background(), "prepped", f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if ch.table != "prepped" || len(ch.inserted) != 2 {
		t.Fatalf("insert table %q rows %d", ch.table, len(ch.inserted))
	}
	if ch.inserted[1][1] != nil {
		t.Fatalf("absent cell inserted as %#v", ch.inserted[1][1])
	}
}
