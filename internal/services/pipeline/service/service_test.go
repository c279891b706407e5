// service_test.go
package service

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"timegrid/internal/adapters/source"
	"timegrid/internal/core/reshape"
	"timegrid/internal/services/pipeline/domain"
)

func TestRunPadFillCSVToCSV(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	out := filepath.Join(dir, "out.csv")
	body := "ts,amount\n" +
		"2024-01-01T00:00:00Z,1\n" +
		"2024-01-02T00:00:00Z,2\n" +
		"2024-01-04T00:00:00Z,4\n"
	if err := os.WriteFile(in, []byte(body), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}

	s := New(nil, nil, Config{})
	rep, err := s.Run(context.Background(), domain.Spec{
		Source: domain.SourceSpec{Kind: "csv", Path: in},
		Ops: []domain.OpSpec{
			{Op: "infer"},
			{Op: "pad"},
			{Op: "fill", Strategy: "value", Value: float64(0)},
		},
		Sink: domain.SinkSpec{Kind: "csv", Path: out},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.RunID == "" {
		t.Fatal("empty run id")
	}
	if rep.Rows != 4 {
		t.Fatalf("rows = %d, want 4", rep.Rows)
	}
	stages := make([]string, 0, len(rep.Stages))
	for _, st := range rep.Stages {
		stages = append(stages, st.Stage)
	}
	want := []string{"load", "infer", "pad", "fill", "sink"}
	if !reflect.DeepEqual(stages, want) {
		t.Fatalf("stages = %v, want %v", stages, want)
	}

	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("output rows = %d, want header + 4", len(rows))
	}
	if !reflect.DeepEqual(rows[0], []string{"ts", "amount"}) {
		t.Fatalf("header = %v", rows[0])
	}
	// the generated 2024-01-03 row got its amount filled
	if rows[3][0] != "2024-01-03T00:00:00Z" || rows[3][1] != "0" {
		t.Fatalf("gap row = %v", rows[3])
	}
}

func TestRunDryRunSkipsSink(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	body := "ts\n2024-01-01T00:00:00Z\n2024-01-02T00:00:00Z\n"
	if err := os.WriteFile(in, []byte(body), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}

	// a pg sink with no store only works because dry run never writes
	s := New(nil, nil, Config{DryRun: true})
	rep, err := s.Run(context.Background(), domain.Spec{
		Source: domain.SourceSpec{Kind: "csv", Path: in},
		Ops:    []domain.OpSpec{{Op: "pad"}},
		Sink:   domain.SinkSpec{Kind: "pg", Table: "prepped"},
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if rep.Rows != 2 {
		t.Fatalf("rows = %d", rep.Rows)
	}
}

func TestRunUnknownOpNamesTheStage(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.csv")
	if err := os.WriteFile(in, []byte("ts\n2024-01-01T00:00:00Z\n"), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}

	s := New(nil, nil, Config{})
	_, err := s.Run(context.Background(), domain.Spec{
		Source: domain.SourceSpec{Kind: "csv", Path: in},
		Ops:    []domain.OpSpec{{Op: "resample"}},
		Sink:   domain.SinkSpec{Kind: "csv", Path: filepath.Join(dir, "out.csv")},
	})
	if err == nil || !strings.Contains(err.Error(), "op 1 resample") {
		t.Fatalf("err = %v", err)
	}
	if !strings.Contains(err.Error(), `unknown op "resample"`) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunRejectsUnknownZone(t *testing.T) {
	s := New(nil, nil, Config{})
	_, err := s.Run(context.Background(), domain.Spec{
		Zone:   "Nowhere/Atall",
		Source: domain.SourceSpec{Kind: "csv", Path: "unused.csv"},
		Sink:   domain.SinkSpec{Kind: "csv", Path: "out.csv"},
	})
	if err == nil || !strings.Contains(err.Error(), "unknown zone") {
		t.Fatalf("err = %v", err)
	}
}

// grouped records with staggered ranges per shop
func groupedRecords(t *testing.T) []map[string]any {
	t.Helper()
	rows := []struct {
		ts   string
		shop string
	}{
		{"2016-10-02T00:00:00Z", "alpha"},
		{"2016-10-04T00:00:00Z", "alpha"},
		{"2016-10-06T00:00:00Z", "alpha"},
		{"2016-10-01T00:00:00Z", "beta"},
		{"2016-10-04T00:00:00Z", "beta"},
	}
	out := make([]map[string]any, 0, len(rows))
	for i, r := range rows {
		out = append(out, map[string]any{"ts": r.ts, "shop": r.shop, "amount": float64(i)})
	}
	return out
}

func TestPadGroupedMatchesSingleThreaded(t *testing.T) {
	f, err := source.FromRecords(groupedRecords(t), source.Options{Zone: time.UTC})
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}

	o := reshape.PadOptions{GroupBy: "shop"}
	want, err := reshape.Pad(f, o)
	if err != nil {
		t.Fatalf("Pad: %v", err)
	}

	s := New(nil, nil, Config{Workers: 4})
	got, err := s.padGrouped(f, o)
	if err != nil {
		t.Fatalf("padGrouped: %v", err)
	}

	if !reflect.DeepEqual(source.ToRecords(got), source.ToRecords(want)) {
		t.Fatalf("grouped pad diverged\n got: %v\nwant: %v",
			source.ToRecords(got), source.ToRecords(want))
	}
	// alpha spans 5 days, beta 4
	if got.NRows() != 9 {
		t.Fatalf("rows = %d, want 9", got.NRows())
	}
}

func TestWriteCSVRendersKinds(t *testing.T) {
	recs := []map[string]any{
		{"ts": "2024-01-01T00:00:00Z", "amount": 1.5, "count": float64(2), "ok": true, "note": "x"},
		{"ts": "2024-01-02T00:00:00Z", "amount": nil, "count": nil, "ok": nil, "note": nil},
	}
	f, err := source.FromRecords(recs, source.Options{Zone: time.UTC})
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(path, f); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	rows, err := csv.NewReader(strings.NewReader(string(raw))).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !reflect.DeepEqual(rows[0], []string{"amount", "count", "note", "ok", "ts"}) {
		t.Fatalf("header = %v", rows[0])
	}
	if !reflect.DeepEqual(rows[1], []string{"1.5", "2", "x", "true", "2024-01-01T00:00:00Z"}) {
		t.Fatalf("row 1 = %v", rows[1])
	}
	if !reflect.DeepEqual(rows[2], []string{"", "", "", "", "2024-01-02T00:00:00Z"}) {
		t.Fatalf("row 2 = %v", rows[2])
	}
}
