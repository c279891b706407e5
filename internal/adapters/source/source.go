// Package source materializes tabular data as frames the preparation
// core can work on. Readers exist for CSV files, Excel workbooks,
// Postgres and ClickHouse; all of them resolve column kinds from the
// data itself and mark empty cells absent rather than inventing
// sentinel values
package source

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"timegrid/internal/core/frame"
	"timegrid/internal/platform/store"
)

// Kind names a source backend
type Kind string

// Supported source kinds
const (
	KindCSV   Kind = "csv"
	KindExcel Kind = "xlsx"
	KindPG    Kind = "pg"
	KindCH    Kind = "ch"
)

// Spec describes where a frame comes from
type Spec struct {
	Kind Kind `json:"kind" validate:"required,oneof=csv xlsx pg ch"`

	// Path locates a csv or xlsx file
	Path string `json:"path,omitempty"`
	// Sheet selects an xlsx worksheet; empty means Sheet1
	Sheet string `json:"sheet,omitempty"`

	// Table or Query select pg/ch rows; Query wins when both are set
	Table string `json:"table,omitempty"`
	Query string `json:"query,omitempty"`

	// Zone is the IANA zone naive timestamps are read in; empty means UTC
	Zone string `json:"zone,omitempty"`
}

// Options carries cross-reader settings
type Options struct {
	// Zone governs naive timestamp parsing and the frame's time
	// columns; nil means UTC
	Zone *time.Location
}

// Location resolves the spec's zone name
func (s Spec) Location() (*time.Location, error) {
	if s.Zone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Zone)
	if err != nil {
		return nil, fmt.Errorf("source: unknown zone %q: %w", s.Zone, err)
	}
	return loc, nil
}

// Loader bundles the optional store seams and dispatches a Spec to the
// matching reader. File readers need no seams; pg/ch specs fail when
// their seam is nil
type Loader struct {
	PG store.RowQuerier
	CH store.Clickhouse
}

// Load reads the spec's rows into a fresh frame
func (l Loader) Load(ctx context.Context, spec Spec) (*frame.Frame, error) {
	loc, err := spec.Location()
	if err != nil {
		return nil, err
	}
	o := Options{Zone: loc}

	switch spec.Kind {
	case KindCSV:
		return ReadCSV(spec.Path, o)
	case KindExcel:
		return ReadExcel(spec.Path, spec.Sheet, o)
	case KindPG:
		if l.PG == nil {
			return nil, fmt.Errorf("source: pg source needs an open postgres store")
		}
		return ReadPG(ctx, l.PG, spec, o)
	case KindCH:
		if l.CH == nil {
			return nil, fmt.Errorf("source: ch source needs an open clickhouse store")
		}
		return ReadCH(ctx, l.CH, spec, o)
	}
	return nil, fmt.Errorf("source: unknown source kind %q", spec.Kind)
}

// identRe admits plain, optionally schema-qualified SQL identifiers
var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// selectSQL resolves a spec's query, falling back to a full scan of the
// named table. Table names pass through an identifier check since they
// are spliced into the statement
func selectSQL(spec Spec) (string, error) {
	if spec.Query != "" {
		return spec.Query, nil
	}
	if spec.Table == "" {
		return "", fmt.Errorf("source: %s source needs a table or a query", spec.Kind)
	}
	if !identRe.MatchString(spec.Table) {
		return "", fmt.Errorf("source: invalid table name %q", spec.Table)
	}
	return "SELECT * FROM " + spec.Table, nil
}
