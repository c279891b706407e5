// Package service contains prep workflows
package service

import (
	"context"
	"math"
	"strings"
	"time"

	"timegrid/internal/adapters/source"
	"timegrid/internal/core/fill"
	"timegrid/internal/core/frame"
	"timegrid/internal/core/interval"
	"timegrid/internal/core/reshape"
	"timegrid/internal/modkit/repokit"
	perr "timegrid/internal/platform/errors"
	"timegrid/internal/platform/store"
	"timegrid/internal/services/api/prep/domain"
)

// Service defines the prep service contract
type Service interface {
	domain.ServicePort
}

// Options tunes prep behavior
type Options struct {
	// DefaultZone interprets naive timestamps when a request names no zone
	DefaultZone string
	// MaxPoints caps the padded grid length per request; zero is unlimited
	MaxPoints int
}

// Svc implements the prep service
type Svc struct {
	opts   Options
	loader source.Loader
}

// New constructs a prep service. The stores may be nil; requests
// naming a pg or ch source then fail at load time
func New(pg repokit.RowQuerier, ch store.Clickhouse, opts Options) *Svc {
	if opts.DefaultZone == "" {
		opts.DefaultZone = "UTC"
	}
	return &Svc{opts: opts, loader: source.Loader{PG: pg, CH: ch}}
}

// Infer reports the recurrence interval of the request's datetime column
func (s *Svc) Infer(ctx context.Context, in domain.InferRequest) (domain.InferResponse, error) {
	f, _, err := s.resolve(ctx, in.DataInput)
	if err != nil {
		return domain.InferResponse{}, err
	}
	times, err := f.Times(in.Column)
	if err != nil {
		return domain.InferResponse{}, perr.FromCore(err)
	}
	iv, err := interval.Infer(times)
	if err != nil {
		return domain.InferResponse{}, perr.FromCore(err)
	}
	return domain.InferResponse{
		Interval: iv.String(),
		Unit:     iv.Unit.String(),
		Count:    iv.Count,
		Distinct: distinctInstants(times),
	}, nil
}

// Thicken appends a coarser grid-aligned timestamp per row
func (s *Svc) Thicken(ctx context.Context, in domain.ThickenRequest) (domain.FrameResponse, error) {
	f, _, err := s.resolve(ctx, in.DataInput)
	if err != nil {
		return domain.FrameResponse{}, err
	}
	if strings.TrimSpace(in.Interval) == "" {
		return domain.FrameResponse{}, perr.InvalidArgf("thicken needs an interval")
	}
	iv, err := interval.Parse(in.Interval)
	if err != nil {
		return domain.FrameResponse{}, perr.FromCore(err)
	}
	dir := reshape.Down
	switch strings.ToLower(in.Direction) {
	case "", "down":
	case "up":
		dir = reshape.Up
	default:
		return domain.FrameResponse{}, perr.InvalidArgf("direction %q is not down or up", in.Direction)
	}
	out, err := reshape.Thicken(f, reshape.ThickenOptions{
		Column:    in.Column,
		Interval:  iv,
		Direction: dir,
		NewColumn: in.NewColumn,
		Force:     in.Force,
		GroupBy:   in.GroupBy,
	})
	if err != nil {
		return domain.FrameResponse{}, perr.FromCore(err)
	}
	return frameResponse(out), nil
}

// Pad materializes the complete gap-free grid as rows
func (s *Svc) Pad(ctx context.Context, in domain.PadRequest) (domain.FrameResponse, error) {
	f, loc, err := s.resolve(ctx, in.DataInput)
	if err != nil {
		return domain.FrameResponse{}, err
	}
	o := reshape.PadOptions{
		Column:    in.Column,
		GroupBy:   in.GroupBy,
		MaxPoints: s.opts.MaxPoints,
	}
	if in.Interval != "" {
		iv, err := interval.Parse(in.Interval)
		if err != nil {
			return domain.FrameResponse{}, perr.FromCore(err)
		}
		o.Interval = &iv
	}
	if in.Start != "" {
		t, ok := source.ParseTime(in.Start, loc)
		if !ok {
			return domain.FrameResponse{}, perr.InvalidArgf("start %q is not a timestamp", in.Start)
		}
		o.Start = &t
	}
	if in.End != "" {
		t, ok := source.ParseTime(in.End, loc)
		if !ok {
			return domain.FrameResponse{}, perr.InvalidArgf("end %q is not a timestamp", in.End)
		}
		o.End = &t
	}
	out, err := reshape.Pad(f, o)
	if err != nil {
		return domain.FrameResponse{}, perr.FromCore(err)
	}
	return frameResponse(out), nil
}

// Fill replaces the absent cells padding leaves behind
func (s *Svc) Fill(ctx context.Context, in domain.FillRequest) (domain.FrameResponse, error) {
	f, _, err := s.resolve(ctx, in.DataInput)
	if err != nil {
		return domain.FrameResponse{}, err
	}
	var out *frame.Frame
	switch strings.ToLower(in.Strategy) {
	case "value":
		if in.Value == nil {
			return domain.FrameResponse{}, perr.InvalidArgf("the value strategy needs a value")
		}
		out, err = fill.Value(f, in.Columns, fillValue(in.Value))
	case "mean":
		out, err = fill.Func(f, in.Columns, fill.Mean)
	case "median":
		out, err = fill.Func(f, in.Columns, fill.Median)
	case "min":
		out, err = fill.Func(f, in.Columns, fill.Min)
	case "max":
		out, err = fill.Func(f, in.Columns, fill.Max)
	case "sum":
		out, err = fill.Func(f, in.Columns, fill.Sum)
	case "prevalent":
		out, err = fill.Prevalent(f, in.Columns)
	default:
		return domain.FrameResponse{}, perr.InvalidArgf("unknown fill strategy %q", in.Strategy)
	}
	if err != nil {
		return domain.FrameResponse{}, perr.FromCore(err)
	}
	return frameResponse(out), nil
}

// resolve turns a request's data input into a frame plus the zone its
// naive timestamps were read in. Records and source are mutually
// exclusive and one of them is required
func (s *Svc) resolve(ctx context.Context, in domain.DataInput) (*frame.Frame, *time.Location, error) {
	zone := in.Zone
	if zone == "" {
		zone = s.opts.DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, nil, perr.InvalidArgf("unknown zone %q", zone)
	}

	switch {
	case len(in.Records) > 0 && in.Source != nil:
		return nil, nil, perr.InvalidArgf("records and source are mutually exclusive")
	case len(in.Records) == 0 && in.Source == nil:
		return nil, nil, perr.InvalidArgf("either records or a source is required")
	}

	if in.Source == nil {
		f, err := source.FromRecords(in.Records, source.Options{Zone: loc})
		if err != nil {
			return nil, nil, perr.FromCore(err)
		}
		return f, loc, nil
	}

	f, err := s.loader.Load(ctx, source.Spec{
		Kind:  source.Kind(strings.ToLower(in.Source.Kind)),
		Path:  in.Source.Path,
		Sheet: in.Source.Sheet,
		Table: in.Source.Table,
		Query: in.Source.Query,
		Zone:  zone,
	})
	if err != nil {
		return nil, nil, perr.FromCore(err)
	}
	return f, loc, nil
}

func frameResponse(f *frame.Frame) domain.FrameResponse {
	return domain.FrameResponse{
		Columns: f.Names(),
		Rows:    f.NRows(),
		Records: source.ToRecords(f),
	}
}

// fillValue adapts decoded JSON numbers: integral floats become ints
// so they suit int columns as well as float ones
func fillValue(v any) any {
	if x, ok := v.(float64); ok && x == math.Trunc(x) && math.Abs(x) < 1<<53 {
		return int(x)
	}
	return v
}

func distinctInstants(times []time.Time) int {
	seen := make(map[int64]struct{}, len(times))
	for _, t := range times {
		seen[t.UnixNano()] = struct{}{}
	}
	return len(seen)
}
