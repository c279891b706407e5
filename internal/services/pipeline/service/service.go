// Package service implements the pipeline runner
package service

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"timegrid/internal/adapters/source"
	"timegrid/internal/core/fill"
	"timegrid/internal/core/frame"
	"timegrid/internal/core/interval"
	"timegrid/internal/core/reshape"
	"timegrid/internal/modkit/repokit"
	perr "timegrid/internal/platform/errors"
	"timegrid/internal/platform/logger"
	"timegrid/internal/platform/store"
	"timegrid/internal/services/pipeline/domain"
	"timegrid/internal/services/pipeline/repo"
)

// Config for the pipeline service
type Config struct {
	Workers   int
	MaxPoints int // cap per padded partition; 0 = unlimited
	Zone      string
	DryRun    bool
}

// Service implements domain.RunnerPort
type Service struct {
	pg     repokit.TxRunner
	ch     store.Clickhouse
	binder repokit.Binder[repo.Storage]
	loader source.Loader
	cfg    Config
}

// New constructs a pipeline service. The stores may be nil; specs
// naming them as source or sink then fail when the run reaches them
func New(pg repokit.TxRunner, ch store.Clickhouse, cfg Config) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Zone == "" {
		cfg.Zone = "UTC"
	}
	return &Service{
		pg:     pg,
		ch:     ch,
		binder: repo.NewPG(),
		loader: source.Loader{PG: pg, CH: ch},
		cfg:    cfg,
	}
}

// Run executes one spec: load the source, apply the ops in order,
// land the result in the sink. Failures abort the run; nothing
// partial is written since the sink runs last
func (s *Service) Run(ctx context.Context, spec domain.Spec) (domain.Report, error) {
	started := time.Now()
	rep := domain.Report{RunID: uuid.NewString()}
	log := logger.C(ctx).With().Str("mod", "pipeline").Str("run_id", rep.RunID).Logger()

	zone := spec.Zone
	if zone == "" {
		zone = s.cfg.Zone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return rep, perr.InvalidArgf("unknown zone %q", zone)
	}

	t0 := time.Now()
	f, err := s.load(ctx, spec.Source, zone)
	if err != nil {
		return rep, perr.Wrapf(err, perr.CodeOf(err), "pipeline: load %s source", spec.Source.Kind)
	}
	rep.Stages = append(rep.Stages, stageResult("load", f, time.Since(t0)))
	log.Info().Str("stage", "load").Int("rows", f.NRows()).Int("columns", f.NCols()).
		Dur("took", time.Since(t0)).Msg("pipeline: source loaded")

	for i, op := range spec.Ops {
		t0 = time.Now()
		f, err = s.apply(f, op, loc, &log)
		if err != nil {
			return rep, perr.Wrapf(err, perr.CodeOf(err), "pipeline: op %d %s", i+1, op.Op)
		}
		rep.Stages = append(rep.Stages, stageResult(op.Op, f, time.Since(t0)))
		log.Info().Str("stage", op.Op).Int("rows", f.NRows()).Int("columns", f.NCols()).
			Dur("took", time.Since(t0)).Msg("pipeline: op applied")
	}

	t0 = time.Now()
	if s.cfg.DryRun {
		log.Info().Str("stage", "sink").Msg("pipeline: dry run, sink skipped")
	} else if err := s.write(ctx, spec.Sink, f); err != nil {
		return rep, perr.Wrapf(err, perr.CodeOf(err), "pipeline: write %s sink", spec.Sink.Kind)
	}
	rep.Stages = append(rep.Stages, stageResult("sink", f, time.Since(t0)))

	rep.Rows = f.NRows()
	rep.Took = time.Since(started)
	log.Info().Int("rows", rep.Rows).Dur("took", rep.Took).Msg("pipeline: run complete")
	return rep, nil
}

func stageResult(name string, f *frame.Frame, took time.Duration) domain.StageResult {
	return domain.StageResult{Stage: name, Rows: f.NRows(), Columns: f.NCols(), Took: took}
}

func (s *Service) load(ctx context.Context, src domain.SourceSpec, zone string) (*frame.Frame, error) {
	f, err := s.loader.Load(ctx, source.Spec{
		Kind:  source.Kind(strings.ToLower(src.Kind)),
		Path:  src.Path,
		Sheet: src.Sheet,
		Table: src.Table,
		Query: src.Query,
		Zone:  zone,
	})
	if err != nil {
		return nil, perr.FromCore(err)
	}
	return f, nil
}

// apply runs one op against the current frame and returns the next one
func (s *Service) apply(f *frame.Frame, op domain.OpSpec, loc *time.Location, log *logger.Logger) (*frame.Frame, error) {
	switch strings.ToLower(op.Op) {
	case "infer":
		times, err := f.Times(op.Column)
		if err != nil {
			return nil, perr.FromCore(err)
		}
		iv, err := interval.Infer(times)
		if err != nil {
			return nil, perr.FromCore(err)
		}
		log.Info().Str("interval", iv.String()).Msg("pipeline: interval inferred")
		return f, nil

	case "thicken":
		if strings.TrimSpace(op.Interval) == "" {
			return nil, perr.InvalidArgf("thicken needs an interval")
		}
		iv, err := interval.Parse(op.Interval)
		if err != nil {
			return nil, perr.FromCore(err)
		}
		dir := reshape.Down
		switch strings.ToLower(op.Direction) {
		case "", "down":
		case "up":
			dir = reshape.Up
		default:
			return nil, perr.InvalidArgf("direction %q is not down or up", op.Direction)
		}
		out, err := reshape.Thicken(f, reshape.ThickenOptions{
			Column:    op.Column,
			Interval:  iv,
			Direction: dir,
			NewColumn: op.NewColumn,
			Force:     op.Force,
			GroupBy:   op.GroupBy,
		})
		if err != nil {
			return nil, perr.FromCore(err)
		}
		return out, nil

	case "pad":
		return s.pad(f, op, loc)

	case "fill":
		return s.fill(f, op)
	}
	return nil, perr.InvalidArgf("unknown op %q", op.Op)
}

func (s *Service) pad(f *frame.Frame, op domain.OpSpec, loc *time.Location) (*frame.Frame, error) {
	o := reshape.PadOptions{
		Column:    op.Column,
		GroupBy:   op.GroupBy,
		MaxPoints: s.cfg.MaxPoints,
	}
	if op.Interval != "" {
		iv, err := interval.Parse(op.Interval)
		if err != nil {
			return nil, perr.FromCore(err)
		}
		o.Interval = &iv
	}
	if op.Start != "" {
		t, ok := source.ParseTime(op.Start, loc)
		if !ok {
			return nil, perr.InvalidArgf("start %q is not a timestamp", op.Start)
		}
		o.Start = &t
	}
	if op.End != "" {
		t, ok := source.ParseTime(op.End, loc)
		if !ok {
			return nil, perr.InvalidArgf("end %q is not a timestamp", op.End)
		}
		o.End = &t
	}

	if op.GroupBy == "" || s.cfg.Workers <= 1 {
		out, err := reshape.Pad(f, o)
		if err != nil {
			return nil, perr.FromCore(err)
		}
		return out, nil
	}
	return s.padGrouped(f, o)
}

// padGrouped pads one partition per worker slot. Inference never runs
// per partition: with no explicit interval one is inferred from the
// whole column first so every partition pads on the same grid. Output
// order matches the single threaded path, partitions by first
// appearance then timestamp ascending
func (s *Service) padGrouped(f *frame.Frame, o reshape.PadOptions) (*frame.Frame, error) {
	if o.Interval == nil {
		times, err := f.Times(o.Column)
		if err != nil {
			return nil, perr.FromCore(err)
		}
		iv, err := interval.Infer(times)
		if err != nil {
			return nil, perr.FromCore(err)
		}
		o.Interval = &iv
	}

	parts, err := f.Partitions(o.GroupBy)
	if err != nil {
		return nil, perr.FromCore(err)
	}

	// one sub frame per partition keeps reshape single threaded; the
	// sub pad still carries GroupBy so generated rows get their key
	subs := make([]*frame.Frame, len(parts))
	for i, p := range parts {
		sub := f.CloneEmpty()
		for _, row := range p.Rows {
			sub.AppendRowFrom(f, row)
		}
		subs[i] = sub
	}

	padded := make([]*frame.Frame, len(subs))
	errs := make([]error, len(subs))
	sem := make(chan struct{}, s.cfg.Workers)
	wg := sync.WaitGroup{}
	for i := range subs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem; wg.Done() }()
			padded[i], errs[i] = reshape.Pad(subs[i], o)
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, perr.FromCore(err)
		}
	}

	joined := f.CloneEmpty()
	for _, part := range padded {
		for i := 0; i < part.NRows(); i++ {
			joined.AppendRowFrom(part, i)
		}
	}
	return joined, nil
}

func (s *Service) fill(f *frame.Frame, op domain.OpSpec) (*frame.Frame, error) {
	var (
		out *frame.Frame
		err error
	)
	switch strings.ToLower(op.Strategy) {
	case "value":
		if op.Value == nil {
			return nil, perr.InvalidArgf("the value strategy needs a value")
		}
		out, err = fill.Value(f, op.Columns, fillValue(op.Value))
	case "mean":
		out, err = fill.Func(f, op.Columns, fill.Mean)
	case "median":
		out, err = fill.Func(f, op.Columns, fill.Median)
	case "min":
		out, err = fill.Func(f, op.Columns, fill.Min)
	case "max":
		out, err = fill.Func(f, op.Columns, fill.Max)
	case "sum":
		out, err = fill.Func(f, op.Columns, fill.Sum)
	case "prevalent":
		out, err = fill.Prevalent(f, op.Columns)
	default:
		return nil, perr.InvalidArgf("unknown fill strategy %q", op.Strategy)
	}
	if err != nil {
		return nil, perr.FromCore(err)
	}
	return out, nil
}

// fillValue adapts decoded JSON numbers: integral floats become ints
// so they suit int columns as well as float ones
func fillValue(v any) any {
	if x, ok := v.(float64); ok && x == math.Trunc(x) && math.Abs(x) < 1<<53 {
		return int(x)
	}
	return v
}

func (s *Service) write(ctx context.Context, sink domain.SinkSpec, f *frame.Frame) error {
	switch strings.ToLower(sink.Kind) {
	case "csv":
		if sink.Path == "" {
			return perr.InvalidArgf("csv sink needs a path")
		}
		return WriteCSV(sink.Path, f)

	case "pg":
		if s.pg == nil {
			return perr.New(perr.ErrorCodeUnavailable, "pipeline: pg sink needs an open postgres store")
		}
		if sink.Table == "" {
			return perr.InvalidArgf("pg sink needs a table")
		}
		return repokit.WithTx(ctx, s.pg, func(q repokit.Queryer) error {
			st := s.binder.Bind(q)
			if err := st.Ensure(ctx, sink.Table, f, sink.Truncate); err != nil {
				return err
			}
			return st.Write(ctx, sink.Table, f)
		})

	case "ch":
		if s.ch == nil {
			return perr.New(perr.ErrorCodeUnavailable, "pipeline: ch sink needs an open clickhouse store")
		}
		if sink.Table == "" {
			return perr.InvalidArgf("ch sink needs a table")
		}
		st := repo.NewCH(s.ch)
		if err := st.Ensure(ctx, sink.Table, f, sink.Truncate); err != nil {
			return err
		}
		return st.Write(ctx, sink.Table, f)
	}
	return perr.InvalidArgf("unknown sink kind %q", sink.Kind)
}
