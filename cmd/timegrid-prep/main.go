package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"strconv"

	"timegrid/internal/modkit"
	"timegrid/internal/modkit/module"
	"timegrid/internal/platform/config"
	"timegrid/internal/platform/logger"
	"timegrid/internal/platform/store"

	pipedom "timegrid/internal/services/pipeline/domain"
	pipemod "timegrid/internal/services/pipeline/module"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	l := logger.Get()

	var (
		specPath  = flag.String("spec", "", "path to a json run spec (source, ops, sink)")
		workers   = flag.Int("workers", 2, "concurrent partitions while padding (>=1)")
		maxPoints = flag.Int("max-points", 1_000_000, "cap per padded partition, 0 = unlimited")
		zone      = flag.String("zone", "", "zone for naive timestamps when the spec names none")
		dryRun    = flag.Bool("dry-run", false, "run every op but skip the sink")
	)
	flag.Parse()

	if *specPath == "" {
		log.Fatal("-spec is required")
	}
	raw, err := os.ReadFile(*specPath)
	if err != nil {
		log.Fatalf("read -spec: %v", err)
	}
	var spec pipedom.Spec
	if err := json.Unmarshal(raw, &spec); err != nil {
		log.Fatalf("parse -spec: %v", err)
	}

	// both stores are optional; file to file runs need neither
	pgURL := pgCfg.MayString("DBURL", "")
	chURL := chCfg.MayString("DBURL", "")
	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     pgURL != "",
			URL:         pgURL,
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
		},
		CH: store.CHConfig{
			Enabled:    chURL != "",
			URL:        chURL,
			ClientName: "timegrid",
			ClientTag:  "prep",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// Pass CLI flags into CORE_PREP_* so the module can read its own config
	mustSetEnv("CORE_PREP_WORKERS", strconv.Itoa(*workers))
	mustSetEnv("CORE_PREP_MAX_POINTS", strconv.Itoa(*maxPoints))
	mustSetEnv("CORE_PREP_ZONE", *zone)
	mustSetEnv("CORE_PREP_DRY_RUN", map[bool]string{true: "1", false: "0"}[*dryRun])

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	pm := pipemod.New(deps, pipemod.Options{
		Workers:   *workers,
		MaxPoints: *maxPoints,
		Zone:      *zone,
		DryRun:    *dryRun,
	})
	module.Register(pm.Name(), pm.Ports())

	// Kick the runner
	ports := pm.Ports().(pipemod.Ports)
	rep, err := ports.Runner.Run(context.Background(), spec)
	if err != nil {
		l.Fatal().Err(err).Msg("prep failed")
	}
	l.Info().Str("run_id", rep.RunID).Int("rows", rep.Rows).Dur("took", rep.Took).Msg("prep finished")
}
