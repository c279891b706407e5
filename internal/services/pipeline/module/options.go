package module

import "timegrid/internal/platform/config"

// Options holds configuration settings for the pipeline module
type Options struct {
	Workers   int
	MaxPoints int
	Zone      string
	DryRun    bool
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	pf := cfg.Prefix("CORE_PREP_")
	return Options{
		Workers:   pf.MayInt("WORKERS", 2),
		MaxPoints: pf.MayInt("MAX_POINTS", 1_000_000),
		Zone:      pf.MayString("ZONE", "UTC"),
		DryRun:    pf.MayBool("DRY_RUN", false),
	}
}
