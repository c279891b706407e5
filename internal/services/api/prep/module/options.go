package module

import (
	"timegrid/internal/platform/config"
	svc "timegrid/internal/services/api/prep/service"
)

// FromConfig reads PREP_* values from process config/env
func FromConfig(cfg config.Conf) svc.Options {
	pc := cfg.Prefix("PREP_")
	return svc.Options{
		DefaultZone: pc.MayString("ZONE", "UTC"),
		MaxPoints:   pc.MayInt("MAX_POINTS", 1_000_000),
	}
}
