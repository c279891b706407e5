package domain

import "context"

// RunnerPort executes a prep spec end to end
type RunnerPort interface {
	Run(ctx context.Context, spec Spec) (Report, error)
}
