package module

import (
	"context"

	"timegrid/internal/services/api/prep/domain"
	prepsvc "timegrid/internal/services/api/prep/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

type adaptPrepPort struct{ svc prepsvc.Service }

// Infer reports the recurrence interval of the input's datetime column
func (a adaptPrepPort) Infer(ctx context.Context, in domain.InferRequest) (domain.InferResponse, error) {
	return a.svc.Infer(ctx, in)
}

// Thicken appends a coarser grid-aligned timestamp per row
func (a adaptPrepPort) Thicken(ctx context.Context, in domain.ThickenRequest) (domain.FrameResponse, error) {
	return a.svc.Thicken(ctx, in)
}

// Pad materializes the complete gap-free grid as rows
func (a adaptPrepPort) Pad(ctx context.Context, in domain.PadRequest) (domain.FrameResponse, error) {
	return a.svc.Pad(ctx, in)
}

// Fill replaces absent cells per the request's strategy
func (a adaptPrepPort) Fill(ctx context.Context, in domain.FillRequest) (domain.FrameResponse, error) {
	return a.svc.Fill(ctx, in)
}
