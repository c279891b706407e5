// Package domain ports for prep
package domain

import "context"

// ServicePort is the surface handlers talk to
type ServicePort interface {
	Infer(ctx context.Context, in InferRequest) (InferResponse, error)
	Thicken(ctx context.Context, in ThickenRequest) (FrameResponse, error)
	Pad(ctx context.Context, in PadRequest) (FrameResponse, error)
	Fill(ctx context.Context, in FillRequest) (FrameResponse, error)
}
