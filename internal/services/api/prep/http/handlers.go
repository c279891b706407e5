// Package http provides http transport for prep
package http

import (
	stdhttp "net/http"

	"timegrid/internal/modkit/httpkit"
	"timegrid/internal/services/api/prep/domain"
	svc "timegrid/internal/services/api/prep/service"
)

// Register mounts prep endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// recurrence interval of a timestamp column
	httpkit.PostJSON[domain.InferRequest](r, "/infer", h.infer)

	// coarser grid-aligned timestamp per row
	httpkit.PostJSON[domain.ThickenRequest](r, "/thicken", h.thicken)

	// complete gap-free grid as rows
	httpkit.PostJSON[domain.PadRequest](r, "/pad", h.pad)

	// substitutes for absent cells
	httpkit.PostJSON[domain.FillRequest](r, "/fill", h.fill)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /prep/infer Prep prepInfer
// @Summary Infer the recurrence interval of a datetime column
// @Tags Prep
// @Accept json
// @Produce json
// @Param payload body domain.InferRequest true "Data"
// @Success 200 {object} domain.InferResponse "ok"
// @Router /prep/infer [post]
func (h *handlers) infer(r *stdhttp.Request, in domain.InferRequest) (any, error) {
	return h.svc.Infer(r.Context(), in)
}

// swagger:route POST /prep/thicken Prep prepThicken
// @Summary Append a coarser grid-aligned timestamp per row
// @Tags Prep
// @Accept json
// @Produce json
// @Param payload body domain.ThickenRequest true "Data and target interval"
// @Success 200 {object} domain.FrameResponse "ok"
// @Router /prep/thicken [post]
func (h *handlers) thicken(r *stdhttp.Request, in domain.ThickenRequest) (any, error) {
	return h.svc.Thicken(r.Context(), in)
}

// swagger:route POST /prep/pad Prep prepPad
// @Summary Materialize the complete gap-free grid as rows
// @Tags Prep
// @Accept json
// @Produce json
// @Param payload body domain.PadRequest true "Data and bounds"
// @Success 200 {object} domain.FrameResponse "ok"
// @Router /prep/pad [post]
func (h *handlers) pad(r *stdhttp.Request, in domain.PadRequest) (any, error) {
	return h.svc.Pad(r.Context(), in)
}

// swagger:route POST /prep/fill Prep prepFill
// @Summary Fill absent cells with a value or a column summary
// @Tags Prep
// @Accept json
// @Produce json
// @Param payload body domain.FillRequest true "Data and strategy"
// @Success 200 {object} domain.FrameResponse "ok"
// @Router /prep/fill [post]
func (h *handlers) fill(r *stdhttp.Request, in domain.FillRequest) (any, error) {
	return h.svc.Fill(r.Context(), in)
}
