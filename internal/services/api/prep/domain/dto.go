// Package domain holds DTOs for prep http and service contracts
package domain

// Operations accept rows inline or by reference to a configured
// source; timestamps may be zoned RFC 3339 or naive ISO 8601

// SourceInput names a backing source to load rows from
type SourceInput struct {
	Kind  string `json:"kind" validate:"required,oneof=csv xlsx pg ch" example:"csv"`
	Path  string `json:"path,omitempty" example:"/data/sales.csv"`
	Sheet string `json:"sheet,omitempty" example:"Sheet1"`
	Table string `json:"table,omitempty" example:"public.readings"`
	Query string `json:"query,omitempty" example:"SELECT event_ts, amount FROM readings"`
}

// DataInput carries the rows an operation works on. Records and Source
// are mutually exclusive; Zone governs naive timestamp parsing and
// defaults to the service zone
type DataInput struct {
	Records []map[string]any `json:"records,omitempty"`
	Source  *SourceInput     `json:"source,omitempty"`
	Zone    string           `json:"zone,omitempty" validate:"omitempty,max=64" example:"America/Chicago"`
}

// InferRequest asks for the recurrence interval of a timestamp column
type InferRequest struct {
	DataInput
	// Column names the datetime column; empty resolves the single one
	Column string `json:"column,omitempty" example:"ts"`
}

// InferResponse reports the inferred interval in its token form
type InferResponse struct {
	Interval string `json:"interval" example:"15 minutes"`
	Unit     string `json:"unit" example:"minute"`
	Count    int    `json:"count" example:"15"`
	// Distinct is the number of distinct instants examined
	Distinct int `json:"distinct" example:"96"`
}

// ThickenRequest appends a coarser grid-aligned timestamp per row
type ThickenRequest struct {
	DataInput
	Column string `json:"column,omitempty" example:"ts"`
	// Interval is the target grid token, coarser than the data's own
	// spacing unless force is set
	Interval  string `json:"interval" validate:"required" example:"month"`
	Direction string `json:"direction,omitempty" validate:"omitempty,oneof=down up" example:"down"`
	NewColumn string `json:"new_column,omitempty" example:"ts_month"`
	// GroupBy is accepted for request symmetry with pad; a coarser
	// snap is pointwise so it never changes the result
	GroupBy string `json:"group_by,omitempty" example:"shop"`
	Force   bool   `json:"force,omitempty"`
}

// PadRequest materializes the complete gap-free grid as rows
type PadRequest struct {
	DataInput
	Column  string `json:"column,omitempty" example:"ts"`
	GroupBy string `json:"group_by,omitempty" example:"shop"`
	// Interval overrides inference over the union of all groups
	Interval string `json:"interval,omitempty" example:"day"`
	// Start anchors the grid and opens every group's range; End caps
	// it. Empty bounds follow each group's observed range
	Start string `json:"start,omitempty" example:"2016-08-01T00:00:00Z"`
	End   string `json:"end,omitempty" example:"2016-09-01T00:00:00Z"`
}

// FillRequest replaces the absent cells padding leaves behind
type FillRequest struct {
	DataInput
	// Columns to fill; empty targets every column with absent cells
	Columns  []string `json:"columns,omitempty" example:"amount"`
	Strategy string   `json:"strategy" validate:"required,oneof=value mean median min max sum prevalent" example:"value"`
	// Value is required by the value strategy and ignored otherwise
	Value any `json:"value,omitempty"`
}

// FrameResponse returns transformed rows with their column order.
// Absent cells come back as explicit nulls
type FrameResponse struct {
	Columns []string         `json:"columns" example:"ts,amount"`
	Rows    int              `json:"rows" example:"96"`
	Records []map[string]any `json:"records"`
}
