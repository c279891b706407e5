// Package domain defines the types and ports for the pipeline service
package domain

import "time"

// Spec describes one prep run end to end: where rows come from, the
// steps applied in order, and where the result goes. It is the shape
// of the run file the prep binary decodes
type Spec struct {
	Source SourceSpec `json:"source"`
	// Zone interprets naive timestamps everywhere in the run
	Zone string   `json:"zone,omitempty"`
	Ops  []OpSpec `json:"ops"`
	Sink SinkSpec `json:"sink"`
}

// SourceSpec names the rows a run starts from
type SourceSpec struct {
	Kind  string `json:"kind"`
	Path  string `json:"path,omitempty"`
	Sheet string `json:"sheet,omitempty"`
	Table string `json:"table,omitempty"`
	Query string `json:"query,omitempty"`
}

// OpSpec is one prep step. Op selects the step; the other fields are
// read by the ops that use them
type OpSpec struct {
	// Op is thicken, pad or fill
	Op string `json:"op"`

	Column  string `json:"column,omitempty"`
	GroupBy string `json:"group_by,omitempty"`

	// thicken and pad
	Interval string `json:"interval,omitempty"`

	// thicken
	Direction string `json:"direction,omitempty"`
	NewColumn string `json:"new_column,omitempty"`
	Force     bool   `json:"force,omitempty"`

	// pad
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`

	// fill
	Columns  []string `json:"columns,omitempty"`
	Strategy string   `json:"strategy,omitempty"`
	Value    any      `json:"value,omitempty"`
}

// SinkSpec names where the run's rows land
type SinkSpec struct {
	// Kind is csv, pg or ch
	Kind  string `json:"kind"`
	Path  string `json:"path,omitempty"`
	Table string `json:"table,omitempty"`
	// Truncate empties an existing table before writing
	Truncate bool `json:"truncate,omitempty"`
}

// StageResult records one executed stage
type StageResult struct {
	Stage   string        `json:"stage"`
	Rows    int           `json:"rows"`
	Columns int           `json:"columns"`
	Took    time.Duration `json:"took"`
}

// Report summarizes a finished run
type Report struct {
	RunID  string        `json:"run_id"`
	Stages []StageResult `json:"stages"`
	// Rows is the count the sink received
	Rows int           `json:"rows"`
	Took time.Duration `json:"took"`
}
