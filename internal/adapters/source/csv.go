package source

import (
	"encoding/csv"
	"fmt"
	"os"

	"timegrid/internal/core/frame"
)

// ReadCSV loads a comma-delimited file whose first row names the
// columns. Short rows read as absent cells on the right
func ReadCSV(path string, o Options) (*frame.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("source: read csv %s: %w", path, err)
	}
	if len(recs) == 0 {
		return nil, fmt.Errorf("source: csv %s has no header row", path)
	}
	return frameFromStrings(recs[0], recs[1:], o)
}
