package source

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"timegrid/internal/core/frame"
)

// DefaultSheet is read when a spec names no worksheet
const DefaultSheet = "Sheet1"

// ReadExcel loads one worksheet whose first row names the columns.
// Cells arrive as their formatted strings, so timestamps are expected
// in RFC 3339 or ISO 8601 forms
func ReadExcel(path, sheet string, o Options) (*frame.Frame, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: open workbook: %w", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("source: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("source: sheet %q of %s has no header row", sheet, path)
	}
	return frameFromStrings(rows[0], rows[1:], o)
}
