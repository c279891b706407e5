package service

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"timegrid/internal/core/frame"
)

// WriteCSV lands a frame as a csv file with one header row. Absent
// cells land as empty cells, which the csv reader maps back to absent
func WriteCSV(path string, f *frame.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(file)
	if err := w.Write(f.Names()); err != nil {
		file.Close()
		return err
	}
	cells := make([]string, f.NCols())
	for i := 0; i < f.NRows(); i++ {
		for j, c := range f.Columns() {
			cells[j] = renderCell(c, i)
		}
		if err := w.Write(cells); err != nil {
			file.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func renderCell(c *frame.Column, i int) string {
	switch x := c.Value(i).(type) {
	case nil:
		return ""
	case time.Time:
		return x.Format(time.RFC3339Nano)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
