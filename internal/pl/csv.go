package pl

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

// Row is one statement line laid out for a grid export.
type Row struct {
	Category Category
	Line     string
	Values   []float64
	Total    float64
}

// Rows lays the statement out one row per line, in statement order.
func (s *Statement) Rows() []Row {
	out := make([]Row, 0, len(s.lines))
	for _, l := range s.lines {
		out = append(out, Row{
			Category: l.Category,
			Line:     l.Name,
			Values:   l.Values.Clone(),
			Total:    l.Values.Total(),
		})
	}
	return out
}

func WriteStatementCSVFile(path string, st *Statement) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteStatementCSV(f, st); err != nil {
		return err
	}
	return f.Close()
}

// WriteStatementCSV writes a header of category, line, the periods and total,
// then one row per statement line.
func WriteStatementCSV(out io.Writer, st *Statement) error {
	w := csv.NewWriter(out)

	header := append([]string{"category", "line"}, st.Horizon.Strings()...)
	header = append(header, "total")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range st.Rows() {
		row := make([]string, 0, len(r.Values)+3)
		row = append(row, string(r.Category), r.Line)
		for _, v := range r.Values {
			row = append(row, fmtAmount(v))
		}
		row = append(row, fmtAmount(r.Total))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtAmount(x float64) string {
	return strconv.FormatFloat(clean(x), 'f', 2, 64)
}
