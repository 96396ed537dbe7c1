package simulate

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

var csvHeader = []string{
	"index",
	"time",
	"time_weeks",
	"stock",
	"local_storage",
	"usage",
	"wanted_level",
	"consumption",
	"demand",
	"regime",
}

// WriteCSVFile writes one row per grid index to path.
func WriteCSVFile(path string, r *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteCSV(f, r); err != nil {
		return err
	}
	return f.Close()
}

// WriteCSV writes the series as CSV. Flow columns are empty on the final
// index, where they are not computed.
func WriteCSV(out io.Writer, r *Result) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, row := range r.Rows() {
		rec := []string{
			strconv.Itoa(row.Index),
			fmtFloat(row.Time),
			fmtFloat(row.Weeks),
			fmtFloat(row.Stock),
			fmtFloat(row.Local),
			"", "", "", "",
			string(row.Regime),
		}
		if row.Derived {
			rec[5] = fmtFloat(row.Usage)
			rec[6] = fmtFloat(row.Wanted)
			rec[7] = fmtFloat(row.Consumption)
			rec[8] = fmtFloat(row.Demand)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
