package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/aguepe1/Fleet-Simulator/core/model"
)

// WriteJSON writes the search result to w as indented JSON.
func WriteJSON(w io.Writer, res model.SearchResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteHistoryCSV writes one row per attempted reserve size.
func WriteHistoryCSV(w io.Writer, history []model.HistoryPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"reserve", "service_level", "duration_seconds", "comment"}); err != nil {
		return err
	}
	for _, p := range history {
		rec := []string{
			strconv.Itoa(p.Reserve),
			formatFloat(p.ServiceLevel),
			formatFloat(p.Duration.Seconds()),
			p.Comment,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDistributionsCSV writes the three distribution summaries in long
// format: series, x (days or age), value.
func WriteDistributionsCSV(w io.Writer, ds model.Distributions) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"series", "x", "value"}); err != nil {
		return err
	}
	write := func(series string, xs []int, ys []float64) error {
		for i, x := range xs {
			if err := cw.Write([]string{series, strconv.Itoa(x), formatFloat(ys[i])}); err != nil {
				return err
			}
		}
		return nil
	}
	if err := write("repair", ds.Repair.Days, ds.Repair.Probabilities); err != nil {
		return err
	}
	if err := write("maintenance", ds.Maintenance.Days, ds.Maintenance.Probabilities); err != nil {
		return err
	}
	if err := write("failure_hazard", ds.Failure.Ages, ds.Failure.Rates); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
