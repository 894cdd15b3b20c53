package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/aguepe1/Fleet-Simulator/core/model"
)

func TestWriteHistoryCSV(t *testing.T) {
	var buf bytes.Buffer
	hist := []model.HistoryPoint{
		{Reserve: 0, ServiceLevel: 0.5, Duration: 1500 * time.Millisecond, Comment: "searching, target not met"},
		{Reserve: 1, ServiceLevel: 1, Duration: time.Second},
	}
	require.NoError(t, WriteHistoryCSV(&buf, hist))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	want := [][]string{
		{"reserve", "service_level", "duration_seconds", "comment"},
		{"0", "0.5", "1.5", "searching, target not met"},
		{"1", "1", "1", ""},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteDistributionsCSV(t *testing.T) {
	var buf bytes.Buffer
	ds := model.Distributions{
		Repair:      model.PMFSummary{Days: []int{1, 2}, Probabilities: []float64{0.25, 0.75}},
		Maintenance: model.PMFSummary{Days: []int{1}, Probabilities: []float64{1}},
		Failure:     model.HazardSummary{Ages: []int{0}, Rates: []float64{0.01}},
	}
	require.NoError(t, WriteDistributionsCSV(&buf, ds))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	want := [][]string{
		{"series", "x", "value"},
		{"repair", "1", "0.25"},
		{"repair", "2", "0.75"},
		{"maintenance", "1", "1"},
		{"failure_hazard", "0", "0.01"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Fatalf("csv mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	res := model.SearchResult{
		State:          model.StateDone,
		MinimumReserve: 2,
		PerfectReserve: 4,
		History:        []model.HistoryPoint{{Reserve: 0, ServiceLevel: 0.9}},
	}
	require.NoError(t, WriteJSON(&buf, res))

	var got model.SearchResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	if diff := cmp.Diff(res, got); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteHTMLReport(t *testing.T) {
	var buf bytes.Buffer
	res := model.SearchResult{
		State:          model.StateDone,
		MinimumReserve: 1,
		PerfectReserve: 3,
		History:        []model.HistoryPoint{{Reserve: 0, ServiceLevel: 0.9}, {Reserve: 1, ServiceLevel: 0.999}},
		Distributions: model.Distributions{
			Repair:  model.PMFSummary{Days: []int{1, 2}, Probabilities: []float64{0.4, 0.6}},
			Failure: model.HazardSummary{Ages: []int{1}, Rates: []float64{0.02}, Enabled: true},
		},
	}
	require.NoError(t, WriteHTMLReport(&buf, res))
	html := buf.String()
	for _, want := range []string{"<html", "Service level by reserve size", "Repair duration", "Failure hazard"} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}
