package dashboard

import (
	"github.com/program-ledger/console/internal/models"
	"github.com/program-ledger/console/internal/types"
)

// Axis IDs of the chart. Monthly values are drawn as grouped bars, running
// totals as lines on a second axis.
const (
	AxisBar  = "yBar"
	AxisLine = "yLine"
)

var palette = map[string]string{
	"Baseline": "rgba(108, 117, 125, 0.7)",
	"Planned":  "rgba(255, 193, 7, 0.7)",
	"Actual":   "rgba(40, 167, 69, 0.7)",
}

// Chart is a Chart.js configuration. It is served as JSON and passed to
// Chart.js unchanged.
type Chart struct {
	Type    string       `json:"type"`
	Data    ChartData    `json:"data"`
	Options ChartOptions `json:"options"`

	// CurrentMonth is the index of the as-of month in the labels, or -1
	CurrentMonth int `json:"currentMonth"`
}

type ChartData struct {
	Labels   []types.Month `json:"labels"`
	Datasets []Dataset     `json:"datasets"`
}

type Dataset struct {
	Type            string    `json:"type"`
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	YAxisID         string    `json:"yAxisID"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	BorderColor     string    `json:"borderColor,omitempty"`
	BorderWidth     int       `json:"borderWidth,omitempty"`
	Fill            *bool     `json:"fill,omitempty"`
	Tension         float64   `json:"tension,omitempty"`
}

type ChartOptions struct {
	Responsive bool            `json:"responsive"`
	Scales     map[string]Axis `json:"scales"`
}

type Axis struct {
	Type        string    `json:"type,omitempty"`
	Position    string    `json:"position,omitempty"`
	BeginAtZero bool      `json:"beginAtZero,omitempty"`
	Title       AxisTitle `json:"title"`
	Grid        *AxisGrid `json:"grid,omitempty"`
}

type AxisTitle struct {
	Display bool   `json:"display"`
	Text    string `json:"text"`
}

type AxisGrid struct {
	DrawOnChartArea bool `json:"drawOnChartArea"`
}

// BuildChart assembles the chart for the summary. asOf marks the current
// month if it is part of the cash flow, symbol labels the amount axes.
func BuildChart(summary models.DashboardSummary, asOf types.Date, symbol string) Chart {
	flow := NewFlow(summary.MonthlyCashFlow)

	series := []struct {
		name    string
		monthly Series
	}{
		{"Baseline", flow.Baseline},
		{"Planned", flow.Planned},
		{"Actual", flow.Actual},
	}

	datasets := make([]Dataset, 0, 2*len(series))
	for _, s := range series {
		datasets = append(datasets, Dataset{
			Type:            "bar",
			Label:           "Monthly " + s.name,
			Data:            s.monthly.Floats(),
			YAxisID:         AxisBar,
			BackgroundColor: palette[s.name],
		})
	}

	noFill := false
	for _, s := range series {
		datasets = append(datasets, Dataset{
			Type:        "line",
			Label:       "Cumulative " + s.name,
			Data:        s.monthly.Cumulative().Floats(),
			YAxisID:     AxisLine,
			BorderColor: palette[s.name],
			BorderWidth: 2,
			Fill:        &noFill,
			Tension:     0.1,
		})
	}

	return Chart{
		Type: "bar",
		Data: ChartData{
			Labels:   flow.Months,
			Datasets: datasets,
		},
		Options: ChartOptions{
			Responsive: true,
			Scales: map[string]Axis{
				"x": {
					Title: AxisTitle{Display: true, Text: "Month (YYYY-MM)"},
				},
				AxisBar: {
					Type:        "linear",
					Position:    "left",
					BeginAtZero: true,
					Title:       AxisTitle{Display: true, Text: "Monthly Spend (" + symbol + ")"},
				},
				AxisLine: {
					Type:        "linear",
					Position:    "right",
					BeginAtZero: true,
					Title:       AxisTitle{Display: true, Text: "Cumulative Spend (" + symbol + ")"},
					Grid:        &AxisGrid{DrawOnChartArea: false},
				},
			},
		},
		CurrentMonth: flow.Index(asOf.Month()),
	}
}
