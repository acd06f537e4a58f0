package report

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/bobmcallan/cryptofolio/internal/models"
)

// RenderAllocationPie renders the target-allocation pie chart as PNG bytes.
// Slices are labeled "TOKEN (12.5%)". Non-positive targets are skipped since
// they have no area to draw.
func RenderAllocationPie(records []models.ActivationRecord) ([]byte, error) {
	values := make([]chart.Value, 0, len(records))
	for _, r := range records {
		if r.TargetPercent <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: r.TargetPercent,
			Label: fmt.Sprintf("%s (%.1f%%)", r.Token, r.TargetPercent),
		})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no positive target allocations to chart")
	}

	pie := chart.PieChart{
		Title:  "Target Allocation",
		Width:  600,
		Height: 600,
		Values: values,
	}

	var buf bytes.Buffer
	if err := pie.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("pie chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}

// RenderActivationBars renders activated allocation per token as a PNG bar
// chart, giving the target-vs-activated picture alongside the pie.
func RenderActivationBars(records []models.ActivationRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to chart")
	}

	bars := make([]chart.Value, 0, len(records))
	for _, r := range records {
		bars = append(bars, chart.Value{
			Value: r.ActivatedPercent,
			Label: r.Token,
		})
	}

	graph := chart.BarChart{
		Title:    "Activated Allocation",
		Width:    720,
		Height:   400,
		BarWidth: 40,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		YAxis: chart.YAxis{
			// Percent scale fixed at 0-100 so an all-zero run still renders.
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("bar chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
