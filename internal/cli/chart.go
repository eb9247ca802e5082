package cli

import (
	"fmt"
	"os"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/runnerr0/lcpbreakdown/internal/lcp"
)

// writePhaseChart renders the phase breakdown of res as a PNG bar chart.
func writePhaseChart(path, title string, res lcp.Result) error {
	if res.Phases == nil {
		return fmt.Errorf("chart: no phase breakdown to draw")
	}
	if res.Phases.Inconsistent {
		return fmt.Errorf("chart: phase breakdown has a negative render delay")
	}

	values := make([]chart.Value, 0, len(res.Phases.Entries))
	for _, e := range res.Phases.Entries {
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%s)", e.Phase.Label(), formatMs(e.DurationMs)),
			Value: e.DurationMs,
		})
	}

	graph := chart.BarChart{
		Title: "LCP phases: " + title,
		TitleStyle: chart.Style{
			FontSize: 14,
		},
		Background: chart.Style{
			Padding: chart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:    800,
		Height:   400,
		Bars:     values,
		BarWidth: 80,
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart: %w", err)
	}
	defer file.Close()

	if err := graph.Render(chart.PNG, file); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
