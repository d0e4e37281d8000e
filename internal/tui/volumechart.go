package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/warefleet/scanloc/internal/model"
)

const volumeChartHeight = 6

var volumeColors = map[string]lipgloss.Style{
	"rack1":  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Background(lipgloss.Color("42")),
	"rack2":  lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Background(lipgloss.Color("39")),
	"errors": lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Background(lipgloss.Color("196")),
}

// renderVolumeChart draws per-minute scan volume as a stacked bar chart:
// valid picks split by rack, with validation errors stacked on top. One bar
// per minute, newest on the right.
func renderVolumeChart(volume []model.MinuteVolume, width int) string {
	if len(volume) == 0 {
		return helpStyle.Render("No scans yet")
	}

	legendWidth := 16
	chartWidth := width - legendWidth - 2
	if chartWidth < 20 {
		chartWidth = 20
	}

	maxBars := chartWidth / 3
	dataStartIdx := 0
	paddingCount := maxBars - len(volume)
	if paddingCount < 0 {
		paddingCount = 0
		dataStartIdx = len(volume) - maxBars
	}

	bc := barchart.New(chartWidth, volumeChartHeight,
		barchart.WithBarGap(1),
		barchart.WithBarWidth(1),
		barchart.WithNoAxis(),
	)

	for i := 0; i < paddingCount; i++ {
		bc.Push(barchart.BarData{
			Label: "",
			Values: []barchart.BarValue{
				{Name: "EMPTY", Value: 0, Style: volumeColors["rack1"]},
			},
		})
	}

	for _, minute := range volume[dataStartIdx:] {
		var barValues []barchart.BarValue
		segments := []struct {
			name  string
			count int64
		}{
			{"rack1", minute.Rack1},
			{"rack2", minute.Rack2},
			{"errors", minute.Errors},
		}
		for _, seg := range segments {
			if seg.count > 0 {
				barValues = append(barValues, barchart.BarValue{
					Name:  seg.name,
					Value: float64(seg.count),
					Style: volumeColors[seg.name],
				})
			}
		}
		if len(barValues) == 0 {
			barValues = append(barValues, barchart.BarValue{
				Name:  "EMPTY",
				Value: 0,
				Style: volumeColors["rack1"],
			})
		}
		bc.Push(barchart.BarData{Label: "", Values: barValues})
	}

	bc.Draw()
	chartLines := strings.Split(bc.View(), "\n")
	for len(chartLines) < volumeChartHeight {
		chartLines = append(chartLines, "")
	}

	latest := volume[len(volume)-1]
	legendEntries := []struct {
		name  string
		count int64
		color string
	}{
		{"Rack 1", latest.Rack1, "42"},
		{"Rack 2", latest.Rack2, "39"},
		{"Errors", latest.Errors, "196"},
		{"Total", latest.Total, "7"},
	}
	legendLines := make([]string, 0, volumeChartHeight)
	for _, entry := range legendEntries {
		label := fmt.Sprintf("%-7s:%5d", entry.name, entry.count)
		legendLines = append(legendLines, lipgloss.NewStyle().Foreground(lipgloss.Color(entry.color)).Render(label))
	}
	for len(legendLines) < volumeChartHeight {
		legendLines = append(legendLines, "")
	}

	combined := make([]string, 0, volumeChartHeight)
	for i := 0; i < volumeChartHeight; i++ {
		line := chartLines[i]
		if pad := chartWidth - lipgloss.Width(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		combined = append(combined, line+"  "+legendLines[i])
	}

	return strings.Join(combined, "\n")
}
