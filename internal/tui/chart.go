package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/PabloGalante/datagent/internal/domain"
)

const chartFooter = "数据来源: 联通大数据 · 更新时间: 实时"

// renderChart draws the series as one horizontal bar per point, scaled so
// the largest primary value fills barWidth cells.
func renderChart(points []domain.ChartPoint, barWidth int) string {
	if len(points) == 0 {
		return ""
	}
	if barWidth < 1 {
		barWidth = 1
	}

	maxValue := 0.0
	labelWidth := 0
	for _, p := range points {
		maxValue = math.Max(maxValue, p.Value)
		labelWidth = max(labelWidth, lipgloss.Width(p.Label))
	}

	var b strings.Builder
	for i, p := range points {
		cells := 0
		if maxValue > 0 {
			cells = int(math.Round(p.Value / maxValue * float64(barWidth)))
		}
		cells = max(cells, 0)

		label := p.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(p.Label))
		fmt.Fprintf(&b, "%s %s %s",
			chartLabelStyle.Render(label),
			chartBarStyle.Render(strings.Repeat("█", cells)),
			formatValue(p),
		)
		if i < len(points)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func formatValue(p domain.ChartPoint) string {
	if p.Secondary == nil {
		return fmt.Sprintf("%g", p.Value)
	}
	return fmt.Sprintf("%g / %g", p.Value, *p.Secondary)
}
