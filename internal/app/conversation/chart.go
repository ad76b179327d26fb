package conversation

import (
	"regexp"

	"github.com/PabloGalante/datagent/internal/domain"
)

// chartKeywords decides whether a reply gets the mock chart. Keep the set
// as is; callers rely on its exact matches.
var chartKeywords = regexp.MustCompile(`(?i)报表|趋势|图表|分析|report|trend|chart|analysis|sales|revenue|growth`)

func secondary(v float64) *float64 { return &v }

// MockChartData is the static series attached to chart replies.
var MockChartData = []domain.ChartPoint{
	{Label: "1月", Value: 4000, Secondary: secondary(2400)},
	{Label: "2月", Value: 3000, Secondary: secondary(1398)},
	{Label: "3月", Value: 2000, Secondary: secondary(9800)},
	{Label: "4月", Value: 2780, Secondary: secondary(3908)},
	{Label: "5月", Value: 1890, Secondary: secondary(4800)},
	{Label: "6月", Value: 2390, Secondary: secondary(3800)},
	{Label: "7月", Value: 3490, Secondary: secondary(4300)},
}

// WantsChart reports whether a successful reply to text should carry the
// mock chart.
func WantsChart(text string, mode domain.Mode) bool {
	return chartKeywords.MatchString(text) || mode == domain.ModeReport
}

func mockChart() []domain.ChartPoint {
	out := make([]domain.ChartPoint, len(MockChartData))
	for i, p := range MockChartData {
		out[i] = p
		if p.Secondary != nil {
			out[i].Secondary = secondary(*p.Secondary)
		}
	}
	return out
}
