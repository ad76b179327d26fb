package conversation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/PabloGalante/datagent/internal/app/conversation"
	"github.com/PabloGalante/datagent/internal/domain"
)

func TestWantsChart(t *testing.T) {
	cases := []struct {
		text string
		mode domain.Mode
		want bool
	}{
		{"本月营收是多少?", domain.ModeQuery, false},
		{"查看近半年的活跃用户趋势", domain.ModeQuery, true},
		{"生成本月经营分析简报", domain.ModeQuery, true},
		{"导出各省份销售数据报表", domain.ModeAnalysis, true},
		{"导出销售数据", domain.ModeReport, true},
		{"导出销售数据", domain.ModeQuery, false},
		{"Show me SALES by region", domain.ModeQuery, true},
		{"Revenue last week", domain.ModeAnalysis, true},
		{"growth outlook", domain.ModeUnknown, true},
		{"draw a Chart", domain.ModeQuery, true},
		{"hello", domain.ModeAnalysis, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, conversation.WantsChart(tc.text, tc.mode), "%q in %s", tc.text, tc.mode)
	}
}
