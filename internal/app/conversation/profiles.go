package conversation

import "github.com/PabloGalante/datagent/internal/domain"

// Suggestion is a quick-input chip: Label is shown, Text is what lands in
// the input buffer when the chip is used.
type Suggestion struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

type profile struct {
	greeting    string
	placeholder string
	suggestions []Suggestion
}

const defaultPlaceholder = "描述您的需求..."

var defaultProfile = profile{
	greeting:    "欢迎使用数据智能体。",
	placeholder: defaultPlaceholder,
}

var profiles = map[domain.Mode]profile{
	domain.ModeQuery: {
		greeting:    "您好，我是智能问数助手。我可以帮您快速查询经营数据，请问您想了解什么？",
		placeholder: "输入您想查询的指标...",
		suggestions: []Suggestion{
			{Label: "本月营收是多少?", Text: "本月营收是多少?"},
			{Label: "活跃用户趋势", Text: "查看近半年的活跃用户趋势"},
		},
	},
	domain.ModeReport: {
		greeting:    "您好，我是智能报表助手。我可以为您自动生成多维度的业务报表，请告诉我您的需求。",
		placeholder: defaultPlaceholder,
		suggestions: []Suggestion{
			{Label: "生成月度经营简报", Text: "生成本月经营分析简报"},
			{Label: "导出销售数据", Text: "导出各省份销售数据报表"},
		},
	},
	domain.ModeAnalysis: {
		greeting:    "您好，我是智能报告助手。我可以为您深度分析业务趋势并生成决策建议。",
		placeholder: defaultPlaceholder,
		suggestions: []Suggestion{
			{Label: "分析利润下降原因", Text: "分析本季度利润下降的主要原因"},
			{Label: "预测下月增长", Text: "基于当前数据预测下个月的增长情况"},
		},
	},
}

func profileFor(mode domain.Mode) profile {
	if p, ok := profiles[mode]; ok {
		return p
	}
	return defaultProfile
}

// Greeting returns the canned opening line for mode.
func Greeting(mode domain.Mode) string {
	return profileFor(mode).greeting
}
