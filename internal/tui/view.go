package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/PabloGalante/datagent/internal/domain"
)

func (m Model) View() string {
	var b strings.Builder

	mode := m.holder.Mode()
	header := headerStyle.Render(Title(mode)+" - 实时交互") + " " + onlineStyle.Render("● ONLINE")
	b.WriteString(header + "\n")
	b.WriteString(m.renderTabs(mode) + "\n")

	b.WriteString(m.viewport.View() + "\n")

	if m.waiting {
		b.WriteString(m.spinner.View() + " 正在思考...\n")
	} else if m.lastNotice != "" {
		b.WriteString(helpStyle.Render(m.lastNotice) + "\n")
	} else {
		b.WriteString("\n")
	}

	b.WriteString(m.input.View() + "\n")
	b.WriteString(m.renderChips() + "\n")
	b.WriteString(helpStyle.Render("enter 发送 · tab 切换模式 · ctrl+n 推荐问题 · esc 退出"))

	return b.String()
}

func (m Model) renderTabs(active domain.Mode) string {
	tabs := make([]string, 0, len(domain.Modes))
	for _, mode := range domain.Modes {
		style := tabStyle
		if mode == active {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(Title(mode)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderChips() string {
	chips := m.holder.Suggestions()
	if len(chips) == 0 {
		return ""
	}
	rendered := make([]string, 0, len(chips))
	for _, c := range chips {
		rendered = append(rendered, chipStyle.Render(c.Label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderEntries() string {
	entries := m.holder.Entries()
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, m.renderEntry(e))
	}
	return strings.Join(blocks, "\n\n")
}

func (m Model) renderEntry(e domain.Entry) string {
	if e.Role == domain.RoleUser {
		block := userStyle.Render(e.Content)
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Right, block)
	}

	body := e.Content
	if m.renderer != nil {
		if out, err := m.renderer.Render(e.Content); err == nil {
			body = strings.TrimRight(out, "\n")
		}
	}

	var b strings.Builder
	b.WriteString(assistantLabelStyle.Render("◆ 数据智能体") + "\n")
	b.WriteString(body)

	if e.Kind == domain.KindChart && len(e.Chart) > 0 {
		b.WriteString("\n\n")
		b.WriteString(renderChart(e.Chart, max(m.width/3, 10)))
		b.WriteString("\n" + footerStyle.Render(chartFooter))
	}
	return b.String()
}
