package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"

	"github.com/atinylittleshell/gdash/internal/assistant"
	"github.com/atinylittleshell/gdash/internal/dashboard"
)

const (
	sideWidth     = 36
	maxListItems  = 8
	minChatHeight = 6
)

func (m *Model) chatWidth() int {
	return max(30, m.width-sideWidth-4)
}

func (m *Model) View() string {
	side := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTasks(),
		m.renderEvents(),
		m.renderStatus(),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, side, m.renderChat())
}

func (m *Model) renderTasks() string {
	tasks := m.snapshot.Tasks
	title := titleStyle.Render(fmt.Sprintf("Tasks (%d/%d)", len(m.snapshot.Done()), len(tasks)))
	lines := []string{title}
	if len(tasks) == 0 {
		lines = append(lines, dimStyle.Render("none"))
	}
	for _, t := range lo.Slice(tasks, 0, maxListItems) {
		text := truncate.StringWithTail(t.Text, clampWidth(sideWidth-6), "…")
		if t.Done {
			lines = append(lines, successStyle.Render(SymbolDone)+" "+doneStyle.Render(text))
		} else {
			lines = append(lines, dimStyle.Render(SymbolPending)+" "+text)
		}
	}
	if extra := len(tasks) - maxListItems; extra > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("+%d more", extra)))
	}
	return panelStyle.Width(sideWidth).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderEvents() string {
	upcoming := m.snapshot.Upcoming()
	lines := []string{titleStyle.Render("Upcoming")}
	if len(upcoming) == 0 {
		lines = append(lines, dimStyle.Render("none"))
	}
	for _, e := range lo.Slice(upcoming, 0, maxListItems) {
		title := truncate.StringWithTail(e.Title, clampWidth(sideWidth-18), "…")
		lines = append(lines, fmt.Sprintf("%s %s", title, dimStyle.Render(relativeDay(e.Date, m.snapshot.Now))))
	}
	return panelStyle.Width(sideWidth).Render(strings.Join(lines, "\n"))
}

// clampWidth converts a computed column width for reflow, which takes uint.
func clampWidth(w int) uint {
	return uint(max(0, w))
}

// relativeDay describes date relative to now ("today", "3 days from now").
func relativeDay(date string, now time.Time) string {
	day, err := time.ParseInLocation(dashboard.DateLayout, date, now.Location())
	if err != nil {
		return date
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// DST days are 23 or 25 hours long
	switch days := int(math.Round(day.Sub(today).Hours() / 24)); days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return humanize.RelTime(day, today, "ago", "from now")
	}
}

func (m *Model) renderStatus() string {
	lines := []string{
		titleStyle.Render("Weather"),
		m.snapshot.Weather,
		"",
		titleStyle.Render("Timer") + " " + m.timer.view(),
		m.indicator.view(),
	}
	return panelStyle.Width(sideWidth).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderChat() string {
	width := m.chatWidth()
	inner := width - 4

	var rendered []string
	for _, msg := range m.messages {
		rendered = append(rendered, renderMessage(msg, inner)...)
	}

	footer := []string{}
	if m.notice != "" {
		footer = append(footer, dimStyle.Render(SymbolSystem+" "+m.notice))
	}
	footer = append(footer, m.input.View())

	height := max(minChatHeight, m.height-2-len(footer))
	if len(rendered) > height {
		rendered = rendered[len(rendered)-height:]
	}

	body := strings.Join(append(rendered, footer...), "\n")
	return panelStyle.Width(width).Render(body)
}

func renderMessage(msg assistant.Message, width int) []string {
	label := botStyle.Render("assistant")
	if msg.Sender == assistant.SenderUser {
		label = userStyle.Render("you")
	}
	text := wordwrap.String(msg.Text, width)
	return append([]string{label}, strings.Split(text, "\n")...)
}

var _ tea.Model = (*Model)(nil)
