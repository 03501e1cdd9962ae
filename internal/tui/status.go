package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// replyStatus is the state of the most recent assistant request.
type replyStatus int

const (
	replyIdle replyStatus = iota
	replyInFlight
	replySuccess
	replyError
)

// statusIndicator shows a spinner while a reply is pending.
type statusIndicator struct {
	spinner spinner.Model
	status  replyStatus
	label   string
}

func newStatusIndicator(label string) statusIndicator {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorPink)
	return statusIndicator{spinner: s, label: label}
}

func (i *statusIndicator) update(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	i.spinner, cmd = i.spinner.Update(msg)
	return cmd
}

func (i statusIndicator) view() string {
	var icon string
	switch i.status {
	case replyInFlight:
		icon = i.spinner.View()
	case replySuccess:
		icon = successStyle.Render(SymbolDone)
	case replyError:
		icon = errorStyle.Render(SymbolError)
	default:
		icon = dimStyle.Render(SymbolPending)
	}
	return dimStyle.Render(i.label+": ") + icon
}
