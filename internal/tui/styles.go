package tui

import (
	"github.com/charmbracelet/lipgloss"
)

const (
	ColorCyan   = lipgloss.Color("12")
	ColorYellow = lipgloss.Color("11")
	ColorGreen  = lipgloss.Color("10")
	ColorRed    = lipgloss.Color("9")
	ColorGray   = lipgloss.Color("8")
	ColorPink   = lipgloss.Color("205")
)

const (
	SymbolDone    = "✓"
	SymbolPending = "○"
	SymbolError   = "✗"
	SymbolSystem  = "→"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorCyan)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray).
			Padding(0, 1)

	doneStyle    = lipgloss.NewStyle().Foreground(ColorGray).Strikethrough(true)
	successStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	errorStyle   = lipgloss.NewStyle().Foreground(ColorRed)
	dimStyle     = lipgloss.NewStyle().Foreground(ColorGray)
	timerStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorYellow)

	userStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorPink)
	botStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorCyan)
)
