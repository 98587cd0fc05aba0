package views

import "github.com/charmbracelet/lipgloss"

// Palette colors.
var (
	cPrimary      = lipgloss.Color("#4f6d7a")
	cPrimaryLight = lipgloss.Color("#6b8794")
	cPrimaryDark  = lipgloss.Color("#2f4d5a")
	cSecondary    = lipgloss.Color("#8aa0b3")
	cText         = lipgloss.Color("#1f2933")
	cTextMuted    = lipgloss.Color("#52606d")
	cBackground   = lipgloss.Color("#f4f5f7")

	cSuccess = lipgloss.Color("#2e7d32")
	cInfo    = lipgloss.Color("#0288d1")
	cWarning = lipgloss.Color("#ed6c02")
	cError   = lipgloss.Color("#d32f2f")
)

// Bar gradient endpoints for progress bubbles.
const (
	BarStart = "#6b8794"
	BarEnd   = "#2f4d5a"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(cBackground).Background(cPrimaryDark).Padding(0, 1)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	mutedStyle    = lipgloss.NewStyle().Foreground(cTextMuted)
	textStyle     = lipgloss.NewStyle().Foreground(cText)
	statusStyle   = lipgloss.NewStyle().Foreground(cSecondary)
	errorStyle    = lipgloss.NewStyle().Foreground(cError)
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(cSecondary).Padding(0, 1)
	footerStyle   = lipgloss.NewStyle().Foreground(cTextMuted)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(cBackground).Background(cPrimaryLight)
	doneStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(cTextMuted)
	achievedStyle = lipgloss.NewStyle().Bold(true).Foreground(cSuccess)
	pastDueStyle  = lipgloss.NewStyle().Bold(true).Foreground(cError)
)

func severityColor(severity string) lipgloss.Color {
	switch severity {
	case "success":
		return cSuccess
	case "warning":
		return cWarning
	case "error":
		return cError
	default:
		return cInfo
	}
}
