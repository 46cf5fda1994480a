package ui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("196")).
			Padding(0, 1)

	// Node styles by group
	mainNodeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	topicNodeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	subtopicNodeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	selectedNodeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	cursorNodeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Bold(true).Underline(true)
	linkStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))

	// Panel content styles
	panelTitleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	cardTitleStyle  = lipgloss.NewStyle().Bold(true)
	cardMetaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cardLinkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true)
	cardCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	barFillStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	barEmptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)
