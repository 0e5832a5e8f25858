package controller

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
)
