package main

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme colors.
var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#1e66f5", Dark: "#89b4fa"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"}
	colorError   = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"}
)

// outputStyles are the lipgloss styles of command output.
type outputStyles struct {
	Title   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Index   lipgloss.Style
}

var styles = outputStyles{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
	Success: lipgloss.NewStyle().Foreground(colorSuccess),
	Error:   lipgloss.NewStyle().Bold(true).Foreground(colorError),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Index:   lipgloss.NewStyle().Foreground(colorMuted).Width(4).Align(lipgloss.Right),
}
