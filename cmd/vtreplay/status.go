package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Styled status line helpers: plain stderr/stdout text decorated the way a
// CLI tool uses lipgloss for readability, not a TUI. No live repaint, no
// alternate screen — one rendered line per call.
var (
	styleOK      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	styleRunning = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func statusRunning(id, in, out string) string {
	label := styleRunning.Render("processing")
	if out == "" {
		return fmt.Sprintf("%s %s %s", label, id, styleDim.Render(in))
	}
	return fmt.Sprintf("%s %s %s %s %s", label, id, styleDim.Render(in), styleDim.Render("->"), styleDim.Render(out))
}

func statusOK(msg string) string {
	return fmt.Sprintf("%s %s", styleOK.Render("done"), msg)
}

func statusError(msg string) string {
	return fmt.Sprintf("%s %s", styleError.Render("error"), msg)
}
