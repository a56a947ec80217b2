package main

import (
	"fmt"
	"math"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#2E86AB")
	warnColor    = lipgloss.Color("#E0A800")
	errorColor   = lipgloss.Color("#C0392B")
	mutedColor   = lipgloss.Color("#888888")
	textColor    = lipgloss.Color("#FFFFFF")
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	keyStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)

	warnStyle = lipgloss.NewStyle().
			Foreground(warnColor)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)
)

func printKV(key, value string) {
	fmt.Printf("  %s %s\n", keyStyle.Render(key), valueStyle.Render(value))
}

func printWarning(message string) {
	fmt.Printf("  %s\n", warnStyle.Render(message))
}

func printError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", errorStyle.Render("Error:"), message)
}

// formatLUFS renders a loudness reading, showing unmeasured values as "n/a".
func formatLUFS(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f LUFS", v)
}

func formatDBTP(v float64) string {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.1f dBTP", v)
}
