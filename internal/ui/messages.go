package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Symbols with consistent appearance.
const (
	SuccessSymbol = "✓"
	ErrorSymbol   = "✗"
	InfoSymbol    = "ℹ"
	WarningSymbol = "⚠"
	BulletSymbol  = "•"
)

// PrintLogo prints the tracewire banner.
func PrintLogo() {
	width := TerminalWidth()
	if width < 80 {
		fmt.Println(TitleStyle.Render("tracewire"))
		return
	}

	logo := `▀█▀ █▀█ ▄▀█ █▀▀ █▀▀ █░█░█ █ █▀█ █▀▀
░█░ █▀▄ █▀█ █▄▄ ██▄ ▀▄▀▄▀ █ █▀▄ ██▄`

	lines := strings.Split(logo, "\n")
	colors := []string{SecondaryColor, InfoColor}

	for i, line := range lines {
		if len(line) > 0 {
			colorIdx := i % len(colors)
			fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color(colors[colorIdx])).Render(line))
		} else {
			fmt.Println()
		}
	}

	subtitle := "\nServerless Instrumentation Pipeline"
	fmt.Println(CenterText(SubtitleStyle.Render(subtitle)))
}

// PrintSuccess prints a success message.
func PrintSuccess(message string) {
	fmt.Println(lipgloss.NewStyle().
		Foreground(lipgloss.Color(SuccessColor)).
		Bold(true).
		Render(SuccessSymbol + " " + message))
}

// PrintError prints an error message inside a visible box.
func PrintError(message string) {
	errorBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ErrorColor)).
		Padding(0, 1).
		Render(ErrorStyle.Bold(true).Render(ErrorSymbol + " Error: " + message))

	fmt.Println(errorBox)
}

// PrintWarning prints a warning message.
func PrintWarning(message string) {
	fmt.Println(WarningStyle.Bold(true).Render(WarningSymbol + " " + message))
}

// PrintInfo prints a label and value pair.
func PrintInfo(label, value string) {
	labelStyle := DimStyle.Bold(true)
	fmt.Printf("%s %s\n",
		labelStyle.Render(label+":"),
		InfoStyle.Render(value))
}

// PrintDiagnostic prints one per-function pipeline diagnostic.
func PrintDiagnostic(function, message string) {
	fmt.Printf("%s %s %s\n",
		WarningStyle.Render(BulletSymbol),
		HeaderStyle.Render(function),
		DimStyle.Render(message))
}
