package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Status lines go to stdout through fmt; the artifact directory printed by
// build is the only line scripts are expected to parse.

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorFail   = lipgloss.Color("167") // soft red
	colorLink   = lipgloss.Color("75")  // light blue
	colorMuted  = lipgloss.Color("240")
	colorLabel  = lipgloss.Color("245")
)

var (
	// StyleTitle renders headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleLink renders URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorLink).Underline(true)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorMuted)

	styleOK      = lipgloss.NewStyle().Foreground(colorOK)
	styleFail    = lipgloss.NewStyle().Foreground(colorFail)
	styleWarn    = lipgloss.NewStyle().Foreground(colorWarn)
	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel)
	styleKey     = styleLabel.Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
)

const (
	markOK   = "✓"
	markFail = "✗"
	markWarn = "!"
	markInfo = "›"
	markFile = "→"
)

// status prints one marked line.
func status(mark string, format string, args ...any) {
	fmt.Println(mark + " " + fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) {
	status(styleOK.Render(markOK), format, args...)
}

func printError(format string, args ...any) {
	status(styleFail.Render(markFail), format, args...)
}

func printWarning(format string, args ...any) {
	status(styleWarn.Render(markWarn), "%s", styleWarn.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status(styleLabel.Render(markInfo), format, args...)
}

// printDetail prints an indented, muted follow-up to the previous line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a published file path under a status line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(markFile) + " " + path)
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + value)
}

// printStats prints "<n> excluded · cached|fresh · <elapsed>".
func printStats(excluded int, cached bool, elapsed time.Duration) {
	source := styleLabel.Render("fresh")
	if cached {
		source = styleOK.Render("cached")
	}
	parts := []string{
		StyleDim.Render(fmt.Sprintf("%d excluded", excluded)),
		source,
		StyleDim.Render(elapsed.Round(time.Millisecond).String()),
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}
