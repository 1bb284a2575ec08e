// Package ui provides styled console output for the verse router.
package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// PrintBanner displays the startup banner.
func PrintBanner() {
	cyan := color.New(color.FgCyan, color.Bold)
	magenta := color.New(color.FgMagenta, color.Bold)
	yellow := color.New(color.FgYellow, color.Bold)
	white := color.New(color.FgWhite)
	dim := color.New(color.FgHiBlack)

	fmt.Println()
	cyan.Println("╔══════════════════════════════════════════════════════╗")

	cyan.Print("║  ")
	magenta.Print("VERSE ROUTER")
	dim.Print("  │  ")
	yellow.Print("📖 SWIFT ARRAY FORMATTER")
	dim.Print("  │  ")
	white.Print("v0.6")
	dim.Print("    ")
	cyan.Println("║")

	cyan.Println("╚══════════════════════════════════════════════════════╝")
	fmt.Println()
}
