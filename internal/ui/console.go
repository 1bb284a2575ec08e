// Package ui provides styled console output for the verse router.
package ui

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	// Badge colors
	successBadge = color.New(color.BgGreen, color.FgBlack, color.Bold)
	warningBadge = color.New(color.FgYellow, color.Bold)
	infoBadge    = color.New(color.FgCyan, color.Bold)

	// Text colors
	successText = color.New(color.FgGreen, color.Bold)
	warningText = color.New(color.FgYellow)
	mutedText   = color.New(color.FgHiBlack)
	accentText  = color.New(color.FgMagenta, color.Bold)

	// Special colors
	moneyGreen = color.New(color.FgHiGreen, color.Bold)
	neonBlue   = color.New(color.FgHiCyan, color.Bold)

	// Method colors
	methodPOST = color.New(color.BgHiMagenta, color.FgBlack, color.Bold)
	methodGET  = color.New(color.BgHiCyan, color.FgBlack, color.Bold)
)

// PrintChaChing logs the estimated money saved by a locally answered request.
func PrintChaChing(saved, total string) {
	moneyGreen.Print("💸 CHA-CHING! ")
	fmt.Print("You saved ")
	moneyGreen.Print(saved)
	fmt.Print(" on this request. Total Saved: ")
	moneyGreen.Println(total)
}

// PrintCacheHit logs a transform cache hit.
// Format: ⚡ CACHE HIT | key:xxxx...xxxx
func PrintCacheHit(cacheKey string) {
	neonBlue.Print("⚡ CACHE HIT ")
	fmt.Print("| key:")
	mutedText.Println(maskKeyShort(cacheKey))
}

// PrintStartupInfo prints styled server startup information.
func PrintStartupInfo(host string, port int, provider string, configured bool) {
	fmt.Println()
	infoBadge.Print("[SERVER]")
	fmt.Print(" Listening on ")
	neonBlue.Printf("http://%s:%d\n", host, port)

	infoBadge.Print("[SERVER]")
	fmt.Print(" Provider: ")
	accentText.Print(provider)
	fmt.Print(" | Mode: ")
	if configured {
		successText.Println("AI-assisted")
	} else {
		warningText.Println("local deterministic")
	}

	fmt.Println()
	printEndpoints()
}

// printEndpoints prints the available API endpoints.
func printEndpoints() {
	mutedText.Println("  ┌───────────────────────────────────────────────────────────────┐")
	printEndpoint("POST", "/v1/chat/completions  ", "Chat completion (OpenAI-compatible)")
	printEndpoint("POST", "/renumber-verses-stream", "Renumber verse annotations         ")
	printEndpoint("POST", "/clean-verses-stream  ", "Strip verse annotations            ")
	printEndpoint("GET ", "/v1/models            ", "List available models              ")
	printEndpoint("GET ", "/health               ", "Health check                       ")
	mutedText.Println("  └───────────────────────────────────────────────────────────────┘")
	fmt.Println()
}

// printEndpoint prints a single endpoint row.
func printEndpoint(method, path, description string) {
	mutedText.Print("  │ ")
	if method == "POST" {
		methodPOST.Printf(" %s ", method)
	} else {
		methodGET.Printf(" %s ", method)
	}
	fmt.Printf(" %s ", path)
	mutedText.Print(description)
	mutedText.Println(" │")
}

// PrintShutdown prints a styled shutdown message.
func PrintShutdown() {
	fmt.Println()
	warningBadge.Print("[SHUTDOWN]")
	warningText.Println(" Graceful shutdown initiated...")
}

// PrintGoodbye prints a styled goodbye message.
func PrintGoodbye() {
	successBadge.Print(" OK ")
	fmt.Print(" ")
	successText.Println("Server stopped. Goodbye! 👋")
}

// maskKeyShort returns a short masked version of a key or hash.
// Format: xxxx...xxxx
func maskKeyShort(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "***"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
