// Package formatter implements the deterministic verse-numbering transforms.
package formatter

import (
	"strings"

	"github.com/versekit/verse-router/internal/domain"
)

// SimpleReply generates a deterministic response for the chat endpoint when
// no AI provider is configured. It echoes the latest user message, with a
// small convenience path that strips blank lines on request.
func SimpleReply(messages []domain.Message) string {
	lastUser, ok := domain.LastUserContent(messages)
	if !ok {
		return "Hello! Provide a prompt or some code and I'll respond."
	}

	if strings.Contains(strings.ToLower(lastUser), "remove blank") {
		var kept []string
		for _, line := range strings.Split(lastUser, "\n") {
			if strings.TrimSpace(line) != "" {
				kept = append(kept, line)
			}
		}
		return strings.Join(kept, "\n")
	}

	return "Assistant (local fallback):\n\n" + lastUser
}
