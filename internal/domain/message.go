// Package domain contains the core business entities and value objects.
package domain

// Message roles accepted on the chat-completions surface.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents a single role-tagged chat message.
type Message struct {
	// Role is one of: "system", "user", "assistant".
	Role string `json:"role" binding:"required"`

	// Content is the message text content.
	Content string `json:"content"`
}

// IsValidRole checks if the role is one of the accepted values.
func IsValidRole(role string) bool {
	switch role {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	default:
		return false
	}
}

// LastUserContent returns the content of the most recent user message,
// or false if the conversation contains none.
func LastUserContent(messages []Message) (string, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == RoleUser {
			return messages[i].Content, true
		}
	}
	return "", false
}
