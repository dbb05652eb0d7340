package models

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage lives only as long as its chat session.
type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
