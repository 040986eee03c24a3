package chat

import "time"

// Role identifies who produced a message.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Vote is the thumbs-up/down feedback recorded for a bot message.
type Vote string

const (
	VoteUp   Vote = "up"
	VoteDown Vote = "down"
)

// Valid reports whether v is one of the accepted votes.
func (v Vote) Valid() bool {
	return v == VoteUp || v == VoteDown
}

// Message is one turn in the session log. Messages are never mutated after creation.
type Message struct {
	ID         string    `json:"id"`
	Role       Role      `json:"role"`
	Text       string    `json:"text"`
	FeedbackID string    `json:"feedbackId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
