package domain

// Message is one entry in a conversation timeline (user or assistant).
// Immutable once created.
type Message struct {
	ID        MessageID
	Role      Role
	Content   string
	CreatedAt Timestamp
}

// ConversationHistory is the ordered message sequence of one session.
// The orchestrator only ever appends to it.
type ConversationHistory []Message

// RecentWindow returns a read-time view of the last n messages, oldest
// first. The stored sequence is never truncated.
func (h ConversationHistory) RecentWindow(n int) ConversationHistory {
	if n <= 0 || len(h) <= n {
		return h
	}
	return h[len(h)-n:]
}
