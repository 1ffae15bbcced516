package chat

import "time"

// DefaultAuthor is substituted when a sender supplies no display name.
const DefaultAuthor = "Anonymous"

// Message is one chat message, both as stored in a room's history and as
// delivered over the wire. Messages are immutable once stamped.
type Message struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	Timestamp string `json:"timestamp"`
}

// NewMessage stamps a message at receipt time. The server clock is
// authoritative: the id is the receipt time in Unix milliseconds, a
// sequencing hint rather than a unique key, and the timestamp is ISO-8601.
func NewMessage(content, author string) Message {
	now := time.Now().UTC()
	if author == "" {
		author = DefaultAuthor
	}
	return Message{
		ID:        now.UnixMilli(),
		Content:   content,
		Author:    author,
		Timestamp: now.Format(time.RFC3339),
	}
}
