package session

// Memo is an immutable free-text note attached to a session.
type Memo struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}
