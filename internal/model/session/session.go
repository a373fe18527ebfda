package session

// Session groups a user's memos and todos under a title.
type Session struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Memos []Memo `json:"memos"`
	Todos []Todo `json:"todos"`
}

// Clone returns a copy that shares no slices with s.
func (s Session) Clone() Session {
	out := s
	out.Memos = append(make([]Memo, 0, len(s.Memos)), s.Memos...)
	out.Todos = append(make([]Todo, 0, len(s.Todos)), s.Todos...)
	return out
}
