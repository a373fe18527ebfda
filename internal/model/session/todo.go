package session

// Todo is a titled task whose done flag can be toggled.
type Todo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}
