package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/zhouzirui/session-desk/backend/internal/model/session"
)

// Store keeps every session, memo and todo in memory for the process lifetime.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
	order    []string
	logger   *slog.Logger
}

// NewStore returns an empty store. A nil logger falls back to slog.Default().
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		sessions: make(map[string]*session.Session),
		logger:   logger.With("component", "session-store"),
	}
}

// ListSessions returns all sessions in creation order.
func (s *Store) ListSessions(_ context.Context) []session.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]session.Session, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.sessions[id].Clone())
	}
	return out
}

// CreateSession stores an empty session under a fresh id. The title is kept as-is.
func (s *Store) CreateSession(_ context.Context, title string) session.Session {
	created := &session.Session{
		ID:    uuid.NewString(),
		Title: title,
		Memos: make([]session.Memo, 0, 8),
		Todos: make([]session.Todo, 0, 8),
	}

	s.mu.Lock()
	s.sessions[created.ID] = created
	s.order = append(s.order, created.ID)
	s.mu.Unlock()

	s.logger.Debug("session created", "session_id", created.ID)
	return created.Clone()
}

// GetSession retrieves a session by identifier.
func (s *Store) GetSession(_ context.Context, id string) (session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found, ok := s.sessions[id]
	if !ok {
		return session.Session{}, sessionNotFound(id)
	}
	return found.Clone(), nil
}

// ListMemos returns a snapshot of the session's memos.
func (s *Store) ListMemos(_ context.Context, sessionID string) ([]session.Memo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found, ok := s.sessions[sessionID]
	if !ok {
		return nil, sessionNotFound(sessionID)
	}
	return append(make([]session.Memo, 0, len(found.Memos)), found.Memos...), nil
}

// ListTodos returns a snapshot of the session's todos.
func (s *Store) ListTodos(_ context.Context, sessionID string) ([]session.Todo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	found, ok := s.sessions[sessionID]
	if !ok {
		return nil, sessionNotFound(sessionID)
	}
	return append(make([]session.Todo, 0, len(found.Todos)), found.Todos...), nil
}

// CreateMemo appends a memo to the session.
func (s *Store) CreateMemo(_ context.Context, sessionID, content string) (session.Memo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, ok := s.sessions[sessionID]
	if !ok {
		return session.Memo{}, sessionNotFound(sessionID)
	}

	memo := session.Memo{ID: uuid.NewString(), Content: content}
	found.Memos = append(found.Memos, memo)

	s.logger.Debug("memo created", "session_id", sessionID, "memo_id", memo.ID)
	return memo, nil
}

// CreateTodo appends an open todo to the session.
func (s *Store) CreateTodo(_ context.Context, sessionID, title string) (session.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, ok := s.sessions[sessionID]
	if !ok {
		return session.Todo{}, sessionNotFound(sessionID)
	}

	todo := session.Todo{ID: uuid.NewString(), Title: title}
	found.Todos = append(found.Todos, todo)

	s.logger.Debug("todo created", "session_id", sessionID, "todo_id", todo.ID)
	return todo, nil
}

// ToggleTodo flips the done flag of a todo and returns the updated value.
func (s *Store) ToggleTodo(_ context.Context, sessionID, todoID string) (session.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found, ok := s.sessions[sessionID]
	if !ok {
		return session.Todo{}, sessionNotFound(sessionID)
	}

	for i := range found.Todos {
		if found.Todos[i].ID != todoID {
			continue
		}
		found.Todos[i].Done = !found.Todos[i].Done
		s.logger.Debug("todo toggled", "session_id", sessionID, "todo_id", todoID, "done", found.Todos[i].Done)
		return found.Todos[i], nil
	}
	return session.Todo{}, todoNotFound(todoID)
}
