package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/zhouzirui/session-desk/backend/internal/model/session"
	"github.com/zhouzirui/session-desk/backend/internal/service/session"
)

func TestStoreCreateThenGetSession(t *testing.T) {
	store := session.NewStore(nil)
	ctx := context.Background()

	created := store.CreateSession(ctx, "Portfolio A")

	got, err := store.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Portfolio A", got.Title)
	assert.Empty(t, got.Memos)
	assert.Empty(t, got.Todos)
	assert.NotNil(t, got.Memos)
	assert.NotNil(t, got.Todos)
}

func TestStoreCreateSessionAcceptsEmptyTitle(t *testing.T) {
	store := session.NewStore(nil)
	ctx := context.Background()

	created := store.CreateSession(ctx, "")
	got, err := store.GetSession(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "", got.Title)
}

func TestStoreListSessionsKeepsCreationOrder(t *testing.T) {
	store := session.NewStore(nil)
	ctx := context.Background()

	assert.Empty(t, store.ListSessions(ctx))

	first := store.CreateSession(ctx, "first")
	second := store.CreateSession(ctx, "second")
	third := store.CreateSession(ctx, "third")

	sessions := store.ListSessions(ctx)
	require.Len(t, sessions, 3)
	assert.Equal(t, []string{first.ID, second.ID, third.ID}, []string{sessions[0].ID, sessions[1].ID, sessions[2].ID})
}

func TestStoreCreateMemoAppendsOnce(t *testing.T) {
	store := session.NewStore(nil)
	ctx := context.Background()
	s := store.CreateSession(ctx, "notes")

	_, err := store.CreateMemo(ctx, s.ID, "first")
	require.NoError(t, err)
	memo, err := store.CreateMemo(ctx, s.ID, "  keep spacing  ")
	require.NoError(t, err)

	memos, err := store.ListMemos(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, memos, 2)
	assert.Equal(t, memo, memos[len(memos)-1])
	assert.Equal(t, "  keep spacing  ", memos[1].Content)

	count := 0
	for _, m := range memos {
		if m.ID == memo.ID {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestStoreListTodosIsIdempotent(t *testing.T) {
	store := session.NewStore(nil)
	ctx := context.Background()
	s := store.CreateSession(ctx, "todos")
	_, err := store.CreateTodo(ctx, s.ID, "one")
	require.NoError(t, err)
	_, err = store.CreateTodo(ctx, s.ID, "two")
	require.NoError(t, err)

	first, err := store.ListTodos(ctx, s.ID)
	require.NoError(t, err)
	second, err := store.ListTodos(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStoreSnapshotsAreDetached(t *testing.T) {
	store := session.NewStore(nil)
	ctx := context.Background()
	s := store.CreateSession(ctx, "detached")
	todo, err := store.CreateTodo(ctx, s.ID, "task")
	require.NoError(t, err)

	todos, err := store.ListTodos(ctx, s.ID)
	require.NoError(t, err)
	todos[0].Done = true

	got, err := store.GetSession(ctx, s.ID)
	require.NoError(t, err)
	got.Todos[0].Title = "changed"

	todos, err = store.ListTodos(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Todo{ID: todo.ID, Title: "task", Done: false}, todos[0])
}

func TestStoreToggleTodoRoundTrip(t *testing.T) {
	store := session.NewStore(nil)
	ctx := context.Background()
	s := store.CreateSession(ctx, "toggle")
	todo, err := store.CreateTodo(ctx, s.ID, "flip me")
	require.NoError(t, err)
	require.False(t, todo.Done)

	toggled, err := store.ToggleTodo(ctx, s.ID, todo.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Done)

	toggled, err = store.ToggleTodo(ctx, s.ID, todo.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Done)
}

func TestStorePortfolioScenario(t *testing.T) {
	store := session.NewStore(nil)
	ctx := context.Background()

	s := store.CreateSession(ctx, "Portfolio A")
	todo, err := store.CreateTodo(ctx, s.ID, "Buy AAPL")
	require.NoError(t, err)
	assert.False(t, todo.Done)

	toggled, err := store.ToggleTodo(ctx, s.ID, todo.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Done)

	todos, err := store.ListTodos(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.Todo{{ID: todo.ID, Title: "Buy AAPL", Done: true}}, todos)
}

func TestStoreUnknownSessionIsNotFound(t *testing.T) {
	store := session.NewStore(nil)
	ctx := context.Background()
	store.CreateSession(ctx, "other")
	const missing = "nonexistent"

	checks := map[string]func() error{
		"GetSession": func() error { _, err := store.GetSession(ctx, missing); return err },
		"ListMemos":  func() error { _, err := store.ListMemos(ctx, missing); return err },
		"ListTodos":  func() error { _, err := store.ListTodos(ctx, missing); return err },
		"CreateMemo": func() error { _, err := store.CreateMemo(ctx, missing, "x"); return err },
		"CreateTodo": func() error { _, err := store.CreateTodo(ctx, missing, "x"); return err },
		"ToggleTodo": func() error { _, err := store.ToggleTodo(ctx, missing, "x"); return err },
	}

	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			err := check()
			require.Error(t, err)
			assert.ErrorIs(t, err, session.ErrNotFound)
			assert.ErrorIs(t, err, session.ErrSessionNotFound)
			assert.Contains(t, err.Error(), missing)
		})
	}
}

func TestStoreToggleUnknownTodo(t *testing.T) {
	store := session.NewStore(nil)
	ctx := context.Background()
	s := store.CreateSession(ctx, "todos")

	_, err := store.ToggleTodo(ctx, s.ID, "missing-todo")
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrTodoNotFound)
	assert.False(t, errors.Is(err, session.ErrSessionNotFound))

	var notFound *session.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing-todo", notFound.ID)
}

func TestStoreToggleTodoInOtherSessionIsNotFound(t *testing.T) {
	store := session.NewStore(nil)
	ctx := context.Background()
	a := store.CreateSession(ctx, "a")
	b := store.CreateSession(ctx, "b")
	todo, err := store.CreateTodo(ctx, a.ID, "only in a")
	require.NoError(t, err)

	_, err = store.ToggleTodo(ctx, b.ID, todo.ID)
	assert.ErrorIs(t, err, session.ErrTodoNotFound)
}

func TestStoreConcurrentToggles(t *testing.T) {
	store := session.NewStore(nil)
	ctx := context.Background()
	s := store.CreateSession(ctx, "race")
	todo, err := store.CreateTodo(ctx, s.ID, "contended")
	require.NoError(t, err)

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _ = store.ToggleTodo(ctx, s.ID, todo.ID)
			_, _ = store.CreateMemo(ctx, s.ID, "memo")
		}()
	}
	wg.Wait()

	todos, err := store.ListTodos(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, todos[0].Done, "an even number of toggles restores the original value")

	memos, err := store.ListMemos(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, memos, workers)
}

func TestStoreIDsAreUnique(t *testing.T) {
	store := session.NewStore(nil)
	ctx := context.Background()
	s := store.CreateSession(ctx, "ids")

	seen := map[string]bool{s.ID: true}
	for i := 0; i < 100; i++ {
		memo, err := store.CreateMemo(ctx, s.ID, "m")
		require.NoError(t, err)
		todo, err := store.CreateTodo(ctx, s.ID, "t")
		require.NoError(t, err)
		require.False(t, seen[memo.ID])
		seen[memo.ID] = true
		require.False(t, seen[todo.ID])
		seen[todo.ID] = true
	}
}
