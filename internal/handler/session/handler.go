package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	model "github.com/zhouzirui/session-desk/backend/internal/model/session"
	sessionService "github.com/zhouzirui/session-desk/backend/internal/service/session"
	"github.com/zhouzirui/session-desk/backend/internal/validation"
	"github.com/zhouzirui/session-desk/backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// Store is the subset of the session store the handlers need.
type Store interface {
	ListSessions(ctx context.Context) []model.Session
	CreateSession(ctx context.Context, title string) model.Session
	GetSession(ctx context.Context, id string) (model.Session, error)
	ListMemos(ctx context.Context, sessionID string) ([]model.Memo, error)
	ListTodos(ctx context.Context, sessionID string) ([]model.Todo, error)
	CreateMemo(ctx context.Context, sessionID, content string) (model.Memo, error)
	CreateTodo(ctx context.Context, sessionID, title string) (model.Todo, error)
	ToggleTodo(ctx context.Context, sessionID, todoID string) (model.Todo, error)
}

// Handler 会话、备忘录与待办的HTTP处理器
type Handler struct {
	store     Store
	validator *validation.Validator
	logger    *slog.Logger
}

// New 创建会话处理器
func New(store Store, validator *validation.Validator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:     store,
		validator: validator,
		logger:    logger.With("handler", "session"),
	}
}

// RegisterRoutes 注册会话相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", h.handleListSessions)
		r.Post("/", h.handleCreateSession)

		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.handleGetSession)
			r.Get("/memos", h.handleListMemos)
			r.Post("/memos", h.handleCreateMemo)
			r.Get("/todos", h.handleListTodos)
			r.Post("/todos", h.handleCreateTodo)
			r.Post("/todos/{todoID}/toggle", h.handleToggleTodo)
		})
	})
}

type createSessionRequest struct {
	Title string `json:"title"`
}

type createMemoRequest struct {
	Content string `json:"content"`
}

type createTodoRequest struct {
	Title string `json:"title"`
}

func (h *Handler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.store.ListSessions(r.Context()))
}

func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload createSessionRequest
	if !h.decode(w, r, validation.CreateSession, &payload) {
		return
	}

	utils.RespondJSON(w, http.StatusCreated, h.store.CreateSession(r.Context(), payload.Title))
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	found, err := h.store.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, found)
}

func (h *Handler) handleListMemos(w http.ResponseWriter, r *http.Request) {
	memos, err := h.store.ListMemos(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, memos)
}

func (h *Handler) handleCreateMemo(w http.ResponseWriter, r *http.Request) {
	var payload createMemoRequest
	if !h.decode(w, r, validation.CreateMemo, &payload) {
		return
	}

	memo, err := h.store.CreateMemo(r.Context(), chi.URLParam(r, "sessionID"), payload.Content)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, memo)
}

func (h *Handler) handleListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.store.ListTodos(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, todos)
}

func (h *Handler) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var payload createTodoRequest
	if !h.decode(w, r, validation.CreateTodo, &payload) {
		return
	}

	todo, err := h.store.CreateTodo(r.Context(), chi.URLParam(r, "sessionID"), payload.Title)
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, todo)
}

func (h *Handler) handleToggleTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := h.store.ToggleTodo(r.Context(), chi.URLParam(r, "sessionID"), chi.URLParam(r, "todoID"))
	if err != nil {
		h.respondErr(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, todo)
}

// decode reads and validates the request body; on failure it has already responded.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, schema string, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		utils.RespondError(w, http.StatusBadRequest, "failed to read request body")
		return false
	}

	if err := h.validator.Decode(schema, body, dst); err != nil {
		h.respondErr(w, r, err)
		return false
	}
	return true
}

func (h *Handler) respondErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sessionService.ErrNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, validation.ErrInvalid):
		utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
