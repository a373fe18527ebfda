package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatService "github.com/zhouzirui/session-desk/backend/internal/service/chat"
	"github.com/zhouzirui/session-desk/backend/internal/validation"
	"github.com/zhouzirui/session-desk/backend/pkg/utils"
)

const maxBodyBytes = 1 << 20

// Responder produces echo replies.
type Responder interface {
	Echo(ctx context.Context, req chatService.Request) (chatService.Reply, error)
	Stream(ctx context.Context, req chatService.Request, emit func(chatService.Chunk) error) (chatService.Reply, error)
}

// Handler 聊天回显的HTTP处理器
type Handler struct {
	chatSvc   Responder
	validator *validation.Validator
	logger    *slog.Logger
	ws        *WebSocketHandler
}

// New 创建聊天处理器
func New(chatSvc Responder, validator *validation.Validator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("handler", "chat")
	return &Handler{
		chatSvc:   chatSvc,
		validator: validator,
		logger:    logger,
		ws:        NewWebSocketHandler(chatSvc, validator, logger),
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/chat/stream", h.handleChatStream)
	h.ws.RegisterWebSocketRoutes(r)
}

// chatRequest mirrors the JSON body; session_id may be omitted or null.
type chatRequest struct {
	Prompt    string  `json:"prompt"`
	SessionID *string `json:"session_id"`
}

func (c chatRequest) toService() chatService.Request {
	return chatService.Request{Prompt: c.Prompt, SessionID: c.SessionID}
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	reply, err := h.chatSvc.Echo(r.Context(), payload.toService())
	if err != nil {
		h.logger.Error("chat echo failed", "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	utils.RespondJSON(w, http.StatusOK, reply)
}

// handleChatStream sends the echo as Server-Sent Events: thinking, delta..., done.
func (h *Handler) handleChatStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	payload, ok := h.decode(w, r)
	if !ok {
		return
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	var thinking string
	emit := func(chunk chatService.Chunk) error {
		switch chunk.Event {
		case chatService.EventThinking:
			thinking = chunk.Content
		case chatService.EventDone:
			return utils.SendSSEEvent(w, flusher, chunk.Event, chatService.Reply{Reply: chunk.Content, Thinking: thinking})
		}
		return utils.SendSSEEvent(w, flusher, chunk.Event, chunk)
	}

	if _, err := h.chatSvc.Stream(r.Context(), payload.toService(), emit); err != nil {
		h.logger.Warn("chat stream interrupted", "error", err)
		_ = utils.SendSSEEvent(w, flusher, "error", map[string]string{"detail": "stream interrupted"})
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (chatRequest, bool) {
	var payload chatRequest

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return payload, false
		}
		utils.RespondError(w, http.StatusBadRequest, "failed to read request body")
		return payload, false
	}

	if err := h.validator.Decode(validation.ChatPrompt, body, &payload); err != nil {
		if errors.Is(err, validation.ErrInvalid) {
			utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
			return payload, false
		}
		h.logger.Error("chat request validation failed", "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal server error")
		return payload, false
	}
	return payload, true
}
