package chat

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatService "github.com/zhouzirui/session-desk/backend/internal/service/chat"
	"github.com/zhouzirui/session-desk/backend/internal/validation"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsMaxMessage   = 64 << 10
)

// WebSocketHandler 通过WebSocket提供聊天回显
type WebSocketHandler struct {
	chatSvc   Responder
	validator *validation.Validator
	logger    *slog.Logger
	upgrader  websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(chatSvc Responder, validator *validation.Validator, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocketHandler{
		chatSvc:   chatSvc,
		validator: validator,
		logger:    logger.With("transport", "websocket"),
		upgrader: websocket.Upgrader{
			// Origin policy is enforced by the CORS middleware configuration.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/chat/ws", h.handleWebSocket)
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	Content   string      `json:"content,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxMessage)

	ctx := r.Context()
	h.logger.Debug("websocket connected", "remote", r.RemoteAddr)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			if err := h.send(conn, outgoingMessage{Type: "error", Detail: "only text frames are supported"}); err != nil {
				return
			}
			continue
		}

		var payload chatRequest
		if err := h.validator.Decode(validation.ChatPrompt, data, &payload); err != nil {
			detail := "internal server error"
			if errors.Is(err, validation.ErrInvalid) {
				detail = err.Error()
			}
			if err := h.send(conn, outgoingMessage{Type: "error", Detail: detail}); err != nil {
				return
			}
			continue
		}

		var thinking string
		_, err = h.chatSvc.Stream(ctx, payload.toService(), func(chunk chatService.Chunk) error {
			switch chunk.Event {
			case chatService.EventThinking:
				thinking = chunk.Content
				return h.send(conn, outgoingMessage{Type: chunk.Event, Content: chunk.Content})
			case chatService.EventDone:
				return h.send(conn, outgoingMessage{
					Type: chunk.Event,
					Data: chatService.Reply{Reply: chunk.Content, Thinking: thinking},
				})
			default:
				return h.send(conn, outgoingMessage{Type: chunk.Event, Content: chunk.Content})
			}
		})
		if err != nil {
			h.logger.Warn("websocket stream interrupted", "error", err)
			return
		}
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, msg outgoingMessage) error {
	msg.Timestamp = time.Now().UnixMilli()
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}
