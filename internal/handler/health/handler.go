package health

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/session-desk/backend/pkg/utils"
)

// Handler 健康检查处理器
type Handler struct{}

// New 创建健康检查处理器
func New() *Handler {
	return &Handler{}
}

// RegisterRoutes 注册健康检查路由；/api/ping 保留给早期前端使用
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)
	r.Get("/api/ping", h.handlePing)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handlePing(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"message": "pong"})
}
