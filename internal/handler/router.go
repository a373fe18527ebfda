package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/session-desk/backend/internal/config"
	"github.com/zhouzirui/session-desk/backend/internal/handler/chat"
	"github.com/zhouzirui/session-desk/backend/internal/handler/health"
	"github.com/zhouzirui/session-desk/backend/internal/handler/session"
	middlewarePkg "github.com/zhouzirui/session-desk/backend/internal/middleware"
	"github.com/zhouzirui/session-desk/backend/internal/validation"
	"github.com/zhouzirui/session-desk/backend/pkg/utils"
)

// Deps bundles the services the router exposes.
type Deps struct {
	Sessions  session.Store
	Chat      chat.Responder
	Validator *validation.Validator
	CORS      config.CORSConfig
	Logger    *slog.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.CORS))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	health.New().RegisterRoutes(r)
	session.New(deps.Sessions, deps.Validator, logger).RegisterRoutes(r)
	chat.New(deps.Chat, deps.Validator, logger).RegisterRoutes(r)

	return r
}
