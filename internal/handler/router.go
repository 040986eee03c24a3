package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/sports-explorer/backend/internal/config"
	"github.com/zhouzirui/sports-explorer/backend/internal/handler/chat"
	languageHandler "github.com/zhouzirui/sports-explorer/backend/internal/handler/language"
	"github.com/zhouzirui/sports-explorer/backend/internal/handler/stream"
	"github.com/zhouzirui/sports-explorer/backend/internal/handler/ws"
	middlewarePkg "github.com/zhouzirui/sports-explorer/backend/internal/middleware"
	"github.com/zhouzirui/sports-explorer/backend/internal/model/language"
	"github.com/zhouzirui/sports-explorer/backend/internal/service/assistant"
	chatService "github.com/zhouzirui/sports-explorer/backend/internal/service/chat"
	"github.com/zhouzirui/sports-explorer/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(languages language.Store, chatSvc *chatService.Service, assistantSvc *assistant.Service, limits config.RateLimitConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"sessions": chatSvc.Count(),
		})
	})

	languageH := languageHandler.New(languages)
	chatH := chat.New(chatSvc, assistantSvc, languages)
	streamH := stream.New(assistantSvc, chatSvc)
	wsH := ws.New(chatSvc, assistantSvc, languages)

	r.Route("/api", func(api chi.Router) {
		if limits.RPS > 0 {
			api.Use(middlewarePkg.NewRateLimiter(limits.RPS, limits.Burst).Middleware)
		}

		languageH.RegisterRoutes(api)
		chatH.RegisterRoutes(api)
		streamH.RegisterRoutes(api)
		wsH.RegisterRoutes(api)
	})

	return r
}
