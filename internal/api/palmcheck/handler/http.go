package palmcheckHandler

import (
	palmcheckService "ProjectPalm/internal/api/palmcheck/service"
	"ProjectPalm/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type PalmCheckHandler struct {
	log              *logrus.Logger
	middleware       middleware.Middleware
	palmcheckService palmcheckService.IPalmCheckService
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	ps palmcheckService.IPalmCheckService,
) *PalmCheckHandler {
	return &PalmCheckHandler{
		palmcheckService: ps,
		log:              log,
		middleware:       middleware,
	}
}

func (h *PalmCheckHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	palm := srv.Group("/palm")
	palm.Use("/ws", wsMiddleware)
	palm.Get("/ws", websocket.New(h.handlePalmWebSocket))
}
