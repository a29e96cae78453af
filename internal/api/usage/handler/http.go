package usageHandler

import (
	usageRepository "ProjectPalm/internal/api/usage/repository"
	"ProjectPalm/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type UsageHandler struct {
	log             *logrus.Logger
	middleware      middleware.Middleware
	usageRepository usageRepository.IUsageRepository
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	ur usageRepository.IUsageRepository,
) *UsageHandler {
	return &UsageHandler{
		usageRepository: ur,
		log:             log,
		middleware:      middleware,
	}
}

func (h *UsageHandler) Start(srv fiber.Router) {
	srv.Get("/usage", h.GetUsage)
	srv.Post("/usage/increment", h.IncrementUsage)
}
