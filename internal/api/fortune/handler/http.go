package fortuneHandler

import (
	fortuneService "ProjectPalm/internal/api/fortune/service"
	"ProjectPalm/internal/middleware"
	"ProjectPalm/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type FortuneHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	fortuneService fortuneService.IFortuneService
	utils          utils.IUtils
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	fs fortuneService.IFortuneService,
	utils utils.IUtils,
) *FortuneHandler {
	return &FortuneHandler{
		fortuneService: fs,
		log:            log,
		validator:      validator,
		middleware:     middleware,
		utils:          utils,
	}
}

func (h *FortuneHandler) Start(srv fiber.Router) {
	srv.Post("/fortune-telling", h.TellFortune)
}
