package usageHandler

import (
	"ProjectPalm/internal/api/usage"
	contextPkg "ProjectPalm/pkg/context"
	"ProjectPalm/pkg/handlerUtil"
	"ProjectPalm/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

const usageTimeout = 5 * time.Second

func (h *UsageHandler) GetUsage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), usageTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	count, err := h.usageRepository.GetCount(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_usage_count")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, usage.CountResponse{
		Success: true,
		Count:   count,
	})
}

func (h *UsageHandler) IncrementUsage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), usageTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	count, err := h.usageRepository.IncrementCount(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "increment_usage_count")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"count":      count,
	}).Info("Usage count incremented")

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, usage.CountResponse{
		Success: true,
		Count:   count,
	})
}
