package fortuneHandler

import (
	"ProjectPalm/internal/api/fortune"
	contextPkg "ProjectPalm/pkg/context"
	"ProjectPalm/pkg/handlerUtil"
	"ProjectPalm/pkg/log"
	"ProjectPalm/pkg/utils"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// fortuneTimeout bounds the whole reading, including every model fallback the
// Gemini adapter may walk through.
const fortuneTimeout = 60 * time.Second

func (h *FortuneHandler) TellFortune(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), fortuneTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
	}).Debug("Processing fortune telling request")

	file, err := ctx.FormFile("palmImage")
	if err != nil {
		return errHandler.Handle(ctx, requestID, utils.ErrNoFile, ctx.Path(), "read_palm_image")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"file_name":  file.Filename,
		"file_size":  file.Size,
	}).Debug("Processing palm image upload")

	if err := h.utils.ValidateImageFile(file); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_image_file")
	}

	fileContent, err := file.Open()
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_file")
	}
	defer fileContent.Close()

	imageData, err := h.utils.ReadFileBytes(fileContent)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_file")
	}

	req := fortune.FortuneRequest{
		MasterType: ctx.FormValue("masterType"),
		Language:   ctx.FormValue("language"),
	}
	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	mimeType := file.Header.Get("Content-Type")

	reading, err := h.fortuneService.GenerateFortune(c, imageData, mimeType, req.MasterType, req.Language)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "generate_fortune")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id":  requestID,
			"path":        ctx.Path(),
			"master_type": req.MasterType,
			"text_length": len(reading.Fortune),
		}).Info("Fortune telling successful")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, fortune.FortuneResponse{
			Success: true,
			Fortune: reading,
		})
	}
}
