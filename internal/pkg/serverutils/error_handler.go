package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/viv500/GenesisAI/pkg/assistant"
	"github.com/viv500/GenesisAI/pkg/canvas"
	"github.com/viv500/GenesisAI/pkg/store"
)

// ErrorHandlerMiddleware turns errors returned by controllers into BaseResponse bodies.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var verr *ValidationError
		if errors.As(err, &verr) {
			res := ErrorResponse(fiber.StatusBadRequest, verr.Error())
			res.Errors = verr.Fields
			return ctx.Status(fiber.StatusBadRequest).JSON(res)
		}

		code := StatusFor(err)
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}

// StatusFor maps domain errors onto HTTP status codes.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, canvas.ErrCheckpointNotFound),
		errors.Is(err, canvas.ErrCanvasNotFound),
		errors.Is(err, canvas.ErrNoteNotFound),
		errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, store.ErrProposalNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, canvas.ErrInvalidSector),
		errors.Is(err, canvas.ErrInvalidHierarchy),
		errors.Is(err, canvas.ErrDuplicateTitle),
		errors.Is(err, canvas.ErrPathNotFound),
		errors.Is(err, assistant.ErrNoSelection):
		return fiber.StatusBadRequest
	case errors.Is(err, assistant.ErrUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
