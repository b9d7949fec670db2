package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/viv500/GenesisAI/internal/dto"
	"github.com/viv500/GenesisAI/internal/pkg/serverutils"
	"github.com/viv500/GenesisAI/internal/service"
)

type IFeedbackController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Recent(ctx *fiber.Ctx) error
}

type feedbackController struct {
	feedbackService service.IFeedbackService
}

func NewFeedbackController(feedbackService service.IFeedbackService) IFeedbackController {
	return &feedbackController{
		feedbackService: feedbackService,
	}
}

func (c *feedbackController) RegisterRoutes(r fiber.Router) {
	r.Post("/feedback", c.Generate)
	r.Get("/feedback/v1", c.Recent)
}

func (c *feedbackController) Generate(ctx *fiber.Ctx) error {
	var req dto.FeedbackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.feedbackService.Generate(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *feedbackController) Recent(ctx *fiber.Ctx) error {
	checkpointID := ctx.Query("checkpoint_id")
	if checkpointID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "checkpoint_id is required")
	}
	res := c.feedbackService.Recent(ctx.UserContext(), checkpointID)
	return ctx.JSON(serverutils.SuccessResponse("Success get feedback", res))
}
