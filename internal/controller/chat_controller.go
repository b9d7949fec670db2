package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/viv500/GenesisAI/internal/dto"
	"github.com/viv500/GenesisAI/internal/pkg/serverutils"
	"github.com/viv500/GenesisAI/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Open(ctx *fiber.Ctx) error
	Send(ctx *fiber.Ctx) error
	Apply(ctx *fiber.Ctx) error
	UpdateHierarchy(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("sessions/:sid/open", c.Open)
	h.Post("sessions/:sid/messages", c.Send)
	h.Post("proposals/:id/apply", c.Apply)

	r.Post("/update-hierarchy", c.UpdateHierarchy)
}

func (c *chatController) Open(ctx *fiber.Ctx) error {
	res, err := c.chatService.Open(ctx.UserContext(), ctx.Params("sid"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat opened", res))
}

func (c *chatController) Send(ctx *fiber.Ctx) error {
	var req dto.ChatMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Send(ctx.UserContext(), ctx.Params("sid"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Assistant replied", res))
}

func (c *chatController) Apply(ctx *fiber.Ctx) error {
	res, err := c.chatService.Apply(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Proposal applied", res))
}

// UpdateHierarchy answers with the bare hierarchy, no envelope.
func (c *chatController) UpdateHierarchy(ctx *fiber.Ctx) error {
	var req dto.UpdateHierarchyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.UpdateHierarchy(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
