package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/viv500/GenesisAI/internal/dto"
	"github.com/viv500/GenesisAI/internal/pkg/serverutils"
	"github.com/viv500/GenesisAI/internal/service"
)

type IStickyController interface {
	RegisterRoutes(r fiber.Router)
	Add(ctx *fiber.Ctx) error
	Edit(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type stickyController struct {
	stickyService service.IStickyService
}

func NewStickyController(stickyService service.IStickyService) IStickyController {
	return &stickyController{
		stickyService: stickyService,
	}
}

func (c *stickyController) RegisterRoutes(r fiber.Router) {
	r.Post("/add-sticky", c.Add)
	r.Put("/edit-sticky", c.Edit)
	r.Delete("/delete-sticky", c.Delete)
}

func (c *stickyController) parse(ctx *fiber.Ctx) (*dto.StickyRequest, error) {
	var req dto.StickyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (c *stickyController) Add(ctx *fiber.Ctx) error {
	req, err := c.parse(ctx)
	if err != nil {
		return err
	}
	res, err := c.stickyService.Add(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *stickyController) Edit(ctx *fiber.Ctx) error {
	req, err := c.parse(ctx)
	if err != nil {
		return err
	}
	res, err := c.stickyService.Edit(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *stickyController) Delete(ctx *fiber.Ctx) error {
	req, err := c.parse(ctx)
	if err != nil {
		return err
	}
	res, err := c.stickyService.Delete(ctx.UserContext(), req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
