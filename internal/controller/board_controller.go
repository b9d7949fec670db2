package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/viv500/GenesisAI/internal/dto"
	"github.com/viv500/GenesisAI/internal/pkg/serverutils"
	"github.com/viv500/GenesisAI/internal/service"
)

type IBoardController interface {
	RegisterRoutes(r fiber.Router)
	Checkpoints(ctx *fiber.Ctx) error
	AddCheckpoint(ctx *fiber.Ctx) error
	Prune(ctx *fiber.Ctx) error
	Hierarchy(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	ShowSession(ctx *fiber.Ctx) error
	SelectCheckpoint(ctx *fiber.Ctx) error
	OpenCanvas(ctx *fiber.Ctx) error
	Back(ctx *fiber.Ctx) error
	AddNote(ctx *fiber.Ctx) error
	EditNote(ctx *fiber.Ctx) error
	DeleteNote(ctx *fiber.Ctx) error
	ToggleSelect(ctx *fiber.Ctx) error
}

type boardController struct {
	boardService service.IBoardService
	stream       fiber.Handler
}

// NewBoardController wires the board routes; stream serves GET /ws and may be nil.
func NewBoardController(boardService service.IBoardService, stream fiber.Handler) IBoardController {
	return &boardController{
		boardService: boardService,
		stream:       stream,
	}
}

func (c *boardController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/board/v1")
	h.Get("checkpoints", c.Checkpoints)
	h.Post("checkpoints", c.AddCheckpoint)
	h.Post("checkpoints/:id/prune", c.Prune)
	h.Get("hierarchy", c.Hierarchy)

	h.Post("sessions", c.CreateSession)
	h.Get("sessions/:sid", c.ShowSession)
	h.Put("sessions/:sid/checkpoint", c.SelectCheckpoint)
	h.Post("sessions/:sid/open", c.OpenCanvas)
	h.Post("sessions/:sid/back", c.Back)
	h.Post("sessions/:sid/notes", c.AddNote)
	h.Patch("sessions/:sid/notes/:id", c.EditNote)
	h.Delete("sessions/:sid/notes/:id", c.DeleteNote)
	h.Post("sessions/:sid/notes/:id/select", c.ToggleSelect)

	if c.stream != nil {
		h.Get("ws", c.stream)
	}
}

func (c *boardController) Checkpoints(ctx *fiber.Ctx) error {
	res := c.boardService.Checkpoints(ctx.UserContext())
	return ctx.JSON(serverutils.SuccessResponse("Success get checkpoints", res))
}

func (c *boardController) AddCheckpoint(ctx *fiber.Ctx) error {
	res, err := c.boardService.AddCheckpoint(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success add checkpoint", res))
}

func (c *boardController) Prune(ctx *fiber.Ctx) error {
	res, err := c.boardService.Prune(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success prune checkpoint", res))
}

func (c *boardController) Hierarchy(ctx *fiber.Ctx) error {
	res := c.boardService.Hierarchy(ctx.UserContext())
	return ctx.JSON(serverutils.SuccessResponse("Success get hierarchy", res))
}

func (c *boardController) CreateSession(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
	}

	res, err := c.boardService.CreateSession(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *boardController) ShowSession(ctx *fiber.Ctx) error {
	res, err := c.boardService.GetSession(ctx.UserContext(), ctx.Params("sid"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *boardController) SelectCheckpoint(ctx *fiber.Ctx) error {
	var req dto.SelectCheckpointRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.boardService.SelectCheckpoint(ctx.UserContext(), ctx.Params("sid"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success select checkpoint", res))
}

func (c *boardController) OpenCanvas(ctx *fiber.Ctx) error {
	var req dto.OpenCanvasRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.boardService.OpenCanvas(ctx.UserContext(), ctx.Params("sid"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success open canvas", res))
}

func (c *boardController) Back(ctx *fiber.Ctx) error {
	res, err := c.boardService.Back(ctx.UserContext(), ctx.Params("sid"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success go back", res))
}

func (c *boardController) AddNote(ctx *fiber.Ctx) error {
	var req dto.AddNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.boardService.AddNote(ctx.UserContext(), ctx.Params("sid"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success add note", res))
}

func (c *boardController) EditNote(ctx *fiber.Ctx) error {
	var req dto.EditNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.boardService.EditNote(ctx.UserContext(), ctx.Params("sid"), ctx.Params("id"), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success edit note", res))
}

func (c *boardController) DeleteNote(ctx *fiber.Ctx) error {
	if err := c.boardService.DeleteNote(ctx.UserContext(), ctx.Params("sid"), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete note", nil))
}

func (c *boardController) ToggleSelect(ctx *fiber.Ctx) error {
	res, err := c.boardService.ToggleSelect(ctx.UserContext(), ctx.Params("sid"), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success toggle note selection", res))
}
