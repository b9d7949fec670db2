package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"

	"github.com/viv500/GenesisAI/internal/pkg/logger"
	"github.com/viv500/GenesisAI/internal/service"
	internalWS "github.com/viv500/GenesisAI/internal/websocket"
)

// BoardStreamHandler upgrades GET /api/board/v1/ws?session=<id> to a
// websocket that receives the session view first, then every board event.
type BoardStreamHandler struct {
	boardService service.IBoardService
	hub          *internalWS.Hub
	logger       logger.ILogger
}

func NewBoardStreamHandler(boardService service.IBoardService, hub *internalWS.Hub, log logger.ILogger) *BoardStreamHandler {
	return &BoardStreamHandler{
		boardService: boardService,
		hub:          hub,
		logger:       log,
	}
}

func (h *BoardStreamHandler) ServeWs(c *fiber.Ctx) error {
	// The id outlives this request as a hub key.
	sessionID := utils.CopyString(c.Query("session"))
	if sessionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing query parameter 'session'")
	}
	if _, err := h.boardService.GetSession(c.UserContext(), sessionID); err != nil {
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	// The request context is gone once the connection is hijacked.
	ctx := context.Background()
	snapshot := func() (interface{}, error) {
		return h.boardService.GetSession(ctx, sessionID)
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("BoardStreamHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeWs(h.hub, conn, sessionID, snapshot)
		h.logger.Info("BoardStreamHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
	})(c)
}
