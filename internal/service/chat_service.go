package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/viv500/GenesisAI/internal/dto"
	"github.com/viv500/GenesisAI/internal/pkg/logger"
	"github.com/viv500/GenesisAI/internal/repository/memory"
	"github.com/viv500/GenesisAI/pkg/assistant"
	"github.com/viv500/GenesisAI/pkg/canvas"
	"github.com/viv500/GenesisAI/pkg/store"
)

type IChatService interface {
	Open(ctx context.Context, sessionID string) (*dto.ChatOpenResponse, error)
	Send(ctx context.Context, sessionID string, req *dto.ChatMessageRequest) (*dto.ChatMessageResponse, error)
	Apply(ctx context.Context, proposalID string) (*dto.ApplyProposalResponse, error)
	UpdateHierarchy(ctx context.Context, req *dto.UpdateHierarchyRequest) (canvas.Hierarchy, error)
}

type chatService struct {
	boardService IBoardService
	responder    assistant.Responder
	local        *assistant.LocalResponder
	proposals    *memory.ProposalRepository
	logger       logger.ILogger
}

func NewChatService(
	boardService IBoardService,
	responder assistant.Responder,
	proposals *memory.ProposalRepository,
	log logger.ILogger,
) IChatService {
	return &chatService{
		boardService: boardService,
		responder:    responder,
		local:        assistant.NewLocalResponder(),
		proposals:    proposals,
		logger:       log,
	}
}

func (s *chatService) Open(ctx context.Context, sessionID string) (*dto.ChatOpenResponse, error) {
	cc, err := s.boardService.ChatContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cc.Selected) == 0 {
		return nil, assistant.ErrNoSelection
	}

	return &dto.ChatOpenResponse{
		Greeting: assistant.Greeting(cc.Selected),
		Selected: cc.Selected,
	}, nil
}

// Send asks the configured responder. The board lock is not held while it
// runs; a failed call leaves the board as it was.
func (s *chatService) Send(ctx context.Context, sessionID string, req *dto.ChatMessageRequest) (*dto.ChatMessageResponse, error) {
	cc, err := s.boardService.ChatContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	reply, err := s.responder.Respond(ctx, assistant.Query{
		Question:     req.Message,
		CheckpointID: cc.CheckpointID,
		CanvasID:     cc.CanvasID,
		Selected:     cc.Selected,
		Hierarchy:    cc.Hierarchy,
	})
	if err != nil {
		s.logger.Error("ChatService", "Assistant request failed", map[string]interface{}{
			"session_id": sessionID,
			"responder":  s.responder.Name(),
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", assistant.ErrUnavailable, err)
	}

	s.logger.Info("ChatService", "Assistant replied", map[string]interface{}{
		"session_id":  sessionID,
		"responder":   s.responder.Name(),
		"changed":     len(reply.Changed),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	res := &dto.ChatMessageResponse{
		Message:   reply.Message,
		Responder: s.responder.Name(),
		Changed:   reply.Changed,
		CreatedAt: time.Now().UTC(),
	}

	if req.Apply {
		merged, err := s.boardService.MergeNotes(ctx, cc.Hierarchy, reply.Hierarchy, reply.Changed, source(s.responder.Name()))
		if err != nil {
			return nil, err
		}
		res.Applied = true
		res.Changed = merged.Merged
		return res, nil
	}

	proposal := &store.Proposal{
		ID:           uuid.NewString(),
		SessionID:    cc.SessionID,
		CheckpointID: cc.CheckpointID,
		CanvasID:     cc.CanvasID,
		Question:     req.Message,
		Message:      reply.Message,
		Responder:    s.responder.Name(),
		Base:         cc.Hierarchy,
		Hierarchy:    reply.Hierarchy,
		Changed:      reply.Changed,
		CreatedAt:    res.CreatedAt,
	}
	s.proposals.Save(proposal)
	res.ProposalId = proposal.ID
	return res, nil
}

func (s *chatService) Apply(ctx context.Context, proposalID string) (*dto.ApplyProposalResponse, error) {
	proposal, ok := s.proposals.Take(proposalID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrProposalNotFound, proposalID)
	}

	merged, err := s.boardService.MergeNotes(ctx, proposal.Base, proposal.Hierarchy, proposal.Changed, source(proposal.Responder))
	if err != nil {
		return nil, err
	}

	return &dto.ApplyProposalResponse{
		ProposalId: proposal.ID,
		Changed:    merged.Merged,
		Skipped:    merged.Skipped,
	}, nil
}

// UpdateHierarchy serves the stateless assistant endpoint with the local
// responder, so a board running in remote mode can also point at itself.
func (s *chatService) UpdateHierarchy(ctx context.Context, req *dto.UpdateHierarchyRequest) (canvas.Hierarchy, error) {
	reply, err := s.local.Respond(ctx, assistant.Query{
		Question:  req.Question,
		Hierarchy: req.CanvasHierarchy,
	})
	if err != nil {
		return nil, err
	}
	return reply.Hierarchy, nil
}

func source(responder string) string {
	return "chat:" + responder
}
