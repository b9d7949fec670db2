package dto

import (
	"time"

	"github.com/viv500/GenesisAI/pkg/canvas"
)

type ChatOpenResponse struct {
	Greeting string        `json:"greeting"`
	Selected []canvas.Note `json:"selected"`
}

type ChatMessageRequest struct {
	Message string `json:"message" validate:"required,max=4000"`
	// Apply replaces the board with the reply straight away instead of
	// keeping it as a proposal.
	Apply bool `json:"apply"`
}

type ChatMessageResponse struct {
	Message    string        `json:"message"`
	Responder  string        `json:"responder"`
	ProposalId string        `json:"proposal_id,omitempty"`
	Applied    bool          `json:"applied"`
	Changed    []canvas.Note `json:"changed"`
	CreatedAt  time.Time     `json:"created_at"`
}

type ApplyProposalResponse struct {
	ProposalId string        `json:"proposal_id"`
	Changed    []canvas.Note `json:"changed"`
	Skipped    []string      `json:"skipped"` // deleted or moved since the proposal
}

// UpdateHierarchyRequest is the body of POST /api/update-hierarchy.
type UpdateHierarchyRequest struct {
	Question        string           `json:"question"`
	CanvasHierarchy canvas.Hierarchy `json:"canvasHierarchy" validate:"required"`
}
