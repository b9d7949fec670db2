package store

import (
	"errors"
	"time"

	"github.com/viv500/GenesisAI/pkg/canvas"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrProposalNotFound = errors.New("proposal not found or expired")
)

// Session is one viewer's place on the board: the checkpoint they are
// looking at and how deep they have drilled into it.
type Session struct {
	ID           string         `json:"id"`
	CheckpointID string         `json:"checkpoint_id"`
	Frames       []canvas.Frame `json:"frames"`
	CreatedAt    time.Time      `json:"created_at"`
	LastSeenAt   time.Time      `json:"last_seen_at"`
}

// Navigator rebuilds the navigation stack held by the session.
func (s *Session) Navigator() *canvas.Navigator {
	return canvas.RestoreNavigator(s.Frames)
}

// Remember stores the navigator's frames back on the session.
func (s *Session) Remember(nav *canvas.Navigator) {
	s.Frames = nav.Frames()
}

// Proposal is an assistant reply waiting for the user to apply it.
type Proposal struct {
	ID           string           `json:"id"`
	SessionID    string           `json:"session_id"`
	CheckpointID string           `json:"checkpoint_id"`
	CanvasID     string           `json:"canvas_id"`
	Question     string           `json:"question"`
	Message      string           `json:"message"`
	Responder    string           `json:"responder"`
	Base         canvas.Hierarchy `json:"base"` // board the responder saw
	Hierarchy    canvas.Hierarchy `json:"hierarchy"`
	Changed      []canvas.Note    `json:"changed"`
	CreatedAt    time.Time        `json:"created_at"`
}
