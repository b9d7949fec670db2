// Package assistant produces chat replies for the note board. Every
// responder answers with a message and a full replacement hierarchy.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/viv500/GenesisAI/pkg/canvas"
)

const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

var (
	ErrNoSelection = errors.New("Please select at least one note to use the AI assistant.")
	ErrUnavailable = errors.New("assistant unavailable")
)

// New picks the responder for a CHAT_MODE value.
func New(mode, remoteURL string, timeout time.Duration) (Responder, error) {
	switch mode {
	case "", ModeLocal:
		return NewLocalResponder(), nil
	case ModeRemote:
		if remoteURL == "" {
			return nil, fmt.Errorf("remote chat mode needs CHAT_REMOTE_URL")
		}
		return NewRemoteResponder(remoteURL, timeout), nil
	default:
		return nil, fmt.Errorf("unknown chat mode %q", mode)
	}
}

// Query is what the chat overlay sends for one user message.
type Query struct {
	Question     string
	CheckpointID string
	CanvasID     string
	// Selected notes of the viewed canvas. When empty, every note flagged
	// selected anywhere in Hierarchy is used.
	Selected  []canvas.Note
	Hierarchy canvas.Hierarchy
}

type Reply struct {
	Message   string
	Hierarchy canvas.Hierarchy
	// Changed lists the notes whose content differs from the query hierarchy.
	Changed []canvas.Note
}

// Responder defines the contract for any reply source.
type Responder interface {
	Respond(ctx context.Context, q Query) (*Reply, error)
	Name() string
}

// Greeting is the assistant's opening message for a set of selected notes.
func Greeting(selected []canvas.Note) string {
	titles := make([]string, len(selected))
	for i, n := range selected {
		titles[i] = n.Title
	}
	return fmt.Sprintf(
		"I'm your AI business assistant. I can help analyze and provide insights based on your selected business areas: %s. How can I help you today?",
		strings.Join(titles, ", "),
	)
}

// ChangedNotes returns the notes of next that are new or differ from prev.
func ChangedNotes(prev, next canvas.Hierarchy) []canvas.Note {
	index := make(map[string]canvas.Note)
	for _, canvases := range prev {
		for _, notes := range canvases {
			for _, n := range notes {
				index[n.ID] = n
			}
		}
	}

	changed := make([]canvas.Note, 0)
	for _, cpID := range sortedKeys(next) {
		canvases := next[cpID]
		for _, canvasID := range canvases.IDs() {
			for _, n := range canvases[canvasID] {
				old, ok := index[n.ID]
				if !ok || old.Title != n.Title || old.Content != n.Content || old.Sector != n.Sector {
					changed = append(changed, n.Clone())
				}
			}
		}
	}
	return changed
}
