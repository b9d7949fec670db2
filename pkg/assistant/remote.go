package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/viv500/GenesisAI/pkg/canvas"
)

const updateHierarchyPath = "/api/update-hierarchy"

// RemoteResponder forwards the question and the whole hierarchy to an
// external assistant service and takes its answer as the new hierarchy.
type RemoteResponder struct {
	BaseURL string
	Client  *http.Client
}

var _ Responder = (*RemoteResponder)(nil)

func NewRemoteResponder(baseURL string, timeout time.Duration) *RemoteResponder {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &RemoteResponder{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client: &http.Client{
			Timeout: timeout,
		},
	}
}

// UpdateHierarchyRequest is the wire body of POST /api/update-hierarchy.
type UpdateHierarchyRequest struct {
	Question        string           `json:"question"`
	CanvasHierarchy canvas.Hierarchy `json:"canvasHierarchy"`
}

func (r *RemoteResponder) Name() string {
	return ModeRemote
}

func (r *RemoteResponder) Respond(ctx context.Context, q Query) (*Reply, error) {
	// 1. Build request body
	body, err := json.Marshal(UpdateHierarchyRequest{
		Question:        q.Question,
		CanvasHierarchy: q.Hierarchy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal remote assistant request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+updateHierarchyPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create remote assistant request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// 2. Execute
	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("remote assistant returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	// 3. Decode the replacement hierarchy
	var next canvas.Hierarchy
	if err := json.NewDecoder(resp.Body).Decode(&next); err != nil {
		return nil, fmt.Errorf("failed to decode remote assistant response: %w", err)
	}
	if next == nil {
		return nil, fmt.Errorf("remote assistant returned an empty hierarchy")
	}

	changed := ChangedNotes(q.Hierarchy, next)
	return &Reply{
		Message:   fmt.Sprintf("I've updated your canvas; %d note(s) changed.", len(changed)),
		Hierarchy: next,
		Changed:   changed,
	}, nil
}
