package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viv500/GenesisAI/pkg/canvas"
)

func selectedQuery(t *testing.T, question string, ids ...string) Query {
	t.Helper()
	b := canvas.NewDemoBoard()
	for _, id := range ids {
		_, err := b.ToggleSelect("cp-1", canvas.RootCanvas, id)
		require.NoError(t, err)
	}
	selected, err := b.SelectedNotes("cp-1", canvas.RootCanvas)
	require.NoError(t, err)
	return Query{
		Question:     question,
		CheckpointID: "cp-1",
		CanvasID:     canvas.RootCanvas,
		Selected:     selected,
		Hierarchy:    b.Hierarchy(),
	}
}

func TestLocalResponderKeywords(t *testing.T) {
	tests := []struct {
		name        string
		question    string
		wantLabel   string
		wantClosing string
	}{
		{"improve", "How can I IMPROVE this?", "AI Suggestion:", "apply these suggestions"},
		{"optimize", "optimize please", "AI Suggestion:", "apply these suggestions"},
		{"analyze", "Can you analyze it", "AI Analysis:", "apply these insights"},
		{"insights", "any insights?", "AI Analysis:", "apply these insights"},
		{"default", "hello", "AI Recommendation:", "add these recommendations"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := selectedQuery(t, tt.question, "note-1", "note-2")
			reply, err := NewLocalResponder().Respond(context.Background(), q)
			require.NoError(t, err)

			assert.Contains(t, reply.Message, "• Inventory:")
			assert.Contains(t, reply.Message, "• Manufacturing:")
			assert.Contains(t, reply.Message, tt.wantClosing)

			require.Len(t, reply.Changed, 2)
			for _, n := range reply.Changed {
				assert.Contains(t, n.Content, "\n\n"+tt.wantLabel)
			}

			untouched := reply.Hierarchy["cp-1"][canvas.RootCanvas][2]
			assert.Equal(t, q.Hierarchy["cp-1"][canvas.RootCanvas][2].Content, untouched.Content)
		})
	}
}

func TestLocalResponderDoesNotMutateQuery(t *testing.T) {
	q := selectedQuery(t, "improve", "note-3")
	before := q.Hierarchy.Clone()

	_, err := NewLocalResponder().Respond(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, before, q.Hierarchy)
}

func TestLocalResponderUsesFlaggedNotesWithoutSelection(t *testing.T) {
	q := selectedQuery(t, "analyze", "note-4")
	q.Selected = nil

	reply, err := NewLocalResponder().Respond(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, reply.Changed, 1)
	assert.Equal(t, "note-4", reply.Changed[0].ID)
}

func TestGreeting(t *testing.T) {
	q := selectedQuery(t, "", "note-1", "note-3")
	assert.Equal(t,
		"I'm your AI business assistant. I can help analyze and provide insights based on your selected business areas: Inventory, Product Strategy. How can I help you today?",
		Greeting(q.Selected),
	)
}

func TestRemoteResponder(t *testing.T) {
	q := selectedQuery(t, "improve", "note-1")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/update-hierarchy", r.URL.Path)

		var req UpdateHierarchyRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "improve", req.Question)

		req.CanvasHierarchy["cp-1"][canvas.RootCanvas][0].Content = "rewritten"
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(req.CanvasHierarchy)
	}))
	defer srv.Close()

	reply, err := NewRemoteResponder(srv.URL+"/", time.Second).Respond(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, "rewritten", reply.Hierarchy["cp-1"][canvas.RootCanvas][0].Content)
	require.Len(t, reply.Changed, 1)
	assert.Equal(t, "note-1", reply.Changed[0].ID)
}

func TestRemoteResponderFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}, "status 500"},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("{not json"))
		}, "decode"},
		{"null body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("null"))
		}, "empty hierarchy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewRemoteResponder(srv.URL, time.Second).Respond(context.Background(), selectedQuery(t, "x"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFeedback(t *testing.T) {
	h := canvas.DemoHierarchy()
	original := h["cp-1"]["note-1"][1]
	updated := original.Clone()
	updated.Content = "Reorder at 40 units."

	msg := Feedback(FeedbackInput{Hierarchy: h, Original: original, Updated: updated})
	lines := strings.Split(msg, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `You updated the content of "Stock Levels". It sits under "Inventory".`, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], InsightMarker))

	msg = Feedback(FeedbackInput{
		Original: original,
		Updated:  updated,
		Changes:  map[string]interface{}{"title": "Stock Levels"},
	})
	assert.True(t, strings.HasPrefix(msg, `You updated the content and title of "Stock Levels".`))

	msg = Feedback(FeedbackInput{Original: original, Updated: original})
	assert.True(t, strings.HasPrefix(msg, `You reviewed "Stock Levels" without changing it.`))
}

func TestNew(t *testing.T) {
	r, err := New("", "", 0)
	require.NoError(t, err)
	assert.Equal(t, ModeLocal, r.Name())

	r, err = New(ModeRemote, "http://assistant:8000", time.Second)
	require.NoError(t, err)
	assert.Equal(t, ModeRemote, r.Name())

	_, err = New(ModeRemote, "", time.Second)
	assert.Error(t, err)

	_, err = New("gpt", "", time.Second)
	assert.Error(t, err)
}
