package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viv500/GenesisAI/internal/dto"
	"github.com/viv500/GenesisAI/internal/pkg/logger"
	"github.com/viv500/GenesisAI/pkg/assistant"
	"github.com/viv500/GenesisAI/pkg/canvas"
	"github.com/viv500/GenesisAI/pkg/events"
)

func editedEvent(cpID string, original, updated canvas.Note) *events.BoardEvent {
	evt := events.NewBoardEvent(events.NoteEdited, cpID, canvas.RootCanvas)
	evt.Original = &original
	evt.Note = &updated
	return evt
}

func TestFeedbackGenerate(t *testing.T) {
	h := canvas.DemoHierarchy()
	original := h["cp-1"]["note-1"][1]
	updated := original.Clone()
	updated.Content = "Reorder at 40 units."

	svc := NewFeedbackService(time.Hour, logger.NewNopLogger())
	res, err := svc.Generate(context.Background(), &dto.FeedbackRequest{
		CanvasHierarchy: h,
		UpdatedNote:     &updated,
		OriginalNote:    &original,
	})
	require.NoError(t, err)

	lines := strings.Split(res.Feedback, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `You updated the content of "Stock Levels". It sits under "Inventory".`, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], assistant.InsightMarker))

	// without the original only the client's change keys count
	res, err = svc.Generate(context.Background(), &dto.FeedbackRequest{
		UpdatedNote: &updated,
		Changes:     map[string]interface{}{"title": "Stock Levels"},
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Feedback, `You updated the title of "Stock Levels".`))
}

func TestFeedbackRecordOnlyNoteEdits(t *testing.T) {
	svc := NewFeedbackService(time.Hour, logger.NewNopLogger())
	note := canvas.DemoHierarchy()["cp-1"][canvas.RootCanvas][0]

	added := events.NewBoardEvent(events.NoteAdded, "cp-1", canvas.RootCanvas)
	added.Note = &note
	assert.Nil(t, svc.Record(added))
	assert.Nil(t, svc.Record(nil))
	assert.Nil(t, svc.Record(events.NewBoardEvent(events.NoteEdited, "cp-1", canvas.RootCanvas)))

	updated := note.Clone()
	updated.Title = "Stock"
	item := svc.Record(editedEvent("cp-1", note, updated))
	require.NotNil(t, item)
	assert.Equal(t, "cp-1", item.CheckpointId)
	assert.Equal(t, note.ID, item.NoteId)
	assert.Equal(t, "Stock", item.NoteTitle)
	assert.Contains(t, item.Feedback, `You updated the title of "Stock".`)
}

func TestFeedbackRecentNewestFirstAndCapped(t *testing.T) {
	ctx := context.Background()
	svc := NewFeedbackService(time.Hour, logger.NewNopLogger())
	note := canvas.DemoHierarchy()["cp-1"][canvas.RootCanvas][0]

	var first, last *dto.FeedbackItem
	for i := 0; i < maxFeedbackPerCheckpoint+5; i++ {
		updated := note.Clone()
		updated.Content = fmt.Sprintf("revision %d", i)
		last = svc.Record(editedEvent("cp-1", note, updated))
		if first == nil {
			first = last
		}
	}
	other := note.Clone()
	other.Title = "Elsewhere"
	svc.Record(editedEvent("cp-2", note, other))

	items := svc.Recent(ctx, "cp-1")
	require.Len(t, items, maxFeedbackPerCheckpoint)
	assert.Equal(t, last.Id, items[0].Id)
	for _, item := range items {
		assert.NotEqual(t, first.Id, item.Id)
	}
	assert.Len(t, svc.Recent(ctx, "cp-2"), 1)
	assert.Empty(t, svc.Recent(ctx, "cp-3"))
	assert.NotNil(t, svc.Recent(ctx, "cp-3"))
}
