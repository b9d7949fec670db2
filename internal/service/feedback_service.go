package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/viv500/GenesisAI/internal/dto"
	"github.com/viv500/GenesisAI/internal/pkg/logger"
	"github.com/viv500/GenesisAI/pkg/assistant"
	"github.com/viv500/GenesisAI/pkg/events"
)

const maxFeedbackPerCheckpoint = 50

type IFeedbackService interface {
	Generate(ctx context.Context, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error)
	Record(event *events.BoardEvent) *dto.FeedbackItem
	Recent(ctx context.Context, checkpointID string) []*dto.FeedbackItem
}

type feedbackService struct {
	mu     sync.Mutex
	recent *cache.Cache // checkpoint id -> []*dto.FeedbackItem, newest first
	logger logger.ILogger
}

func NewFeedbackService(ttl time.Duration, log logger.ILogger) IFeedbackService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &feedbackService{
		recent: cache.New(ttl, time.Hour),
		logger: log,
	}
}

// Generate answers POST /api/feedback. The request carries everything, so
// nothing is read from or written to the board.
func (s *feedbackService) Generate(ctx context.Context, req *dto.FeedbackRequest) (*dto.FeedbackResponse, error) {
	original := *req.UpdatedNote
	if req.OriginalNote != nil {
		original = *req.OriginalNote
	}

	msg := assistant.Feedback(assistant.FeedbackInput{
		Hierarchy: req.CanvasHierarchy,
		Original:  original,
		Updated:   *req.UpdatedNote,
		Changes:   req.Changes,
	})
	return &dto.FeedbackResponse{Feedback: msg}, nil
}

// Record turns a note edit into an insight item for its checkpoint. Other
// events yield nil.
func (s *feedbackService) Record(event *events.BoardEvent) *dto.FeedbackItem {
	if event == nil || event.Type != events.NoteEdited || event.Note == nil {
		return nil
	}

	original := *event.Note
	if event.Original != nil {
		original = *event.Original
	}

	item := &dto.FeedbackItem{
		Id:           uuid.NewString(),
		CheckpointId: event.CheckpointID,
		NoteId:       event.Note.ID,
		NoteTitle:    event.Note.Title,
		Feedback: assistant.Feedback(assistant.FeedbackInput{
			Original: original,
			Updated:  *event.Note,
			Changes:  event.Changes,
		}),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var items []*dto.FeedbackItem
	if x, ok := s.recent.Get(event.CheckpointID); ok {
		items = x.([]*dto.FeedbackItem)
	}
	items = append([]*dto.FeedbackItem{item}, items...)
	if len(items) > maxFeedbackPerCheckpoint {
		items = items[:maxFeedbackPerCheckpoint]
	}
	s.recent.Set(event.CheckpointID, items, cache.DefaultExpiration)

	s.logger.Debug("FeedbackService", "Feedback recorded", map[string]interface{}{
		"checkpoint_id": event.CheckpointID,
		"note_id":       event.Note.ID,
	})
	return item
}

func (s *feedbackService) Recent(ctx context.Context, checkpointID string) []*dto.FeedbackItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	x, ok := s.recent.Get(checkpointID)
	if !ok {
		return []*dto.FeedbackItem{}
	}
	items := x.([]*dto.FeedbackItem)
	return append([]*dto.FeedbackItem{}, items...)
}
