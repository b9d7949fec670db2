package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/viv500/GenesisAI/internal/dto"
	"github.com/viv500/GenesisAI/internal/mapper"
	"github.com/viv500/GenesisAI/internal/pkg/logger"
	"github.com/viv500/GenesisAI/internal/repository/memory"
	"github.com/viv500/GenesisAI/internal/repository/unitofwork"
	"github.com/viv500/GenesisAI/pkg/canvas"
	"github.com/viv500/GenesisAI/pkg/events"
	"github.com/viv500/GenesisAI/pkg/store"
)

// MutationFunc changes the board and describes what it did. It runs with
// the board lock held; returning an error discards every change it made.
type MutationFunc func(b *canvas.Board) (*events.BoardEvent, error)

// ChatContext is the slice of board state the assistant needs.
type ChatContext struct {
	SessionID    string
	CheckpointID string
	CanvasID     string
	Selected     []canvas.Note
	Hierarchy    canvas.Hierarchy
}

// MergeResult lists what MergeNotes wrote and what no longer had a place.
type MergeResult struct {
	Merged  []canvas.Note
	Skipped []string
}

type IBoardService interface {
	Init(ctx context.Context, seedDemo bool) error

	Checkpoints(ctx context.Context) []*dto.CheckpointResponse
	AddCheckpoint(ctx context.Context) (*dto.CheckpointResponse, error)
	Hierarchy(ctx context.Context) canvas.Hierarchy
	ReplaceHierarchy(ctx context.Context, h canvas.Hierarchy, source string) error
	MergeNotes(ctx context.Context, base, h canvas.Hierarchy, changed []canvas.Note, source string) (*MergeResult, error)
	Prune(ctx context.Context, checkpointID string) (*dto.PruneResponse, error)

	CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)
	SelectCheckpoint(ctx context.Context, sessionID string, req *dto.SelectCheckpointRequest) (*dto.SessionResponse, error)
	OpenCanvas(ctx context.Context, sessionID string, req *dto.OpenCanvasRequest) (*dto.SessionResponse, error)
	Back(ctx context.Context, sessionID string) (*dto.SessionResponse, error)

	AddNote(ctx context.Context, sessionID string, req *dto.AddNoteRequest) (*canvas.Note, error)
	EditNote(ctx context.Context, sessionID, noteID string, req *dto.EditNoteRequest) (*canvas.Note, error)
	DeleteNote(ctx context.Context, sessionID, noteID string) error
	ToggleSelect(ctx context.Context, sessionID, noteID string) (*canvas.Note, error)

	ChatContext(ctx context.Context, sessionID string) (*ChatContext, error)
	Update(ctx context.Context, fn MutationFunc) (*events.BoardEvent, error)
}

type boardService struct {
	mu    sync.Mutex
	board *canvas.Board
	rnd   *rand.Rand

	// nil keeps the board in memory only
	uowFactory  unitofwork.RepositoryFactory
	sessions    *memory.SessionRepository
	publisher   IPublisherService
	boardMapper *mapper.BoardMapper
	logger      logger.ILogger
}

func NewBoardService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *memory.SessionRepository,
	publisher IPublisherService,
	log logger.ILogger,
	opts ...canvas.Option,
) IBoardService {
	return &boardService{
		board:       canvas.NewBoard(opts...),
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		uowFactory:  uowFactory,
		sessions:    sessions,
		publisher:   publisher,
		boardMapper: mapper.NewBoardMapper(),
		logger:      log,
	}
}

// Init restores the board from the database, or seeds it when there is
// nothing stored (or no database at all).
func (s *boardService) Init(ctx context.Context, seedDemo bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.uowFactory != nil {
		loaded, err := s.load(ctx)
		if err != nil {
			return err
		}
		if loaded {
			return nil
		}
	}

	checkpoints, hierarchy := []canvas.Checkpoint{}, canvas.Hierarchy{}
	if seedDemo {
		checkpoints, hierarchy = canvas.DemoCheckpoints(), canvas.DemoHierarchy()
	}
	if err := s.board.Load(checkpoints, hierarchy); err != nil {
		return err
	}
	if len(checkpoints) == 0 {
		s.board.AddCheckpoint()
	}

	s.logger.Info("BoardService", "Board seeded", map[string]interface{}{
		"demo":        seedDemo,
		"checkpoints": len(s.board.Checkpoints()),
	})
	return s.persist(ctx, s.checkpointIDs())
}

func (s *boardService) load(ctx context.Context) (bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	checkpoints, err := uow.CheckpointRepository().FindAll(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load checkpoints: %w", err)
	}
	if len(checkpoints) == 0 {
		return false, nil
	}

	entries, err := uow.CanvasRepository().FindAll(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load canvases: %w", err)
	}
	notes, err := uow.NoteRepository().FindAll(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to load notes: %w", err)
	}

	hierarchy := s.boardMapper.Assemble(entries, notes)
	known := make(map[string]bool, len(checkpoints))
	for _, cp := range checkpoints {
		known[cp.ID] = true
	}
	for cpID := range hierarchy {
		if !known[cpID] {
			s.logger.Warn("BoardService", "Dropping canvases of unknown checkpoint", map[string]interface{}{"checkpoint_id": cpID})
			delete(hierarchy, cpID)
		}
	}

	if err := s.board.Load(checkpoints, hierarchy); err != nil {
		return false, fmt.Errorf("stored board is invalid: %w", err)
	}

	s.logger.Info("BoardService", "Board restored from database", map[string]interface{}{
		"checkpoints": len(checkpoints),
		"notes":       len(notes),
	})
	return true, nil
}

// --- Checkpoints & hierarchy ---

func (s *boardService) Checkpoints(ctx context.Context) []*dto.CheckpointResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*dto.CheckpointResponse, 0)
	for _, cp := range s.board.Checkpoints() {
		result = append(result, s.checkpointResponse(cp))
	}
	return result
}

func (s *boardService) AddCheckpoint(ctx context.Context) (*dto.CheckpointResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var added canvas.Checkpoint
	_, err := s.mutate(ctx, func(b *canvas.Board) (*events.BoardEvent, error) {
		added = b.AddCheckpoint()
		return events.NewBoardEvent(events.CheckpointAdded, added.ID, canvas.RootCanvas), nil
	})
	if err != nil {
		return nil, err
	}
	return s.checkpointResponse(added), nil
}

func (s *boardService) Hierarchy(ctx context.Context) canvas.Hierarchy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Hierarchy()
}

func (s *boardService) ReplaceHierarchy(ctx context.Context, h canvas.Hierarchy, source string) error {
	_, err := s.Update(ctx, func(b *canvas.Board) (*events.BoardEvent, error) {
		if err := b.ReplaceHierarchy(h); err != nil {
			return nil, err
		}
		evt := events.NewBoardEvent(events.HierarchyReplaced, "", "")
		evt.Source = source
		return evt, nil
	})
	return err
}

// MergeNotes applies assistant edits made against base on top of the live
// board, so work done since base was captured survives.
func (s *boardService) MergeNotes(ctx context.Context, base, h canvas.Hierarchy, changed []canvas.Note, source string) (*MergeResult, error) {
	res := &MergeResult{Merged: []canvas.Note{}, Skipped: []string{}}
	_, err := s.Update(ctx, func(b *canvas.Board) (*events.BoardEvent, error) {
		merged, skipped := b.MergeNotes(base, h, changed)
		res.Merged = append(res.Merged, merged...)
		res.Skipped = append(res.Skipped, skipped...)
		if len(merged) == 0 {
			return nil, nil
		}

		ids := make([]string, len(merged))
		for i, n := range merged {
			ids[i] = n.ID
		}
		evt := events.NewBoardEvent(events.NotesMerged, "", "")
		evt.Source = source
		evt.Changes = map[string]interface{}{"merged": ids}
		if len(skipped) > 0 {
			evt.Changes["skipped"] = skipped
		}
		return evt, nil
	})
	if err != nil {
		return nil, err
	}

	if len(res.Skipped) > 0 {
		s.logger.Warn("BoardService", "Skipped notes that no longer have a place", map[string]interface{}{
			"source":  source,
			"skipped": res.Skipped,
		})
	}
	return res, nil
}

func (s *boardService) Prune(ctx context.Context, checkpointID string) (*dto.PruneResponse, error) {
	evt, err := s.Update(ctx, func(b *canvas.Board) (*events.BoardEvent, error) {
		removed, err := b.PruneUnreachable(checkpointID)
		if err != nil {
			return nil, err
		}
		evt := events.NewBoardEvent(events.CanvasPruned, checkpointID, "")
		evt.Removed = removed
		return evt, nil
	})
	if err != nil {
		return nil, err
	}

	removed := evt.Removed
	if removed == nil {
		removed = []string{}
	}
	return &dto.PruneResponse{CheckpointId: checkpointID, Removed: removed}, nil
}

// --- Sessions & navigation ---

func (s *boardService) CreateSession(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	checkpointID := req.CheckpointId
	if checkpointID == "" {
		cps := s.board.Checkpoints()
		if len(cps) == 0 {
			return nil, canvas.ErrCheckpointNotFound
		}
		checkpointID = cps[0].ID
	} else if _, ok := s.board.Checkpoint(checkpointID); !ok {
		return nil, fmt.Errorf("%w: %s", canvas.ErrCheckpointNotFound, checkpointID)
	}

	now := time.Now().UTC()
	session := &store.Session{
		ID:           uuid.NewString(),
		CheckpointID: checkpointID,
		Frames:       canvas.NewNavigator().Frames(),
		CreatedAt:    now,
		LastSeenAt:   now,
	}
	s.sessions.Save(session)

	s.logger.Info("BoardService", "Session created", map[string]interface{}{
		"session_id":    session.ID,
		"checkpoint_id": checkpointID,
	})
	return s.view(session), nil
}

func (s *boardService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(session), nil
}

// SelectCheckpoint switches the viewed checkpoint and returns to its root canvas.
func (s *boardService) SelectCheckpoint(ctx context.Context, sessionID string, req *dto.SelectCheckpointRequest) (*dto.SessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if _, ok := s.board.Checkpoint(req.CheckpointId); !ok {
		return nil, fmt.Errorf("%w: %s", canvas.ErrCheckpointNotFound, req.CheckpointId)
	}

	session.CheckpointID = req.CheckpointId
	session.Frames = canvas.NewNavigator().Frames()
	s.sessions.Save(session)
	return s.view(session), nil
}

// OpenCanvas drills into a note of the current canvas.
func (s *boardService) OpenCanvas(ctx context.Context, sessionID string, req *dto.OpenCanvasRequest) (*dto.SessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	nav := session.Navigator()
	if _, ok := s.noteOn(session.CheckpointID, nav.Current(), req.NoteId); !ok {
		return nil, fmt.Errorf("%w: %s", canvas.ErrNoteNotFound, req.NoteId)
	}

	var opened canvas.Note
	_, err = s.mutate(ctx, func(b *canvas.Board) (*events.BoardEvent, error) {
		note, err := b.OpenCanvas(session.CheckpointID, req.NoteId)
		if err != nil {
			return nil, err
		}
		opened = note
		evt := events.NewBoardEvent(events.CanvasOpened, session.CheckpointID, note.ID)
		evt.SessionID = session.ID
		return evt, nil
	})
	if err != nil {
		return nil, err
	}

	nav.Open(opened.ID, opened.Title)
	session.Remember(nav)
	s.sessions.Save(session)
	return s.view(session), nil
}

func (s *boardService) Back(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	nav := session.Navigator()
	if nav.Back() {
		session.Remember(nav)
		s.sessions.Save(session)
	}
	return s.view(session), nil
}

// --- Notes ---

func (s *boardService) AddNote(ctx context.Context, sessionID string, req *dto.AddNoteRequest) (*canvas.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	var draft canvas.NoteDraft
	if req.Mode == "quick" {
		draft = canvas.QuickDraft(s.rnd)
	} else {
		sector, err := canvas.ParseSector(req.Sector)
		if err != nil {
			return nil, err
		}
		draft = canvas.NoteDraft{
			Title:    req.Title,
			Content:  req.Content,
			Sector:   sector,
			Position: req.Position,
			Files:    req.Files,
		}
	}

	canvasID := session.Navigator().Current()
	evt, err := s.mutate(ctx, func(b *canvas.Board) (*events.BoardEvent, error) {
		note, err := b.AddNote(session.CheckpointID, canvasID, draft)
		if err != nil {
			return nil, err
		}
		evt := events.NewBoardEvent(events.NoteAdded, session.CheckpointID, canvasID)
		evt.SessionID = session.ID
		evt.Note = &note
		return evt, nil
	})
	if err != nil {
		return nil, err
	}
	return evt.Note, nil
}

func (s *boardService) EditNote(ctx context.Context, sessionID, noteID string, req *dto.EditNoteRequest) (*canvas.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	canvasID := session.Navigator().Current()
	patch := req.Patch()
	evt, err := s.mutate(ctx, func(b *canvas.Board) (*events.BoardEvent, error) {
		original, ok := s.noteOn(session.CheckpointID, canvasID, noteID)
		if !ok {
			return nil, fmt.Errorf("%w: %s", canvas.ErrNoteNotFound, noteID)
		}
		updated, err := b.EditNote(session.CheckpointID, canvasID, noteID, patch)
		if err != nil {
			return nil, err
		}
		evt := events.NewBoardEvent(events.NoteEdited, session.CheckpointID, canvasID)
		evt.SessionID = session.ID
		evt.Original = &original
		evt.Note = &updated
		evt.Changes = patchChanges(updated, patch)
		return evt, nil
	})
	if err != nil {
		return nil, err
	}
	return evt.Note, nil
}

func (s *boardService) DeleteNote(ctx context.Context, sessionID, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return err
	}

	canvasID := session.Navigator().Current()
	_, err = s.mutate(ctx, func(b *canvas.Board) (*events.BoardEvent, error) {
		removed, err := b.DeleteNote(session.CheckpointID, canvasID, noteID)
		if err != nil {
			return nil, err
		}
		evt := events.NewBoardEvent(events.NoteDeleted, session.CheckpointID, canvasID)
		evt.SessionID = session.ID
		evt.Note = &removed
		return evt, nil
	})
	return err
}

func (s *boardService) ToggleSelect(ctx context.Context, sessionID, noteID string) (*canvas.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	canvasID := session.Navigator().Current()
	evt, err := s.mutate(ctx, func(b *canvas.Board) (*events.BoardEvent, error) {
		note, err := b.ToggleSelect(session.CheckpointID, canvasID, noteID)
		if err != nil {
			return nil, err
		}
		evt := events.NewBoardEvent(events.NoteSelected, session.CheckpointID, canvasID)
		evt.SessionID = session.ID
		evt.Note = &note
		return evt, nil
	})
	if err != nil {
		return nil, err
	}
	return evt.Note, nil
}

func (s *boardService) ChatContext(ctx context.Context, sessionID string) (*ChatContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	s.view(session) // drops a stale navigation stack

	canvasID := session.Navigator().Current()
	selected, err := s.board.SelectedNotes(session.CheckpointID, canvasID)
	if err != nil {
		return nil, err
	}
	return &ChatContext{
		SessionID:    session.ID,
		CheckpointID: session.CheckpointID,
		CanvasID:     canvasID,
		Selected:     selected,
		Hierarchy:    s.board.Hierarchy(),
	}, nil
}

// Update runs fn as a single board mutation.
func (s *boardService) Update(ctx context.Context, fn MutationFunc) (*events.BoardEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mutate(ctx, fn)
}

// --- internals (lock held) ---

func (s *boardService) mutate(ctx context.Context, fn MutationFunc) (*events.BoardEvent, error) {
	prevCheckpoints := s.board.Checkpoints()
	prevHierarchy := s.board.Hierarchy()

	evt, err := fn(s.board)
	if err != nil {
		s.restore(prevCheckpoints, prevHierarchy)
		return nil, err
	}
	if evt == nil {
		return nil, nil
	}

	if err := s.persist(ctx, s.touched(evt)); err != nil {
		s.restore(prevCheckpoints, prevHierarchy)
		s.logger.Error("BoardService", "Failed to persist board change", map[string]interface{}{
			"event": evt.Type,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to save board: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("BoardService", "Failed to publish board event", map[string]interface{}{
				"event": evt.Type,
				"error": err.Error(),
			})
		}
	}
	return evt, nil
}

func (s *boardService) restore(checkpoints []canvas.Checkpoint, h canvas.Hierarchy) {
	if err := s.board.Load(checkpoints, h); err != nil {
		s.logger.Error("BoardService", "Failed to restore board after rejected change", map[string]interface{}{"error": err.Error()})
	}
}

// persist mirrors the given checkpoints: in one transaction their rows are
// deleted and rewritten from memory.
func (s *boardService) persist(ctx context.Context, checkpointIDs []string) error {
	if s.uowFactory == nil || len(checkpointIDs) == 0 {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	order := make(map[string]int)
	for i, cp := range s.board.Checkpoints() {
		order[cp.ID] = i
	}

	for _, cpID := range checkpointIDs {
		cp, ok := s.board.Checkpoint(cpID)
		if !ok {
			continue
		}
		canvases, err := s.board.Canvases(cpID)
		if err != nil {
			return err
		}
		entries, notes := s.boardMapper.Flatten(cpID, canvases)

		if err := uow.CheckpointRepository().Save(ctx, &cp, order[cpID]); err != nil {
			return err
		}
		if err := uow.NoteRepository().DeleteByCheckpoint(ctx, cpID); err != nil {
			return err
		}
		if err := uow.CanvasRepository().DeleteByCheckpoint(ctx, cpID); err != nil {
			return err
		}
		if err := uow.CanvasRepository().CreateAll(ctx, entries); err != nil {
			return err
		}
		if err := uow.NoteRepository().CreateAll(ctx, notes); err != nil {
			return err
		}
	}

	return uow.Commit()
}

func (s *boardService) touched(evt *events.BoardEvent) []string {
	if evt.Type == events.HierarchyReplaced || evt.CheckpointID == "" {
		return s.checkpointIDs()
	}
	return []string{evt.CheckpointID}
}

func (s *boardService) checkpointIDs() []string {
	cps := s.board.Checkpoints()
	ids := make([]string, len(cps))
	for i, cp := range cps {
		ids[i] = cp.ID
	}
	return ids
}

func (s *boardService) session(sessionID string) (*store.Session, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrSessionNotFound, sessionID)
	}
	session.LastSeenAt = time.Now().UTC()
	return session, nil
}

func (s *boardService) noteOn(checkpointID, canvasID, noteID string) (canvas.Note, bool) {
	notes, err := s.board.Notes(checkpointID, canvasID)
	if err != nil {
		return canvas.Note{}, false
	}
	for _, n := range notes {
		if n.ID == noteID {
			return n, true
		}
	}
	return canvas.Note{}, false
}

// view renders the session, resetting it to root when the canvas it was
// looking at no longer exists.
func (s *boardService) view(session *store.Session) *dto.SessionResponse {
	cp, ok := s.board.Checkpoint(session.CheckpointID)
	if !ok {
		cps := s.board.Checkpoints()
		if len(cps) > 0 {
			cp = cps[0]
		}
		session.CheckpointID = cp.ID
		session.Frames = canvas.NewNavigator().Frames()
		s.sessions.Save(session)
	}

	canvases, _ := s.board.Canvases(cp.ID)
	nav := session.Navigator()
	if _, exists := canvases[nav.Current()]; !exists {
		nav.Reset()
		session.Remember(nav)
		s.sessions.Save(session)
	}

	stack := nav.Stack()
	notes := canvases[nav.Current()]
	if notes == nil {
		notes = []canvas.Note{}
	}
	selected := 0
	for _, n := range notes {
		if n.Selected {
			selected++
		}
	}

	return &dto.SessionResponse{
		Id:            session.ID,
		Checkpoint:    *s.checkpointResponse(cp),
		CanvasId:      nav.Current(),
		CanvasTitle:   canvas.CanvasTitle(canvases, stack),
		Stack:         stack,
		Breadcrumb:    canvas.Breadcrumb(canvases, stack),
		Notes:         notes,
		SelectedCount: selected,
		HighestZIndex: s.board.HighestZIndex(),
	}
}

func (s *boardService) checkpointResponse(cp canvas.Checkpoint) *dto.CheckpointResponse {
	count := 0
	if canvases, err := s.board.Canvases(cp.ID); err == nil {
		count = canvases.NoteCount()
	}
	return &dto.CheckpointResponse{
		Id:        cp.ID,
		Title:     cp.Title,
		Date:      cp.Date,
		NoteCount: count,
	}
}

func patchChanges(updated canvas.Note, patch canvas.NotePatch) map[string]interface{} {
	changes := make(map[string]interface{})
	for _, field := range patch.Fields() {
		switch field {
		case "title":
			changes[field] = updated.Title
		case "content":
			changes[field] = updated.Content
		case "position":
			changes[field] = updated.Position
		case "files":
			changes[field] = updated.Files
		}
	}
	return changes
}
