package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viv500/GenesisAI/internal/dto"
	"github.com/viv500/GenesisAI/internal/pkg/logger"
	"github.com/viv500/GenesisAI/internal/repository/memory"
	"github.com/viv500/GenesisAI/internal/repository/unitofwork"
	"github.com/viv500/GenesisAI/pkg/canvas"
	"github.com/viv500/GenesisAI/pkg/database"
	"github.com/viv500/GenesisAI/pkg/events"
	"github.com/viv500/GenesisAI/pkg/store"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*events.BoardEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event *events.BoardEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func (p *recordingPublisher) last() *events.BoardEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return nil
	}
	return p.events[len(p.events)-1]
}

func newTestBoardService(t *testing.T, uowFactory unitofwork.RepositoryFactory) (IBoardService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	svc := NewBoardService(uowFactory, memory.NewSessionRepository(time.Hour), pub, logger.NewNopLogger())
	require.NoError(t, svc.Init(context.Background(), true))
	return svc, pub
}

func newSQLiteFactory(t *testing.T, path string) unitofwork.RepositoryFactory {
	t.Helper()
	db, err := database.Open(database.DriverSQLite, path, false)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	factory := unitofwork.NewRepositoryFactory(db)
	require.NoError(t, factory.Migrate(context.Background()))
	return factory
}

func TestBoardServiceInitSeedsDemo(t *testing.T) {
	svc, _ := newTestBoardService(t, nil)

	cps := svc.Checkpoints(context.Background())
	require.Len(t, cps, 3)
	assert.Equal(t, "cp-1", cps[0].Id)
	assert.Equal(t, "Q1 2023", cps[0].Title)
	assert.Equal(t, 6, cps[0].NoteCount)
	assert.Equal(t, 2, cps[1].NoteCount)
}

func TestBoardServiceInitWithoutDemoCreatesOneCheckpoint(t *testing.T) {
	svc := NewBoardService(nil, memory.NewSessionRepository(time.Hour), nil, logger.NewNopLogger())
	require.NoError(t, svc.Init(context.Background(), false))

	cps := svc.Checkpoints(context.Background())
	require.Len(t, cps, 1)
	assert.Equal(t, 0, cps[0].NoteCount)
	assert.Equal(t, canvas.Hierarchy{cps[0].Id: {canvas.RootCanvas: []canvas.Note{}}}, svc.Hierarchy(context.Background()))
}

func TestBoardServiceSessionNavigation(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestBoardService(t, nil)

	session, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	assert.Equal(t, "cp-1", session.Checkpoint.Id)
	assert.Equal(t, canvas.RootCanvas, session.CanvasId)
	assert.Equal(t, canvas.MainCanvasTitle, session.CanvasTitle)
	assert.Len(t, session.Notes, 4)

	opened, err := svc.OpenCanvas(ctx, session.Id, &dto.OpenCanvasRequest{NoteId: "note-1"})
	require.NoError(t, err)
	assert.Equal(t, "note-1", opened.CanvasId)
	assert.Equal(t, "Inventory", opened.CanvasTitle)
	assert.Equal(t, []string{canvas.RootCanvas, "note-1"}, opened.Stack)
	assert.Equal(t, []canvas.Crumb{{ID: "note-1", Title: "Inventory"}}, opened.Breadcrumb)
	assert.Len(t, opened.Notes, 2)
	assert.Equal(t, events.CanvasOpened, pub.last().Type)

	// only notes of the current canvas can be opened
	_, err = svc.OpenCanvas(ctx, session.Id, &dto.OpenCanvasRequest{NoteId: "note-2"})
	assert.ErrorIs(t, err, canvas.ErrNoteNotFound)

	back, err := svc.Back(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, canvas.RootCanvas, back.CanvasId)

	back, err = svc.Back(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{canvas.RootCanvas}, back.Stack)
}

func TestBoardServiceSelectCheckpointResetsNavigation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestBoardService(t, nil)

	session, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{CheckpointId: "cp-1"})
	require.NoError(t, err)
	_, err = svc.OpenCanvas(ctx, session.Id, &dto.OpenCanvasRequest{NoteId: "note-1"})
	require.NoError(t, err)

	switched, err := svc.SelectCheckpoint(ctx, session.Id, &dto.SelectCheckpointRequest{CheckpointId: "cp-2"})
	require.NoError(t, err)
	assert.Equal(t, "cp-2", switched.Checkpoint.Id)
	assert.Equal(t, canvas.RootCanvas, switched.CanvasId)
	assert.Len(t, switched.Notes, 2)

	_, err = svc.SelectCheckpoint(ctx, session.Id, &dto.SelectCheckpointRequest{CheckpointId: "cp-9"})
	assert.ErrorIs(t, err, canvas.ErrCheckpointNotFound)
}

func TestBoardServiceUnknownSession(t *testing.T) {
	svc, _ := newTestBoardService(t, nil)

	_, err := svc.GetSession(context.Background(), "nope")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	_, err = svc.CreateSession(context.Background(), &dto.CreateSessionRequest{CheckpointId: "cp-9"})
	assert.ErrorIs(t, err, canvas.ErrCheckpointNotFound)
}

func TestBoardServiceNoteLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestBoardService(t, nil)

	session, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	_, err = svc.OpenCanvas(ctx, session.Id, &dto.OpenCanvasRequest{NoteId: "note-1"})
	require.NoError(t, err)

	added, err := svc.AddNote(ctx, session.Id, &dto.AddNoteRequest{
		Title:   "Warehouses",
		Content: "Two sites",
		Sector:  "inventory",
	})
	require.NoError(t, err)
	require.NotNil(t, added.ParentID)
	assert.Equal(t, "note-1", *added.ParentID)
	assert.Equal(t, canvas.SectorInventory.Color(), added.Color)

	title := "Warehouse network"
	edited, err := svc.EditNote(ctx, session.Id, added.ID, &dto.EditNoteRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, edited.Title)
	assert.Equal(t, "Two sites", edited.Content)

	evt := pub.last()
	require.NotNil(t, evt)
	assert.Equal(t, events.NoteEdited, evt.Type)
	assert.Equal(t, session.Id, evt.SessionID)
	assert.Equal(t, "Warehouses", evt.Original.Title)
	assert.Equal(t, map[string]interface{}{"title": title}, evt.Changes)

	selected, err := svc.ToggleSelect(ctx, session.Id, added.ID)
	require.NoError(t, err)
	assert.True(t, selected.Selected)

	view, err := svc.GetSession(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, 1, view.SelectedCount)
	assert.Equal(t, selected.ZIndex, view.HighestZIndex)

	require.NoError(t, svc.DeleteNote(ctx, session.Id, added.ID))
	view, err = svc.GetSession(ctx, session.Id)
	require.NoError(t, err)
	assert.Len(t, view.Notes, 2)

	assert.ErrorIs(t, svc.DeleteNote(ctx, session.Id, added.ID), canvas.ErrNoteNotFound)
	assert.Equal(t, []string{
		events.CanvasOpened, events.NoteAdded, events.NoteEdited, events.NoteSelected, events.NoteDeleted,
	}, pub.types())
}

func TestBoardServiceQuickAdd(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestBoardService(t, nil)

	session, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	note, err := svc.AddNote(ctx, session.Id, &dto.AddNoteRequest{Mode: "quick"})
	require.NoError(t, err)
	assert.True(t, note.Sector.Valid())
	assert.Equal(t, note.Sector.Label(), note.Title)
	assert.Equal(t, canvas.Position{X: 200, Y: 200}, note.Position)
}

func TestBoardServiceAddNoteRejectsUnknownSector(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestBoardService(t, nil)

	session, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	before := svc.Hierarchy(ctx)

	_, err = svc.AddNote(ctx, session.Id, &dto.AddNoteRequest{Title: "x", Sector: "astrology"})
	assert.ErrorIs(t, err, canvas.ErrInvalidSector)
	assert.Equal(t, before, svc.Hierarchy(ctx))
	assert.Empty(t, pub.types())
}

func TestBoardServiceDeletedCanvasResetsViewers(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestBoardService(t, nil)

	viewer, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	editor, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	_, err = svc.OpenCanvas(ctx, viewer.Id, &dto.OpenCanvasRequest{NoteId: "note-1"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteNote(ctx, editor.Id, "note-1"))

	view, err := svc.GetSession(ctx, viewer.Id)
	require.NoError(t, err)
	assert.Equal(t, canvas.RootCanvas, view.CanvasId)
	assert.Equal(t, []string{canvas.RootCanvas}, view.Stack)
}

func TestBoardServiceReplaceHierarchy(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestBoardService(t, nil)

	next := svc.Hierarchy(ctx)
	next["cp-2"][canvas.RootCanvas][0].Content = "rewritten"
	require.NoError(t, svc.ReplaceHierarchy(ctx, next, "chat:local"))

	assert.Equal(t, "rewritten", svc.Hierarchy(ctx)["cp-2"][canvas.RootCanvas][0].Content)
	assert.Equal(t, "chat:local", pub.last().Source)

	bad := svc.Hierarchy(ctx)
	bad["cp-1"][canvas.RootCanvas][0].Sector = "astrology"
	before := svc.Hierarchy(ctx)
	assert.ErrorIs(t, svc.ReplaceHierarchy(ctx, bad, "chat:local"), canvas.ErrInvalidSector)
	assert.Equal(t, before, svc.Hierarchy(ctx))

	unknown := canvas.Hierarchy{"cp-9": {canvas.RootCanvas: []canvas.Note{}}}
	assert.ErrorIs(t, svc.ReplaceHierarchy(ctx, unknown, "chat:local"), canvas.ErrCheckpointNotFound)
}

func TestBoardServicePrune(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestBoardService(t, nil)

	session, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	_, err = svc.OpenCanvas(ctx, session.Id, &dto.OpenCanvasRequest{NoteId: "note-1"})
	require.NoError(t, err)
	_, err = svc.OpenCanvas(ctx, session.Id, &dto.OpenCanvasRequest{NoteId: "note-1-1"})
	require.NoError(t, err)
	_, err = svc.Back(ctx, session.Id)
	require.NoError(t, err)
	_, err = svc.Back(ctx, session.Id)
	require.NoError(t, err)

	// deleting note-1 drops its canvas; the canvas of note-1-1 is orphaned
	require.NoError(t, svc.DeleteNote(ctx, session.Id, "note-1"))
	_, orphaned := svc.Hierarchy(ctx)["cp-1"]["note-1-1"]
	require.True(t, orphaned)

	res, err := svc.Prune(ctx, "cp-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"note-1-1"}, res.Removed)

	res, err = svc.Prune(ctx, "cp-1")
	require.NoError(t, err)
	assert.Empty(t, res.Removed)
	assert.NotNil(t, res.Removed)
}

func TestBoardServiceAddCheckpoint(t *testing.T) {
	svc, pub := newTestBoardService(t, nil)

	cp, err := svc.AddCheckpoint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "cp-4", cp.Id)
	assert.Equal(t, "Q4 2023", cp.Title)
	assert.Equal(t, events.CheckpointAdded, pub.last().Type)
	assert.Len(t, svc.Checkpoints(context.Background()), 4)
}

func TestBoardServiceChatContext(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestBoardService(t, nil)

	session, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)
	_, err = svc.ToggleSelect(ctx, session.Id, "note-2")
	require.NoError(t, err)

	cc, err := svc.ChatContext(ctx, session.Id)
	require.NoError(t, err)
	assert.Equal(t, "cp-1", cc.CheckpointID)
	assert.Equal(t, canvas.RootCanvas, cc.CanvasID)
	require.Len(t, cc.Selected, 1)
	assert.Equal(t, "note-2", cc.Selected[0].ID)
	assert.Len(t, cc.Hierarchy, 3)
}

func TestBoardServicePersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.db")

	svc, _ := newTestBoardService(t, newSQLiteFactory(t, path))
	session, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{CheckpointId: "cp-2"})
	require.NoError(t, err)
	_, err = svc.AddNote(ctx, session.Id, &dto.AddNoteRequest{
		Title:  "Budget",
		Sector: "financial",
		Files:  []string{"plan.xlsx"},
	})
	require.NoError(t, err)
	_, err = svc.OpenCanvas(ctx, session.Id, &dto.OpenCanvasRequest{NoteId: "note-5"})
	require.NoError(t, err)
	_, err = svc.AddCheckpoint(ctx)
	require.NoError(t, err)
	want := svc.Hierarchy(ctx)

	// seedDemo is ignored once the store holds a board
	reloaded := NewBoardService(newSQLiteFactory(t, path), memory.NewSessionRepository(time.Hour), nil, logger.NewNopLogger())
	require.NoError(t, reloaded.Init(ctx, true))

	assert.Equal(t, want, reloaded.Hierarchy(ctx))
	cps := reloaded.Checkpoints(ctx)
	require.Len(t, cps, 4)
	assert.Equal(t, "cp-4", cps[3].Id)
	assert.Equal(t, 3, cps[1].NoteCount)
}

func TestBoardServiceReloadsCheckpointsInBoardOrder(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.db")

	svc, _ := newTestBoardService(t, newSQLiteFactory(t, path))
	for i := 0; i < 8; i++ {
		_, err := svc.AddCheckpoint(ctx)
		require.NoError(t, err)
	}
	want := make([]string, 0, 11)
	for _, cp := range svc.Checkpoints(ctx) {
		want = append(want, cp.Id)
	}
	require.Len(t, want, 11)
	assert.Equal(t, "cp-10", want[9])

	reloaded := NewBoardService(newSQLiteFactory(t, path), memory.NewSessionRepository(time.Hour), nil, logger.NewNopLogger())
	require.NoError(t, reloaded.Init(ctx, false))
	got := make([]string, 0, 11)
	for _, cp := range reloaded.Checkpoints(ctx) {
		got = append(got, cp.Id)
	}
	assert.Equal(t, want, got)
}

func TestBoardServiceMergeNotesPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "board.db")

	svc, pub := newTestBoardService(t, newSQLiteFactory(t, path))
	base := svc.Hierarchy(ctx)
	snapshot := base.Clone()
	changed := snapshot["cp-2"][canvas.RootCanvas][0].Clone()
	changed.Title = "Inventory (reviewed)"
	snapshot["cp-2"][canvas.RootCanvas][0] = changed

	res, err := svc.MergeNotes(ctx, base, snapshot, []canvas.Note{changed}, "chat:remote")
	require.NoError(t, err)
	require.Len(t, res.Merged, 1)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, events.NotesMerged, pub.last().Type)

	reloaded := NewBoardService(newSQLiteFactory(t, path), memory.NewSessionRepository(time.Hour), nil, logger.NewNopLogger())
	require.NoError(t, reloaded.Init(ctx, true))
	assert.Equal(t, "Inventory (reviewed)", reloaded.Hierarchy(ctx)["cp-2"][canvas.RootCanvas][0].Title)
}

type failingFactory struct{}

func (failingFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return failingUnitOfWork{}
}

func (failingFactory) Migrate(ctx context.Context) error {
	return nil
}

type failingUnitOfWork struct {
	unitofwork.UnitOfWork
}

func (failingUnitOfWork) Begin(ctx context.Context) error {
	return errors.New("database is gone")
}

func TestBoardServiceRestoresBoardWhenPersistFails(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestBoardService(t, nil)
	session, err := svc.CreateSession(ctx, &dto.CreateSessionRequest{})
	require.NoError(t, err)

	svc.(*boardService).uowFactory = failingFactory{}
	before := svc.Hierarchy(ctx)

	_, err = svc.AddNote(ctx, session.Id, &dto.AddNoteRequest{Title: "Lost", Sector: "product"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save board")
	assert.Equal(t, before, svc.Hierarchy(ctx))
	assert.Empty(t, pub.types())
}
