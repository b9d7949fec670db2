// Package canvas holds the note board state model: time checkpoints, each
// with a tree of canvases addressed by note id, and the notes living on them.
//
// A Board is not safe for concurrent use; the owner serialises access.
package canvas

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

const firstCheckpointYear = 2023

type Board struct {
	checkpoints []Checkpoint
	hierarchy   Hierarchy
	highestZ    int

	newID func() string
	now   func() time.Time
}

type Option func(*Board)

// WithIDGenerator overrides the note id source.
func WithIDGenerator(fn func() string) Option {
	return func(b *Board) {
		b.newID = fn
	}
}

func WithClock(fn func() time.Time) Option {
	return func(b *Board) {
		b.now = fn
	}
}

func NewBoard(opts ...Option) *Board {
	b := &Board{
		checkpoints: make([]Checkpoint, 0),
		hierarchy:   make(Hierarchy),
		highestZ:    defaultZIndex,
		newID:       uuid.NewString,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Load replaces the whole board state, e.g. when restoring from storage.
func (b *Board) Load(checkpoints []Checkpoint, h Hierarchy) error {
	ids := make(map[string]struct{}, len(checkpoints))
	for _, cp := range checkpoints {
		if cp.ID == "" {
			return fmt.Errorf("%w: checkpoint without id", ErrInvalidHierarchy)
		}
		if _, dup := ids[cp.ID]; dup {
			return fmt.Errorf("%w: duplicate checkpoint %s", ErrInvalidHierarchy, cp.ID)
		}
		ids[cp.ID] = struct{}{}
	}

	next := h.Clone()
	for cpID := range next {
		if _, ok := ids[cpID]; !ok {
			return fmt.Errorf("%w: %s", ErrCheckpointNotFound, cpID)
		}
	}
	if err := next.validate(); err != nil {
		return err
	}

	b.checkpoints = append([]Checkpoint{}, checkpoints...)
	b.hierarchy = next
	for _, cp := range b.checkpoints {
		b.ensureRoot(cp.ID)
	}
	b.highestZ = b.hierarchy.highestZIndex()
	return nil
}

func (b *Board) Checkpoints() []Checkpoint {
	return append([]Checkpoint{}, b.checkpoints...)
}

func (b *Board) Checkpoint(id string) (Checkpoint, bool) {
	for _, cp := range b.checkpoints {
		if cp.ID == id {
			return cp, true
		}
	}
	return Checkpoint{}, false
}

// AddCheckpoint appends the next quarter checkpoint and seeds its root canvas.
func (b *Board) AddCheckpoint() Checkpoint {
	n := len(b.checkpoints)
	title := fmt.Sprintf("Q%d %d", (n%4)+1, firstCheckpointYear+n/4)

	seq := n + 1
	id := fmt.Sprintf("cp-%d", seq)
	for b.hasCheckpoint(id) {
		seq++
		id = fmt.Sprintf("cp-%d", seq)
	}

	cp := Checkpoint{ID: id, Title: title, Date: b.now()}
	b.checkpoints = append(b.checkpoints, cp)
	b.hierarchy[id] = Canvases{RootCanvas: []Note{}}
	return cp
}

// Hierarchy returns a deep copy of every checkpoint's canvases.
func (b *Board) Hierarchy() Hierarchy {
	return b.hierarchy.Clone()
}

func (b *Board) Canvases(cpID string) (Canvases, error) {
	canvases, err := b.canvases(cpID)
	if err != nil {
		return nil, err
	}
	return canvases.Clone(), nil
}

// Notes returns the notes of one canvas; a canvas never opened yields none.
func (b *Board) Notes(cpID, canvasID string) ([]Note, error) {
	canvases, err := b.canvases(cpID)
	if err != nil {
		return nil, err
	}
	notes := canvases[canvasID]
	out := make([]Note, len(notes))
	for i, n := range notes {
		out[i] = n.Clone()
	}
	return out, nil
}

func (b *Board) SelectedNotes(cpID, canvasID string) ([]Note, error) {
	notes, err := b.Notes(cpID, canvasID)
	if err != nil {
		return nil, err
	}
	selected := make([]Note, 0)
	for _, n := range notes {
		if n.Selected {
			selected = append(selected, n)
		}
	}
	return selected, nil
}

func (b *Board) HighestZIndex() int {
	return b.highestZ
}

// AddNote appends a new note to the end of a canvas list.
func (b *Board) AddNote(cpID, canvasID string, draft NoteDraft) (Note, error) {
	canvases, err := b.canvases(cpID)
	if err != nil {
		return Note{}, err
	}
	if err := b.requireCanvas(canvases, canvasID); err != nil {
		return Note{}, err
	}
	if !draft.Sector.Valid() {
		return Note{}, fmt.Errorf("%w: %q", ErrInvalidSector, draft.Sector)
	}

	title := draft.Title
	if title == "" {
		title = draft.Sector.Label()
	}
	position := Position{X: 200, Y: 200}
	if draft.Position != nil {
		position = *draft.Position
	}
	var parentID *string
	if canvasID != RootCanvas {
		p := canvasID
		parentID = &p
	}

	b.highestZ++
	note := Note{
		ID:       b.uniqueID(),
		Title:    title,
		Content:  draft.Content,
		Position: position,
		Color:    draft.Sector.Color(),
		Sector:   draft.Sector,
		Selected: false,
		Files:    append([]string{}, draft.Files...),
		ParentID: parentID,
		ZIndex:   b.highestZ,
	}

	canvases[canvasID] = append(canvases[canvasID], note)
	return note.Clone(), nil
}

// EditNote merge-patches a note on the given canvas.
func (b *Board) EditNote(cpID, canvasID, noteID string, patch NotePatch) (Note, error) {
	notes, idx, err := b.locate(cpID, canvasID, noteID)
	if err != nil {
		return Note{}, err
	}
	patch.apply(&notes[idx])
	return notes[idx].Clone(), nil
}

// DeleteNote removes a note and the canvas keyed by its id. Canvases nested
// deeper than that stay in the hierarchy; PruneUnreachable collects them.
func (b *Board) DeleteNote(cpID, canvasID, noteID string) (Note, error) {
	notes, idx, err := b.locate(cpID, canvasID, noteID)
	if err != nil {
		return Note{}, err
	}
	removed := notes[idx]

	kept := make([]Note, 0, len(notes)-1)
	kept = append(kept, notes[:idx]...)
	kept = append(kept, notes[idx+1:]...)

	canvases := b.hierarchy[cpID]
	canvases[canvasID] = kept
	delete(canvases, noteID)
	return removed, nil
}

// ToggleSelect flips the selection of one note and raises it to the top.
func (b *Board) ToggleSelect(cpID, canvasID, noteID string) (Note, error) {
	notes, idx, err := b.locate(cpID, canvasID, noteID)
	if err != nil {
		return Note{}, err
	}

	b.highestZ++
	for i := range notes {
		if i == idx {
			notes[i].Selected = !notes[i].Selected
			notes[i].ZIndex = b.highestZ
			continue
		}
		if notes[i].ZIndex == 0 {
			notes[i].ZIndex = defaultZIndex
		}
	}
	return notes[idx].Clone(), nil
}

// OpenCanvas lazily creates the nested canvas of a note.
func (b *Board) OpenCanvas(cpID, noteID string) (Note, error) {
	canvases, err := b.canvases(cpID)
	if err != nil {
		return Note{}, err
	}
	canvasID, idx, ok := canvases.Find(noteID)
	if !ok {
		return Note{}, fmt.Errorf("%w: %s", ErrNoteNotFound, noteID)
	}
	if _, exists := canvases[noteID]; !exists {
		canvases[noteID] = []Note{}
	}
	return canvases[canvasID][idx].Clone(), nil
}

// ReplaceHierarchy swaps in a hierarchy produced elsewhere (the chat
// assistant). It is validated first; on error the board is unchanged.
// Known checkpoints missing from h end up with an empty root canvas.
func (b *Board) ReplaceHierarchy(h Hierarchy) error {
	next := h.Clone()
	for cpID := range next {
		if !b.hasCheckpoint(cpID) {
			return fmt.Errorf("%w: %s", ErrCheckpointNotFound, cpID)
		}
	}
	if err := next.validate(); err != nil {
		return err
	}

	b.hierarchy = next
	for _, cp := range b.checkpoints {
		b.ensureRoot(cp.ID)
	}
	if z := b.hierarchy.highestZIndex(); z > b.highestZ {
		b.highestZ = z
	}
	return nil
}

// ReplaceCanvases swaps one checkpoint's canvases; same rules as ReplaceHierarchy.
func (b *Board) ReplaceCanvases(cpID string, canvases Canvases) error {
	if !b.hasCheckpoint(cpID) {
		return fmt.Errorf("%w: %s", ErrCheckpointNotFound, cpID)
	}
	next := Hierarchy{cpID: canvases.Clone()}
	if err := next.validate(); err != nil {
		return err
	}
	b.hierarchy[cpID] = next[cpID]
	b.ensureRoot(cpID)
	if z := next.highestZIndex(); z > b.highestZ {
		b.highestZ = z
	}
	return nil
}

// MergeNotes writes changed into the board at the places they occupy in h,
// the edited copy of base. Title, content and sector are taken from changed;
// position, selection and stacking stay as the board has them. A note absent
// from base is appended when its canvas still exists. Notes whose place is
// gone, including base notes deleted since, are skipped.
func (b *Board) MergeNotes(base, h Hierarchy, changed []Note) (merged []Note, skipped []string) {
	for _, n := range changed {
		cpID, canvasID, ok := h.Locate(n.ID)
		if !ok || !n.Sector.Valid() {
			skipped = append(skipped, n.ID)
			continue
		}

		if notes, idx, err := b.locate(cpID, canvasID, n.ID); err == nil {
			cur := &notes[idx]
			cur.Title = n.Title
			cur.Content = n.Content
			if cur.Sector != n.Sector {
				cur.Sector = n.Sector
				cur.Color = n.Sector.Color()
			}
			merged = append(merged, cur.Clone())
			continue
		}

		if _, _, known := base.Locate(n.ID); known {
			skipped = append(skipped, n.ID)
			continue
		}
		canvases, err := b.canvases(cpID)
		if err != nil || b.noteExists(n.ID) {
			skipped = append(skipped, n.ID)
			continue
		}
		if _, ok := canvases[canvasID]; !ok {
			skipped = append(skipped, n.ID)
			continue
		}

		note := n.Clone()
		note.Selected = false
		note.ParentID = nil
		if canvasID != RootCanvas {
			p := canvasID
			note.ParentID = &p
		}
		if note.Color == "" {
			note.Color = note.Sector.Color()
		}
		b.highestZ++
		note.ZIndex = b.highestZ
		canvases[canvasID] = append(canvases[canvasID], note)
		merged = append(merged, note.Clone())
	}
	return merged, skipped
}

// PruneUnreachable drops canvases that can no longer be reached from root
// and returns their ids in sorted order.
func (b *Board) PruneUnreachable(cpID string) ([]string, error) {
	canvases, err := b.canvases(cpID)
	if err != nil {
		return nil, err
	}

	reached := map[string]bool{RootCanvas: true}
	queue := []string{RootCanvas}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, n := range canvases[current] {
			if _, ok := canvases[n.ID]; ok && !reached[n.ID] {
				reached[n.ID] = true
				queue = append(queue, n.ID)
			}
		}
	}

	removed := make([]string, 0)
	for id := range canvases {
		if !reached[id] {
			removed = append(removed, id)
			delete(canvases, id)
		}
	}
	sort.Strings(removed)
	return removed, nil
}

// ResolvePath walks note titles from the root canvas and returns the id of
// the canvas the path points into.
func (b *Board) ResolvePath(cpID string, titles []string) (string, error) {
	canvases, err := b.canvases(cpID)
	if err != nil {
		return "", err
	}
	current := RootCanvas
	for _, title := range titles {
		note, ok := findByTitle(canvases[current], title)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrPathNotFound, title)
		}
		current = note.ID
	}
	return current, nil
}

// FindByTitle returns the note with the given title on one canvas.
func (b *Board) FindByTitle(cpID, canvasID, title string) (Note, error) {
	canvases, err := b.canvases(cpID)
	if err != nil {
		return Note{}, err
	}
	note, ok := findByTitle(canvases[canvasID], title)
	if !ok {
		return Note{}, fmt.Errorf("%w: %q", ErrNoteNotFound, title)
	}
	return note.Clone(), nil
}

func findByTitle(notes []Note, title string) (Note, bool) {
	for _, n := range notes {
		if n.Title == title {
			return n, true
		}
	}
	return Note{}, false
}

func (b *Board) canvases(cpID string) (Canvases, error) {
	if !b.hasCheckpoint(cpID) {
		return nil, fmt.Errorf("%w: %s", ErrCheckpointNotFound, cpID)
	}
	b.ensureRoot(cpID)
	return b.hierarchy[cpID], nil
}

func (b *Board) ensureRoot(cpID string) {
	canvases, ok := b.hierarchy[cpID]
	if !ok {
		canvases = make(Canvases)
		b.hierarchy[cpID] = canvases
	}
	if _, ok := canvases[RootCanvas]; !ok {
		canvases[RootCanvas] = []Note{}
	}
}

// requireCanvas accepts root, an opened canvas or the id of an existing note.
func (b *Board) requireCanvas(canvases Canvases, canvasID string) error {
	if canvasID == RootCanvas {
		return nil
	}
	if _, ok := canvases[canvasID]; ok {
		return nil
	}
	if _, _, ok := canvases.Find(canvasID); ok {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrCanvasNotFound, canvasID)
}

func (b *Board) locate(cpID, canvasID, noteID string) ([]Note, int, error) {
	canvases, err := b.canvases(cpID)
	if err != nil {
		return nil, -1, err
	}
	notes := canvases[canvasID]
	for i := range notes {
		if notes[i].ID == noteID {
			return notes, i, nil
		}
	}
	return nil, -1, fmt.Errorf("%w: %s", ErrNoteNotFound, noteID)
}

func (b *Board) hasCheckpoint(id string) bool {
	_, ok := b.Checkpoint(id)
	return ok
}

func (b *Board) uniqueID() string {
	for {
		id := b.newID()
		if !b.noteExists(id) {
			return id
		}
	}
}

func (b *Board) noteExists(id string) bool {
	for _, canvases := range b.hierarchy {
		if _, _, ok := canvases.Find(id); ok {
			return true
		}
	}
	return false
}
