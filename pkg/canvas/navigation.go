package canvas

const (
	MainCanvasTitle   = "Main Canvas"
	NestedCanvasTitle = "Nested Canvas"
)

// Frame is one step of the drill-down path.
type Frame struct {
	CanvasID string `json:"canvas_id"`
	Title    string `json:"title,omitempty"`
}

// Crumb is a resolved breadcrumb segment.
type Crumb struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Navigator tracks the path from the root canvas to the viewed one.
type Navigator struct {
	frames []Frame
}

func NewNavigator() *Navigator {
	return &Navigator{frames: []Frame{{CanvasID: RootCanvas}}}
}

// RestoreNavigator rebuilds a navigator from stored frames. An empty or
// malformed stack falls back to root.
func RestoreNavigator(frames []Frame) *Navigator {
	if len(frames) == 0 || frames[0].CanvasID != RootCanvas {
		return NewNavigator()
	}
	return &Navigator{frames: append([]Frame{}, frames...)}
}

// Open pushes a note's canvas on top of the stack.
func (n *Navigator) Open(noteID, noteTitle string) {
	n.frames = append(n.frames, Frame{CanvasID: noteID, Title: noteTitle})
}

// Back pops one level and reports whether anything changed.
func (n *Navigator) Back() bool {
	if len(n.frames) <= 1 {
		return false
	}
	n.frames = n.frames[:len(n.frames)-1]
	return true
}

func (n *Navigator) Reset() {
	n.frames = []Frame{{CanvasID: RootCanvas}}
}

func (n *Navigator) Current() string {
	return n.frames[len(n.frames)-1].CanvasID
}

func (n *Navigator) Depth() int {
	return len(n.frames)
}

// Stack returns the canvas ids from root to the current canvas.
func (n *Navigator) Stack() []string {
	ids := make([]string, len(n.frames))
	for i, f := range n.frames {
		ids[i] = f.CanvasID
	}
	return ids
}

func (n *Navigator) Frames() []Frame {
	return append([]Frame{}, n.frames...)
}

// Breadcrumb resolves every stack entry after root to the title of the
// matching note in its parent canvas. Entries that cannot be resolved are
// left out.
func Breadcrumb(canvases Canvases, stack []string) []Crumb {
	crumbs := make([]Crumb, 0, len(stack))
	for i := 1; i < len(stack); i++ {
		parent := stack[i-1]
		note, ok := findByID(canvases[parent], stack[i])
		if !ok {
			continue
		}
		crumbs = append(crumbs, Crumb{ID: note.ID, Title: note.Title})
	}
	return crumbs
}

// CanvasTitle labels the viewed canvas.
func CanvasTitle(canvases Canvases, stack []string) string {
	if len(stack) <= 1 {
		return MainCanvasTitle
	}
	parent := stack[len(stack)-2]
	if note, ok := findByID(canvases[parent], stack[len(stack)-1]); ok && note.Title != "" {
		return note.Title
	}
	return NestedCanvasTitle
}

func findByID(notes []Note, id string) (Note, bool) {
	for _, n := range notes {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}
