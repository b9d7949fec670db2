package canvas

import (
	"fmt"
	"sort"
)

// Canvases maps a canvas id ("root" or a note id) to the notes living on it.
type Canvases map[string][]Note

// Hierarchy maps a checkpoint id to its canvases.
type Hierarchy map[string]Canvases

func (c Canvases) Clone() Canvases {
	out := make(Canvases, len(c))
	for id, notes := range c {
		cp := make([]Note, len(notes))
		for i, n := range notes {
			cp[i] = n.Clone()
		}
		out[id] = cp
	}
	return out
}

// IDs returns the canvas ids with root first and the rest sorted.
func (c Canvases) IDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		if id != RootCanvas {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if _, ok := c[RootCanvas]; ok {
		ids = append([]string{RootCanvas}, ids...)
	}
	return ids
}

// Find looks a note up across every canvas of the checkpoint.
func (c Canvases) Find(noteID string) (canvasID string, index int, ok bool) {
	for id, notes := range c {
		for i := range notes {
			if notes[i].ID == noteID {
				return id, i, true
			}
		}
	}
	return "", -1, false
}

// NoteCount counts notes on every canvas.
func (c Canvases) NoteCount() int {
	total := 0
	for _, notes := range c {
		total += len(notes)
	}
	return total
}

func (h Hierarchy) Clone() Hierarchy {
	out := make(Hierarchy, len(h))
	for cp, canvases := range h {
		out[cp] = canvases.Clone()
	}
	return out
}

// validate checks the structural rules of a hierarchy coming from outside
// the board and fills in derived fields (missing colors).
// Locate reports the checkpoint and canvas holding a note.
func (h Hierarchy) Locate(noteID string) (cpID, canvasID string, ok bool) {
	for id, canvases := range h {
		if c, _, found := canvases.Find(noteID); found {
			return id, c, true
		}
	}
	return "", "", false
}

func (h Hierarchy) validate() error {
	for cpID, canvases := range h {
		seen := make(map[string]string)
		for canvasID, notes := range canvases {
			if canvasID == "" {
				return fmt.Errorf("%w: empty canvas id in checkpoint %s", ErrInvalidHierarchy, cpID)
			}
			for i := range notes {
				n := &notes[i]
				if n.ID == "" {
					return fmt.Errorf("%w: note without id on canvas %s/%s", ErrInvalidHierarchy, cpID, canvasID)
				}
				if other, dup := seen[n.ID]; dup {
					return fmt.Errorf("%w: note %s appears on canvas %s and %s", ErrInvalidHierarchy, n.ID, other, canvasID)
				}
				seen[n.ID] = canvasID
				if !n.Sector.Valid() {
					return fmt.Errorf("%w: note %s has sector %q", ErrInvalidSector, n.ID, n.Sector)
				}
				if n.Color == "" {
					n.Color = n.Sector.Color()
				}
				if n.Files == nil {
					n.Files = []string{}
				}
			}
		}
	}
	return nil
}

func (h Hierarchy) highestZIndex() int {
	highest := defaultZIndex
	for _, canvases := range h {
		for _, notes := range canvases {
			for _, n := range notes {
				if n.ZIndex > highest {
					highest = n.ZIndex
				}
			}
		}
	}
	return highest
}
