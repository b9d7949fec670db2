package canvas

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// RootCanvas is the canvas id of a checkpoint's top level.
const RootCanvas = "root"

const (
	defaultQuickContent = "Click to edit this note and add your business information."
	defaultZIndex       = 1
)

type Sector string

const (
	SectorInventory     Sector = "inventory"
	SectorManufacturing Sector = "manufacturing"
	SectorProduct       Sector = "product"
	SectorHuman         Sector = "human"
	SectorMarketing     Sector = "marketing"
	SectorFinancial     Sector = "financial"
)

// Sectors lists the business areas in their display order.
var Sectors = []Sector{
	SectorInventory,
	SectorManufacturing,
	SectorProduct,
	SectorHuman,
	SectorMarketing,
	SectorFinancial,
}

var sectorColors = map[Sector]string{
	SectorInventory:     "bg-yellow-200",
	SectorManufacturing: "bg-blue-200",
	SectorProduct:       "bg-green-200",
	SectorHuman:         "bg-purple-200",
	SectorMarketing:     "bg-red-200",
	SectorFinancial:     "bg-indigo-200",
}

func ParseSector(s string) (Sector, error) {
	sector := Sector(strings.ToLower(strings.TrimSpace(s)))
	if !sector.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidSector, s)
	}
	return sector, nil
}

func (s Sector) Valid() bool {
	_, ok := sectorColors[s]
	return ok
}

// Color returns the fixed note color of the sector, or "" for unknown sectors.
func (s Sector) Color() string {
	return sectorColors[s]
}

// Label is the capitalised sector name used as a quick-add title.
func (s Sector) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type Note struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Content  string   `json:"content" yaml:"content"`
	Position Position `json:"position" yaml:"position"`
	Color    string   `json:"color" yaml:"color"`
	Sector   Sector   `json:"sector" yaml:"sector"`
	Selected bool     `json:"selected" yaml:"selected"`
	Files    []string `json:"files" yaml:"files"`
	ParentID *string  `json:"parentId" yaml:"parent_id"`
	ZIndex   int      `json:"zIndex,omitempty" yaml:"z_index,omitempty"`
}

// Clone returns a deep copy so callers never share slices with the board.
func (n Note) Clone() Note {
	out := n
	out.Files = append([]string{}, n.Files...)
	if n.ParentID != nil {
		p := *n.ParentID
		out.ParentID = &p
	}
	return out
}

// NoteDraft carries the caller supplied fields of a new note.
type NoteDraft struct {
	Title    string
	Content  string
	Sector   Sector
	Position *Position
	Files    []string
}

// QuickDraft builds the draft of the one-click "add note" action: a random
// sector, its label as title and placeholder content.
func QuickDraft(rnd *rand.Rand) NoteDraft {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	sector := Sectors[rnd.Intn(len(Sectors))]
	return NoteDraft{
		Title:    sector.Label(),
		Content:  defaultQuickContent,
		Sector:   sector,
		Position: &Position{X: 200, Y: 200},
	}
}

// NotePatch is a merge patch; nil fields are left untouched.
type NotePatch struct {
	Title    *string
	Content  *string
	Position *Position
	Files    *[]string
}

func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Position == nil && p.Files == nil
}

// Fields names the patched fields in a stable order.
func (p NotePatch) Fields() []string {
	fields := make([]string, 0, 4)
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Content != nil {
		fields = append(fields, "content")
	}
	if p.Position != nil {
		fields = append(fields, "position")
	}
	if p.Files != nil {
		fields = append(fields, "files")
	}
	return fields
}

func (p NotePatch) apply(n *Note) {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.Position != nil {
		n.Position = *p.Position
	}
	if p.Files != nil {
		n.Files = append([]string{}, (*p.Files)...)
	}
}

type Checkpoint struct {
	ID    string    `json:"id" yaml:"id"`
	Title string    `json:"title" yaml:"title"`
	Date  time.Time `json:"date" yaml:"date"`
}
