package canvas

import "time"

// DemoCheckpoints and DemoHierarchy describe the starter board a fresh
// installation shows before the user adds anything.
func DemoCheckpoints() []Checkpoint {
	return []Checkpoint{
		{ID: "cp-1", Title: "Q1 2023", Date: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "cp-2", Title: "Q2 2023", Date: time.Date(2023, time.April, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "cp-3", Title: "Q3 2023", Date: time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC)},
	}
}

func DemoHierarchy() Hierarchy {
	note1 := "note-1"
	return Hierarchy{
		"cp-1": {
			RootCanvas: {
				demoNote("note-1", "Inventory", "Track and manage your inventory levels, suppliers, and procurement processes.", 100, 100, SectorInventory, nil),
				demoNote("note-2", "Manufacturing", "Monitor production processes, quality control, and operational efficiency.", 400, 100, SectorManufacturing, nil),
				demoNote("note-3", "Product Strategy", "Plan product roadmaps, feature development, and market positioning.", 100, 350, SectorProduct, nil),
				demoNote("note-4", "Human Operations", "Manage recruitment, training, performance, and employee engagement.", 400, 350, SectorHuman, nil),
			},
			"note-1": {
				withColor(demoNote("note-1-1", "Suppliers", "List of key suppliers and contact information.", 100, 100, SectorInventory, &note1), "bg-yellow-100"),
				withColor(demoNote("note-1-2", "Stock Levels", "Current inventory levels and reorder points.", 400, 100, SectorInventory, &note1), "bg-yellow-100"),
			},
		},
		"cp-2": {
			RootCanvas: {
				demoNote("note-5", "Inventory", "Updated inventory management system implemented.", 100, 100, SectorInventory, nil),
				demoNote("note-6", "Manufacturing", "New production line added, increasing capacity by 30%.", 400, 100, SectorManufacturing, nil),
			},
		},
		"cp-3": {
			RootCanvas: {
				demoNote("note-7", "Product Strategy", "New product line launched, targeting enterprise customers.", 100, 100, SectorProduct, nil),
			},
		},
	}
}

// NewDemoBoard returns a board loaded with the starter content.
func NewDemoBoard(opts ...Option) *Board {
	b := NewBoard(opts...)
	// the demo data is static and always valid
	_ = b.Load(DemoCheckpoints(), DemoHierarchy())
	return b
}

func demoNote(id, title, content string, x, y float64, sector Sector, parentID *string) Note {
	return Note{
		ID:       id,
		Title:    title,
		Content:  content,
		Position: Position{X: x, Y: y},
		Color:    sector.Color(),
		Sector:   sector,
		Files:    []string{},
		ParentID: parentID,
	}
}

func withColor(n Note, color string) Note {
	n.Color = color
	return n
}
