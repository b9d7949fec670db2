package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigatorOpenAndBack(t *testing.T) {
	nav := NewNavigator()
	assert.Equal(t, []string{RootCanvas}, nav.Stack())
	assert.False(t, nav.Back(), "back at root is a no-op")
	assert.Equal(t, []string{RootCanvas}, nav.Stack())

	nav.Open("note-2", "Manufacturing")
	assert.Equal(t, []string{RootCanvas, "note-2"}, nav.Stack())
	assert.Equal(t, "note-2", nav.Current())

	assert.True(t, nav.Back())
	assert.Equal(t, []string{RootCanvas}, nav.Stack())
	assert.Equal(t, 1, nav.Depth())
}

func TestRestoreNavigator(t *testing.T) {
	nav := RestoreNavigator([]Frame{{CanvasID: RootCanvas}, {CanvasID: "note-1", Title: "Inventory"}})
	assert.Equal(t, "note-1", nav.Current())

	assert.Equal(t, []string{RootCanvas}, RestoreNavigator(nil).Stack())
	assert.Equal(t, []string{RootCanvas}, RestoreNavigator([]Frame{{CanvasID: "note-1"}}).Stack())
}

func TestBreadcrumb(t *testing.T) {
	b := NewDemoBoard()
	_, err := b.OpenCanvas("cp-1", "note-1-2")
	require.NoError(t, err)
	canvases, err := b.Canvases("cp-1")
	require.NoError(t, err)

	tests := []struct {
		name      string
		stack     []string
		wantCrumb []Crumb
		wantTitle string
	}{
		{
			name:      "root",
			stack:     []string{RootCanvas},
			wantCrumb: []Crumb{},
			wantTitle: MainCanvasTitle,
		},
		{
			name:      "one level",
			stack:     []string{RootCanvas, "note-1"},
			wantCrumb: []Crumb{{ID: "note-1", Title: "Inventory"}},
			wantTitle: "Inventory",
		},
		{
			name:  "two levels",
			stack: []string{RootCanvas, "note-1", "note-1-2"},
			wantCrumb: []Crumb{
				{ID: "note-1", Title: "Inventory"},
				{ID: "note-1-2", Title: "Stock Levels"},
			},
			wantTitle: "Stock Levels",
		},
		{
			name:      "unresolvable entry is omitted",
			stack:     []string{RootCanvas, "gone", "note-1-2"},
			wantCrumb: []Crumb{},
			wantTitle: NestedCanvasTitle,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCrumb, Breadcrumb(canvases, tt.stack))
			assert.Equal(t, tt.wantTitle, CanvasTitle(canvases, tt.stack))
		})
	}
}
