// Package view keeps the rendered state of the guest table: the visible rows
// and the current row selection.
package view

import (
	"sync"

	"wedding-guests/internal/models"
	"wedding-guests/internal/store"
)

// Grid mirrors the store's guest list and tracks which rows are selected
type Grid struct {
	store       *store.Store
	unsubscribe func()

	mu       sync.Mutex
	version  uint64
	rows     []models.Guest
	selected map[string]struct{}
}

// NewGrid creates a grid that follows s until Close is called
func NewGrid(s *store.Store) *Grid {
	g := &Grid{
		store:    s,
		selected: make(map[string]struct{}),
	}
	g.unsubscribe = s.Subscribe(g.refresh)
	g.refresh(s.Snapshot())
	return g
}

// Close stops following the store
func (g *Grid) Close() {
	g.unsubscribe()
}

// refresh replaces the rows unless a newer list has already been applied
func (g *Grid) refresh(version uint64, guests []models.Guest) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if version < g.version {
		return
	}
	g.version = version
	g.rows = guests
	live := make(map[string]struct{}, len(guests))
	for _, guest := range guests {
		live[guest.ID] = struct{}{}
	}
	for id := range g.selected {
		if _, ok := live[id]; !ok {
			delete(g.selected, id)
		}
	}
}

// Rows returns the rows currently shown
func (g *Grid) Rows() []models.Guest {
	g.mu.Lock()
	defer g.mu.Unlock()

	rows := make([]models.Guest, len(g.rows))
	copy(rows, g.rows)
	return rows
}

// CommitEdit stores an inline cell edit as typed
func (g *Grid) CommitEdit(id string, edit models.FieldEdit) {
	g.store.UpdateField(id, edit)
}

// Select adds or removes a row from the selection. Ids not shown are ignored.
func (g *Grid) Select(id string, on bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !on {
		delete(g.selected, id)
		return
	}
	for _, row := range g.rows {
		if row.ID == id {
			g.selected[id] = struct{}{}
			return
		}
	}
}

// SetSelection replaces the selection with ids
func (g *Grid) SetSelection(ids []string) {
	g.ClearSelection()
	for _, id := range ids {
		g.Select(id, true)
	}
}

func (g *Grid) ClearSelection() {
	g.mu.Lock()
	g.selected = make(map[string]struct{})
	g.mu.Unlock()
}

// Selected returns the selected ids in row order
func (g *Grid) Selected() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ids := make([]string, 0, len(g.selected))
	for _, row := range g.rows {
		if _, ok := g.selected[row.ID]; ok {
			ids = append(ids, row.ID)
		}
	}
	return ids
}

// IsSelected reports whether the row with id is selected
func (g *Grid) IsSelected(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.selected[id]
	return ok
}

// CanDelete reports whether the delete action is enabled
func (g *Grid) CanDelete() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.selected) > 0
}

// DeleteSelected removes the selected guests and clears the selection. It
// returns how many rows were selected.
func (g *Grid) DeleteSelected() int {
	ids := g.Selected()
	if len(ids) == 0 {
		return 0
	}
	g.store.DeleteMany(ids...)
	g.ClearSelection()
	return len(ids)
}
