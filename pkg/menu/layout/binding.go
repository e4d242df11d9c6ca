package layout

import "github.com/EntixOG/RyseInventory/pkg/menu/item"

// CellKind is what a physical slot shows.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellItem
	CellDecoration
)

// Cell is the projection of one slot. For CellItem, Index is the position
// of the item on its page.
type Cell struct {
	Kind       CellKind
	Item       *item.DisplayItem
	Decoration Decoration
	Index      int
}

// Same reports whether two cells render identically.
func (c Cell) Same(o Cell) bool {
	if c.Kind != o.Kind {
		return false
	}
	switch c.Kind {
	case CellItem:
		return c.Item == o.Item
	case CellDecoration:
		return c.Decoration == o.Decoration
	}
	return true
}

// Shown returns the display item rendered in the cell, or nil when empty.
func (c Cell) Shown() *item.DisplayItem {
	switch c.Kind {
	case CellItem:
		return c.Item
	case CellDecoration:
		return c.Decoration.Item
	}
	return nil
}

// Binding maps every slot of a menu to a cell.
type Binding []Cell

// Bind projects page onto the layout. Items fill the content slots in
// order, then decorations are laid over them.
func Bind(l *Layout, page []*item.DisplayItem) Binding {
	b := make(Binding, l.Size())
	for i, slot := range l.ContentSlots() {
		if i >= len(page) {
			break
		}
		if slot < 0 || slot >= len(b) {
			continue
		}
		b[slot] = Cell{Kind: CellItem, Item: page[i], Index: i}
	}
	for slot, d := range l.decorations {
		b[slot] = Cell{Kind: CellDecoration, Decoration: d}
	}
	return b
}

// At returns the cell at slot; slots outside the binding are empty.
func (b Binding) At(slot int) Cell {
	if slot < 0 || slot >= len(b) {
		return Cell{}
	}
	return b[slot]
}

// PageItems reads the content items back in page order.
func (b Binding) PageItems() []*item.DisplayItem {
	var byIndex []*item.DisplayItem
	for _, c := range b {
		if c.Kind != CellItem {
			continue
		}
		for len(byIndex) <= c.Index {
			byIndex = append(byIndex, nil)
		}
		byIndex[c.Index] = c.Item
	}
	return byIndex
}

// Diff returns the slots whose cells differ from prev. A nil or differently
// sized prev yields every slot.
func (b Binding) Diff(prev Binding) []int {
	var out []int
	for slot, c := range b {
		if len(prev) != len(b) || !c.Same(prev[slot]) {
			out = append(out, slot)
		}
	}
	return out
}
