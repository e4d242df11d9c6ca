// Package layout describes where decorations and content go in a menu and
// projects a content page onto physical slots.
package layout

import (
	"errors"
	"fmt"
	"slices"

	"github.com/EntixOG/RyseInventory/pkg/menu/item"
)

const (
	// Columns is the width of every generic chest menu.
	Columns = 9
	MinRows = 1
	MaxRows = 6
)

// ErrInvalidLayout is returned for layouts that cannot be built or decoded.
var ErrInvalidLayout = errors.New("invalid layout")

// Nav is the navigation role of a decoration.
type Nav int

const (
	NavNone Nav = iota
	NavPrevious
	NavNext
	NavClose
)

func (n Nav) String() string {
	switch n {
	case NavPrevious:
		return "previous"
	case NavNext:
		return "next"
	case NavClose:
		return "close"
	}
	return "none"
}

// Decoration is a static slot shown on every page.
type Decoration struct {
	Item *item.DisplayItem
	Nav  Nav
}

// Direction is the fill order of an iterated content area.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

// Layout is the decoration and content arrangement of one menu size.
type Layout struct {
	rows        int
	decorations map[int]Decoration
	content     []int // nil means every undecorated slot, ascending
}

// New creates an empty layout with the given number of rows.
func New(rows int) *Layout {
	rows = max(MinRows, min(rows, MaxRows))
	return &Layout{rows: rows, decorations: make(map[int]Decoration)}
}

func (l *Layout) Rows() int { return l.rows }

func (l *Layout) Size() int { return l.rows * Columns }

// Slot converts a row and column to a slot index.
func Slot(row, column int) int { return row*Columns + column }

// Decorate places a decoration at slot. Out of range slots are ignored.
func (l *Layout) Decorate(slot int, d Decoration) *Layout {
	if slot >= 0 && slot < l.Size() {
		l.decorations[slot] = d
	}
	return l
}

// Fill decorates each listed slot with the same static item.
func (l *Layout) Fill(it *item.DisplayItem, slots ...int) *Layout {
	for _, s := range slots {
		l.Decorate(s, Decoration{Item: it})
	}
	return l
}

// Row decorates a whole row.
func (l *Layout) Row(row int, it *item.DisplayItem) *Layout {
	for c := range Columns {
		l.Decorate(Slot(row, c), Decoration{Item: it})
	}
	return l
}

// Border decorates the outer ring of the menu.
func (l *Layout) Border(it *item.DisplayItem) *Layout {
	for s := range l.Size() {
		row, col := s/Columns, s%Columns
		if row == 0 || row == l.rows-1 || col == 0 || col == Columns-1 {
			l.Decorate(s, Decoration{Item: it})
		}
	}
	return l
}

// Navigation places previous and next page buttons.
func (l *Layout) Navigation(prevSlot, nextSlot int, prev, next *item.DisplayItem) *Layout {
	l.Decorate(prevSlot, Decoration{Item: prev, Nav: NavPrevious})
	l.Decorate(nextSlot, Decoration{Item: next, Nav: NavNext})
	return l
}

// ContentArea sets the content slots explicitly, in display order.
func (l *Layout) ContentArea(slots ...int) *Layout {
	l.content = slices.Clone(slots)
	return l
}

// Iterate sets the content area to the slots between start and end
// (inclusive) walked in dir, skipping the blacklist. end < 0 runs to the
// last slot.
func (l *Layout) Iterate(start, end int, dir Direction, blacklist ...int) *Layout {
	if end < 0 || end >= l.Size() {
		end = l.Size() - 1
	}
	var order []int
	switch dir {
	case Vertical:
		for c := range Columns {
			for r := range l.rows {
				order = append(order, Slot(r, c))
			}
		}
	default:
		for s := range l.Size() {
			order = append(order, s)
		}
	}

	l.content = make([]int, 0, len(order))
	for _, s := range order {
		if s < start || s > end || slices.Contains(blacklist, s) {
			continue
		}
		l.content = append(l.content, s)
	}
	return l
}

// Decoration returns the decoration at slot, if any.
func (l *Layout) Decoration(slot int) (Decoration, bool) {
	d, ok := l.decorations[slot]
	return d, ok
}

// Decorations returns the decorated slots in ascending order.
func (l *Layout) Decorations() []int {
	out := make([]int, 0, len(l.decorations))
	for s := range l.decorations {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// ContentSlots returns the content slots in display order.
func (l *Layout) ContentSlots() []int {
	if l.content != nil {
		return slices.Clone(l.content)
	}
	out := make([]int, 0, l.Size()-len(l.decorations))
	for s := range l.Size() {
		if _, ok := l.decorations[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

// Capacity is the number of items one page can show.
func (l *Layout) Capacity() int { return len(l.ContentSlots()) }

// Validate reports configuration mistakes. A layout that fails validation
// still binds deterministically: decorations win over content.
func (l *Layout) Validate() error {
	var errs []error
	seen := make(map[int]bool)
	for _, s := range l.ContentSlots() {
		switch {
		case s < 0 || s >= l.Size():
			errs = append(errs, fmt.Errorf("content slot %d outside [0, %d)", s, l.Size()))
		case seen[s]:
			errs = append(errs, fmt.Errorf("content slot %d listed twice", s))
		default:
			if _, ok := l.decorations[s]; ok {
				errs = append(errs, fmt.Errorf("content slot %d overlaps a decoration", s))
			}
		}
		seen[s] = true
	}
	for _, s := range l.Decorations() {
		if l.decorations[s].Item == nil {
			errs = append(errs, fmt.Errorf("decoration at slot %d has no item", s))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidLayout, errors.Join(errs...))
}

// Paged builds the common paginated layout: content on the top rows-1 rows
// and a bottom bar holding filler plus previous/next buttons in the corners.
func Paged(rows int, filler, prev, next *item.DisplayItem) *Layout {
	l := New(rows)
	if l.rows == 1 {
		return l.Navigation(0, Columns-1, prev, next)
	}
	bottom := l.rows - 1
	l.Row(bottom, filler)
	return l.Navigation(Slot(bottom, 0), Slot(bottom, Columns-1), prev, next)
}
