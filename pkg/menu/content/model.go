// Package content holds the paged item model a session renders.
package content

import (
	"errors"
	"fmt"
	"slices"

	"github.com/EntixOG/RyseInventory/pkg/menu/item"
)

var (
	// ErrOutOfRange is returned for a page index outside [0, PageCount()-1].
	ErrOutOfRange = errors.New("page out of range")
	// ErrItemNotFound is returned when an item reference is not in the model.
	ErrItemNotFound = errors.New("item not in model")
)

// Model is an ordered, paged collection of display items. Page p always
// holds items [p*capacity, (p+1)*capacity); at least one page exists even
// when the model is empty so decorations have something to sit on.
//
// Model is not safe for concurrent use. Sessions only touch it on the main
// thread.
type Model struct {
	capacity int
	items    []*item.DisplayItem
	current  int
	dirty    bool
}

// New creates an empty model whose pages hold capacity items each.
func New(capacity int) *Model {
	if capacity < 1 {
		capacity = 1
	}
	return &Model{capacity: capacity, dirty: true}
}

// Capacity returns the number of items per page.
func (m *Model) Capacity() int { return m.capacity }

// Len returns the number of items across all pages.
func (m *Model) Len() int { return len(m.items) }

// PageCount returns max(1, ceil(Len()/Capacity())).
func (m *Model) PageCount() int {
	if len(m.items) == 0 {
		return 1
	}
	return (len(m.items) + m.capacity - 1) / m.capacity
}

// CurrentPage returns the zero-based index of the displayed page.
func (m *Model) CurrentPage() int { return m.current }

// IsFirst reports whether the current page is the first one.
func (m *Model) IsFirst() bool { return m.current == 0 }

// IsLast reports whether the current page is the last one.
func (m *Model) IsLast() bool { return m.current == m.PageCount()-1 }

// Add appends an item to the last page, opening a new page when it is full.
func (m *Model) Add(it *item.DisplayItem) (page, slot int) {
	m.items = append(m.items, it)
	m.dirty = true
	idx := len(m.items) - 1
	return idx / m.capacity, idx % m.capacity
}

// AddAll appends items in order.
func (m *Model) AddAll(items ...*item.DisplayItem) {
	for _, it := range items {
		m.Add(it)
	}
}

// Remove deletes an item by identity. Every later item moves up by one
// slot, crossing into the previous page where needed, so pages stay full
// and insertion order is kept.
func (m *Model) Remove(it *item.DisplayItem) error {
	idx := slices.Index(m.items, it)
	if idx < 0 {
		return ErrItemNotFound
	}
	m.removeIndex(idx)
	return nil
}

// RemoveAt deletes the item shown at slot of page.
func (m *Model) RemoveAt(page, slot int) (*item.DisplayItem, error) {
	idx, err := m.index(page, slot)
	if err != nil {
		return nil, err
	}
	it := m.items[idx]
	m.removeIndex(idx)
	return it, nil
}

func (m *Model) removeIndex(idx int) {
	m.items = slices.Delete(m.items, idx, idx+1)
	m.dirty = true
	if last := m.PageCount() - 1; m.current > last {
		m.current = last
	}
}

// Replace swaps old for repl in place.
func (m *Model) Replace(old, repl *item.DisplayItem) error {
	idx := slices.Index(m.items, old)
	if idx < 0 {
		return ErrItemNotFound
	}
	m.items[idx] = repl
	m.dirty = true
	return nil
}

// Set replaces whatever sits at slot of page.
func (m *Model) Set(page, slot int, it *item.DisplayItem) error {
	idx, err := m.index(page, slot)
	if err != nil {
		return err
	}
	m.items[idx] = it
	m.dirty = true
	return nil
}

// Get returns the item at slot of page, or nil.
func (m *Model) Get(page, slot int) *item.DisplayItem {
	idx, err := m.index(page, slot)
	if err != nil {
		return nil
	}
	return m.items[idx]
}

// Locate returns where an item currently sits.
func (m *Model) Locate(it *item.DisplayItem) (page, slot int, ok bool) {
	idx := slices.Index(m.items, it)
	if idx < 0 {
		return 0, 0, false
	}
	return idx / m.capacity, idx % m.capacity, true
}

// FindByKey returns every item tagged with key.
func (m *Model) FindByKey(key string) []*item.DisplayItem {
	var out []*item.DisplayItem
	for _, it := range m.items {
		if it.Key() == key {
			out = append(out, it)
		}
	}
	return out
}

// Clear drops every item and returns to the first page.
func (m *Model) Clear() {
	m.items = nil
	m.current = 0
	m.dirty = true
}

// Page returns a copy of the items on page n.
func (m *Model) Page(n int) ([]*item.DisplayItem, error) {
	if err := m.checkPage(n); err != nil {
		return nil, err
	}
	start := n * m.capacity
	end := min(start+m.capacity, len(m.items))
	return slices.Clone(m.items[start:end]), nil
}

// CurrentItems returns a copy of the items on the current page.
func (m *Model) CurrentItems() []*item.DisplayItem {
	page, _ := m.Page(m.current)
	return page
}

// Items returns a copy of every item in display order.
func (m *Model) Items() []*item.DisplayItem { return slices.Clone(m.items) }

// SetPage changes the current page. An invalid index leaves the model unchanged.
func (m *Model) SetPage(n int) error {
	if err := m.checkPage(n); err != nil {
		return err
	}
	if n != m.current {
		m.current = n
		m.dirty = true
	}
	return nil
}

// Next moves to the following page. It returns false on the last page.
func (m *Model) Next() bool {
	if m.IsLast() {
		return false
	}
	m.current++
	m.dirty = true
	return true
}

// Previous moves to the preceding page. It returns false on the first page.
func (m *Model) Previous() bool {
	if m.IsFirst() {
		return false
	}
	m.current--
	m.dirty = true
	return true
}

// Dirty reports whether the model changed since the last ClearDirty.
func (m *Model) Dirty() bool { return m.dirty }

// MarkDirty forces the next render request to redraw.
func (m *Model) MarkDirty() { m.dirty = true }

// ClearDirty is called by the renderer once the model has been drawn.
func (m *Model) ClearDirty() { m.dirty = false }

func (m *Model) checkPage(n int) error {
	if n < 0 || n >= m.PageCount() {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrOutOfRange, n, m.PageCount()-1)
	}
	return nil
}

func (m *Model) index(page, slot int) (int, error) {
	if err := m.checkPage(page); err != nil {
		return 0, err
	}
	if slot < 0 || slot >= m.capacity {
		return 0, fmt.Errorf("%w: slot %d not in [0, %d]", ErrOutOfRange, slot, m.capacity-1)
	}
	idx := page*m.capacity + slot
	if idx >= len(m.items) {
		return 0, fmt.Errorf("%w: slot %d of page %d is empty", ErrItemNotFound, slot, page)
	}
	return idx, nil
}
