package layout

import (
	"errors"
	"slices"
	"testing"

	"github.com/EntixOG/RyseInventory/pkg/menu/item"
)

func pane() *item.DisplayItem  { return item.Static("minecraft:gray_stained_glass_pane", " ") }
func arrow() *item.DisplayItem { return item.Static("minecraft:arrow", "page") }

func TestPagedCapacity(t *testing.T) {
	tests := []struct {
		rows           int
		capacity       int
		prevAt, nextAt int
	}{
		{6, 45, 45, 53},
		{3, 18, 18, 26},
		{1, 7, 0, 8},
		{9, 45, 45, 53}, // clamped to six rows
	}
	for _, tt := range tests {
		l := Paged(tt.rows, pane(), arrow(), arrow())
		if got := l.Capacity(); got != tt.capacity {
			t.Errorf("Paged(%d).Capacity() = %d, want %d", tt.rows, got, tt.capacity)
		}
		if d, ok := l.Decoration(tt.prevAt); !ok || d.Nav != NavPrevious {
			t.Errorf("Paged(%d): slot %d nav = %v, want previous", tt.rows, tt.prevAt, d.Nav)
		}
		if d, ok := l.Decoration(tt.nextAt); !ok || d.Nav != NavNext {
			t.Errorf("Paged(%d): slot %d nav = %v, want next", tt.rows, tt.nextAt, d.Nav)
		}
		if err := l.Validate(); err != nil {
			t.Errorf("Paged(%d).Validate() = %v", tt.rows, err)
		}
	}
}

func TestBindPlacesItemsAndDecorations(t *testing.T) {
	l := Paged(6, pane(), arrow(), arrow())
	page := make([]*item.DisplayItem, 10)
	for i := range page {
		page[i] = item.Static("minecraft:stone", "s")
	}

	b := Bind(l, page)
	if len(b) != 54 {
		t.Fatalf("len(Bind) = %d, want 54", len(b))
	}
	for i, it := range page {
		c := b.At(i)
		if c.Kind != CellItem || c.Item != it || c.Index != i {
			t.Errorf("slot %d = %+v, want item %d", i, c, i)
		}
	}
	for slot := 10; slot < 45; slot++ {
		if b.At(slot).Kind != CellEmpty {
			t.Errorf("slot %d kind = %v, want empty", slot, b.At(slot).Kind)
		}
	}
	for slot := 45; slot < 54; slot++ {
		if b.At(slot).Kind != CellDecoration {
			t.Errorf("slot %d kind = %v, want decoration", slot, b.At(slot).Kind)
		}
	}
	if c := b.At(99); c.Kind != CellEmpty {
		t.Errorf("At(99) kind = %v, want empty", c.Kind)
	}
}

func TestBindDecorationWinsOverlap(t *testing.T) {
	deco := pane()
	l := New(1).ContentArea(0, 1, 2)
	l.Fill(deco, 1)
	if err := l.Validate(); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("Validate() = %v, want ErrInvalidLayout", err)
	}

	page := []*item.DisplayItem{item.Static("minecraft:stone", "a"), item.Static("minecraft:stone", "b"), item.Static("minecraft:stone", "c")}
	b := Bind(l, page)
	if c := b.At(1); c.Kind != CellDecoration || c.Shown() != deco {
		t.Errorf("slot 1 = %+v, want the decoration", c)
	}
	if c := b.At(2); c.Item != page[2] {
		t.Errorf("slot 2 shows the wrong item")
	}
}

func TestPageItemsRoundTrip(t *testing.T) {
	layouts := map[string]*Layout{
		"paged":     Paged(4, pane(), arrow(), arrow()),
		"border":    New(5).Border(pane()),
		"vertical":  New(3).Iterate(0, -1, Vertical),
		"blacklist": New(2).Iterate(2, 15, Horizontal, 4, 5),
	}
	for name, l := range layouts {
		page := make([]*item.DisplayItem, l.Capacity())
		for i := range page {
			page[i] = item.Static("minecraft:stone", "s")
		}
		got := Bind(l, page).PageItems()
		if !slices.Equal(got, page) {
			t.Errorf("%s: PageItems() does not round trip (%d vs %d items)", name, len(got), len(page))
		}
	}
}

func TestIterate(t *testing.T) {
	tests := []struct {
		name string
		l    *Layout
		want []int
	}{
		{"horizontal", New(2).Iterate(7, 11, Horizontal), []int{7, 8, 9, 10, 11}},
		{"vertical", New(2).Iterate(0, 3, Vertical), []int{0, 1, 2, 3}},
		{"vertical order", New(2).Iterate(0, 10, Vertical), []int{0, 9, 1, 10, 2, 3, 4, 5, 6, 7, 8}},
		{"blacklist", New(1).Iterate(0, -1, Horizontal, 0, 8), []int{1, 2, 3, 4, 5, 6, 7}},
		{"empty", New(1).Iterate(5, 2, Horizontal), []int{}},
	}
	for _, tt := range tests {
		if got := tt.l.ContentSlots(); !slices.Equal(got, tt.want) {
			t.Errorf("%s: ContentSlots() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestBorderLeavesInterior(t *testing.T) {
	l := New(4).Border(pane())
	if got := l.Capacity(); got != 14 {
		t.Errorf("Capacity() = %d, want 14", got)
	}
	if got := l.ContentSlots()[0]; got != 10 {
		t.Errorf("first content slot = %d, want 10", got)
	}
}

func TestDiff(t *testing.T) {
	l := Paged(2, pane(), arrow(), arrow())
	a := item.Static("minecraft:stone", "a")
	b := item.Static("minecraft:stone", "b")

	first := Bind(l, []*item.DisplayItem{a})
	if got := len(first.Diff(nil)); got != 18 {
		t.Errorf("Diff(nil) touched %d slots, want 18", got)
	}
	same := Bind(l, []*item.DisplayItem{a})
	if got := same.Diff(first); len(got) != 0 {
		t.Errorf("Diff of identical bindings = %v, want none", got)
	}
	changed := Bind(l, []*item.DisplayItem{b, a})
	if got := changed.Diff(first); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("Diff = %v, want [0 1]", got)
	}
}

func TestParseTemplate(t *testing.T) {
	src := []byte(`
rows: 3
pattern:
  - "#########"
  - "#.......#"
  - "<###x###>"
keys:
  "#": {material: gray_stained_glass_pane, name: " "}
  "<": {material: arrow, name: Previous, nav: previous}
  ">": {material: ARROW, name: Next, nav: next}
  "x": {material: barrier, name: Close, nav: close}
`)
	l, err := ParseTemplate(src)
	if err != nil {
		t.Fatalf("ParseTemplate: %v", err)
	}
	if l.Rows() != 3 {
		t.Errorf("Rows() = %d, want 3", l.Rows())
	}
	if got, want := l.ContentSlots(), []int{10, 11, 12, 13, 14, 15, 16}; !slices.Equal(got, want) {
		t.Errorf("ContentSlots() = %v, want %v", got, want)
	}
	navs := map[int]Nav{18: NavPrevious, 22: NavClose, 26: NavNext, 0: NavNone}
	for slot, want := range navs {
		d, ok := l.Decoration(slot)
		if !ok || d.Nav != want {
			t.Errorf("slot %d nav = %v (decorated %v), want %v", slot, d.Nav, ok, want)
		}
	}
	if d, _ := l.Decoration(26); d.Item.Icon().Material != "minecraft:arrow" {
		t.Errorf("material = %q, want minecraft:arrow", d.Item.Icon().Material)
	}
	if err := l.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestParseTemplateErrors(t *testing.T) {
	tests := map[string]string{
		"bad yaml":      "rows: [",
		"too many rows": "rows: 7\n",
		"wide line":     "pattern: [\"..........\"]\n",
		"long key":      "pattern: [\".\"]\nkeys:\n  ab: {material: stone}\n",
		"bad material":  "pattern: [\"#\"]\nkeys:\n  \"#\": {material: not_a_real_block}\n",
		"bad nav":       "pattern: [\"#\"]\nkeys:\n  \"#\": {material: stone, nav: sideways}\n",
		"extra lines":   "rows: 1\npattern: [\".\", \".\"]\n",
	}
	for name, src := range tests {
		if _, err := ParseTemplate([]byte(src)); !errors.Is(err, ErrInvalidLayout) {
			t.Errorf("%s: error = %v, want ErrInvalidLayout", name, err)
		}
	}
}
