package version

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/EntixOG/RyseInventory/pkg/menu/item"
	"github.com/EntixOG/RyseInventory/pkg/menu/layout"
)

const (
	maxWindowID = 100
	maxStack    = 64
)

// base carries the behaviour shared by every shim.
type base struct {
	host    Host
	name    string
	version string

	// stateIDs is set on revisions whose slot updates carry a state id.
	stateIDs bool
	// nativeTitle is set on revisions where the window title can change in place.
	nativeTitle bool

	mu      sync.Mutex
	windows map[uuid.UUID]int32
}

func newBase(host Host, name, version string) *base {
	return &base{host: host, name: name, version: version, windows: make(map[uuid.UUID]int32)}
}

func (b *base) Name() string { return b.name }

func (b *base) Version() string { return b.version }

// nextWindowID cycles through 1..100 per player like the vanilla server.
func (b *base) nextWindowID(player uuid.UUID) int32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.windows[player]%maxWindowID + 1
	b.windows[player] = id
	return id
}

func (b *base) OpenView(player uuid.UUID, title string, size int) (*View, error) {
	if size <= 0 || size%layout.Columns != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	menu, ok := MenuFor(size / layout.Columns)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	v := &View{Player: player, Menu: menu, Size: size, Title: title}
	if err := b.Reopen(v); err != nil {
		return nil, err
	}
	return v, nil
}

func (b *base) Reopen(v *View) error {
	prev := v.WindowID
	// set first: hosts may report the open before OpenWindow returns
	v.WindowID = b.nextWindowID(v.Player)
	v.stateID = 0
	if err := b.host.OpenWindow(v.Player, Window{ID: v.WindowID, Menu: v.Menu, Title: v.Title}); err != nil {
		id := v.WindowID
		v.WindowID = prev
		return fmt.Errorf("open window %d: %w", id, err)
	}
	return nil
}

func (b *base) RenderSlot(v *View, index int, cell layout.Cell) error {
	if index < 0 || index >= v.Size {
		return fmt.Errorf("slot %d outside view of %d", index, v.Size)
	}
	stack, err := StackOf(cell.Shown())
	if err != nil {
		return fmt.Errorf("render slot %d: %w", index, err)
	}
	if b.stateIDs {
		v.stateID++
	}
	return b.host.SetSlot(v.Player, v.WindowID, v.stateID, index, stack)
}

func (b *base) Retitle(v *View, title string) (bool, error) {
	if b.nativeTitle {
		if tu, ok := b.host.(TitleUpdater); ok {
			if err := tu.SetWindowTitle(v.Player, v.WindowID, title); err != nil {
				return false, err
			}
			v.Title = title
			return false, nil
		}
	}
	prev := v.Title
	v.Title = title
	if err := b.Reopen(v); err != nil {
		v.Title = prev
		return true, err
	}
	return true, nil
}

func (b *base) CloseView(v *View) error {
	return b.host.CloseWindow(v.Player, v.WindowID)
}

// ClassifyClick maps window click modes to click kinds.
func (b *base) ClassifyClick(raw RawClick) item.ClickKind {
	switch raw.Mode {
	case 0:
		switch raw.Button {
		case 0:
			return item.ClickLeft
		case 1:
			return item.ClickRight
		}
	case 1:
		switch raw.Button {
		case 0:
			return item.ClickShiftLeft
		case 1:
			return item.ClickShiftRight
		}
	case 2:
		if raw.Button == 40 {
			return item.ClickOffhandSwap
		}
		if raw.Button >= 0 && raw.Button <= 8 {
			return item.ClickNumberKey
		}
	case 3:
		return item.ClickMiddle
	case 4:
		switch raw.Button {
		case 0:
			return item.ClickDrop
		case 1:
			return item.ClickControlDrop
		}
	case 5:
		return item.ClickDrag
	case 6:
		return item.ClickDouble
	}
	return item.ClickUnknown
}

// StackOf renders a display item. A nil item renders as an empty slot.
func StackOf(d *item.DisplayItem) (Stack, error) {
	if d == nil {
		return Stack{}, nil
	}
	icon := d.Icon()
	id, err := item.ResolveMaterial(icon.Material)
	if err != nil {
		return Stack{}, err
	}
	return Stack{
		ItemID:   id,
		Material: item.NormalizeMaterial(icon.Material),
		Count:    max(1, min(icon.Amount, maxStack)),
		Name:     icon.Name,
		Lore:     icon.Lore,
		Glint:    icon.Glow || d.IsHighlighted(),
	}, nil
}
