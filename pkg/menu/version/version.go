// Package version hides the differences between server revisions behind an
// Adapter that opens, paints and closes chest views for one player.
package version

import (
	"errors"

	"github.com/google/uuid"

	"github.com/EntixOG/RyseInventory/pkg/menu/item"
	"github.com/EntixOG/RyseInventory/pkg/menu/layout"
)

var (
	// ErrAdapterUnsupported is returned by Select when no shim covers the server version.
	ErrAdapterUnsupported = errors.New("unsupported server version")
	// ErrInvalidSize is returned when a view is not a whole number of 9-slot rows.
	ErrInvalidSize = errors.New("invalid view size")
)

// MenuType is the container type from the minecraft:menu registry.
type MenuType int32

const (
	MenuGeneric9x1 MenuType = 0
	MenuGeneric9x2 MenuType = 1
	MenuGeneric9x3 MenuType = 2 // single chest, barrel
	MenuGeneric9x4 MenuType = 3
	MenuGeneric9x5 MenuType = 4
	MenuGeneric9x6 MenuType = 5 // double chest
)

// MenuFor returns the generic chest type with the given number of rows.
func MenuFor(rows int) (MenuType, bool) {
	if rows < layout.MinRows || rows > layout.MaxRows {
		return 0, false
	}
	return MenuGeneric9x1 + MenuType(rows-1), true
}

// Rows returns the number of 9-slot rows of a generic chest type.
func (m MenuType) Rows() int { return int(m) + 1 }

// Window describes a container the host should show.
type Window struct {
	ID    int32
	Menu  MenuType
	Title string
}

// Stack is the rendered form of a slot. A zero Count means an empty slot.
type Stack struct {
	ItemID   int32
	Material string
	Count    int
	Name     string
	Lore     []string
	Glint    bool
}

// Empty reports whether the stack clears its slot.
func (s Stack) Empty() bool { return s.Count == 0 }

// Host is the inventory surface of the server.
type Host interface {
	OpenWindow(player uuid.UUID, w Window) error
	SetSlot(player uuid.UUID, windowID, stateID int32, slot int, s Stack) error
	CloseWindow(player uuid.UUID, windowID int32) error
}

// TitleUpdater is implemented by hosts that can retitle an open window
// without reopening it.
type TitleUpdater interface {
	SetWindowTitle(player uuid.UUID, windowID int32, title string) error
}

// View is the handle of one open container.
type View struct {
	Player   uuid.UUID
	WindowID int32
	Menu     MenuType
	Size     int
	Title    string

	stateID int32
}

// StateID returns the last state id sent for the view.
func (v *View) StateID() int32 { return v.stateID }

// RawClick is a window click as the client sent it.
type RawClick struct {
	Mode   int
	Button int
}

// Adapter performs inventory operations for one server revision.
type Adapter interface {
	Name() string
	Version() string

	OpenView(player uuid.UUID, title string, size int) (*View, error)
	// Reopen shows the view again under a new window id. Every slot must be
	// rendered again afterwards.
	Reopen(v *View) error
	RenderSlot(v *View, index int, cell layout.Cell) error
	// Retitle changes the title. When reopened is true the view was sent
	// again and must be fully re-rendered.
	Retitle(v *View, title string) (reopened bool, err error)
	CloseView(v *View) error

	ClassifyClick(raw RawClick) item.ClickKind
}
