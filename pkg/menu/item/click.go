package item

import "github.com/google/uuid"

// ClickKind is the normalized kind of a window click, independent of the
// server revision that produced it.
type ClickKind int

const (
	ClickUnknown ClickKind = iota
	ClickLeft
	ClickRight
	ClickShiftLeft
	ClickShiftRight
	ClickMiddle
	ClickDouble
	ClickDrop
	ClickControlDrop
	ClickNumberKey
	ClickOffhandSwap
	ClickDrag
)

var clickNames = [...]string{
	ClickUnknown:     "unknown",
	ClickLeft:        "left",
	ClickRight:       "right",
	ClickShiftLeft:   "shift_left",
	ClickShiftRight:  "shift_right",
	ClickMiddle:      "middle",
	ClickDouble:      "double",
	ClickDrop:        "drop",
	ClickControlDrop: "control_drop",
	ClickNumberKey:   "number_key",
	ClickOffhandSwap: "offhand_swap",
	ClickDrag:        "drag",
}

func (k ClickKind) String() string {
	if k < 0 || int(k) >= len(clickNames) {
		return "unknown"
	}
	return clickNames[k]
}

// IsShift reports whether the click moves stacks between inventories.
func (k ClickKind) IsShift() bool {
	return k == ClickShiftLeft || k == ClickShiftRight
}

// Controls is the slice of a session an action handler may drive.
type Controls interface {
	ID() uuid.UUID
	CurrentPage() int
	SetPage(n int) error
	Next() bool
	Previous() bool
	Close() error
}

// Click is handed to action handlers. It is only valid for the duration of
// the handler call.
type Click struct {
	Player  uuid.UUID
	Kind    ClickKind
	Slot    int
	Page    int
	Item    *DisplayItem
	Session Controls

	refresh bool
}

// Refresh asks the session to re-render once the handler returns.
func (c *Click) Refresh() { c.refresh = true }

// RefreshRequested reports whether the handler called Refresh.
func (c *Click) RefreshRequested() bool { return c.refresh }

// Action is a click handler attached to a DisplayItem.
type Action func(c *Click)
