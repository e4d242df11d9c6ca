package dispatch

import (
	"github.com/google/uuid"

	"github.com/EntixOG/RyseInventory/pkg/menu/version"
)

// ClickEvent is a click in a window the player has open.
type ClickEvent struct {
	Player   uuid.UUID
	WindowID int32
	Slot     int
	Raw      version.RawClick
}

// DragEvent is a finished drag over Slots.
type DragEvent struct {
	Player   uuid.UUID
	WindowID int32
	Slots    []int
}

// CloseEvent is sent when the player closes a window.
type CloseEvent struct {
	Player   uuid.UUID
	WindowID int32
}

// OpenEvent is sent when any window opens for the player.
type OpenEvent struct {
	Player   uuid.UUID
	WindowID int32
}

// Listener receives inventory events from the host. OnClick and OnDrag
// return true when the host should cancel the interaction.
type Listener interface {
	OnClick(e ClickEvent) (cancel bool)
	OnDrag(e DragEvent) (cancel bool)
	OnClose(e CloseEvent)
	OnOpen(e OpenEvent)
	OnQuit(player uuid.UUID)
}

// Source delivers host events to subscribed listeners on the main thread.
type Source interface {
	// Subscribe registers l and returns a function that removes it.
	Subscribe(l Listener) (unsubscribe func())
}
