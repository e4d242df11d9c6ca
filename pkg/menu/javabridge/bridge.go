// Package javabridge turns serverbound Java Edition container packets into
// dispatch events.
package javabridge

import (
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/go-mclib/data/pkg/data/packet_ids"
	"github.com/go-mclib/data/pkg/packets"
	jp "github.com/go-mclib/protocol/java_protocol"
	"github.com/google/uuid"

	"github.com/EntixOG/RyseInventory/pkg/menu/dispatch"
	"github.com/EntixOG/RyseInventory/pkg/menu/schedule"
	"github.com/EntixOG/RyseInventory/pkg/menu/version"
)

const modeDrag = 5

// Hub is a dispatch.Source fed by player connections. Events are posted to
// the main thread before listeners see them.
type Hub struct {
	s      schedule.Scheduler
	logger *log.Logger

	mu        sync.Mutex
	listeners map[int]dispatch.Listener
	nextID    int
	onCancel  []func(player uuid.UUID, windowID int32)
}

var _ dispatch.Source = (*Hub)(nil)

// NewHub creates a hub that delivers events through s.
func NewHub(s schedule.Scheduler, logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{s: s, logger: logger, listeners: make(map[int]dispatch.Listener)}
}

func (h *Hub) Subscribe(l dispatch.Listener) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	id := h.nextID
	h.listeners[id] = l
	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// OnCancel registers a callback run on the main thread when a listener
// cancels a click or drag. Servers use it to resend the window contents.
func (h *Hub) OnCancel(cb func(player uuid.UUID, windowID int32)) {
	h.mu.Lock()
	h.onCancel = append(h.onCancel, cb)
	h.mu.Unlock()
}

func (h *Hub) snapshot() ([]dispatch.Listener, []func(uuid.UUID, int32)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ls := make([]dispatch.Listener, 0, len(h.listeners))
	for _, l := range h.listeners {
		ls = append(ls, l)
	}
	return ls, slices.Clone(h.onCancel)
}

func (h *Hub) emit(fn func(l dispatch.Listener) bool, player uuid.UUID, windowID int32) {
	h.s.Post(func() {
		ls, cbs := h.snapshot()
		cancel := false
		for _, l := range ls {
			if fn(l) {
				cancel = true
			}
		}
		if cancel {
			for _, cb := range cbs {
				cb(player, windowID)
			}
		}
	})
}

// Conn returns the packet handler for one player connection.
func (h *Hub) Conn(player uuid.UUID) *Conn {
	return &Conn{hub: h, player: player}
}

// Conn handles the serverbound packets of one player.
type Conn struct {
	hub    *Hub
	player uuid.UUID

	mu        sync.Mutex
	dragging  bool
	dragSlots []int
}

// HandlePacket decodes container packets. Other packets are ignored.
func (c *Conn) HandlePacket(pkt *jp.WirePacket) {
	switch pkt.PacketID {
	case packet_ids.C2SContainerClickID:
		var d packets.C2SContainerClick
		if err := pkt.ReadInto(&d); err != nil {
			c.hub.logger.Warn("failed to read container click", "player", c.player, "err", err)
			return
		}
		c.Click(&d)
	case packet_ids.C2SContainerCloseID:
		var d packets.C2SContainerClose
		if err := pkt.ReadInto(&d); err != nil {
			c.hub.logger.Warn("failed to read container close", "player", c.player, "err", err)
			return
		}
		c.Close(&d)
	}
}

// Click forwards a decoded click. Drag stages are collected until the
// drag ends and then forwarded as one DragEvent.
func (c *Conn) Click(d *packets.C2SContainerClick) {
	windowID := int32(d.WindowId)
	mode, button, slot := int(d.Mode), int(d.Button), int(d.Slot)

	if mode == modeDrag {
		c.drag(windowID, button, slot)
		return
	}
	ev := dispatch.ClickEvent{
		Player:   c.player,
		WindowID: windowID,
		Slot:     slot,
		Raw:      version.RawClick{Mode: mode, Button: button},
	}
	c.hub.emit(func(l dispatch.Listener) bool { return l.OnClick(ev) }, c.player, windowID)
}

// drag stages: buttons 0/4/8 start, 1/5/9 add a slot, 2/6/10 end, for the
// left, right and middle mouse button.
func (c *Conn) drag(windowID int32, button, slot int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch button % 4 {
	case 0:
		c.dragging = true
		c.dragSlots = nil
	case 1:
		if c.dragging {
			c.dragSlots = append(c.dragSlots, slot)
		}
	case 2:
		if !c.dragging {
			return
		}
		ev := dispatch.DragEvent{Player: c.player, WindowID: windowID, Slots: c.dragSlots}
		c.dragging = false
		c.dragSlots = nil
		c.hub.emit(func(l dispatch.Listener) bool { return l.OnDrag(ev) }, c.player, windowID)
	}
}

// Close forwards a decoded close.
func (c *Conn) Close(d *packets.C2SContainerClose) {
	ev := dispatch.CloseEvent{Player: c.player, WindowID: int32(d.WindowId)}
	c.hub.emit(func(l dispatch.Listener) bool { l.OnClose(ev); return false }, c.player, ev.WindowID)
}

// Opened reports that the server opened windowID for the player.
func (c *Conn) Opened(windowID int32) {
	ev := dispatch.OpenEvent{Player: c.player, WindowID: windowID}
	c.hub.emit(func(l dispatch.Listener) bool { l.OnOpen(ev); return false }, c.player, windowID)
}

// Quit reports that the player disconnected.
func (c *Conn) Quit() {
	c.mu.Lock()
	c.dragging = false
	c.dragSlots = nil
	c.mu.Unlock()
	c.hub.emit(func(l dispatch.Listener) bool { l.OnQuit(c.player); return false }, c.player, 0)
}
