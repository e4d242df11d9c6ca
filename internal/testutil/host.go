// Package testutil provides a recording in-memory host for package tests.
package testutil

import (
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/EntixOG/RyseInventory/pkg/menu/dispatch"
	"github.com/EntixOG/RyseInventory/pkg/menu/prompt"
	"github.com/EntixOG/RyseInventory/pkg/menu/version"
)

// Screen is what one player currently sees.
type Screen struct {
	Window version.Window
	Open   bool
	Slots  map[int]version.Stack
}

// Host records every inventory call and lets tests fire events back.
type Host struct {
	// FailOpen and FailSlot make the matching calls fail.
	FailOpen error
	FailSlot error

	mu        sync.Mutex
	screens   map[uuid.UUID]*Screen
	opens     map[uuid.UUID]int
	closes    map[uuid.UUID]int
	setSlots  int
	listeners map[int]dispatch.Listener
	nextSub   int
	prompts   map[uuid.UUID]pendingPrompt
}

type pendingPrompt struct {
	prompt prompt.Prompt
	reply  func(string, bool)
}

// NewHost creates an empty host.
func NewHost() *Host {
	return &Host{
		screens:   make(map[uuid.UUID]*Screen),
		opens:     make(map[uuid.UUID]int),
		closes:    make(map[uuid.UUID]int),
		listeners: make(map[int]dispatch.Listener),
		prompts:   make(map[uuid.UUID]pendingPrompt),
	}
}

func (h *Host) OpenWindow(player uuid.UUID, w version.Window) error {
	h.mu.Lock()
	if h.FailOpen != nil {
		err := h.FailOpen
		h.mu.Unlock()
		return err
	}
	h.screens[player] = &Screen{Window: w, Open: true, Slots: make(map[int]version.Stack)}
	h.opens[player]++
	ls := h.snapshotListeners()
	h.mu.Unlock()

	for _, l := range ls {
		l.OnOpen(dispatch.OpenEvent{Player: player, WindowID: w.ID})
	}
	return nil
}

func (h *Host) SetSlot(player uuid.UUID, windowID, _ int32, slot int, s version.Stack) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.FailSlot != nil {
		return h.FailSlot
	}
	h.setSlots++
	sc, ok := h.screens[player]
	if !ok || sc.Window.ID != windowID {
		return nil
	}
	if s.Empty() {
		delete(sc.Slots, slot)
	} else {
		sc.Slots[slot] = s
	}
	return nil
}

func (h *Host) CloseWindow(player uuid.UUID, windowID int32) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closes[player]++
	if sc, ok := h.screens[player]; ok && sc.Window.ID == windowID {
		sc.Open = false
	}
	return nil
}

// Screen returns a copy of what player sees.
func (h *Host) Screen(player uuid.UUID) (Screen, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sc, ok := h.screens[player]
	if !ok {
		return Screen{}, false
	}
	cp := *sc
	cp.Slots = maps.Clone(sc.Slots)
	return cp, true
}

// Opens returns how many windows were opened for player.
func (h *Host) Opens(player uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.opens[player]
}

// Closes returns how many windows were closed for player by the server.
func (h *Host) Closes(player uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closes[player]
}

// SlotWrites returns the number of SetSlot calls so far.
func (h *Host) SlotWrites() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.setSlots
}

// Subscribe implements dispatch.Source.
func (h *Host) Subscribe(l dispatch.Listener) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextSub++
	id := h.nextSub
	h.listeners[id] = l
	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Listeners returns the number of subscribed listeners.
func (h *Host) Listeners() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

func (h *Host) snapshotListeners() []dispatch.Listener {
	ls := make([]dispatch.Listener, 0, len(h.listeners))
	for _, l := range h.listeners {
		ls = append(ls, l)
	}
	return ls
}

func (h *Host) window(player uuid.UUID) (int32, []dispatch.Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	var id int32
	if sc, ok := h.screens[player]; ok {
		id = sc.Window.ID
	}
	return id, h.snapshotListeners()
}

// Click fires a click on the player's current window and reports whether
// any listener cancelled it.
func (h *Host) Click(player uuid.UUID, slot, mode, button int) bool {
	id, ls := h.window(player)
	cancel := false
	for _, l := range ls {
		if l.OnClick(dispatch.ClickEvent{Player: player, WindowID: id, Slot: slot, Raw: version.RawClick{Mode: mode, Button: button}}) {
			cancel = true
		}
	}
	return cancel
}

// Drag fires a drag over slots of the player's current window.
func (h *Host) Drag(player uuid.UUID, slots ...int) bool {
	id, ls := h.window(player)
	cancel := false
	for _, l := range ls {
		if l.OnDrag(dispatch.DragEvent{Player: player, WindowID: id, Slots: slots}) {
			cancel = true
		}
	}
	return cancel
}

// PlayerClose simulates the player closing their current window.
func (h *Host) PlayerClose(player uuid.UUID) {
	h.mu.Lock()
	var id int32
	if sc, ok := h.screens[player]; ok {
		id = sc.Window.ID
		sc.Open = false
	}
	ls := h.snapshotListeners()
	h.mu.Unlock()
	for _, l := range ls {
		l.OnClose(dispatch.CloseEvent{Player: player, WindowID: id})
	}
}

// Quit simulates the player disconnecting.
func (h *Host) Quit(player uuid.UUID) {
	h.mu.Lock()
	delete(h.screens, player)
	ls := h.snapshotListeners()
	h.mu.Unlock()
	for _, l := range ls {
		l.OnQuit(player)
	}
}

// ShowPrompt implements prompt.Prompter. The prompt waits for Reply.
func (h *Host) ShowPrompt(player uuid.UUID, p prompt.Prompt, reply func(string, bool)) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prompts[player] = pendingPrompt{prompt: p, reply: reply}
	return nil
}

// Prompt returns the prompt currently shown to player.
func (h *Host) Prompt(player uuid.UUID) (prompt.Prompt, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	pp, ok := h.prompts[player]
	return pp.prompt, ok
}

// Reply answers the pending prompt of player.
func (h *Host) Reply(player uuid.UUID, text string, cancelled bool) bool {
	h.mu.Lock()
	pp, ok := h.prompts[player]
	delete(h.prompts, player)
	h.mu.Unlock()
	if ok {
		pp.reply(text, cancelled)
	}
	return ok
}

// TitleHost is a Host that can also retitle windows in place.
type TitleHost struct {
	*Host
	Titles []string
}

// NewTitleHost creates a host that implements version.TitleUpdater.
func NewTitleHost() *TitleHost { return &TitleHost{Host: NewHost()} }

func (t *TitleHost) SetWindowTitle(player uuid.UUID, windowID int32, title string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sc, ok := t.screens[player]; ok && sc.Window.ID == windowID {
		sc.Window.Title = title
	}
	t.Titles = append(t.Titles, title)
	return nil
}
