package tui

import (
	"maps"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/EntixOG/RyseInventory/pkg/menu/dispatch"
	"github.com/EntixOG/RyseInventory/pkg/menu/prompt"
	"github.com/EntixOG/RyseInventory/pkg/menu/schedule"
	"github.com/EntixOG/RyseInventory/pkg/menu/version"
)

// Host shows the menus of one local player in the terminal. Inventory calls
// arrive on the main loop; key presses are posted back to it.
type Host struct {
	player uuid.UUID
	sched  schedule.Scheduler

	mu        sync.Mutex
	program   *tea.Program
	window    version.Window
	open      bool
	slots     map[int]version.Stack
	listeners map[int]dispatch.Listener
	nextID    int
	prompt    *pendingPrompt
}

type pendingPrompt struct {
	prompt prompt.Prompt
	reply  func(text string, cancelled bool)
}

var (
	_ version.Host         = (*Host)(nil)
	_ version.TitleUpdater = (*Host)(nil)
	_ dispatch.Source      = (*Host)(nil)
	_ prompt.Prompter      = (*Host)(nil)
)

// NewHost creates a host for player whose events are posted to sched.
func NewHost(player uuid.UUID, sched schedule.Scheduler) *Host {
	return &Host{
		player:    player,
		sched:     sched,
		slots:     make(map[int]version.Stack),
		listeners: make(map[int]dispatch.Listener),
	}
}

func (h *Host) Player() uuid.UUID { return h.player }

func (h *Host) attach(p *tea.Program) {
	h.mu.Lock()
	h.program = p
	h.mu.Unlock()
}

func (h *Host) redraw() {
	h.mu.Lock()
	p := h.program
	h.mu.Unlock()
	if p != nil {
		p.Send(redrawMsg{})
	}
}

func (h *Host) OpenWindow(player uuid.UUID, w version.Window) error {
	if player != h.player {
		return nil
	}
	h.mu.Lock()
	h.window = w
	h.open = true
	clear(h.slots)
	h.mu.Unlock()

	h.post(func(l dispatch.Listener) bool {
		l.OnOpen(dispatch.OpenEvent{Player: player, WindowID: w.ID})
		return false
	})
	h.redraw()
	return nil
}

func (h *Host) SetSlot(player uuid.UUID, windowID, _ int32, slot int, s version.Stack) error {
	h.mu.Lock()
	if player != h.player || !h.open || windowID != h.window.ID {
		h.mu.Unlock()
		return nil
	}
	if s.Empty() {
		delete(h.slots, slot)
	} else {
		h.slots[slot] = s
	}
	h.mu.Unlock()
	h.redraw()
	return nil
}

func (h *Host) CloseWindow(player uuid.UUID, windowID int32) error {
	h.mu.Lock()
	if player == h.player && windowID == h.window.ID {
		h.open = false
		clear(h.slots)
	}
	h.mu.Unlock()
	h.redraw()
	return nil
}

func (h *Host) SetWindowTitle(player uuid.UUID, windowID int32, title string) error {
	h.mu.Lock()
	if player == h.player && windowID == h.window.ID {
		h.window.Title = title
	}
	h.mu.Unlock()
	h.redraw()
	return nil
}

func (h *Host) Subscribe(l dispatch.Listener) func() {
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

func (h *Host) ShowPrompt(player uuid.UUID, p prompt.Prompt, reply func(string, bool)) error {
	h.mu.Lock()
	h.prompt = &pendingPrompt{prompt: p, reply: reply}
	prog := h.program
	h.mu.Unlock()
	if prog != nil {
		prog.Send(promptMsg{prompt: p})
	}
	return nil
}

// post delivers an event to every listener on the main loop.
func (h *Host) post(fn func(l dispatch.Listener) bool) {
	h.sched.Post(func() {
		h.mu.Lock()
		ls := make([]dispatch.Listener, 0, len(h.listeners))
		for _, l := range h.listeners {
			ls = append(ls, l)
		}
		h.mu.Unlock()
		for _, l := range ls {
			fn(l)
		}
	})
}

// snapshot is what the terminal draws.
type snapshot struct {
	window version.Window
	open   bool
	slots  map[int]version.Stack
}

func (h *Host) snapshot() snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return snapshot{window: h.window, open: h.open, slots: maps.Clone(h.slots)}
}

func (h *Host) click(slot, mode, button int) {
	h.mu.Lock()
	id := h.window.ID
	h.mu.Unlock()
	ev := dispatch.ClickEvent{Player: h.player, WindowID: id, Slot: slot, Raw: version.RawClick{Mode: mode, Button: button}}
	h.post(func(l dispatch.Listener) bool { return l.OnClick(ev) })
}

func (h *Host) closeByPlayer() {
	h.mu.Lock()
	id := h.window.ID
	h.open = false
	clear(h.slots)
	h.mu.Unlock()
	ev := dispatch.CloseEvent{Player: h.player, WindowID: id}
	h.post(func(l dispatch.Listener) bool { l.OnClose(ev); return false })
}

func (h *Host) quit() {
	h.post(func(l dispatch.Listener) bool { l.OnQuit(h.player); return false })
}

// answer resolves the pending prompt, if any.
func (h *Host) answer(text string, cancelled bool) bool {
	h.mu.Lock()
	p := h.prompt
	h.prompt = nil
	h.mu.Unlock()
	if p == nil {
		return false
	}
	p.reply(text, cancelled)
	return true
}
