// Package dispatch routes host inventory events to the session of the
// player they belong to.
package dispatch

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/EntixOG/RyseInventory/pkg/menu/session"
	"github.com/EntixOG/RyseInventory/pkg/menu/version"
)

// ErrAlreadyAttached is returned by Attach on an attached dispatcher.
var ErrAlreadyAttached = errors.New("dispatcher already attached")

// Dispatcher is the Listener that feeds sessions.
type Dispatcher struct {
	registry *session.Registry
	adapter  version.Adapter
	logger   *log.Logger

	mu          sync.Mutex
	unsubscribe func()
	onQuit      []func(player uuid.UUID)
}

var _ Listener = (*Dispatcher)(nil)

// New creates a detached dispatcher.
func New(registry *session.Registry, adapter version.Adapter, logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.Default()
	}
	return &Dispatcher{registry: registry, adapter: adapter, logger: logger}
}

// Attach subscribes to src. It may be called once until Detach.
func (d *Dispatcher) Attach(src Source) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.unsubscribe != nil {
		return ErrAlreadyAttached
	}
	d.unsubscribe = src.Subscribe(d)
	return nil
}

// Detach unsubscribes from the source.
func (d *Dispatcher) Detach() {
	d.mu.Lock()
	unsub := d.unsubscribe
	d.unsubscribe = nil
	d.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Attached reports whether the dispatcher is subscribed.
func (d *Dispatcher) Attached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.unsubscribe != nil
}

// target returns the session owning windowID. Events for other windows are
// stale and dropped.
func (d *Dispatcher) target(player uuid.UUID, windowID int32) *session.Session {
	s := d.registry.Get(player)
	if s == nil {
		return nil
	}
	if v := s.View(); v == nil || v.WindowID != windowID {
		return nil
	}
	return s
}

func (d *Dispatcher) OnClick(e ClickEvent) (cancel bool) {
	s := d.target(e.Player, e.WindowID)
	if s == nil {
		return false
	}
	defer d.guard(s, "click", &cancel)
	kind := d.adapter.ClassifyClick(e.Raw)
	cancel, err := s.HandleClick(e.Slot, kind)
	if err != nil {
		d.logger.Debug("click on closed session", "session", s.ID(), "player", e.Player, "err", err)
	}
	return cancel
}

func (d *Dispatcher) OnDrag(e DragEvent) (cancel bool) {
	s := d.target(e.Player, e.WindowID)
	if s == nil {
		return false
	}
	defer d.guard(s, "drag", &cancel)
	cancel, err := s.HandleDrag(e.Slots)
	if err != nil {
		d.logger.Debug("drag on closed session", "session", s.ID(), "player", e.Player, "err", err)
	}
	return cancel
}

func (d *Dispatcher) OnClose(e CloseEvent) {
	s := d.target(e.Player, e.WindowID)
	if s == nil {
		return
	}
	defer d.guard(s, "close", nil)
	if err := s.HandleCloseAttempt(); err != nil {
		d.logger.Warn("close attempt", "session", s.ID(), "player", e.Player, "err", err)
	}
}

// OnOpen closes the player's session when some other window replaces it.
func (d *Dispatcher) OnOpen(e OpenEvent) {
	s := d.registry.Get(e.Player)
	if s == nil {
		return
	}
	if v := s.View(); v != nil && v.WindowID == e.WindowID {
		return
	}
	defer d.guard(s, "open", nil)
	s.CloseWith(session.ReasonReplaced)
}

// OnPlayerQuit registers a callback run after every disconnect, whether or
// not the player had a menu open.
func (d *Dispatcher) OnPlayerQuit(cb func(player uuid.UUID)) {
	d.mu.Lock()
	d.onQuit = append(d.onQuit, cb)
	d.mu.Unlock()
}

func (d *Dispatcher) OnQuit(player uuid.UUID) {
	if s := d.registry.Get(player); s != nil {
		d.closeOnQuit(s)
	}
	d.mu.Lock()
	cbs := slices.Clone(d.onQuit)
	d.mu.Unlock()
	for _, cb := range cbs {
		d.runQuitHook(player, cb)
	}
}

func (d *Dispatcher) closeOnQuit(s *session.Session) {
	defer d.guard(s, "quit", nil)
	s.CloseWith(session.ReasonDisconnect)
}

func (d *Dispatcher) runQuitHook(player uuid.UUID, cb func(uuid.UUID)) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("recovered panic in quit hook", "player", player, "panic", fmt.Sprint(r))
		}
	}()
	cb(player)
}

func (d *Dispatcher) guard(s *session.Session, event string, cancel *bool) {
	r := recover()
	if r == nil {
		return
	}
	d.logger.Error("recovered panic in event handler",
		"event", event, "session", s.ID(), "player", s.Player(), "panic", fmt.Sprint(r))
	if cancel != nil {
		*cancel = true
	}
}
