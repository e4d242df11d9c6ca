// Package session runs one open menu for one player: it renders the content
// model through a layout, routes clicks to item actions and owns the tasks
// scheduled on the menu's behalf.
package session

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/EntixOG/RyseInventory/pkg/menu/content"
	"github.com/EntixOG/RyseInventory/pkg/menu/item"
	"github.com/EntixOG/RyseInventory/pkg/menu/layout"
	"github.com/EntixOG/RyseInventory/pkg/menu/schedule"
	"github.com/EntixOG/RyseInventory/pkg/menu/version"
)

// OutsideSlot is the slot index of a click outside the window.
const OutsideSlot = -999

var (
	// ErrOpenFailed is returned when the view could not be opened or painted.
	ErrOpenFailed = errors.New("open failed")
	// ErrSessionClosed is returned by every operation on a closing or closed session.
	ErrSessionClosed = errors.New("session closed")
)

// Env is what a session needs from its surroundings.
type Env struct {
	Adapter   version.Adapter
	Scheduler schedule.Scheduler
	Registry  *Registry
	Logger    *log.Logger
}

// Session is one open menu of one player. All methods except State, ID and
// Player must be called on the main thread.
type Session struct {
	id     uuid.UUID
	player uuid.UUID
	cfg    Config
	layout *layout.Layout
	model  *content.Model
	env    Env
	logger *log.Logger

	state   *atomic.Int32
	view    *version.View
	binding layout.Binding
	tasks   *schedule.Group
	reason  Reason
}

// Open shows cfg to player. Any session the player already has is closed
// first. A nil model gets an empty one sized to the layout.
func Open(env Env, player uuid.UUID, cfg Config, model *content.Model) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l := cfg.layout()
	if model == nil {
		model = content.New(l.Capacity())
	} else if model.Capacity() != l.Capacity() {
		return nil, fmt.Errorf("%w: model pages hold %d items, layout %d", ErrInvalidConfig, model.Capacity(), l.Capacity())
	}
	if env.Logger == nil {
		env.Logger = log.Default()
	}

	s := &Session{
		id:     uuid.New(),
		player: player,
		cfg:    cfg,
		layout: l,
		model:  model,
		env:    env,
		state:  atomic.NewInt32(int32(StateOpening)),
	}
	s.logger = env.Logger.With("session", s.id, "player", player)
	s.tasks = schedule.NewGroup(env.Scheduler, s.alive)

	if err := l.Validate(); err != nil {
		s.logger.Warn("layout has overlapping slots, decorations win", "err", err)
	}

	view, err := env.Adapter.OpenView(player, cfg.Title, l.Size())
	if err != nil {
		s.state.Store(int32(StateClosed))
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	s.view = view
	env.Registry.Put(player, s)

	if err := s.render(true); err != nil {
		s.state.Store(int32(StateClosed))
		s.tasks.CancelAll()
		env.Registry.Remove(player, s)
		if cerr := env.Adapter.CloseView(view); cerr != nil {
			s.logger.Warn("release view after failed open", "err", cerr)
		}
		s.view = nil
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}

	s.state.Store(int32(StateOpen))
	if u := cfg.Update; u != nil {
		if _, err := s.tasks.Every(u.Delay, u.Period, func() { u.Fn(s) }); err != nil {
			s.logger.Warn("start update task", "err", err)
		}
	}
	if cfg.OnOpen != nil {
		s.safely("open hook", func() { cfg.OnOpen(s) })
	}
	s.logger.Debug("session opened", "title", cfg.Title, "rows", cfg.Rows, "window", view.WindowID)
	return s, nil
}

func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) Player() uuid.UUID { return s.player }

func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) Config() Config { return s.cfg }

func (s *Session) Model() *content.Model { return s.model }

func (s *Session) Layout() *layout.Layout { return s.layout }

// View returns the open view, or nil once the session is closed.
func (s *Session) View() *version.View { return s.view }

// Reason returns why the session closed.
func (s *Session) Reason() Reason { return s.reason }

func (s *Session) CurrentPage() int { return s.model.CurrentPage() }

// Binding returns the slot table of the last render.
func (s *Session) Binding() layout.Binding {
	return append(layout.Binding(nil), s.binding...)
}

func (s *Session) alive() bool {
	st := s.State()
	return st == StateOpening || st == StateOpen
}

func (s *Session) check() error {
	if !s.alive() {
		return ErrSessionClosed
	}
	return nil
}

// Render paints the slots that changed since the last render.
func (s *Session) Render() error {
	if err := s.check(); err != nil {
		return err
	}
	return s.render(false)
}

// ForceRender paints every slot.
func (s *Session) ForceRender() error {
	if err := s.check(); err != nil {
		return err
	}
	return s.render(true)
}

func (s *Session) render(full bool) error {
	b := layout.Bind(s.layout, s.model.CurrentItems())
	prev := s.binding
	if full {
		prev = nil
	}
	var errs []error
	for _, slot := range b.Diff(prev) {
		if err := s.env.Adapter.RenderSlot(s.view, slot, b[slot]); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		// the client view is unknown, so the next render repaints everything
		s.binding = nil
		return errors.Join(errs...)
	}
	s.binding = b
	s.model.ClearDirty()
	return nil
}

func (s *Session) renderLogged(full bool) {
	if err := s.render(full); err != nil {
		s.logger.Warn("render failed", "err", err)
	}
}

// Update mutates the model and re-renders if fn changed it. It returns
// ErrSessionClosed when fn closes the session.
func (s *Session) Update(fn func(m *content.Model)) error {
	if err := s.check(); err != nil {
		return err
	}
	fn(s.model)
	if !s.alive() {
		// fn closed the session
		return ErrSessionClosed
	}
	if s.model.Dirty() {
		return s.render(false)
	}
	return nil
}

// SetPage shows page n.
func (s *Session) SetPage(n int) error {
	if err := s.check(); err != nil {
		return err
	}
	if err := s.model.SetPage(n); err != nil {
		return err
	}
	if s.model.Dirty() {
		return s.render(false)
	}
	return nil
}

// Next shows the following page. It returns false on the last page and on
// a closed session.
func (s *Session) Next() bool {
	if s.check() != nil || !s.model.Next() {
		return false
	}
	s.renderLogged(false)
	return true
}

// Previous shows the preceding page. It returns false on the first page and
// on a closed session.
func (s *Session) Previous() bool {
	if s.check() != nil || !s.model.Previous() {
		return false
	}
	s.renderLogged(false)
	return true
}

// SetTitle changes the window title, reopening the view when the server
// cannot retitle in place.
func (s *Session) SetTitle(title string) error {
	if err := s.check(); err != nil {
		return err
	}
	reopened, err := s.env.Adapter.Retitle(s.view, title)
	if err != nil {
		return fmt.Errorf("retitle: %w", err)
	}
	s.cfg.Title = title
	if reopened {
		return s.render(true)
	}
	return nil
}

// Schedule runs fn after delay ticks and then every period ticks until the
// session closes.
func (s *Session) Schedule(delay, period schedule.Ticks, fn func()) (schedule.Task, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.tasks.Every(delay, period, fn)
}

// Later runs fn once after delay ticks unless the session closes first.
func (s *Session) Later(delay schedule.Ticks, fn func()) (schedule.Task, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.tasks.Later(delay, fn)
}

// Animate swaps it for each frame in turn every period ticks, looping. The
// animation stops when the shown frame leaves the model.
func (s *Session) Animate(it *item.DisplayItem, frames []*item.DisplayItem, period schedule.Ticks) (schedule.Task, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: animation without frames", ErrInvalidConfig)
	}
	if _, _, ok := s.model.Locate(it); !ok {
		return nil, content.ErrItemNotFound
	}
	cur, next := it, 0
	var task schedule.Task
	var err error
	task, err = s.tasks.Every(period, period, func() {
		frame := frames[next%len(frames)]
		next++
		if err := s.model.Replace(cur, frame); err != nil {
			task.Cancel()
			return
		}
		cur = frame
		s.renderLogged(false)
	})
	return task, err
}

// HandleClick routes a click on slot and reports whether the host should
// cancel it.
func (s *Session) HandleClick(slot int, kind item.ClickKind) (cancel bool, err error) {
	if err := s.check(); err != nil {
		return true, err
	}
	switch {
	case slot == OutsideSlot:
		if s.cfg.CloseOnClickOutside {
			s.CloseWith(ReasonClickOutside)
		}
		return true, nil
	case slot >= s.view.Size:
		// the player's own inventory; only moves into the menu are refused
		return kind.IsShift() || kind == item.ClickDouble, nil
	case slot < 0:
		return true, nil
	}

	cell := s.binding.At(slot)
	switch cell.Kind {
	case layout.CellDecoration:
		switch cell.Decoration.Nav {
		case layout.NavPrevious:
			if s.model.Previous() {
				s.renderLogged(true)
			}
		case layout.NavNext:
			if s.model.Next() {
				s.renderLogged(true)
			}
		case layout.NavClose:
			s.CloseWith(ReasonExplicit)
		default:
			s.runAction(cell.Decoration.Item, slot, kind)
		}
	case layout.CellItem:
		s.runAction(cell.Item, slot, kind)
	default:
		if s.cfg.CloseOnEmptySlot {
			s.CloseWith(ReasonClickEmpty)
		}
	}
	return true, nil
}

// HandleDrag fires the drag actions of the items under slots. Drags that
// touch the menu are cancelled.
func (s *Session) HandleDrag(slots []int) (cancel bool, err error) {
	if err := s.check(); err != nil {
		return true, err
	}
	size := s.view.Size
	for _, slot := range slots {
		if slot < 0 || slot >= size {
			continue
		}
		cancel = true
		if it := s.binding.At(slot).Shown(); it != nil && s.alive() {
			s.runAction(it, slot, item.ClickDrag)
		}
	}
	return cancel, nil
}

// HandleCloseAttempt reacts to the player closing the window. A session
// that is not closeable shows the view again on the next tick.
func (s *Session) HandleCloseAttempt() error {
	if err := s.check(); err != nil {
		return err
	}
	if s.cfg.Closeable {
		s.CloseWith(ReasonPlayer)
		return nil
	}
	_, err := s.tasks.Later(0, func() {
		if err := s.env.Adapter.Reopen(s.view); err != nil {
			s.logger.Warn("reopen view", "err", err)
			return
		}
		s.renderLogged(true)
	})
	return err
}

func (s *Session) runAction(it *item.DisplayItem, slot int, kind item.ClickKind) {
	if it == nil {
		return
	}
	c := &item.Click{
		Player:  s.player,
		Kind:    kind,
		Slot:    slot,
		Page:    s.model.CurrentPage(),
		Item:    it,
		Session: s,
	}
	if !it.Allowed(c) {
		if fn := it.Denied(); fn != nil {
			s.safely("denied handler", func() { fn(c) })
		}
		return
	}
	fn := it.ActionFor(kind)
	if fn == nil {
		return
	}
	s.safely("click action", func() { fn(c) })
	if s.State() == StateOpen && (c.RefreshRequested() || s.model.Dirty()) {
		s.renderLogged(false)
	}
}

func (s *Session) safely(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("recovered panic", "in", what, "panic", fmt.Sprint(r))
		}
	}()
	fn()
}

// Close closes the session. Closing a closed session does nothing.
func (s *Session) Close() error {
	s.CloseWith(ReasonExplicit)
	return nil
}

// CloseWith closes the session for reason. Cleanup failures are logged.
func (s *Session) CloseWith(reason Reason) {
	if !s.state.CompareAndSwap(int32(StateOpen), int32(StateClosing)) &&
		!s.state.CompareAndSwap(int32(StateOpening), int32(StateClosing)) {
		return
	}
	s.reason = reason
	s.tasks.CancelAll()
	s.env.Registry.Remove(s.player, s)
	if !reason.viewGone() && s.view != nil {
		if err := s.env.Adapter.CloseView(s.view); err != nil {
			s.logger.Warn("release view", "err", err)
		}
	}
	s.view = nil
	s.binding = nil
	if s.cfg.ClearOnClose {
		s.model.Clear()
	}
	s.state.Store(int32(StateClosed))

	if s.cfg.OnClose != nil {
		s.safely("close hook", func() { s.cfg.OnClose(s, reason) })
	}
	s.logger.Debug("session closed", "reason", reason)
}
