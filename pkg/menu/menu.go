// Package menu wires the inventory engine together: it selects the version
// adapter, routes host events and keeps per-player menu history.
package menu

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/EntixOG/RyseInventory/pkg/menu/config"
	"github.com/EntixOG/RyseInventory/pkg/menu/content"
	"github.com/EntixOG/RyseInventory/pkg/menu/dispatch"
	"github.com/EntixOG/RyseInventory/pkg/menu/prompt"
	"github.com/EntixOG/RyseInventory/pkg/menu/schedule"
	"github.com/EntixOG/RyseInventory/pkg/menu/session"
	"github.com/EntixOG/RyseInventory/pkg/menu/version"
)

// maxHistory bounds the Back stack of each player.
const maxHistory = 16

var (
	// ErrOpenCooldown is returned when a player opens menus faster than the cooldown allows.
	ErrOpenCooldown = errors.New("open cooldown active")
	// ErrNoHistory is returned by Back when there is no previous menu.
	ErrNoHistory = errors.New("no previous menu")
	// ErrNoPrompter is returned by Prompt when the host cannot show text input.
	ErrNoPrompter = errors.New("host has no text prompt")
)

// Option configures a Manager.
type Option func(m *Manager)

// WithSettings replaces the default settings.
func WithSettings(s config.Settings) Option {
	return func(m *Manager) { m.settings = s }
}

// WithLogger sets the logger. By default the manager logs to stderr at the
// configured level.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithPrompter sets the text input capability. Hosts that implement
// prompt.Prompter are used by default.
func WithPrompter(p prompt.Prompter) Option {
	return func(m *Manager) { m.prompter = p }
}

// WithClock replaces time.Now for the open cooldown.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

type entry struct {
	cfg   session.Config
	model *content.Model
}

// Manager is the entry point of the engine. Its methods run on the main
// thread unless stated otherwise.
type Manager struct {
	settings   config.Settings
	logger     *log.Logger
	adapter    version.Adapter
	scheduler  schedule.Scheduler
	registry   *session.Registry
	dispatcher *dispatch.Dispatcher
	prompter   prompt.Prompter
	now        func() time.Time

	mu       sync.Mutex
	lastOpen map[uuid.UUID]time.Time
	current  map[uuid.UUID]entry
	history  map[uuid.UUID][]entry
	onOpen   []func(s *session.Session)
	onClose  []func(s *session.Session, reason session.Reason)
}

// New creates a manager for host. It fails with version.ErrAdapterUnsupported
// when the configured server version has no adapter.
func New(host version.Host, s schedule.Scheduler, opts ...Option) (*Manager, error) {
	m := &Manager{
		settings:  config.Default(),
		scheduler: s,
		registry:  session.NewRegistry(),
		now:       time.Now,
		lastOpen:  make(map[uuid.UUID]time.Time),
		current:   make(map[uuid.UUID]entry),
		history:   make(map[uuid.UUID][]entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = log.NewWithOptions(os.Stderr, log.Options{
			Prefix:          "ryseinventory",
			Level:           m.settings.Level(),
			ReportTimestamp: true,
		})
	}
	if m.prompter == nil {
		if p, ok := host.(prompt.Prompter); ok {
			m.prompter = p
		}
	}

	adapter, err := version.Select(m.settings.ServerVersion, host)
	if err != nil {
		return nil, fmt.Errorf("select version adapter: %w", err)
	}
	m.adapter = adapter
	m.dispatcher = dispatch.New(m.registry, adapter, m.logger.With("component", "dispatch"))
	m.dispatcher.OnPlayerQuit(m.forget)
	m.logger.Info("menu engine ready", "adapter", adapter.Name(), "server", adapter.Version())
	return m, nil
}

func (m *Manager) Adapter() version.Adapter { return m.adapter }

func (m *Manager) Registry() *session.Registry { return m.registry }

func (m *Manager) Settings() config.Settings { return m.settings }

// Invoke starts listening to host events.
func (m *Manager) Invoke(src dispatch.Source) error {
	return m.dispatcher.Attach(src)
}

// OnSessionOpen registers a callback run after any session opens.
func (m *Manager) OnSessionOpen(cb func(s *session.Session)) {
	m.mu.Lock()
	m.onOpen = append(m.onOpen, cb)
	m.mu.Unlock()
}

// OnSessionClose registers a callback run after any session closes.
func (m *Manager) OnSessionClose(cb func(s *session.Session, reason session.Reason)) {
	m.mu.Lock()
	m.onClose = append(m.onClose, cb)
	m.mu.Unlock()
}

// Open shows cfg to player, replacing whatever menu they have open. The
// replaced menu can be shown again with Back.
func (m *Manager) Open(player uuid.UUID, cfg session.Config, model *content.Model) (*session.Session, error) {
	return m.open(player, cfg, model, true)
}

// Back reopens the menu the player had open before the current one.
func (m *Manager) Back(player uuid.UUID) (*session.Session, error) {
	m.mu.Lock()
	stack := m.history[player]
	if len(stack) == 0 {
		m.mu.Unlock()
		return nil, ErrNoHistory
	}
	prev := stack[len(stack)-1]
	m.history[player] = stack[:len(stack)-1]
	m.mu.Unlock()

	s, err := m.open(player, prev.cfg, prev.model, false)
	if err != nil {
		m.mu.Lock()
		m.history[player] = append(m.history[player], prev)
		m.mu.Unlock()
		return nil, err
	}
	return s, nil
}

func (m *Manager) open(player uuid.UUID, cfg session.Config, model *content.Model, remember bool) (*session.Session, error) {
	now := m.now()
	m.mu.Lock()
	if cd := m.settings.OpenCooldown; cd > 0 {
		if last, ok := m.lastOpen[player]; ok && now.Sub(last) < cd {
			m.mu.Unlock()
			return nil, fmt.Errorf("%w: %s left", ErrOpenCooldown, cd-now.Sub(last))
		}
	}
	prev, hadPrev := m.current[player]
	m.mu.Unlock()
	hadPrev = hadPrev && m.registry.Get(player) != nil

	wrapped := cfg
	wrapped.OnOpen = func(s *session.Session) {
		if cfg.OnOpen != nil {
			cfg.OnOpen(s)
		}
		m.fireOpen(s)
	}
	wrapped.OnClose = func(s *session.Session, r session.Reason) {
		if cfg.OnClose != nil {
			cfg.OnClose(s, r)
		}
		m.fireClose(s, r)
	}

	env := session.Env{
		Adapter:   m.adapter,
		Scheduler: m.scheduler,
		Registry:  m.registry,
		Logger:    m.logger,
	}
	s, err := session.Open(env, player, wrapped, model)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastOpen[player] = now
	if remember && hadPrev {
		stack := append(m.history[player], prev)
		if len(stack) > maxHistory {
			stack = stack[len(stack)-maxHistory:]
		}
		m.history[player] = stack
	}
	m.current[player] = entry{cfg: cfg, model: s.Model()}
	return s, nil
}

func (m *Manager) fireOpen(s *session.Session) {
	m.mu.Lock()
	cbs := slices.Clone(m.onOpen)
	m.mu.Unlock()
	for _, cb := range cbs {
		cb(s)
	}
}

func (m *Manager) fireClose(s *session.Session, r session.Reason) {
	if r == session.ReasonDisconnect {
		m.forget(s.Player())
	}
	m.mu.Lock()
	cbs := slices.Clone(m.onClose)
	m.mu.Unlock()
	for _, cb := range cbs {
		cb(s, r)
	}
}

// forget drops everything kept for a player who left.
func (m *Manager) forget(player uuid.UUID) {
	m.mu.Lock()
	delete(m.lastOpen, player)
	delete(m.current, player)
	delete(m.history, player)
	m.mu.Unlock()
}

// Session returns the open session of player, or nil.
func (m *Manager) Session(player uuid.UUID) *session.Session {
	return m.registry.Get(player)
}

// Close closes the open menu of player, if any.
func (m *Manager) Close(player uuid.UUID) error {
	s := m.registry.Get(player)
	if s == nil {
		return nil
	}
	return s.Close()
}

// OpenedPlayers lists the players with an open menu. Safe from any goroutine.
func (m *Manager) OpenedPlayers() []uuid.UUID {
	snap := m.registry.Snapshot()
	out := make([]uuid.UUID, 0, len(snap))
	for p := range snap {
		out = append(out, p)
	}
	return out
}

// FindByIdentifier returns the open sessions whose config carries id.
func (m *Manager) FindByIdentifier(id string) []*session.Session {
	var out []*session.Session
	for _, s := range m.registry.Snapshot() {
		if s.Config().Identifier == id {
			out = append(out, s)
		}
	}
	return out
}

// Prompt asks player for a line of text.
func (m *Manager) Prompt(player uuid.UUID, p prompt.Prompt, done func(prompt.Result)) error {
	if m.prompter == nil {
		return ErrNoPrompter
	}
	return prompt.Ask(m.prompter, m.scheduler, player, p, done)
}

// Shutdown stops listening to events and closes every session.
func (m *Manager) Shutdown() {
	m.dispatcher.Detach()
	m.registry.CloseAll(session.ReasonShutdown)
	m.mu.Lock()
	clear(m.current)
	clear(m.history)
	clear(m.lastOpen)
	m.mu.Unlock()
	m.logger.Info("menu engine stopped")
}
