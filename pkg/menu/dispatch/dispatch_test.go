package dispatch_test

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/EntixOG/RyseInventory/internal/testutil"
	"github.com/EntixOG/RyseInventory/pkg/menu/content"
	"github.com/EntixOG/RyseInventory/pkg/menu/dispatch"
	"github.com/EntixOG/RyseInventory/pkg/menu/item"
	"github.com/EntixOG/RyseInventory/pkg/menu/schedule"
	"github.com/EntixOG/RyseInventory/pkg/menu/session"
	"github.com/EntixOG/RyseInventory/pkg/menu/version"
)

type fixture struct {
	host *testutil.Host
	loop *schedule.Loop
	env  session.Env
	d    *dispatch.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	host := testutil.NewHost()
	loop := schedule.NewLoop(log.New(io.Discard), 0)
	adapter := version.NewV1_19(host, "1.19.4")
	reg := session.NewRegistry()
	d := dispatch.New(reg, adapter, log.New(io.Discard))
	if err := d.Attach(host); err != nil {
		t.Fatal(err)
	}
	return &fixture{
		host: host,
		loop: loop,
		env:  session.Env{Adapter: adapter, Scheduler: loop, Registry: reg, Logger: log.New(io.Discard)},
		d:    d,
	}
}

func TestAttachOnce(t *testing.T) {
	f := newFixture(t)
	if err := f.d.Attach(f.host); !errors.Is(err, dispatch.ErrAlreadyAttached) {
		t.Errorf("second Attach = %v, want ErrAlreadyAttached", err)
	}
	f.d.Detach()
	if f.host.Listeners() != 0 || f.d.Attached() {
		t.Error("Detach left the listener subscribed")
	}
	if err := f.d.Attach(f.host); err != nil {
		t.Errorf("Attach after Detach = %v", err)
	}
}

func TestClickRoutesToSession(t *testing.T) {
	f := newFixture(t)
	player := uuid.New()
	var kinds []item.ClickKind
	m := content.New(9)
	m.Add(item.New(item.Icon{Material: "minecraft:stone"},
		item.WithAction(func(c *item.Click) { kinds = append(kinds, c.Kind) }),
	))
	if _, err := session.Open(f.env, player, session.NewConfig("t", 1), m); err != nil {
		t.Fatal(err)
	}

	if !f.host.Click(player, 0, 0, 1) {
		t.Error("menu click not cancelled")
	}
	if !f.host.Click(player, 0, 1, 0) {
		t.Error("shift click not cancelled")
	}
	if len(kinds) != 2 || kinds[0] != item.ClickRight || kinds[1] != item.ClickShiftLeft {
		t.Errorf("action saw %v, want [right shift_left]", kinds)
	}
	if f.host.Click(player, 20, 0, 0) {
		t.Error("click in the player inventory was cancelled")
	}
	if f.host.Click(uuid.New(), 0, 0, 0) {
		t.Error("click of a player without a menu was cancelled")
	}
}

func TestStaleWindowIgnored(t *testing.T) {
	f := newFixture(t)
	player := uuid.New()
	ran := false
	m := content.New(9)
	m.Add(item.New(item.Icon{Material: "minecraft:stone"}, item.WithAction(func(*item.Click) { ran = true })))
	s, err := session.Open(f.env, player, session.NewConfig("t", 1), m)
	if err != nil {
		t.Fatal(err)
	}

	stale := s.View().WindowID + 1
	if f.d.OnClick(dispatch.ClickEvent{Player: player, WindowID: stale, Slot: 0}) {
		t.Error("stale click cancelled")
	}
	f.d.OnClose(dispatch.CloseEvent{Player: player, WindowID: stale})
	if ran || s.State() != session.StateOpen {
		t.Error("stale events reached the session")
	}
}

func TestForeignOpenReplaces(t *testing.T) {
	f := newFixture(t)
	player := uuid.New()
	s, err := session.Open(f.env, player, session.NewConfig("t", 1), nil)
	if err != nil {
		t.Fatal(err)
	}
	f.d.OnOpen(dispatch.OpenEvent{Player: player, WindowID: s.View().WindowID})
	if s.State() != session.StateOpen {
		t.Fatal("own open event closed the session")
	}
	f.d.OnOpen(dispatch.OpenEvent{Player: player, WindowID: 77})
	if s.State() != session.StateClosed || s.Reason() != session.ReasonReplaced {
		t.Errorf("state %v reason %v, want closed/replaced", s.State(), s.Reason())
	}
}

func TestReopenDoesNotReplace(t *testing.T) {
	f := newFixture(t)
	player := uuid.New()
	cfg := session.NewConfig("t", 1)
	cfg.Closeable = false
	s, err := session.Open(f.env, player, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	f.host.PlayerClose(player)
	f.loop.Tick()
	if s.State() != session.StateOpen {
		t.Errorf("State() = %v after reopen, want open", s.State())
	}
	if f.host.Opens(player) != 2 {
		t.Errorf("Opens = %d, want 2", f.host.Opens(player))
	}
}

func TestCloseAndQuit(t *testing.T) {
	f := newFixture(t)
	a, b := uuid.New(), uuid.New()
	sa, err := session.Open(f.env, a, session.NewConfig("t", 1), nil)
	if err != nil {
		t.Fatal(err)
	}
	sb, err := session.Open(f.env, b, session.NewConfig("t", 1), nil)
	if err != nil {
		t.Fatal(err)
	}

	f.host.PlayerClose(a)
	if sa.State() != session.StateClosed || sa.Reason() != session.ReasonPlayer {
		t.Errorf("closed by player: state %v reason %v", sa.State(), sa.Reason())
	}
	f.host.Quit(b)
	if sb.State() != session.StateClosed || sb.Reason() != session.ReasonDisconnect {
		t.Errorf("quit: state %v reason %v", sb.State(), sb.Reason())
	}
	if f.env.Registry.Len() != 0 {
		t.Errorf("registry holds %d sessions", f.env.Registry.Len())
	}
}

func TestDragRouting(t *testing.T) {
	f := newFixture(t)
	player := uuid.New()
	if _, err := session.Open(f.env, player, session.NewConfig("t", 2), nil); err != nil {
		t.Fatal(err)
	}
	if !f.host.Drag(player, 3, 4, 30) {
		t.Error("drag over the menu not cancelled")
	}
	if f.host.Drag(player, 30, 31) {
		t.Error("drag in the player inventory cancelled")
	}
}

func TestPanicRecovered(t *testing.T) {
	f := newFixture(t)
	player := uuid.New()
	cfg := session.NewConfig("t", 1)
	cfg.OnClose = func(*session.Session, session.Reason) { panic("hook") }
	s, err := session.Open(f.env, player, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	f.host.Quit(player)
	if s.State() != session.StateClosed {
		t.Errorf("State() = %v, want closed", s.State())
	}
}

func TestQuitHookRunsWithoutSession(t *testing.T) {
	f := newFixture(t)
	player := uuid.New()
	var quits []uuid.UUID
	f.d.OnPlayerQuit(func(p uuid.UUID) { quits = append(quits, p) })
	f.d.OnPlayerQuit(func(uuid.UUID) { panic("boom") })

	f.host.Quit(player)
	if len(quits) != 1 || quits[0] != player {
		t.Fatalf("quit hook calls = %v, want [%v]", quits, player)
	}

	s, err := session.Open(f.env, player, session.NewConfig("t", 1), nil)
	if err != nil {
		t.Fatal(err)
	}
	f.host.Quit(player)
	if s.State() != session.StateClosed || s.Reason() != session.ReasonDisconnect {
		t.Errorf("state %v reason %v, want closed by disconnect", s.State(), s.Reason())
	}
	if len(quits) != 2 {
		t.Errorf("len(quits) = %d, want 2", len(quits))
	}
}
