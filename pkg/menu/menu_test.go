package menu

import (
	"errors"
	"io"
	"slices"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/EntixOG/RyseInventory/internal/testutil"
	"github.com/EntixOG/RyseInventory/pkg/menu/config"
	"github.com/EntixOG/RyseInventory/pkg/menu/content"
	"github.com/EntixOG/RyseInventory/pkg/menu/item"
	"github.com/EntixOG/RyseInventory/pkg/menu/prompt"
	"github.com/EntixOG/RyseInventory/pkg/menu/schedule"
	"github.com/EntixOG/RyseInventory/pkg/menu/session"
	"github.com/EntixOG/RyseInventory/pkg/menu/version"
)

func newManager(t *testing.T, opts ...Option) (*Manager, *testutil.Host, *schedule.Loop) {
	t.Helper()
	host := testutil.NewHost()
	loop := schedule.NewLoop(log.New(io.Discard), 0)
	opts = append([]Option{WithLogger(log.New(io.Discard))}, opts...)
	m, err := New(host, loop, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := m.Invoke(host); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	return m, host, loop
}

func TestNewRejectsUnsupportedServer(t *testing.T) {
	s := config.Default()
	s.ServerVersion = "1.12.2"
	_, err := New(testutil.NewHost(), schedule.NewLoop(log.New(io.Discard), 0),
		WithSettings(s), WithLogger(log.New(io.Discard)))
	if !errors.Is(err, version.ErrAdapterUnsupported) {
		t.Errorf("New = %v, want ErrAdapterUnsupported", err)
	}
}

func TestInvokeTwice(t *testing.T) {
	m, host, _ := newManager(t)
	if err := m.Invoke(host); err == nil {
		t.Error("second Invoke succeeded")
	}
}

func TestOpenCooldown(t *testing.T) {
	now := time.Unix(1000, 0)
	s := config.Default()
	s.OpenCooldown = 500 * time.Millisecond
	m, _, _ := newManager(t, WithSettings(s), WithClock(func() time.Time { return now }))
	player := uuid.New()

	if _, err := m.Open(player, session.NewConfig("a", 1), nil); err != nil {
		t.Fatal(err)
	}
	now = now.Add(100 * time.Millisecond)
	if _, err := m.Open(player, session.NewConfig("b", 1), nil); !errors.Is(err, ErrOpenCooldown) {
		t.Errorf("Open within cooldown = %v, want ErrOpenCooldown", err)
	}
	if _, err := m.Open(uuid.New(), session.NewConfig("c", 1), nil); err != nil {
		t.Errorf("cooldown leaked to another player: %v", err)
	}
	now = now.Add(time.Second)
	if _, err := m.Open(player, session.NewConfig("b", 1), nil); err != nil {
		t.Errorf("Open after cooldown = %v", err)
	}
}

func TestBack(t *testing.T) {
	m, host, _ := newManager(t)
	player := uuid.New()

	if _, err := m.Back(player); !errors.Is(err, ErrNoHistory) {
		t.Errorf("Back without history = %v, want ErrNoHistory", err)
	}

	model := content.New(9)
	model.Add(item.Static("minecraft:stone", "kept"))
	if _, err := m.Open(player, session.NewConfig("first", 1), model); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Open(player, session.NewConfig("second", 1), nil); err != nil {
		t.Fatal(err)
	}

	s, err := m.Back(player)
	if err != nil {
		t.Fatalf("Back: %v", err)
	}
	if s.Config().Title != "first" || s.Model() != model {
		t.Errorf("Back opened %q with a different model", s.Config().Title)
	}
	sc, _ := host.Screen(player)
	if sc.Slots[0].Name != "kept" {
		t.Errorf("slot 0 = %q, want kept", sc.Slots[0].Name)
	}
	if _, err := m.Back(player); !errors.Is(err, ErrNoHistory) {
		t.Errorf("second Back = %v, want ErrNoHistory", err)
	}
}

func TestClosedMenuIsNotHistory(t *testing.T) {
	m, _, _ := newManager(t)
	player := uuid.New()
	if _, err := m.Open(player, session.NewConfig("first", 1), nil); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(player); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Open(player, session.NewConfig("second", 1), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Back(player); !errors.Is(err, ErrNoHistory) {
		t.Errorf("Back after an explicit close = %v, want ErrNoHistory", err)
	}
}

func TestQuitAfterCloseForgetsPlayer(t *testing.T) {
	m, host, _ := newManager(t)
	player := uuid.New()
	if _, err := m.Open(player, session.NewConfig("a", 1), nil); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Open(player, session.NewConfig("b", 1), nil); err != nil {
		t.Fatal(err)
	}
	if err := m.Close(player); err != nil {
		t.Fatal(err)
	}
	host.Quit(player)

	m.mu.Lock()
	current, history, lastOpen := len(m.current), len(m.history), len(m.lastOpen)
	m.mu.Unlock()
	if current != 0 || history != 0 || lastOpen != 0 {
		t.Errorf("after quit: current=%d history=%d lastOpen=%d, want all 0", current, history, lastOpen)
	}
	if _, err := m.Back(player); !errors.Is(err, ErrNoHistory) {
		t.Errorf("Back after quit = %v, want ErrNoHistory", err)
	}
}

func TestHooksAndLookups(t *testing.T) {
	m, host, _ := newManager(t)
	var opened, closed int
	var reasons []session.Reason
	m.OnSessionOpen(func(*session.Session) { opened++ })
	m.OnSessionClose(func(_ *session.Session, r session.Reason) {
		closed++
		reasons = append(reasons, r)
	})

	a, b := uuid.New(), uuid.New()
	cfg := session.NewConfig("shop", 1)
	cfg.Identifier = "shop"
	userHook := false
	cfg.OnOpen = func(*session.Session) { userHook = true }
	if _, err := m.Open(a, cfg, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Open(b, session.NewConfig("other", 1), nil); err != nil {
		t.Fatal(err)
	}
	if opened != 2 || !userHook {
		t.Errorf("opened = %d userHook = %v", opened, userHook)
	}

	players := m.OpenedPlayers()
	if len(players) != 2 || !slices.Contains(players, a) || !slices.Contains(players, b) {
		t.Errorf("OpenedPlayers() = %v", players)
	}
	if found := m.FindByIdentifier("shop"); len(found) != 1 || found[0].Player() != a {
		t.Errorf("FindByIdentifier(shop) = %v", found)
	}
	if m.Session(a) == nil {
		t.Error("Session(a) = nil")
	}

	host.Quit(a)
	m.Shutdown()
	if closed != 2 || !slices.Contains(reasons, session.ReasonDisconnect) || !slices.Contains(reasons, session.ReasonShutdown) {
		t.Errorf("closed = %d reasons = %v", closed, reasons)
	}
	if len(m.OpenedPlayers()) != 0 {
		t.Error("sessions left after Shutdown")
	}
	if host.Listeners() != 0 {
		t.Error("Shutdown left the dispatcher subscribed")
	}
}

func TestPrompt(t *testing.T) {
	m, host, loop := newManager(t)
	player := uuid.New()
	var got prompt.Result
	if err := m.Prompt(player, prompt.Prompt{Title: "Name"}, func(r prompt.Result) { got = r }); err != nil {
		t.Fatal(err)
	}
	host.Reply(player, "Steve", false)
	loop.Tick()
	if got.Text != "Steve" {
		t.Errorf("result = %+v", got)
	}
}

func TestEndToEndPaging(t *testing.T) {
	m, host, _ := newManager(t)
	player := uuid.New()

	cfg := session.NewConfig("Items", 6)
	cfg.Layout = PagedLayout(6)
	model := content.New(cfg.Layout.Capacity())
	for range 100 {
		model.Add(item.Static("minecraft:stone", "x"))
	}
	s, err := m.Open(player, cfg, model)
	if err != nil {
		t.Fatal(err)
	}

	host.Click(player, 53, 0, 0)
	host.Click(player, 53, 0, 0)
	host.Click(player, 53, 0, 0)
	if s.CurrentPage() != 2 {
		t.Errorf("CurrentPage() = %d, want 2", s.CurrentPage())
	}
	host.Click(player, 45, 0, 0)
	if s.CurrentPage() != 1 {
		t.Errorf("CurrentPage() = %d, want 1", s.CurrentPage())
	}
}
