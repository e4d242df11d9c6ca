// Package tui is a terminal host for developing menus without a server: it
// draws the open chest as a grid and turns key presses into clicks.
package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/EntixOG/RyseInventory/pkg/menu/layout"
	"github.com/EntixOG/RyseInventory/pkg/menu/prompt"
	"github.com/EntixOG/RyseInventory/pkg/menu/session"
)

const (
	cellWidth   = 4
	maxLogLines = 200
	// reserved lines: title, grid border, details, input, help
	chromeLines = 6
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center)

	cursorStyle = cellStyle.
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	glintStyle = cellStyle.
			Foreground(lipgloss.Color("213"))

	gridStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241"))
)

// TUI is the bubbletea model of the terminal host.
type TUI struct {
	host      *Host
	viewport  viewport.Model
	textInput textinput.Model
	logs      []string
	logMutex  sync.Mutex
	ready     bool
	prompting bool
	cursor    int
	width     int
	height    int
}

// New creates the model for host.
func New(host *Host) *TUI {
	ti := textinput.New()
	ti.Blur()
	ti.CharLimit = 64
	ti.Width = 40

	return &TUI{
		host:      host,
		textInput: ti,
		logs:      []string{},
	}
}

func (t *TUI) Init() tea.Cmd {
	return textinput.Blink
}

func (t *TUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			t.host.quit()
			return t, tea.Quit
		}
		if t.prompting {
			return t.updatePrompt(msg)
		}
		t.handleKey(msg.String())
		return t, nil

	case tea.WindowSizeMsg:
		height := max(1, msg.Height-chromeLines-t.gridRows()-2)
		if !t.ready {
			t.viewport = viewport.New(msg.Width, height)
			t.viewport.SetContent(t.renderLogs())
			t.ready = true
		} else {
			t.viewport.Width = msg.Width
			t.viewport.Height = height
		}
		t.width = msg.Width
		t.height = msg.Height
		t.textInput.Width = msg.Width - 2

	case LogMsg:
		t.AddLog(string(msg))
		if t.ready {
			// do not scroll if not at bottom, to prevent flickering
			wasAtBottom := t.viewport.AtBottom()
			t.viewport.SetContent(t.renderLogs())
			if wasAtBottom {
				t.viewport.GotoBottom()
			}
		}
		return t, nil

	case promptMsg:
		t.prompting = true
		t.textInput.SetValue("")
		t.textInput.Placeholder = msg.prompt.Placeholder
		t.textInput.Prompt = msg.prompt.Title + " > "
		t.textInput.Focus()
		return t, nil

	case redrawMsg:
		if size := t.host.snapshot().window.Menu.Rows() * layout.Columns; t.cursor >= size {
			t.cursor = size - 1
		}
		return t, nil
	}

	if t.ready {
		t.viewport, cmd = t.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return t, tea.Batch(cmds...)
}

func (t *TUI) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		t.endPrompt()
		t.host.answer(strings.TrimSpace(t.textInput.Value()), false)
		return t, nil
	case tea.KeyEsc:
		t.endPrompt()
		t.host.answer("", true)
		return t, nil
	}
	var cmd tea.Cmd
	t.textInput, cmd = t.textInput.Update(msg)
	return t, cmd
}

func (t *TUI) endPrompt() {
	t.prompting = false
	t.textInput.Blur()
}

// handleKey maps keys to cursor moves and window clicks.
func (t *TUI) handleKey(key string) {
	snap := t.host.snapshot()
	size := snap.window.Menu.Rows() * layout.Columns
	switch key {
	case "left", "h":
		if t.cursor%layout.Columns > 0 {
			t.cursor--
		}
	case "right", "l":
		if t.cursor%layout.Columns < layout.Columns-1 {
			t.cursor++
		}
	case "up", "k":
		if t.cursor >= layout.Columns {
			t.cursor -= layout.Columns
		}
	case "down", "j":
		if t.cursor+layout.Columns < size {
			t.cursor += layout.Columns
		}
	case "enter", " ":
		t.clickIfOpen(snap, t.cursor, 0, 0)
	case "r":
		t.clickIfOpen(snap, t.cursor, 0, 1)
	case "s":
		t.clickIfOpen(snap, t.cursor, 1, 0)
	case "d":
		t.clickIfOpen(snap, t.cursor, 6, 0)
	case "q":
		t.clickIfOpen(snap, t.cursor, 4, 0)
	case "o":
		t.clickIfOpen(snap, session.OutsideSlot, 0, 0)
	case "esc":
		if snap.open {
			t.host.closeByPlayer()
		}
	}
}

func (t *TUI) clickIfOpen(snap snapshot, slot, mode, button int) {
	if snap.open {
		t.host.click(slot, mode, button)
	}
}

func (t *TUI) gridRows() int {
	return t.host.snapshot().window.Menu.Rows()
}

func (t *TUI) View() string {
	if !t.ready {
		return "Initializing..."
	}
	snap := t.host.snapshot()

	var title, grid, details string
	if snap.open {
		title = titleStyle.Render(snap.window.Title)
		grid = gridStyle.Render(t.renderGrid(snap))
		details = t.renderDetails(snap)
	} else {
		title = titleStyle.Render("No menu open")
	}

	help := "arrows: move • enter: left • r: right • s: shift • d: double • q: drop • o: outside • esc: close • ctrl+c: quit"
	if t.prompting {
		help = "enter: submit • esc: cancel"
	}

	parts := []string{title}
	if grid != "" {
		parts = append(parts, grid, details)
	}
	parts = append(parts, t.viewport.View())
	if t.prompting {
		parts = append(parts, inputStyle.Render(t.textInput.View()))
	}
	parts = append(parts, helpStyle.Render(help))
	return strings.Join(parts, "\n")
}

func (t *TUI) renderGrid(snap snapshot) string {
	rows := snap.window.Menu.Rows()
	lines := make([]string, 0, rows)
	for r := range rows {
		cells := make([]string, 0, layout.Columns)
		for c := range layout.Columns {
			slot := layout.Slot(r, c)
			st, ok := snap.slots[slot]
			label := "··"
			if ok {
				label = shortLabel(st.Name, st.Material)
			}
			style := cellStyle
			switch {
			case slot == t.cursor:
				style = cursorStyle
			case ok && st.Glint:
				style = glintStyle
			}
			cells = append(cells, style.Render(label))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}

func (t *TUI) renderDetails(snap snapshot) string {
	st, ok := snap.slots[t.cursor]
	if !ok {
		return helpStyle.Render(fmt.Sprintf("slot %d: empty", t.cursor))
	}
	d := fmt.Sprintf("slot %d: %s x%d (%s)", t.cursor, st.Name, st.Count, st.Material)
	if len(st.Lore) > 0 {
		d += " - " + strings.Join(st.Lore, " / ")
	}
	return d
}

// shortLabel abbreviates an item for a grid cell.
func shortLabel(name, material string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		s = strings.TrimPrefix(material, "minecraft:")
	}
	r := []rune(s)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r)
}

// AddLog adds a log line, keeping the newest maxLogLines.
func (t *TUI) AddLog(msg string) {
	t.logMutex.Lock()
	defer t.logMutex.Unlock()
	t.logs = append(t.logs, msg)
	if len(t.logs) > maxLogLines {
		t.logs = t.logs[len(t.logs)-maxLogLines:]
	}
}

func (t *TUI) renderLogs() string {
	t.logMutex.Lock()
	defer t.logMutex.Unlock()
	return strings.Join(t.logs, "\n")
}

// LogMsg is a message type for logging
type LogMsg string

type redrawMsg struct{}

type promptMsg struct{ prompt prompt.Prompt }

// Writer is an io.Writer that sends output to the TUI
type Writer struct {
	program *tea.Program
}

// NewWriter creates a new TUI Writer
func NewWriter(program *tea.Program) *Writer {
	return &Writer{program: program}
}

// Write implements io.Writer
func (w *Writer) Write(p []byte) (n int, err error) {
	msg := strings.TrimSuffix(string(p), "\n")
	if msg != "" {
		w.program.Send(LogMsg(msg))
	}
	return len(p), nil
}

// Start creates the program for host and returns it with a writer for logging.
func Start(host *Host) (*tea.Program, io.Writer) {
	t := New(host)
	p := tea.NewProgram(t, tea.WithAltScreen())
	host.attach(p)
	return p, NewWriter(p)
}
