package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/okian/placemap/internal/adapters/location"
	"github.com/okian/placemap/internal/adapters/mapengine"
	"github.com/okian/placemap/internal/domain/types"
	"github.com/okian/placemap/pkg/logger"
	"github.com/okian/placemap/pkg/sched"
)

// Layout defaults.
const (
	DefaultBreakpoint = 96
	DefaultListWidth  = 34

	// header and status line
	chromeLines = 2
	// filter input and result counter above the rows
	listHeaderLines = 2
)

// Viewer receives the events of the terminal.
type Viewer interface {
	Boot(narrow bool) error
	Resize(narrow bool)
	ClickRow(id string)
	ClickMarker(col, row int) bool
	Filter(query string)
	FitAll()
	Back()
	SkipLanding() bool
	CloseLanding() bool
	Engine() *mapengine.Engine
	Location() *location.URL
}

// callMsg carries a scheduler callback into the update loop.
type callMsg func()

// Poster delivers callbacks into p's update loop.
func Poster(p *tea.Program) sched.Poster {
	return sched.PosterFunc(func(fn func()) { p.Send(callMsg(fn)) })
}

// Model is the bubbletea model of the viewer.
type Model struct {
	screen *Screen
	viewer Viewer
	input  textinput.Model
	styles styles

	width      int
	height     int
	breakpoint int
	listWidth  int
	cursor     int
	offset     int
	booted     bool
	err        error

	logger logger.Logger
}

// New creates the model. Attach must be called before the program runs.
func New(screen *Screen, opts ...Option) *Model {
	ti := textinput.New()
	ti.Placeholder = "buscar"
	ti.Prompt = "/ "
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("218"))

	m := &Model{
		screen:     screen,
		input:      ti,
		styles:     defaultStyles(),
		breakpoint: DefaultBreakpoint,
		listWidth:  DefaultListWidth,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Attach connects the viewer that receives events.
func (m *Model) Attach(v Viewer) { m.viewer = v }

// Err returns the boot error, if any.
func (m *Model) Err() error { return m.err }

// MapSize returns the map pane size in cells. On narrow viewports the map
// takes the whole width whenever it is shown.
func (m *Model) MapSize() (int, int) {
	h := max(m.height-chromeLines, 0)
	if m.narrow() {
		return max(m.width, 0), h
	}
	return max(m.width-m.listWidth-1, 0), h
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case callMsg:
		msg()
		m.follow()
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, m.resize()
	case tea.KeyMsg:
		return m, m.key(msg)
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.click(msg.X, msg.Y)
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) resize() tea.Cmd {
	narrow := m.narrow()
	if narrow {
		m.input.Width = max(m.width-4, 1)
	} else {
		m.input.Width = max(m.listWidth-4, 1)
	}
	if m.viewer == nil {
		return nil
	}
	if m.booted {
		m.viewer.Resize(narrow)
		return nil
	}
	m.booted = true
	if err := m.viewer.Boot(narrow); err != nil {
		m.err = err
		m.logger.Error(context.Background(), "boot failed", logger.Error(err))
		return tea.Quit
	}
	m.follow()
	return nil
}

func (m *Model) key(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	if k == "ctrl+c" {
		return tea.Quit
	}
	if m.viewer == nil {
		return nil
	}
	if m.screen.Overlay() {
		if k == "esc" || k == "x" {
			m.viewer.CloseLanding()
		} else {
			m.viewer.SkipLanding()
		}
		return nil
	}

	if m.input.Focused() {
		switch k {
		case "esc", "enter":
			m.input.Blur()
			return nil
		}
		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.viewer.Filter(m.input.Value())
			m.cursor, m.offset = 0, 0
		}
		return cmd
	}

	switch k {
	case "q":
		return tea.Quit
	case "/":
		m.input.Focus()
		return textinput.Blink
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "enter":
		if rows := m.screen.Rows(); m.cursor < len(rows) {
			m.viewer.ClickRow(rows[m.cursor].ID)
		}
	case "f":
		m.viewer.FitAll()
	case "b", "esc", "backspace":
		m.viewer.Back()
	}
	return nil
}

func (m *Model) click(x, y int) {
	if m.viewer == nil {
		return
	}
	if m.screen.Overlay() {
		m.viewer.SkipLanding()
		return
	}
	row := y - 1
	if row < 0 || row >= m.height-chromeLines {
		return
	}
	view := m.screen.View()
	listShown := view == types.ViewBoth || view == types.ViewList
	mapX := 0
	if view == types.ViewBoth {
		mapX = m.listWidth + 1
	}

	if listShown && (view == types.ViewList || x < m.listWidth) {
		i := m.offset + row - listHeaderLines
		if rows := m.screen.Rows(); row >= listHeaderLines && i < len(rows) {
			m.cursor = i
			m.viewer.ClickRow(rows[i].ID)
		}
		return
	}
	if x >= mapX {
		m.viewer.ClickMarker(x-mapX, row)
	}
}

func (m *Model) move(d int) {
	n := len(m.screen.Rows())
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+d, 0), n-1)
	m.scroll()
}

// follow moves the cursor onto the active row.
func (m *Model) follow() {
	if i := m.screen.indexOf(m.screen.Active()); i >= 0 {
		m.cursor = i
	}
	if n := len(m.screen.Rows()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.scroll()
}

func (m *Model) scroll() {
	visible := max(m.height-chromeLines-listHeaderLines, 1)
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

func (m *Model) narrow() bool { return m.width < m.breakpoint }

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("placemap: %v\n", m.err)
	}
	if m.width == 0 || m.height == 0 {
		return ""
	}
	bodyH := max(m.height-chromeLines, 0)

	var body string
	switch {
	case m.screen.Overlay():
		body = m.renderOverlay(bodyH)
	case m.screen.View() == types.ViewList:
		body = m.renderList(m.width, bodyH)
	case m.screen.View() == types.ViewMap:
		body = m.renderMap(m.width, bodyH)
	default:
		mapW := max(m.width-m.listWidth-1, 0)
		sep := m.styles.sep.Render(strings.TrimSuffix(strings.Repeat("│\n", bodyH), "\n"))
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderList(m.listWidth, bodyH), sep, m.renderMap(mapW, bodyH))
	}
	return strings.Join([]string{m.renderHeader(), body, m.renderStatus()}, "\n")
}

func (m *Model) renderHeader() string {
	loc := ""
	if m.viewer != nil {
		loc = m.viewer.Location().String()
	}
	name := "placemap"
	gap := max(m.width-len([]rune(name))-len([]rune(loc)), 1)
	return m.styles.header.Render(name) + strings.Repeat(" ", gap) + m.styles.status.Render(loc)
}

func (m *Model) renderStatus() string {
	help := "↑/↓ mover · enter abrir · / buscar · f ver todos · q sair"
	if m.screen.View() == types.ViewMap {
		help = "b voltar à lista · f ver todos · q sair"
	}
	return m.styles.status.Render(fit(help, m.width))
}

func (m *Model) renderList(w, h int) string {
	lines := make([]string, 0, h)
	lines = append(lines, lipgloss.NewStyle().Width(w).MaxWidth(w).Render(m.input.View()))
	lines = append(lines, m.styles.count.Render(fit(fmt.Sprintf("%d lugares", m.screen.Count()), w)))

	rows := m.screen.Rows()
	for i := m.offset; i < len(rows) && len(lines) < h; i++ {
		r := rows[i]
		text := r.Title
		if r.Date != "" {
			text += " · " + r.Date
		}
		if r.Tag != "" {
			text += " #" + r.Tag
		}
		line := fit(" "+text, w)
		switch {
		case r.ID == m.screen.Active():
			line = m.styles.active.Render(line)
		case i == m.cursor:
			line = m.styles.cursor.Render(line)
		default:
			line = m.styles.row.Render(line)
		}
		lines = append(lines, line)
	}
	for len(lines) < h {
		lines = append(lines, strings.Repeat(" ", w))
	}
	return strings.Join(lines[:h], "\n")
}

func (m *Model) renderMap(w, h int) string {
	if m.viewer == nil || w <= 0 || h <= 0 {
		return ""
	}
	e := m.viewer.Engine()
	grid := e.Render()
	lines := make([]string, h)
	for i := range lines {
		if i < len(grid) {
			lines[i] = m.styles.marker.Render(fit(grid[i], w))
		} else {
			lines[i] = strings.Repeat(" ", w)
		}
	}

	if content, _, ok := e.Popup(); ok {
		inner := max(w-4, 1)
		text := content.Lines()
		for i := range text {
			text[i] = fit(text[i], inner)
		}
		box := strings.Split(m.styles.popup.Render(strings.Join(text, "\n")), "\n")
		start := max(h-len(box), 0)
		for i, l := range box {
			if start+i < h {
				lines[start+i] = l
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderOverlay(h int) string {
	title := m.screen.title.String()
	body := m.screen.body.String()
	if m.screen.title.Typing() {
		title += "▌"
	}
	if m.screen.body.Typing() {
		body += "▌"
	}
	box := m.styles.overlay.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.title.Render(title),
		"",
		m.styles.body.Render(body),
		"",
		m.styles.status.Render("espaço pular · esc fechar"),
	))
	return lipgloss.Place(m.width, h, lipgloss.Center, lipgloss.Center, box)
}
