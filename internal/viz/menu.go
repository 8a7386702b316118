package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var kindInfo = map[Kind]string{
	KindStops: "nearest-stop sweep",
	KindTrips: "one trip, shape and stops",
	KindAudio: "stop names as chords",
}

// Builder creates and initializes the visualization of a kind.
type Builder func(Kind) (Visualization, error)

type menuState int

const (
	stateMenu menuState = iota
	stateLive
)

// menu lets the user pick a kind, then hands over to a Model.
type menu struct {
	state  menuState
	cursor int
	kinds  []Kind
	build  Builder
	opts   Options
	live   Model
	err    error
}

func newMenu(build Builder, opts Options) menu {
	return menu{kinds: Kinds(), build: build, opts: opts}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateLive {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.kinds)-1 {
			m.cursor++
		}
	case "enter", " ":
		kind := m.kinds[m.cursor]
		vis, err := m.build(kind)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.live = NewModel(kind, vis, m.opts)
		m.state = stateLive
		return m, m.live.Init()
	}
	return m, nil
}

func (m menu) View() string {
	if m.state == stateLive {
		return m.live.View()
	}
	accent := lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Bold(true)
	sub := lipgloss.NewStyle().Foreground(CurrentTheme.Muted)
	text := lipgloss.NewStyle().Foreground(CurrentTheme.Text).Bold(true)

	var b strings.Builder
	b.WriteString("\n\n    " + accent.Render("TRANSITVIZ") + "\n    " + sub.Render("gtfs visualizations") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, k := range m.kinds {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", accent.Render("▸"), text.Render(fmt.Sprintf("%-8s", k)), accent.Render(kindInfo[k])))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", sub.Render(fmt.Sprintf("%-8s", k)), sub.Render(kindInfo[k])))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Bad).Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + accent.Render("j/k") + sub.Render(" navigate  ") + accent.Render("enter") + sub.Render(" select  ") + accent.Render("q") + sub.Render(" quit") + "\n")
	return b.String()
}

// RunMenu shows the kind picker and then the chosen visualization.
func RunMenu(build Builder, opts Options) error {
	final, err := tea.NewProgram(newMenu(build, opts), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(menu); ok && m.state == stateLive {
		return m.live.Err()
	}
	return nil
}
