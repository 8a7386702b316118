package viz

import (
	"fmt"
	"image"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/transitviz/internal/audio"
)

const (
	defaultCols     = 80
	defaultRows     = 24
	defaultFPS      = 60
	historyCapacity = 600
)

type TickMsg time.Time

// Options tune the terminal view. Zero values pick sensible defaults.
type Options struct {
	Cols, Rows int
	FPS        int
	GIFPath    string
	// Synth, when set, feeds the band meter.
	Synth *audio.Synth
}

// Model drives a Visualization from the bubbletea loop and renders its
// frames on a braille canvas.
type Model struct {
	vis      Visualization
	kind     Kind
	opts     Options
	canvas   *Canvas
	frame    Frame
	running  bool
	done     bool
	step     bool
	err      error
	ticks    int
	metrics  []float64
	meter    *audio.Meter
	bands    audio.Bands
	recorded []*image.Paletted
	record   bool
	showHelp bool
}

// NewModel wraps an initialized visualization.
func NewModel(kind Kind, vis Visualization, opts Options) Model {
	if opts.Cols <= 0 {
		opts.Cols = defaultCols
	}
	if opts.Rows <= 0 {
		opts.Rows = defaultRows
	}
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	if opts.GIFPath == "" {
		opts.GIFPath = kind.String() + ".gif"
	}
	m := Model{
		vis:     vis,
		kind:    kind,
		opts:    opts,
		canvas:  NewCanvas(opts.Cols, opts.Rows),
		running: true,
		metrics: make([]float64, 0, historyCapacity),
	}
	if opts.Synth != nil {
		m.meter = audio.NewMeter()
	}
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Err is the error that stopped the loop, if any.
func (m Model) Err() error { return m.err }

func (m Model) Done() bool { return m.done }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.stopRecording()
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "n":
			m.step = true
		case "r":
			m.restart()
		case "t":
			NextTheme()
		case "g":
			if m.record {
				m.stopRecording()
			} else {
				m.record = true
				m.recorded = m.recorded[:0]
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if (m.running || m.step) && !m.done {
			m.step = false
			m.advance()
			if m.err != nil {
				return m, tea.Quit
			}
			if m.done && m.kind.QuitWhenDone() {
				m.stopRecording()
				return m, tea.Quit
			}
		}
		if m.meter != nil {
			m.bands = m.meter.Update(m.opts.Synth.Snapshot(), m.opts.Synth.SampleRate())
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	done, err := m.vis.Tick()
	if err != nil {
		slog.Error("visualization tick failed", "kind", m.kind.String(), "err", err)
		m.err = err
		return
	}
	m.frame = m.vis.Frame()
	m.canvas.DrawFrame(m.frame)
	m.ticks++
	m.done = done

	if m.frame.MetricName != "" && !m.frame.Empty() {
		m.metrics = append(m.metrics, m.frame.Metric)
		if len(m.metrics) > historyCapacity {
			m.metrics = m.metrics[1:]
		}
	}
	if m.record {
		m.recorded = append(m.recorded, Rasterize(m.canvas))
	}
}

func (m *Model) restart() {
	if err := m.vis.Init(); err != nil {
		m.err = err
		return
	}
	m.canvas.Clear()
	m.frame = Frame{}
	m.metrics = m.metrics[:0]
	m.ticks = 0
	m.done = false
}

func (m *Model) stopRecording() {
	if !m.record {
		return
	}
	m.record = false
	if err := SaveGIF(m.opts.GIFPath, m.recorded, 100/m.opts.FPS+1); err != nil {
		slog.Warn("gif not saved", "path", m.opts.GIFPath, "err", err)
	} else {
		slog.Info("gif saved", "path", m.opts.GIFPath, "frames", len(m.recorded))
	}
	m.recorded = nil
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return "ERROR"
	case m.done:
		return "DONE"
	case !m.running:
		return "PAUSED"
	}
	return "RUNNING " + Spinner(m.ticks)
}

func (m Model) View() string {
	canvasView := canvasStyle().Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle().Render(strings.ToUpper(m.kind.String())) + "\n")
	status := m.status()
	if m.record {
		status += "  " + recordingStyle.Render("● REC")
	}
	s.WriteString(status + "\n\n")

	label, value := labelStyle(), valueStyle()
	if m.frame.Total > 0 {
		done := m.frame.Index + 1
		s.WriteString(ProgressBar(float64(done)/float64(m.frame.Total), 28) + "\n")
		s.WriteString(label.Render("Frame") + value.Render(fmt.Sprintf("%d / %d", done, m.frame.Total)) + "\n")
	}
	if sv, ok := m.vis.(*StopsViz); ok && sv.Engine() != nil {
		e := sv.Engine()
		s.WriteString(label.Render("Visited") + value.Render(fmt.Sprintf("%d / %d", e.Visited(), e.Len())) + "\n")
		s.WriteString(label.Render("Start") + value.Render(e.Start().ID) + "\n")
	}
	for _, l := range m.frame.Labels {
		s.WriteString("\n" + captionStyle().Render(l.Text) + "\n")
	}

	if len(m.metrics) > 1 {
		chart := asciigraph.Plot(m.metrics, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption(m.frame.MetricName))
		s.WriteString(graphStyle().Render(chart) + "\n")
	}
	if m.meter != nil {
		s.WriteString("\n")
		s.WriteString(label.Render("Bass") + ProgressBar(m.bands.Bass, 20) + "\n")
		s.WriteString(label.Render("Mid") + ProgressBar(m.bands.Mid, 20) + "\n")
		s.WriteString(label.Render("High") + ProgressBar(m.bands.High, 20) + "\n")
	}
	if m.err != nil {
		s.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Bad).Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle().Render("─────────────────────\nSP:Pause N:Step R:Restart\nT:Theme G:Record ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle().Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N        - Advance one frame        ║
║  R        - Restart                  ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run shows vis in the terminal until it finishes or the user quits.
func Run(kind Kind, vis Visualization, opts Options) error {
	final, err := tea.NewProgram(NewModel(kind, vis, opts), tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok {
		return m.Err()
	}
	return nil
}
