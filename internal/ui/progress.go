package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"codereview/internal/review"
)

// DefaultRows is how many file rows the view keeps on screen.
const DefaultRows = 12

type progressModel struct {
	title   string
	events  <-chan review.Event
	cancel  func()
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	rows    int
	width   int

	finished    int
	failed      int
	cached      int
	diagnostics int
	stopping    bool
	done        bool
}

type fileItem struct {
	path   string
	status review.Status
	diags  int
}

type eventMsg review.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders tree scan
// progress. Files are added as the scan discovers them. cancel, when set,
// is called on ctrl+c; the model keeps draining events until the channel
// is closed so the producer never blocks.
func NewProgressModel(title string, events <-chan review.Event, cancel func()) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	return &progressModel{
		title:   title,
		events:  events,
		cancel:  cancel,
		spinner: sp,
		prog:    prog,
		index:   make(map[string]int),
		rows:    DefaultRows,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(review.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC && !m.stopping {
			m.stopping = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		updated, cmd := m.prog.Update(msg)
		m.prog = updated.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	switch {
	case m.done:
		header = "done: " + header
	case m.stopping:
		header = m.spinner.View() + " stopping: " + header
	default:
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %d/%d files, %d diagnostics", m.finished, len(m.items), m.diagnostics)
	if m.cached > 0 {
		fmt.Fprintf(&b, ", %d cached", m.cached)
	}
	if m.failed > 0 {
		fmt.Fprintf(&b, ", %d failed", m.failed)
	}
	b.WriteString("\n\n")

	statusWidth := 12
	nameWidth := max(m.width-statusWidth-12, 20)

	start := max(len(m.items)-m.rows, 0)
	for _, item := range m.items[start:] {
		status := string(item.status)
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", status))
		line := fmt.Sprintf("  %s %s", statusStyled, truncate(item.path, nameWidth))
		if item.diags > 0 {
			line += fmt.Sprintf(" (%d)", item.diags)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev review.Event) tea.Cmd {
	if ev.File == "" {
		return nil
	}
	idx, ok := m.index[ev.File]
	if !ok {
		idx = len(m.items)
		m.items = append(m.items, fileItem{path: ev.File})
		m.index[ev.File] = idx
	}
	item := &m.items[idx]
	item.status = ev.Status

	switch ev.Status {
	case review.StatusDone:
		m.finished++
		item.diags = ev.Diagnostics
		m.diagnostics += ev.Diagnostics
	case review.StatusCached:
		m.finished++
		m.cached++
		item.diags = ev.Diagnostics
		m.diagnostics += ev.Diagnostics
	case review.StatusError:
		m.finished++
		m.failed++
	}
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	return float64(m.finished) / float64(len(m.items))
}

func styleStatus(status review.Status) lipgloss.Style {
	switch status {
	case review.StatusDone, review.StatusCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case review.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case review.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
