package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"insightly/internal/core"
	"insightly/internal/export"
	"insightly/internal/insights"
	"insightly/internal/session"
)

// Options configures what the g and e keys do.
type Options struct {
	Request   insights.Request // Template for generation; a zero IssueDate means today
	OutputDir string           // Where e writes email text
	Email     export.EmailOptions
}

// batchGeneratedMsg reports a successful generation.
type batchGeneratedMsg struct {
	batch core.InsightBatch
}

// generateFailedMsg reports a failed generation. State is unchanged.
type generateFailedMsg struct {
	err error
}

// exportedMsg reports the result of writing email text.
type exportedMsg struct {
	path string
	err  error
}

// model is the TUI state over one session.
type model struct {
	ctx         context.Context
	state       *session.State
	gen         session.BatchGenerator
	opts        Options
	selectedIdx int  // Cursor position in the archive list
	width       int  // Terminal width
	height      int  // Terminal height
	generating  bool // A generation command is in flight
	status      string
	quitting    bool
}

// NewModel returns the initial TUI model.
func NewModel(ctx context.Context, state *session.State, gen session.BatchGenerator, opts Options) model {
	return model{
		ctx:    ctx,
		state:  state,
		gen:    gen,
		opts:   opts,
		width:  100,
		status: "Press g to generate a batch.",
	}
}

// Init is the first command that will be run. We don't need any.
func (m model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model accordingly.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case batchGeneratedMsg:
		m.generating = false
		m.selectedIdx = 0
		m.status = fmt.Sprintf("Generated batch for %s.", export.FormatIssueDate(msg.batch))
		if len(msg.batch.Degraded) > 0 {
			m.status += " Some items came from built-in content."
		}

	case generateFailedMsg:
		m.generating = false
		m.status = "Generation failed: " + msg.err.Error()

	case exportedMsg:
		if msg.err != nil {
			m.status = "Export failed: " + msg.err.Error()
		} else {
			m.status = "Email text written to " + msg.path
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}

	case "down", "j":
		if m.selectedIdx < m.state.Archive().Len()-1 {
			m.selectedIdx++
		}

	case "enter":
		if _, err := m.state.Select(m.selectedIdx); err != nil {
			m.status = "Nothing to select."
		}

	case "g":
		if m.generating {
			m.status = "Generation already in progress..."
			return m, nil
		}
		m.generating = true
		m.status = "Generating insights... This may take a minute."
		return m, m.generateCmd()

	case "d":
		removed, err := m.state.Delete(m.selectedIdx)
		if err != nil {
			m.status = "Nothing to delete."
			return m, nil
		}
		if n := m.state.Archive().Len(); m.selectedIdx >= n && n > 0 {
			m.selectedIdx = n - 1
		} else if n == 0 {
			m.selectedIdx = 0
		}
		m.status = fmt.Sprintf("Deleted batch for %s.", export.FormatIssueDate(removed))

	case "e":
		batch, err := m.state.Archive().Get(m.selectedIdx)
		if err != nil {
			m.status = "Nothing to export."
			return m, nil
		}
		return m, m.exportCmd(batch)
	}

	return m, nil
}

func (m model) generateCmd() tea.Cmd {
	req := m.opts.Request
	if req.IssueDate.IsZero() {
		req.IssueDate = time.Now()
	}
	state, gen, ctx := m.state, m.gen, m.ctx

	return func() tea.Msg {
		batch, err := state.Generate(ctx, gen, req)
		if err != nil {
			return generateFailedMsg{err: err}
		}
		return batchGeneratedMsg{batch: batch}
	}
}

func (m model) exportCmd(batch core.InsightBatch) tea.Cmd {
	opts := m.opts
	return func() tea.Msg {
		text := export.ToEmailText(batch, opts.Email)
		path, err := export.WriteToFile([]byte(text), opts.OutputDir, export.FilenameFor(batch, export.FormatEmail))
		return exportedMsg{path: path, err: err}
	}
}

// View renders the TUI.
func (m model) View() string {
	if m.quitting {
		return "Quitting...\n"
	}

	paneWidth := m.width/2 - 5
	if paneWidth < 20 {
		paneWidth = 20
	}

	docStyle := lipgloss.NewStyle().Margin(1, 2)
	listStyle := lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(1).Width(paneWidth)
	detailStyle := lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true).Padding(1).Width(paneWidth)
	titleStyle := lipgloss.NewStyle().Bold(true)
	statusStyle := lipgloss.NewStyle().Faint(true)

	batches := m.state.Archive().List()
	current := m.state.CurrentIndex()

	var list strings.Builder
	list.WriteString(titleStyle.Render("Archive") + "\n\n")
	if len(batches) == 0 {
		list.WriteString("No batches yet.")
	}
	for i, b := range batches {
		cursor := " "
		if i == m.selectedIdx {
			cursor = ">"
		}
		marker := " "
		if i == current {
			marker = "*"
		}
		list.WriteString(fmt.Sprintf("%s%s %s (%d+%d)\n", cursor, marker,
			export.FormatIssueDate(b), len(b.AIItems), len(b.PMItems)))
	}

	var detail strings.Builder
	detail.WriteString(titleStyle.Render("Preview") + "\n\n")
	if m.selectedIdx < len(batches) {
		b := batches[m.selectedIdx]
		for _, c := range core.Categories {
			detail.WriteString(titleStyle.Render(c.Label()) + "\n")
			for i, item := range b.Items(c) {
				detail.WriteString(fmt.Sprintf("%d. %s\n", i+1, item.Title))
			}
			detail.WriteString("\n")
		}
	} else {
		detail.WriteString("Select a batch to preview it.")
	}

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top,
		listStyle.Render(list.String()), detailStyle.Render(detail.String()))

	help := "\n[g] Generate | [enter] Select | [e] Export email | [d] Delete | [↑/k] Up | [↓/j] Down | [q] Quit"

	return docStyle.Render(mainContent + "\n" + statusStyle.Render(m.status) + help)
}

// Run starts the Bubble Tea application over state and blocks until the user quits.
func Run(ctx context.Context, state *session.State, gen session.BatchGenerator, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, state, gen, opts), tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
