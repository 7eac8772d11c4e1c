package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	m "srcpatch.dev/pkg/srcpatch/internal/model"
)

const (
	defaultViewWidth  = 100
	defaultViewHeight = 20
	// title line, blank line, help line
	chromeHeight = 3
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// TUI shows results like SimpleUI but reviews diffs in an interactive
// Bubble Tea pager before they are written.
type TUI struct {
	*SimpleUI
	cmd *cobra.Command
	mu  sync.Mutex
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{
		SimpleUI: NewSimpleUI(cmd),
		cmd:      cmd,
	}
}

// Confirm opens a scrollable diff view; 'y' approves, 'n', 'q' or esc declines.
func (t *TUI) Confirm(ctx context.Context, target m.Path, diff string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	program := tea.NewProgram(
		newConfirmModel(target, diff),
		tea.WithContext(ctx),
		tea.WithInput(t.cmd.InOrStdin()),
		tea.WithOutput(t.cmd.OutOrStdout()),
		tea.WithAltScreen(),
	)

	final, err := program.Run()
	if err != nil {
		return false, fmt.Errorf("review %s: %w", target, err)
	}

	model, ok := final.(confirmModel)
	if !ok {
		return false, nil
	}

	return model.approved, nil
}

// confirmModel is the Bubble Tea model for reviewing one diff.
type confirmModel struct {
	target   m.Path
	viewport viewport.Model
	approved bool
	done     bool
}

func newConfirmModel(target m.Path, diff string) confirmModel {
	vp := viewport.New(defaultViewWidth, defaultViewHeight)
	vp.SetContent(styleDiff(diff))

	return confirmModel{
		target:   target,
		viewport: vp,
	}
}

func (cm confirmModel) Init() tea.Cmd {
	return nil
}

func (cm confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		cm.viewport.Width = msg.Width
		cm.viewport.Height = max(1, msg.Height-chromeHeight)

		return cm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "y", "Y":
			cm.approved = true
			cm.done = true

			return cm, tea.Quit
		case "n", "N", "q", "esc", "ctrl+c":
			cm.approved = false
			cm.done = true

			return cm, tea.Quit
		}
	}

	var cmd tea.Cmd

	cm.viewport, cmd = cm.viewport.Update(msg)

	return cm, cmd
}

func (cm confirmModel) View() string {
	if cm.done {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Review changes to %s", cm.target)))
	b.WriteString("\n")
	b.WriteString(cm.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll • y apply • n skip • q quit", cm.viewport.ScrollPercent()*100)))

	return b.String()
}

func styleDiff(diff string) string {
	lines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")

	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = titleStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = hunkStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = addedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = removedStyle.Render(line)
		}
	}

	return strings.Join(lines, "\n")
}
