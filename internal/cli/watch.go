package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/justnchxn/musictoart/pkg/canvas"
	"github.com/justnchxn/musictoart/pkg/preview"
	"github.com/justnchxn/musictoart/pkg/render"
)

var (
	watchStatusStyle = lipgloss.NewStyle().Foreground(colorWhite)
	watchErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
	watchHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// watchCommand creates the interactive preview command.
func (c *CLI) watchCommand() *cobra.Command {
	opts := defaultPreviewOpts()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Interactively refresh a preview from a server",
		Long: `Watch shows the preview status line and re-renders on demand.

Press r to refresh and q to quit. Each successful refresh rewrites the output
PNG. Pressing r while a refresh is still fetching supersedes it: only the
newest refresh draws.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.resolveCookie()
			if err := checkSize(opts.width, opts.height); err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)

			m := newWatchModel(ctx, opts)
			final, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
			if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return err
			}
			if fm, ok := final.(watchModel); ok && fm.renders > 0 {
				printSuccess("Rendered %d time(s)", fm.renders)
				printFile(opts.output)
			}
			return nil
		},
	}

	addPreviewFlags(cmd, &opts)
	cmd.Flags().DurationVar(&opts.every, "every", 0, "refresh automatically at this interval (0 disables)")
	return cmd
}

// =============================================================================
// watchModel - bubbletea model around a preview.Orchestrator
// =============================================================================

type (
	statusMsg    string
	refreshedMsg struct {
		stats render.Stats
		err   error
	}
	tickMsg time.Time
)

// watchModel displays the orchestrator's status. Status updates arrive on a
// channel because refreshes run outside the bubbletea update loop.
type watchModel struct {
	ctx      context.Context
	orch     *preview.Orchestrator
	statuses chan string
	output   string
	every    time.Duration

	status  string
	stats   render.Stats
	err     error
	renders int
}

func newWatchModel(ctx context.Context, opts previewOpts) watchModel {
	statuses := make(chan string, 16)
	status := preview.StatusFunc(func(text string) {
		select {
		case statuses <- text:
		case <-ctx.Done():
		}
	})
	img := canvas.NewImage(opts.width, opts.height)
	return watchModel{
		ctx:      ctx,
		orch:     newOrchestrator(ctx, opts, img, status),
		statuses: statuses,
		output:   opts.output,
		every:    opts.every,
	}
}

func (m watchModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.waitStatus(), m.refresh()}
	if m.every > 0 {
		cmds = append(cmds, m.tick())
	}
	return tea.Batch(cmds...)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			return m, m.refresh()
		}
	case statusMsg:
		m.status = string(msg)
		return m, m.waitStatus()
	case refreshedMsg:
		if errors.Is(msg.err, preview.ErrSuperseded) {
			return m, nil
		}
		m.err = msg.err
		if msg.err == nil {
			m.stats = msg.stats
			m.renders++
		}
	case tickMsg:
		return m, tea.Batch(m.refresh(), m.tick())
	}
	return m, nil
}

func (m watchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("musictoart watch"))
	b.WriteString("\n\n")

	status := m.status
	if status == "" && m.renders > 0 {
		status = fmt.Sprintf("Rendered %s", m.output)
	}
	b.WriteString(watchStatusStyle.Render(status))
	b.WriteString("\n")

	if m.renders > 0 {
		b.WriteString(StyleDim.Render(formatStats(m.stats)))
		b.WriteString("\n")
	}
	if m.err != nil && !errors.Is(m.err, preview.ErrNotAuthenticated) {
		b.WriteString(watchErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(watchHelpStyle.Render("r refresh  q quit"))
	b.WriteString("\n")
	return b.String()
}

// refresh runs one orchestrator refresh off the update loop.
func (m watchModel) refresh() tea.Cmd {
	orch, ctx := m.orch, m.ctx
	return func() tea.Msg {
		st, err := orch.Refresh(ctx)
		return refreshedMsg{stats: st, err: err}
	}
}

func (m watchModel) waitStatus() tea.Cmd {
	ch, ctx := m.statuses, m.ctx
	return func() tea.Msg {
		select {
		case text := <-ch:
			return statusMsg(text)
		case <-ctx.Done():
			return nil
		}
	}
}

func (m watchModel) tick() tea.Cmd {
	return tea.Tick(m.every, func(t time.Time) tea.Msg { return tickMsg(t) })
}
