// Package tui is the interactive terminal search: a text input wired to a
// resolver, with results redrawn as each search cycle settles.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/binfinder/binfinder/internal/resolver"
	"github.com/binfinder/binfinder/pkg/core"
)

// Config configures Run.
type Config struct {
	Fetcher  resolver.Fetcher
	Debounce time.Duration
	Logger   *slog.Logger
	// In and Out default to the terminal.
	In  io.Reader
	Out io.Writer
}

// Run starts the interactive search and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, cfg Config) error {
	opts := []resolver.Option{resolver.WithDebounce(cfg.Debounce)}
	if cfg.Logger != nil {
		opts = append(opts, resolver.WithLogger(cfg.Logger))
	}
	r := resolver.New(cfg.Fetcher, opts...)
	defer r.Close()

	m := NewModel(r)
	defer r.Unsubscribe(m.updates)

	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.In != nil {
		progOpts = append(progOpts, tea.WithInput(cfg.In))
	}
	if cfg.Out != nil {
		progOpts = append(progOpts, tea.WithOutput(cfg.Out))
	}

	_, err := tea.NewProgram(m, progOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// stateMsg carries a resolver snapshot into the update loop.
type stateMsg resolver.State

// closedMsg reports that the resolver stopped publishing.
type closedMsg struct{}

// Model is the bubbletea model for the search screen.
type Model struct {
	resolver *resolver.Resolver
	updates  chan struct{}

	input   textinput.Model
	spinner spinner.Model
	state   resolver.State
	width   int
}

// NewModel creates a model bound to r. The model subscribes to r; callers
// release the subscription with r.Unsubscribe or r.Close.
func NewModel(r *resolver.Resolver) Model {
	ti := textinput.New()
	ti.Placeholder = "Search for an item..."
	ti.Prompt = "› "
	ti.CharLimit = 200
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	return Model{
		resolver: r,
		updates:  r.Subscribe(),
		input:    ti,
		spinner:  sp,
		state:    r.State(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForState())
}

func (m Model) waitForState() tea.Cmd {
	r, ch := m.resolver, m.updates
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return closedMsg{}
		}
		return stateMsg(r.State())
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyCtrlR:
			m.resolver.Refresh()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.resolver.Set(m.input.Value())
		return m, cmd

	case stateMsg:
		m.state = resolver.State(msg)
		return m, m.waitForState()

	case closedMsg:
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = max(msg.Width, 0)
		if m.width > 4 {
			m.input.Width = m.width - 4
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("binfinder"))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.state.Loading:
		b.WriteString(m.spinner.View() + " Searching...")
	case m.state.Error != "":
		b.WriteString(errorStyle.Render(m.state.Error))
	case strings.TrimSpace(m.state.Query) == "":
		b.WriteString(mutedStyle.Render("Type to search."))
	case len(m.state.Results) == 0:
		b.WriteString(mutedStyle.Render("No matching items."))
	default:
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d results", len(m.state.Results))))
	}
	b.WriteString("\n")

	if !m.state.Loading {
		for _, it := range m.state.Results {
			b.WriteString("\n")
			b.WriteString(renderResult(it))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("esc quit • ctrl+r refresh"))
	b.WriteString("\n")
	return b.String()
}

func renderResult(it core.EnrichedItem) string {
	line := nameStyle.Render(it.Name)
	if it.Type != "" {
		line += " " + mutedStyle.Render("("+it.Type+")")
	}
	if it.Container == nil {
		return "  " + swatch("") + " " + line + mutedStyle.Render(" → no container")
	}
	return "  " + swatch(it.Container.Color) + " " + line + " → " + containerStyle.Render(it.Container.Name)
}
