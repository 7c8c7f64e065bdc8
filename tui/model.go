// Package tui is the interactive terminal dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/renderer"
	"github.com/etnz/holdings/source"
)

// Poller is the data source of the dashboard.
type Poller interface {
	Subscribe() (<-chan source.State, func())
	State() source.State
	Refresh(ctx context.Context) source.State
	Revalidate(ctx context.Context) bool
}

// Config configures the dashboard.
type Config struct {
	Resolver *holdings.CategoryResolver
	Options  renderer.Options
	Theme    string // dark or light
	Category string // initial selection, All when empty
	Log      zerolog.Logger
}

type Model struct {
	ctx         context.Context
	poller      Poller
	states      <-chan source.State
	unsubscribe func()
	resolver    *holdings.CategoryResolver
	opts        renderer.Options
	log         zerolog.Logger
	now         func() time.Time

	// Data
	state    source.State
	dash     *renderer.Dashboard
	selected string
	theme    string

	// UI state
	width  int
	height int
	ready  bool

	// Components
	viewport viewport.Model
	help     help.Model
}

// Messages

type stateMsg source.State

// tickMsg refreshes the "updated ... ago" label.
type tickMsg time.Time

const tickInterval = time.Second

// New returns the dashboard model of p. It subscribes to p right away, the
// subscription ends when the user quits.
func New(ctx context.Context, p Poller, cfg Config) Model {
	states, unsubscribe := p.Subscribe()
	selected := cfg.Category
	if selected == "" {
		selected = holdings.All
	}
	m := Model{
		ctx:         ctx,
		poller:      p,
		states:      states,
		unsubscribe: unsubscribe,
		resolver:    cfg.Resolver,
		opts:        cfg.Options,
		log:         cfg.Log.With().Str("component", "tui").Logger(),
		now:         time.Now,
		selected:    selected,
		theme:       cfg.Theme,
		help:        help.New(),
	}
	m.setState(p.State())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForState(m.states), tickCmd())
}

// Commands

// waitForState blocks until the poller publishes a new state.
func waitForState(states <-chan source.State) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-states
		if !ok {
			return nil
		}
		return stateMsg(s)
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd fetches in the background, the new state arrives through the
// subscription.
func refreshCmd(ctx context.Context, p Poller) tea.Cmd {
	return func() tea.Msg {
		p.Refresh(ctx)
		return nil
	}
}

func revalidateCmd(ctx context.Context, p Poller) tea.Cmd {
	return func() tea.Msg {
		p.Revalidate(ctx)
		return nil
	}
}

// setState recomputes the dashboard view of s for the current selection.
func (m *Model) setState(s source.State) {
	m.state = s
	m.dash = renderer.NewDashboard(s, m.resolver, m.selected)
}

// selectCategory recomputes the dashboard view for another category.
func (m *Model) selectCategory(c string) {
	m.selected = c
	m.dash = renderer.NewDashboard(m.state, m.resolver, c)
}

// Selected returns the selected category.
func (m Model) Selected() string { return m.selected }

// Theme returns the current theme name.
func (m Model) Theme() string { return m.theme }
