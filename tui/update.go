package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/etnz/holdings"
	"github.com/etnz/holdings/source"
)

// header and footer bars
const chromeLines = 2

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	contentDirty := false
	forward := true // to the viewport

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport = viewport.New(m.width, max(m.height-chromeLines, 1))
		m.help.Width = m.width
		m.ready = true
		contentDirty = true

	case tea.KeyMsg:
		forward = false
		switch {
		case key.Matches(msg, keys.Quit):
			m.unsubscribe()
			return m, tea.Quit
		case key.Matches(msg, keys.Next):
			m.selectCategory(holdings.NextCategory(m.dash.Categories, m.selected))
			contentDirty = true
		case key.Matches(msg, keys.Prev):
			m.selectCategory(holdings.PrevCategory(m.dash.Categories, m.selected))
			contentDirty = true
		case key.Matches(msg, keys.All):
			m.selectCategory(holdings.All)
			contentDirty = true
		case key.Matches(msg, keys.Theme):
			m.theme = toggleTheme(m.theme)
			contentDirty = true
		case key.Matches(msg, keys.Refresh):
			m.log.Debug().Msg("manual refresh")
			cmds = append(cmds, refreshCmd(m.ctx, m.poller))
		default:
			forward = true
		}

	case tea.FocusMsg:
		cmds = append(cmds, revalidateCmd(m.ctx, m.poller))

	case stateMsg:
		m.setState(source.State(msg))
		contentDirty = true
		cmds = append(cmds, waitForState(m.states))

	case tickMsg:
		forward = false
		cmds = append(cmds, tickCmd())
	}

	if m.ready {
		if contentDirty {
			m.viewport.SetContent(m.renderContent())
		}
		// resize, scroll keys, mouse
		if forward {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}
