package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/topcharts/internal/charts"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ScopeListView ViewState = iota
	ChartListView
)

// ChartGetter is the orchestrator surface the browser depends on.
type ChartGetter interface {
	GetTopCharts(ctx context.Context, req charts.Request) (*charts.Result, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	service  ChartGetter
	base     charts.Request
	subject  string
	width    int
	height   int
	scopes   list.Model
	chart    list.Model
	result   *charts.Result
	scopeKey string
	loading  bool
	err      error
	help     help.Model
	keys     keyMap
}

// keyMap defines the key bindings for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	refresh key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.back, k.refresh, k.quit},
	}
}

type chartFetchedMsg struct {
	scopeKey string
	result   *charts.Result
	err      error
}

// defaultScopes are the windows offered by the scope picker.
func defaultScopes() []scopeItem {
	return []scopeItem{
		{key: "all-time", label: "every play on record"},
		{key: "7d", label: "the last week"},
		{key: "30d", label: "the last month"},
		{key: "90d", label: "the last quarter"},
		{key: fmt.Sprintf("year:%d", time.Now().UTC().Year()), label: "this calendar year"},
	}
}

// NewModel creates a new TUI model with the provided dependencies.
//
// The base request carries subject, item type and provider; the browser fills
// in the scope from the picker.
func NewModel(ctx context.Context, service ChartGetter, base charts.Request, subject string) *Model {
	items := make([]list.Item, 0)
	for _, s := range defaultScopes() {
		items = append(items, s)
	}

	scopes := list.New(items, list.NewDefaultDelegate(), 0, 0)
	scopes.Title = fmt.Sprintf("Chart scope for %s", subject)

	return &Model{
		ctx:     ctx,
		view:    ScopeListView,
		service: service,
		base:    base,
		subject: subject,
		scopes:  scopes,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.scopes.SetSize(msg.Width-4, msg.Height-8)
		if m.chart.Width() == 0 {
			m.chart.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ScopeListView:
			return m.handleScopeListKeys(msg)
		case ChartListView:
			return m.handleChartListKeys(msg)
		}

	case chartFetchedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.view = ScopeListView
			return m, nil
		}
		m.err = nil
		m.result = msg.result
		m.scopeKey = msg.scopeKey

		items := make([]list.Item, len(msg.result.Items))
		for i, item := range msg.result.Items {
			items[i] = chartItem{item: item}
		}
		m.chart = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.chart.Title = m.chartTitle()
		m.chart.SetSize(m.width-4, m.height-8)
		m.view = ChartListView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ScopeListView:
		return m.renderScopeList()
	case ChartListView:
		return m.renderChartList()
	default:
		return ""
	}
}

func (m *Model) handleScopeListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.scopes.SelectedItem()
		if selected != nil {
			if s, ok := selected.(scopeItem); ok {
				m.loading = true
				return m, m.fetchChart(s.key)
			}
		}
	}

	var cmd tea.Cmd
	m.scopes, cmd = m.scopes.Update(msg)
	return m, cmd
}

func (m *Model) handleChartListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ScopeListView
		return m, nil
	case "r":
		m.loading = true
		return m, m.fetchChart(m.scopeKey)
	}

	var cmd tea.Cmd
	m.chart, cmd = m.chart.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ScopeListView:
		m.scopes, cmd = m.scopes.Update(msg)
	case ChartListView:
		m.chart, cmd = m.chart.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchChart(scopeKey string) tea.Cmd {
	req := m.base
	req.ScopeKey = scopeKey

	return func() tea.Msg {
		result, err := m.service.GetTopCharts(m.ctx, req)
		return chartFetchedMsg{scopeKey: scopeKey, result: result, err: err}
	}
}

func (m *Model) chartTitle() string {
	source := "fresh"
	if m.result != nil && m.result.FromCache {
		source = "cached"
	}
	return fmt.Sprintf("Top %ss for %s [%s, %s]", m.base.ItemType, m.subject, m.scopeKey, source)
}

func (m *Model) renderScopeList() string {
	var status string
	if m.loading {
		status = styles.warn.Render("Fetching chart...")
	} else if m.err != nil {
		status = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	}

	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if status != "" {
		return fmt.Sprintf("%s\n\n%s\n%s", m.scopes.View(), status, helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.scopes.View(), helpView)
}

func (m *Model) renderChartList() string {
	helpKeys := []key.Binding{m.keys.refresh, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.chart.View(), helpView)
}
