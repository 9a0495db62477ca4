package preview

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/og-previewer/pkg/guide"
	"github.com/lepinkainen/og-previewer/pkg/opengraph"
)

// Tab represents the currently shown tab
type Tab int

// Tabs of the preview TUI
const (
	CardTab Tab = iota
	MetadataTab
	JSONTab
	TagsTab
	GuideTab
)

var tabNames = []string{"Card", "Metadata", "JSON", "Tags", "Guide"}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "Unknown"
	}
	return tabNames[t]
}

// FetchFunc fetches the preview for a URL
type FetchFunc func(ctx context.Context, rawURL string) opengraph.Result

// resultMsg carries a finished fetch back into the model
type resultMsg struct {
	result opengraph.Result
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("12")).
			Bold(true).
			Padding(0, 1)
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(0, 1)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Model represents the Bubble Tea model for the preview TUI
type Model struct {
	ctx     context.Context
	url     string
	fetch   FetchFunc
	guide   *guide.Guide
	tab     Tab
	loading bool
	result  opengraph.Result
	width   int
	height  int
}

// NewModel creates a new preview model. The fetch starts from Init.
func NewModel(ctx context.Context, rawURL string, fetch FetchFunc, g *guide.Guide) Model {
	return Model{
		ctx:     ctx,
		url:     rawURL,
		fetch:   fetch,
		guide:   g,
		tab:     CardTab,
		loading: true,
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return m.fetchCmd()
}

func (m Model) fetchCmd() tea.Cmd {
	ctx, fetch, rawURL := m.ctx, m.fetch, m.url
	return func() tea.Msg {
		return resultMsg{result: fetch(ctx, rawURL)}
	}
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case resultMsg:
		m.loading = false
		m.result = msg.result
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "right", "l":
		m.tab = (m.tab + 1) % Tab(len(tabNames))

	case "shift+tab", "left", "h":
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))

	case "1", "2", "3", "4", "5":
		m.tab = Tab(msg.String()[0] - '1')

	case "r":
		if !m.loading {
			m.loading = true
			return m, m.fetchCmd()
		}
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Open Graph Preview - " + m.url))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderBody())
	b.WriteString("\n")

	footer := "tab/←/→: switch tab • 1-5: jump to tab • r: refetch • q: quit"
	b.WriteString(footerStyle.Render(footer))

	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = tabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderBody() string {
	if m.tab == GuideTab {
		return m.renderGuide()
	}

	if m.loading {
		return fmt.Sprintf("Fetching %s ...\n", m.url)
	}

	if !m.result.OK() {
		return errorStyle.Render("Error: "+m.result.Error) + "\n"
	}

	rec := m.result.Data
	switch m.tab {
	case CardTab:
		return FormatCard(rec, m.url)
	case MetadataTab:
		return FormatMetadata(rec)
	case JSONTab:
		out, err := FormatJSON(rec)
		if err != nil {
			return errorStyle.Render(err.Error()) + "\n"
		}
		return out
	case TagsTab:
		return FormatMetaTags(rec)
	}
	return ""
}

func (m Model) renderGuide() string {
	if m.guide == nil {
		return "Guide not available\n"
	}

	var b strings.Builder
	if !m.loading && m.result.OK() {
		b.WriteString(headerStyle.Render("Findings"))
		b.WriteString("\n")
		b.WriteString(FormatFindings(m.guide.Diagnose(m.result.Data)))
		b.WriteString("\n")
	}
	b.WriteString(FormatGuide(m.guide))
	return b.String()
}

// Run starts the Bubble Tea program for a single URL
func Run(ctx context.Context, rawURL string, fetch FetchFunc, g *guide.Guide) error {
	p := tea.NewProgram(NewModel(ctx, rawURL, fetch, g), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
