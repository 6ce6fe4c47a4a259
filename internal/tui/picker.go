package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firefly-engineering/proxyctl/internal/endpoint"
)

// Action represents the action to take after picker selection
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionQuit
)

// PickerResult holds the result of the picker
type PickerResult struct {
	Action   Action
	Entry    endpoint.Entry
	Endpoint *endpoint.Endpoint
}

// proxyItem implements list.Item for catalogue display
type proxyItem struct {
	entry    endpoint.Entry
	endpoint *endpoint.Endpoint
	err      error
	current  bool
}

func (i proxyItem) Title() string {
	if i.current {
		return i.entry.Name + " (in use)"
	}
	return i.entry.Name
}

func (i proxyItem) Description() string {
	if i.err != nil {
		return "✗ " + i.err.Error()
	}
	icon := "○"
	if i.current {
		icon = "●"
	}
	user := i.endpoint.User
	if user == "" {
		user = "no credentials"
	}
	return fmt.Sprintf("%s %s | %s", icon, i.endpoint.HostPort(), user)
}

func (i proxyItem) FilterValue() string {
	return i.entry.Name + " " + i.entry.IP
}

// customItem opens the address prompt.
type customItem struct{}

func (customItem) Title() string       { return "Enter custom address…" }
func (customItem) Description() string { return "  a full IPv4 address or a fragment such as 5.9" }
func (customItem) FilterValue() string { return "custom" }

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// Model is the bubbletea model for the proxy picker
type Model struct {
	list     list.Model
	resolver endpoint.Resolver
	result   PickerResult
	quitting bool
	width    int
	height   int

	// Custom address prompt
	input    textinput.Model
	editing  bool
	inputErr string
}

func newItems(entries []endpoint.Entry, r endpoint.Resolver, current *endpoint.Endpoint) []proxyItem {
	items := make([]proxyItem, len(entries))
	for i, e := range entries {
		ep, err := e.Endpoint(r)
		items[i] = proxyItem{
			entry:    e,
			endpoint: ep,
			err:      err,
			current:  err == nil && current != nil && current.HostPort() == ep.HostPort(),
		}
	}
	return items
}

// NewPicker creates a new proxy picker
func NewPicker(entries []endpoint.Entry, r endpoint.Resolver, current *endpoint.Endpoint) Model {
	proxies := newItems(entries, r, current)
	items := make([]list.Item, len(proxies), len(proxies)+1)
	selected := 0
	for i, it := range proxies {
		items[i] = it
		if it.current {
			selected = i
		}
	}
	items = append(items, customItem{})

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedStyle
	delegate.Styles.SelectedDesc = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	l := list.New(items, delegate, 80, 20)
	l.Title = "proxyctl - Select Proxy"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Select(selected)

	ti := textinput.New()
	ti.Placeholder = "5.9"
	ti.Prompt = "Address: "
	ti.CharLimit = 64

	return Model{list: l, resolver: r, input: ti}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.list.SetSize(size.Width, size.Height-4)
		return m, nil
	}

	if m.editing {
		return m.updateInput(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Don't handle keys if filtering
		if m.list.FilterState() == list.Filtering {
			break
		}

		switch msg.String() {
		case "enter":
			if _, ok := m.list.SelectedItem().(customItem); ok {
				m.editing = true
				cmd := m.input.Focus()
				return m, cmd
			}
			// Entries that failed to resolve stay on screen but cannot be chosen.
			if item, ok := m.list.SelectedItem().(proxyItem); ok && item.err == nil {
				m.result = PickerResult{
					Action:   ActionSelect,
					Entry:    item.entry,
					Endpoint: item.endpoint,
				}
				m.quitting = true
				return m, tea.Quit
			}

		case "q", "esc":
			m.result = PickerResult{Action: ActionQuit}
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateInput handles keys while the address prompt is open.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			ep, err := m.resolver.Resolve(value)
			if err != nil {
				m.inputErr = err.Error()
				return m, nil
			}
			m.result = PickerResult{
				Action:   ActionSelect,
				Entry:    endpoint.Entry{Name: "Custom", IP: value},
				Endpoint: ep,
			}
			m.quitting = true
			return m, tea.Quit

		case tea.KeyEsc:
			m.editing = false
			m.inputErr = ""
			m.input.Reset()
			m.input.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.inputErr = ""
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.editing {
		view := titleStyle.Render("proxyctl - Custom Proxy") + "\n" + m.input.View()
		if m.inputErr != "" {
			view += "\n" + errorStyle.Render("✗ "+m.inputErr)
		}
		return view + "\n" + helpStyle.Render("[enter] Use address  [esc] Back")
	}

	help := helpStyle.Render("[enter] Use proxy  [/] Filter  [q] Quit")

	return m.list.View() + "\n" + help
}

// Result returns the picker result
func (m Model) Result() PickerResult {
	return m.result
}

// RunPicker runs the interactive proxy picker. It draws on stderr so stdout
// stays free for shell statements.
func RunPicker(entries []endpoint.Entry, r endpoint.Resolver, current *endpoint.Endpoint) (PickerResult, error) {
	if len(entries) == 0 {
		return PickerResult{Action: ActionNone}, nil
	}

	m := NewPicker(entries, r, current)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(os.Stderr))

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{}, err
	}

	return finalModel.(Model).Result(), nil
}

// SimplePicker is a non-interactive picker that just lists proxies
func SimplePicker(entries []endpoint.Entry, r endpoint.Resolver, current *endpoint.Endpoint) string {
	var sb strings.Builder

	sb.WriteString("proxyctl - Proxies\n")
	sb.WriteString(strings.Repeat("─", 60) + "\n\n")

	if len(entries) == 0 {
		sb.WriteString("No proxies in the catalogue.\n")
		sb.WriteString("Add some to proxies.json or proxy.txt in the data directory.\n")
		return sb.String()
	}

	for i, it := range newItems(entries, r, current) {
		fmt.Fprintf(&sb, "%d. %s\n   %s\n\n", i+1, it.Title(), it.Description())
	}

	return sb.String()
}
