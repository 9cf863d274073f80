package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/shopster/internal/model"
	"github.com/Makepad-fr/shopster/internal/shoplist"
	"github.com/Makepad-fr/shopster/internal/ui"
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct{ model.Item }

func (i listItem) Title() string       { return i.Name }
func (i listItem) Description() string { return string(i.Category) }
func (i listItem) FilterValue() string { return i.Name }

// Custom delegate to control how items render (single line)
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	prefix := "  "
	if index == m.Index() {
		prefix = ui.Current().Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+ui.ItemLine(it.Item))
}

// resultMsg carries a finished request back onto the event loop.
type resultMsg struct{ shoplist.Result }

type keyMap struct {
	Toggle, Delete, Add, Filter, Theme, Quit key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "cart")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Add:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Filter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter")),
		Theme:  key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "dark/light")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Model is the shopping list screen. The mirror is only touched in Update.
type Model struct {
	ctx    context.Context
	items  *shoplist.List
	filter *shoplist.Filter
	form   *shoplist.Form

	list list.Model
	keys keyMap

	// Inline add
	adding bool
	ti     textinput.Model

	pending int
	status  string
	err     error

	// Last window size, zero until the first WindowSizeMsg.
	width, height int
}

func New(ctx context.Context, items *shoplist.List) Model {
	keys := newKeyMap()

	l := list.New(nil, itemDelegate{}, 80, 20)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	// Category filtering replaces the fuzzy filter.
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("item", "items")
	l.KeyMap.NextPage = key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l/pgdn", "next page"))
	l.KeyMap.Quit = keys.Quit
	extra := func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete, keys.Filter, keys.Theme}
	}
	l.AdditionalShortHelpKeys = extra
	l.AdditionalFullHelpKeys = extra

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Item name..."
	ti.CharLimit = 200

	m := Model{
		ctx:    ctx,
		items:  items,
		filter: shoplist.NewFilter(),
		form:   shoplist.NewForm(),
		list:   l,
		keys:   keys,
		ti:     ti,
		// Init issues the first load.
		pending: 1,
	}
	m.refresh()
	return m
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, items *shoplist.List) error {
	p := tea.NewProgram(New(ctx, items), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// request runs fn off the event loop; its Result comes back as a resultMsg.
func (m *Model) request(fn func(context.Context) shoplist.Result) tea.Cmd {
	m.pending++
	ctx := m.ctx
	return func() tea.Msg { return resultMsg{fn(ctx)} }
}

func (m *Model) refresh() {
	var li []list.Item
	for it := range m.items.FilteredView(m.filter.Selected()) {
		li = append(li, listItem{it})
	}
	m.list.SetItems(li)
	m.list.Title = ui.Header(m.items.Items(), m.filter.Selected())
	m.list.Styles.Title = ui.Current().Title
}

// resize fits the list to the window, leaving room for the add panel.
func (m *Model) resize() {
	if m.width == 0 {
		return
	}
	h := m.height - 4
	if m.adding {
		h -= 3
	}
	m.list.SetSize(m.width-4, max(h, 1))
}

func (m *Model) selected() (model.Item, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it.Item, ok
}

func (m Model) Init() tea.Cmd {
	return m.request(m.items.RequestLoad)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case resultMsg:
		if m.pending > 0 {
			m.pending--
		}
		m.err = m.items.Apply(msg.Result)
		m.status = ""
		if m.err == nil {
			m.status = describe(msg.Result)
		}
		m.refresh()
		return m, nil
	}

	if m.adding {
		return m.updateForm(msg)
	}

	if k, isKey := msg.(tea.KeyMsg); isKey {
		switch {
		case key.Matches(k, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(k, m.keys.Toggle):
			it, ok := m.selected()
			if !ok {
				return m, nil
			}
			return m, m.request(func(ctx context.Context) shoplist.Result {
				return m.items.RequestUpdate(ctx, it.ID, model.InCart(!it.IsInCart))
			})
		case key.Matches(k, m.keys.Delete):
			it, ok := m.selected()
			if !ok {
				return m, nil
			}
			return m, m.request(func(ctx context.Context) shoplist.Result {
				return m.items.RequestDelete(ctx, it.ID)
			})
		case key.Matches(k, m.keys.Add):
			m.adding = true
			m.resize()
			m.ti.SetValue("")
			return m, m.ti.Focus()
		case key.Matches(k, m.keys.Filter):
			m.filter.Next()
			m.list.ResetSelected()
			m.refresh()
			return m, nil
		case key.Matches(k, m.keys.Theme):
			ui.ToggleDark()
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, isKey := msg.(tea.KeyMsg); isKey {
		switch k.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			m.form.Name = strings.TrimSpace(m.ti.Value())
			d := m.form.Submit()
			m.adding = false
			m.resize()
			m.ti.SetValue("")
			m.ti.Blur()
			items := m.items
			return m, m.request(func(ctx context.Context) shoplist.Result {
				return items.RequestAdd(ctx, d)
			})
		case "tab":
			m.form.NextCategory()
			return m, nil
		case "esc":
			m.form.Reset()
			m.adding = false
			m.resize()
			m.ti.SetValue("")
			m.ti.Blur()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	t := ui.Current()
	content := m.list.View()
	if m.adding {
		title := fmt.Sprintf("Add new item  %s %s",
			t.Category.Render(string(m.form.Category)),
			t.Muted.Render("(tab: category, enter: add, esc: cancel)"))
		content += "\n" + ui.PanelString(title+"\n"+m.ti.View())
	}
	switch {
	case m.err != nil:
		content += "\n" + t.Error.Render(t.SymFail+" "+m.err.Error())
	case m.pending > 0:
		content += "\n" + t.Pending.Render("working...")
	case m.status != "":
		content += "\n" + t.Success.Render(t.SymOK+" "+m.status)
	}
	return ui.PanelString(content)
}

func describe(r shoplist.Result) string {
	switch r.Op {
	case shoplist.OpLoad:
		return fmt.Sprintf("loaded %d items", len(r.Items))
	case shoplist.OpAdd:
		return fmt.Sprintf("added %s", r.Item.Name)
	case shoplist.OpUpdate:
		if r.Item.IsInCart {
			return fmt.Sprintf("%s added to cart", r.Item.Name)
		}
		return fmt.Sprintf("%s removed from cart", r.Item.Name)
	case shoplist.OpDelete:
		return fmt.Sprintf("deleted #%d", r.ID)
	}
	return ""
}
