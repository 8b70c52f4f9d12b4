package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vbonduro/prepstock/internal/domain"
	"github.com/vbonduro/prepstock/internal/filter"
	"github.com/vbonduro/prepstock/internal/service"
	"github.com/vbonduro/prepstock/internal/status"
)

// listItem adapts service.ItemView to bubbles/list.Item.
type listItem struct {
	service.ItemView
}

func (i listItem) Title() string       { return i.Name }
func (i listItem) Description() string { return i.CategoryLabel }
func (i listItem) FilterValue() string { return i.Name }

// itemDelegate renders one item per line.
type itemDelegate struct {
	theme Theme
}

func (d itemDelegate) Height() int { return 1 }
func (d itemDelegate) Spacing() int { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := d.theme

	prefix := "  "
	name := it.Name
	if index == m.Index() {
		prefix = t.Selected.Render("> ")
		name = t.Title.Render(name)
	}
	fmt.Fprintf(w, "%s%s  %-28s %-14s %s",
		prefix,
		t.Badge(it.Status),
		name,
		t.Muted.Render(it.CategoryLabel),
		t.status(it.Status).Render(status.DaysLabel(it.DaysRemaining)),
	)
}

var browseKeys = struct {
	search, category, status, days, reset, quit key.Binding
}{
	search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	category: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "category")),
	status:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "status")),
	days:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "days")),
	reset:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
	quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var browseStatuses = []domain.Status{filter.All, domain.StatusSafe, domain.StatusWarning, domain.StatusDanger}

// browseModel is the bubbletea model behind `prepstock browse`. It re-runs
// the filter engine on every query change.
type browseModel struct {
	svc   *service.InventoryService
	theme Theme

	list       list.Model
	search     textinput.Model
	searching  bool
	query      filter.Query
	categories []domain.Category
	total      int
	matched    int
}

func newBrowseModel(svc *service.InventoryService, theme Theme) browseModel {
	l := list.New(nil, itemDelegate{theme: theme}, 80, 20)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(true)

	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "search by name..."
	ti.CharLimit = 100

	categories := []domain.Category{filter.All}
	for _, o := range svc.CategoryResolver().Options() {
		categories = append(categories, o.Value)
	}

	m := browseModel{
		svc:        svc,
		theme:      theme,
		list:       l,
		search:     ti,
		query:      filter.Query{Category: filter.All, Status: filter.All, Days: filter.BucketAll},
		categories: categories,
	}
	m.refresh()
	return m
}

func (m *browseModel) refresh() {
	res := m.svc.ListItems(m.query)
	views := m.svc.Views(res.Items)

	items := make([]list.Item, 0, len(views))
	for _, v := range views {
		items = append(items, listItem{ItemView: v})
	}
	m.list.SetItems(items)
	m.total = res.Total
	m.matched = len(res.Items)
}

// next returns the option after cur, wrapping around.
func next[T comparable](opts []T, cur T) T {
	i := slices.Index(opts, cur)
	return opts[(i+1)%len(opts)]
}

func (m browseModel) Init() tea.Cmd { return nil }

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.list.SetSize(size.Width-4, max(size.Height-8, 3))
		return m, nil
	}

	if m.searching {
		var cmd tea.Cmd
		if k, ok := msg.(tea.KeyMsg); ok {
			switch k.String() {
			case "enter":
				m.searching = false
				m.search.Blur()
				return m, nil
			case "esc":
				m.searching = false
				m.search.SetValue("")
				m.search.Blur()
				m.query.Text = ""
				m.refresh()
				return m, nil
			}
		}
		m.search, cmd = m.search.Update(msg)
		if m.query.Text != m.search.Value() {
			m.query.Text = m.search.Value()
			m.refresh()
		}
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(k, browseKeys.quit):
			return m, tea.Quit
		case key.Matches(k, browseKeys.search):
			m.searching = true
			m.search.CursorEnd()
			return m, m.search.Focus()
		case key.Matches(k, browseKeys.category):
			m.query.Category = next(m.categories, m.query.Category)
			m.refresh()
			return m, nil
		case key.Matches(k, browseKeys.status):
			m.query.Status = next(browseStatuses, m.query.Status)
			m.refresh()
			return m, nil
		case key.Matches(k, browseKeys.days):
			m.query.Days = next(filter.Buckets, m.query.Days)
			m.refresh()
			return m, nil
		case key.Matches(k, browseKeys.reset):
			m.query = filter.Query{Category: filter.All, Status: filter.All, Days: filter.BucketAll}
			m.search.SetValue("")
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	t := m.theme
	r := m.svc.CategoryResolver()

	category := "all"
	if m.query.Category != filter.All {
		category = r.Label(m.query.Category)
	}
	chips := fmt.Sprintf("category: %s   status: %s   days: %s",
		t.Accent.Render(category),
		t.Accent.Render(string(m.query.Status)),
		t.Accent.Render(string(m.query.Days)),
	)

	var b strings.Builder
	b.WriteString(t.Title.Render("Supplies") + "  " + t.Muted.Render(fmt.Sprintf("%d of %d", m.matched, m.total)))
	b.WriteString("\n" + chips + "\n")
	if m.searching || m.search.Value() != "" {
		b.WriteString(m.search.View() + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.total == 0:
		b.WriteString(t.Muted.Render("No items yet. Add one with `prepstock add`."))
	case m.matched == 0:
		b.WriteString(t.Muted.Render("No items match these filters. Press r to reset."))
	default:
		b.WriteString(m.list.View())
	}

	help := []string{}
	for _, k := range []key.Binding{browseKeys.search, browseKeys.category, browseKeys.status, browseKeys.days, browseKeys.reset, browseKeys.quit} {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString("\n\n" + t.Muted.Render(strings.Join(help, "  ")))

	return t.panel([]string{b.String()})
}

func runProgram(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
