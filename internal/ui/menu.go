package ui

import (
	"cmp"
	"fmt"
	"io"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/list"
	tea "charm.land/bubbletea/v2"
	lipgloss "charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/iiroan/prism/internal/theme"
)

// Sentinel choices returned by RunMenu when the user leaves without picking.
const (
	MenuActionBack = "__back__"
	MenuActionQuit = "__quit__"
)

type MenuOption func(*menuConfig)

type menuConfig struct {
	backLabel string // empty means q/esc quit instead of going back
	selectID  string
	status    []StatusLine
}

// StatusLine is a label/value pair shown in the menu side panel.
type StatusLine struct {
	Label string
	Value string
}

// WithBackNavigation makes q/esc return MenuActionBack, labelled label in the help line.
func WithBackNavigation(label string) MenuOption {
	return func(cfg *menuConfig) {
		cfg.backLabel = cmp.Or(label, "back")
	}
}

// WithInitialSelectionID pre-selects an item by ID when the menu opens.
func WithInitialSelectionID(id string) MenuOption {
	return func(cfg *menuConfig) {
		cfg.selectID = strings.TrimSpace(id)
	}
}

// WithStatus shows the given lines under "Current" in the side panel.
func WithStatus(lines ...StatusLine) MenuOption {
	return func(cfg *menuConfig) {
		cfg.status = append(cfg.status, lines...)
	}
}

// MenuItem represents a selectable item in a TUI list.
type MenuItem struct {
	ID        string
	TitleText string
	Details   string
}

func (m MenuItem) Title() string       { return m.TitleText }
func (m MenuItem) Description() string { return m.Details }
func (m MenuItem) FilterValue() string { return m.TitleText + " " + m.Details + " " + m.ID }

type menuKeys struct {
	choose key.Binding
	jump   key.Binding
	filter key.Binding
	leave  key.Binding
	abort  key.Binding
}

func newMenuKeys(backLabel string) menuKeys {
	k := menuKeys{
		choose: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		jump:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "jump")),
		filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		abort:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		leave:  key.NewBinding(key.WithKeys("esc", "q"), key.WithHelp("q/esc", "quit")),
	}
	if backLabel != "" {
		k.leave.SetHelp("esc/q", backLabel)
	}
	return k
}

func (k menuKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.choose, k.jump, k.filter, k.leave}
}

func (k menuKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.choose, k.jump, k.filter}, {k.leave, k.abort}}
}

// menuStyles are the v2 styles the menu draws with, taken from the palette
// when the menu opens.
type menuStyles struct {
	muted    lipgloss.Style
	text     lipgloss.Style
	selected lipgloss.Style
	heading  lipgloss.Style
	value    lipgloss.Style
}

func paletteStyle(c string) lipgloss.Style {
	if c == "" {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c))
}

func newMenuStyles() menuStyles {
	return menuStyles{
		muted:    paletteStyle(string(Muted)),
		text:     paletteStyle(string(Foreground)),
		selected: paletteStyle(string(Primary)).Bold(true),
		heading:  paletteStyle(string(Accent)).Bold(true),
		value:    paletteStyle(string(Highlight)),
	}
}

type menuDelegate struct {
	rtl    bool
	styles menuStyles
}

func (d menuDelegate) Height() int                             { return 1 }
func (d menuDelegate) Spacing() int                            { return 0 }
func (d menuDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d menuDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	entry, ok := item.(MenuItem)
	if !ok || m.Width() <= 0 {
		return
	}

	filtering := m.FilterState() == list.Filtering
	label := entry.TitleText
	if entry.Details != "" && m.Width() > 68 {
		label += " - " + entry.Details
	}
	label = ansi.Truncate(label, max(14, m.Width()-6), "...")
	number := strconv.Itoa(index+1) + "."

	numStyle, labelStyle, cursor := d.styles.muted, d.styles.text, " "
	if index == m.Index() && !filtering {
		numStyle, labelStyle, cursor = d.styles.selected, d.styles.selected, "▌"
	} else if filtering && strings.TrimSpace(m.FilterValue()) == "" {
		labelStyle = d.styles.muted
	}

	parts := []string{cursor, numStyle.Render(number), labelStyle.Render(label)}
	if d.rtl {
		parts[0], parts[2] = parts[2], parts[0]
		fmt.Fprint(w, lipgloss.PlaceHorizontal(m.Width(), lipgloss.Right, strings.Join(parts, " "))) //nolint:errcheck
		return
	}
	fmt.Fprint(w, strings.Join(parts, " ")) //nolint:errcheck
}

type menuModel struct {
	list     list.Model
	help     help.Model
	keys     menuKeys
	styles   menuStyles
	title    string
	subtitle string
	status   []StatusLine
	canBack  bool
	rtl      bool

	choice string
	done   bool
	width  int
	height int
}

func newMenuModel(title string, subtitle string, items []MenuItem, cfg menuConfig) menuModel {
	styles := newMenuStyles()
	rtl := DefaultDocument.Dir() == theme.RTL

	listItems := make([]list.Item, 0, len(items))
	selected := 0
	for i, item := range items {
		listItems = append(listItems, item)
		if cfg.selectID != "" && item.ID == cfg.selectID {
			selected = i
		}
	}

	l := list.New(listItems, menuDelegate{rtl: rtl, styles: styles}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Select(selected)

	h := help.New()
	h.Styles.ShortKey = styles.heading
	h.Styles.FullKey = styles.heading
	h.Styles.ShortDesc = styles.muted
	h.Styles.FullDesc = styles.muted
	h.Styles.Ellipsis = styles.muted

	return menuModel{
		list:     l,
		help:     h,
		keys:     newMenuKeys(cfg.backLabel),
		styles:   styles,
		title:    title,
		subtitle: subtitle,
		status:   cfg.status,
		canBack:  cfg.backLabel != "",
		rtl:      rtl,
	}
}

func (m menuModel) Init() tea.Cmd { return nil }

func (m menuModel) finish(choice string) (tea.Model, tea.Cmd) {
	m.choice = choice
	m.done = true
	return m, tea.Quit
}

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		layout := calculateMenuLayout(m.size())
		m.list.SetSize(layout.listWidth, layout.listHeight)
	case tea.KeyPressMsg:
		filtering := m.list.FilterState() == list.Filtering
		switch {
		case key.Matches(msg, m.keys.abort):
			return m.finish(MenuActionQuit)
		case key.Matches(msg, m.keys.choose):
			if item, ok := m.list.SelectedItem().(MenuItem); ok {
				return m.finish(item.ID)
			}
		case !filtering && key.Matches(msg, m.keys.jump):
			if id, ok := m.jump(msg.String()); ok {
				return m.finish(id)
			}
		case !filtering && key.Matches(msg, m.keys.leave):
			if m.canBack {
				return m.finish(MenuActionBack)
			}
			return m.finish(MenuActionQuit)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// jump selects the n-th visible item on the current page.
func (m *menuModel) jump(digit string) (string, bool) {
	n, err := strconv.Atoi(digit)
	if err != nil || n < 1 {
		return "", false
	}
	visible := m.list.VisibleItems()
	target := max(0, m.list.Index()-m.list.Cursor()) + n - 1
	if target >= len(visible) {
		return "", false
	}
	m.list.Select(target)
	item, ok := visible[target].(MenuItem)
	return item.ID, ok
}

func (m menuModel) size() (int, int) {
	return cmp.Or(m.width, TerminalWidth()), cmp.Or(m.height, 26)
}

func (m menuModel) View() tea.View {
	if m.done {
		return tea.View{}
	}

	layout := calculateMenuLayout(m.size())
	left := lipgloss.NewStyle().Width(layout.leftWidth).Height(layout.leftHeight).
		Render(m.listPanel(layout.leftWidth - 1))
	right := lipgloss.NewStyle().Width(layout.rightWidth).Height(layout.rightHeight).
		Render(m.sidePanel(layout.rightWidth-1, layout.rightHeight))

	var body string
	switch {
	case layout.stacked:
		body = lipgloss.JoinVertical(lipgloss.Left, left, "", right)
	case m.rtl:
		body = lipgloss.JoinHorizontal(lipgloss.Top, right, "  ", left)
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	}

	v := tea.NewView(Frame(m.title, m.subtitle, body, m.help.View(m.keys)))
	v.AltScreen = true
	return v
}

func (m menuModel) listPanel(width int) string {
	query := strings.TrimSpace(m.list.FilterValue())
	if query == "" {
		return m.list.View()
	}
	hint := m.styles.muted.Render("filter: " + ansi.Truncate(query, max(10, width-8), "..."))
	return m.list.View() + "\n\n" + hint
}

func (m menuModel) sidePanel(width int, height int) string {
	clip := func(s string) string { return ansi.Truncate(s, max(8, width), "...") }

	lines := []string{m.styles.heading.Render("Selection")}
	if item, ok := m.list.SelectedItem().(MenuItem); ok && item.TitleText != "" {
		lines = append(lines, m.styles.selected.Render(clip(item.TitleText)))
		if d := strings.TrimSpace(item.Details); d != "" {
			lines = append(lines, m.styles.muted.Render(clip(d)))
		}
	} else {
		lines = append(lines, m.styles.muted.Render("No selection"))
	}

	if len(m.status) > 0 {
		lines = append(lines, "", m.styles.heading.Render("Current"))
		for _, s := range m.status {
			label := fmt.Sprintf("%-11s", strings.ToLower(s.Label)+":")
			value := cmp.Or(strings.TrimSpace(s.Value), "-")
			lines = append(lines, clip(m.styles.muted.Render(label)+" "+m.styles.value.Render(value)))
		}
	}

	return strings.Join(lines[:min(len(lines), height)], "\n")
}

type menuLayout struct {
	stacked     bool
	leftWidth   int
	rightWidth  int
	leftHeight  int
	rightHeight int
	listWidth   int
	listHeight  int
}

// sidebarShare is the list panel's share of the width per layout preference.
// Layouts not listed stack the panels.
var sidebarShare = map[string]float64{
	"sidebar":     0.62,
	"big-sidebar": 0.55,
}

const (
	menuGap         = 2
	menuMinList     = 40
	menuMinSide     = 24
	menuStackBelow  = 90
	menuMinPanel    = 8
	menuMinListRows = 5
)

func calculateMenuLayout(width int, height int) menuLayout {
	body := max(10, height-8)

	share, sideBySide := sidebarShare[cmp.Or(CurrentPreferences.Layout, "sidebar")]
	if !sideBySide || width < menuStackBelow || width-menuMinSide-menuGap < menuMinList {
		top := max(menuMinPanel, body*3/5)
		return menuLayout{
			stacked:     true,
			leftWidth:   max(1, width),
			rightWidth:  max(1, width),
			leftHeight:  top,
			rightHeight: max(menuMinPanel, body-top),
			listWidth:   max(4, width-6),
			listHeight:  max(menuMinListRows, top-4),
		}
	}

	left := max(menuMinList, min(int(float64(width)*share), width-menuMinSide-menuGap))
	return menuLayout{
		leftWidth:   left,
		rightWidth:  width - left - menuGap,
		leftHeight:  body,
		rightHeight: body,
		listWidth:   max(4, left-5),
		listHeight:  max(menuMinListRows, body-6),
	}
}

// RunMenu displays a TUI list and returns the selected item ID, or one of the
// MenuAction sentinels.
func RunMenu(title string, subtitle string, items []MenuItem, options ...MenuOption) (string, error) {
	if !IsInteractiveTerminal() {
		return "", fmt.Errorf("non-interactive terminal")
	}
	var cfg menuConfig
	for _, opt := range options {
		opt(&cfg)
	}
	result, err := tea.NewProgram(newMenuModel(title, subtitle, items, cfg)).Run()
	if err != nil {
		return "", err
	}
	if final, ok := result.(menuModel); ok {
		return final.choice, nil
	}
	return "", nil
}
