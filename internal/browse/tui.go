package browse

import (
	"fmt"
	"os/exec"
	"runtime"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobhunter/internal/model"
)

// Lines per item in the list pane (title + subtitle + blank separator).
const itemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

type sortKey int

const (
	sortNewest sortKey = iota
	sortRelevance
	sortRemote
	sortEU
	sortKeyCount
)

func (k sortKey) String() string {
	switch k {
	case sortRelevance:
		return "backend"
	case sortRemote:
		return "remote"
	case sortEU:
		return "eu"
	default:
		return "newest"
	}
}

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39"))

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	itemTitleStyle = lipgloss.NewStyle().
			Bold(true)

	itemSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	highScoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	bodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
)

// Item is one row in the browser. Analysis is nil for pending listings.
type Item struct {
	Listing  model.Listing
	Analysis *model.Analysis
}

// ItemsFromScored converts store rows into browser items.
func ItemsFromScored(rows []model.ScoredListing) []Item {
	items := make([]Item, len(rows))
	for i, r := range rows {
		a := r.Analysis
		items[i] = Item{Listing: r.Listing, Analysis: &a}
	}
	return items
}

// ItemsFromPending converts unanalyzed listings into browser items.
func ItemsFromPending(listings []model.Listing) []Item {
	items := make([]Item, len(listings))
	for i, l := range listings {
		items[i] = Item{Listing: l}
	}
	return items
}

type browseModel struct {
	title        string
	items        []Item
	cursor       int
	sortBy       sortKey
	listViewport viewport.Model
	sideViewport viewport.Model
	detailView   viewport.Model
	view         viewState
	width        int
	height       int
	ready        bool
	wantQuit     bool
}

func newBrowseModel(title string, items []Item) browseModel {
	m := browseModel{title: title, items: items}
	sortItems(m.items, m.sortBy)
	return m
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}
	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "s":
		m.sortBy = (m.sortBy + 1) % sortKeyCount
		sortItems(m.items, m.sortBy)
		m.cursor = 0
		m.recalcContent()
		m.listViewport.SetYOffset(0)
		return m, nil
	case "o":
		if it, ok := m.selected(); ok {
			openURL(it.Listing.URL)
		}
		return m, nil
	case "enter":
		if it, ok := m.selected(); ok {
			m.view = viewDetail
			m.detailView = viewport.New(max(m.width-4, 20), max(m.height-4, 5))
			m.detailView.SetContent(renderDetail(it, max(m.width-8, 20), true))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.listViewport, cmd = m.listViewport.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		if it, ok := m.selected(); ok {
			openURL(it.Listing.URL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailView, cmd = m.detailView.Update(msg)
	return m, cmd
}

func (m browseModel) selected() (Item, bool) {
	if len(m.items) == 0 {
		return Item{}, false
	}
	return m.items[m.cursor], true
}

func (m *browseModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.items)-1, 0))
	m.recalcContent()
	m.ensureCursorVisible()
}

func (m *browseModel) ensureCursorVisible() {
	top := m.cursor * itemHeight
	bottom := top + itemHeight - 1
	vp := &m.listViewport
	if top < vp.YOffset {
		vp.SetYOffset(top)
	} else if bottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(bottom - vp.Height + 1)
	}
}

func (m *browseModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	listWidth := max((m.width-5)*2/5, 24)
	sideWidth := max(m.width-5-listWidth, 24)

	// Header (1 line) + border top/bottom (2) + status bar (1).
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.listViewport = viewport.New(listWidth, paneHeight)
		m.sideViewport = viewport.New(sideWidth, paneHeight)
		m.ready = true
	} else {
		m.listViewport.Width, m.listViewport.Height = listWidth, paneHeight
		m.sideViewport.Width, m.sideViewport.Height = sideWidth, paneHeight
	}
	if m.view == viewDetail {
		m.detailView.Width = max(m.width-4, 20)
		m.detailView.Height = max(m.height-4, 5)
	}
	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.listViewport.SetContent(renderItems(m.items, m.cursor))
	if it, ok := m.selected(); ok {
		m.sideViewport.SetContent(renderDetail(it, max(m.sideViewport.Width-2, 20), false))
	} else {
		m.sideViewport.SetContent("")
	}
	m.sideViewport.SetYOffset(0)
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	listWidth := m.listViewport.Width
	sideWidth := m.sideViewport.Width

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth+2).Render(headerStyle.Render(fmt.Sprintf("%s (%d)", m.title, len(m.items)))),
		" ",
		lipgloss.NewStyle().Width(sideWidth+2).Render(headerStyle.Render("Details")),
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		activeBorderStyle.Width(listWidth).Render(m.listViewport.View()),
		" ",
		inactiveBorderStyle.Width(sideWidth).Render(m.sideViewport.View()),
	)

	status := fmt.Sprintf(" sort: %s    ↑/↓ move  s sort  enter open  o browser  esc back  q quit", m.sortBy)
	return headerRow + "\n" + panes + "\n" + statusBarStyle.Width(m.width).Render(status)
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Listing")
	content := activeBorderStyle.Width(m.width - 2).Render(m.detailView.View())
	status := statusBarStyle.Width(m.width).Render(" o open URL  esc/backspace back  ↑/↓ scroll  q quit")
	return title + "\n" + content + "\n" + status
}

func renderItems(items []Item, cursor int) string {
	if len(items) == 0 {
		return "  (no listings)"
	}

	var b strings.Builder
	for i, it := range items {
		titleSt, subtitleSt, prefix := itemTitleStyle, itemSubtitleStyle, "  "
		if i == cursor {
			titleSt, subtitleSt, prefix = selectedTitleStyle, selectedSubtitleStyle, "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(displayTitle(it.Listing)))
		b.WriteByte('\n')

		sub := fmt.Sprintf("%s · %s", it.Listing.Source, it.Listing.PublishedAt.Format("2006-01-02"))
		if it.Analysis != nil {
			sub += fmt.Sprintf(" · R %.2f B %.2f EU %.2f", it.Analysis.Remote, it.Analysis.Relevance, it.Analysis.EUEligible)
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(sub))
		b.WriteByte('\n')

		if i < len(items)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func renderDetail(it Item, width int, withBody bool) string {
	l := it.Listing
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	addField("Title", displayTitle(l))
	addField("Source", l.Source)
	addField("Location", l.Location)
	addField("Published", l.PublishedAt.Format("2006-01-02 15:04 MST"))
	addField("URL", l.URL)

	b.WriteByte('\n')
	if a := it.Analysis; a != nil {
		addField("Salary", model.FormatSalaryRange(a.SalaryMin, a.SalaryMax))
		addField("Remote", formatScore(a.Remote))
		addField("Backend", formatScore(a.Relevance))
		addField("EU", formatScore(a.EUEligible))
		addField("Analyzed", a.AnalyzedAt.Format("2006-01-02 15:04 MST"))
	} else {
		addField("Salary", l.FormatSalary())
		addField("Status", "not analyzed yet")
	}

	if withBody && l.Content != "" {
		label := "── Description "
		b.WriteString("\n" + dividerStyle.Render(label+strings.Repeat("─", max(width-len(label), 3))) + "\n\n")
		b.WriteString(bodyStyle.Render(wordWrap(l.Content, width)) + "\n")
	}
	return b.String()
}

func formatScore(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	if v >= 0.8 {
		return highScoreStyle.Render(s)
	}
	return s
}

func displayTitle(l model.Listing) string {
	if l.Title != "" {
		return l.Title
	}
	return l.URL
}

// sortItems orders items by key, newest first on ties. Pending items sort
// below scored ones for every score key.
func sortItems(items []Item, key sortKey) {
	score := func(it Item) float64 {
		if it.Analysis == nil {
			return -1
		}
		switch key {
		case sortRelevance:
			return it.Analysis.Relevance
		case sortRemote:
			return it.Analysis.Remote
		case sortEU:
			return it.Analysis.EUEligible
		}
		return 0
	}
	newest := func(it Item) int64 {
		if it.Analysis != nil {
			return it.Analysis.AnalyzedAt.UnixNano()
		}
		return it.Listing.PublishedAt.UnixNano()
	}

	sort.SliceStable(items, func(i, j int) bool {
		if key != sortNewest {
			si, sj := score(items[i]), score(items[j])
			if si != sj {
				return si > sj
			}
		}
		return newest(items[i]) > newest(items[j])
	})
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the full-screen browser over items. It returns wantQuit=true
// if the user pressed q, false if they pressed esc to go back to the picker.
func Run(title string, items []Item) (bool, error) {
	p := tea.NewProgram(newBrowseModel(title, items), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	return result.(browseModel).wantQuit, nil
}
