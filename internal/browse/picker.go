package browse

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// Source selects which listings the browser shows.
type Source int

const (
	SourceScored Source = iota
	SourcePending
)

// pickerQuit is the chosen value when the user leaves without choosing.
const pickerQuit = -1

type pickerModel struct {
	title   string
	options []string
	cursor  int
	chosen  int
}

func newPickerModel(title string, options []string) pickerModel {
	return pickerModel{title: title, options: options, chosen: pickerQuit}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.chosen = pickerQuit
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		m.chosen = m.cursor
		return m, tea.Quit
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render(m.title) + "\n"
	for i, opt := range m.options {
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+opt) + "\n"
		} else {
			s += pickerItemStyle.Render(opt) + "\n"
		}
	}
	s += pickerHintStyle.Render("↑/↓/j/k navigate  enter select  q quit")
	return s
}

// RunSourcePicker asks which listings to browse. ok is false if the user quit.
func RunSourcePicker(scored, pending int) (src Source, ok bool, err error) {
	m := newPickerModel("jobhunter: browse listings", []string{
		pluralize(scored, "analyzed listing"),
		pluralize(pending, "pending listing"),
	})

	result, err := tea.NewProgram(m).Run()
	if err != nil {
		return 0, false, err
	}
	final := result.(pickerModel)
	if final.chosen == pickerQuit {
		return 0, false, nil
	}
	return Source(final.chosen), true, nil
}
