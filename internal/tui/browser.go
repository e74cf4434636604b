package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"idfctl/internal/matrix"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))
)

const (
	colApp     = 24
	colBuild   = 12
	colVersion = 16
	colTarget  = 10
	colSource  = 8
)

// Browser is the interactive view over the build matrix. It supports
// filtering rows by app name (`/`) and copying the selected combination to
// the clipboard (`c`).
type Browser struct {
	all []matrix.Row

	// visible mirrors the table rows after filtering; the clipboard copy
	// reads from here because the rendered cells are truncated for display.
	visible []matrix.Row

	table     table.Model
	filter    textinput.Model
	filtering bool
	status    string
}

// NewBrowser builds the browser over a pre-generated matrix.
func NewBrowser(rows []matrix.Row) Browser {
	columns := []table.Column{
		{Title: "App", Width: colApp},
		{Title: "Build Type", Width: colBuild},
		{Title: "IDF Version", Width: colVersion},
		{Title: "Target", Width: colTarget},
		{Title: "Source", Width: colSource},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(tableRows(rows)),
		table.WithFocused(true),
		table.WithHeight(15),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("252"))
	styles.Selected = styles.Selected.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	t.SetStyles(styles)

	filter := textinput.New()
	filter.Placeholder = "app name"
	filter.Prompt = "/"
	filter.CharLimit = 64

	return Browser{
		all:     rows,
		visible: rows,
		table:   t,
		filter:  filter,
		status:  fmt.Sprintf("%d combinations", len(rows)),
	}
}

func tableRows(rows []matrix.Row) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, table.Row{
			runewidth.Truncate(r.AppName, colApp, "…"),
			runewidth.Truncate(r.BuildType, colBuild, "…"),
			runewidth.Truncate(r.IDFVersion, colVersion, "…"),
			runewidth.Truncate(r.Target, colTarget, "…"),
			r.ConfigSource,
		})
	}
	return out
}

func (b Browser) Init() tea.Cmd { return nil }

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if b.filtering {
			switch msg.String() {
			case "enter":
				b.filtering = false
				b.filter.Blur()
				b.applyFilter()
			case "esc":
				b.filtering = false
				b.filter.Blur()
				b.filter.SetValue("")
				b.applyFilter()
			default:
				var cmd tea.Cmd
				b.filter, cmd = b.filter.Update(msg)
				return b, cmd
			}
			return b, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			return b, tea.Quit
		case "esc":
			if b.filter.Value() != "" {
				b.filter.SetValue("")
				b.applyFilter()
				return b, nil
			}
			return b, tea.Quit
		case "/":
			b.filtering = true
			return b, b.filter.Focus()
		case "c":
			b.copySelected()
			return b, nil
		}
	case tea.WindowSizeMsg:
		b.table.SetHeight(msg.Height - 6)
	}

	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	return b, cmd
}

func (b *Browser) applyFilter() {
	needle := strings.ToLower(b.filter.Value())
	if needle == "" {
		b.visible = b.all
		b.table.SetRows(tableRows(b.all))
		b.status = fmt.Sprintf("%d combinations", len(b.all))
		return
	}
	var filtered []matrix.Row
	for _, r := range b.all {
		if strings.Contains(strings.ToLower(r.AppName), needle) {
			filtered = append(filtered, r)
		}
	}
	b.visible = filtered
	b.table.SetRows(tableRows(filtered))
	b.table.GotoTop()
	b.status = fmt.Sprintf("%d of %d combinations (filter: %s)", len(filtered), len(b.all), b.filter.Value())
}

// selectedTriple returns the selected combination exactly as the build
// driver expects it, untouched by display truncation.
func (b *Browser) selectedTriple() (string, bool) {
	cursor := b.table.Cursor()
	if cursor < 0 || cursor >= len(b.visible) {
		return "", false
	}
	row := b.visible[cursor]
	return fmt.Sprintf("%s %s %s", row.AppName, row.BuildType, row.IDFVersion), true
}

func (b *Browser) copySelected() {
	text, ok := b.selectedTriple()
	if !ok {
		b.status = "nothing selected"
		return
	}
	if err := clipboard.WriteAll(text); err != nil {
		b.status = fmt.Sprintf("copy failed: %v", err)
		return
	}
	b.status = fmt.Sprintf("copied %q", text)
}

func (b Browser) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("idfctl build matrix"))
	sb.WriteString("\n")
	if b.filtering {
		sb.WriteString(b.filter.View())
		sb.WriteString("\n")
	}
	sb.WriteString(tableBorderStyle.Render(b.table.View()))
	sb.WriteString("\n")
	sb.WriteString(statusStyle.Render(b.status + "  •  ↑/↓ move, / filter, c copy, q quit"))
	return sb.String()
}

// Run launches the browser in the alternate screen and blocks until the
// user quits.
func Run(rows []matrix.Row) error {
	program := tea.NewProgram(NewBrowser(rows), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
