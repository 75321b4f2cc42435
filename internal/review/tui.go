// Package review provides the interactive terminal UI for triaging
// stored jobs: marking them Saved/Applied/Rejected, or deleting them.
package review

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/priyamv/jobhub/internal/dates"
	"github.com/priyamv/jobhub/internal/store"
)

// Lines per job item in the list (title + subtitle + blank separator).
const jobItemHeight = 3

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	jobTitleStyle = lipgloss.NewStyle().
			Bold(true)

	jobSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedJobTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedJobSubtitleStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("252")).
					Background(lipgloss.Color("24"))

	hotMarkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))

	statusTagStyles = map[string]lipgloss.Style{
		store.StatusNew:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		store.StatusSaved:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		store.StatusApplied:  lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		store.StatusRejected: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
)

type reviewModel struct {
	st      *store.Store
	records []store.Record
	cursor  int
	vp      viewport.Model
	width   int
	height  int
	ready   bool

	notice    string
	noticeErr bool

	now time.Time
}

func (m reviewModel) Init() tea.Cmd {
	return nil
}

func (m reviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m reviewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "s":
		m.setStatus(store.StatusSaved)
		return m, nil
	case "a":
		m.setStatus(store.StatusApplied)
		return m, nil
	case "r":
		m.setStatus(store.StatusRejected)
		return m, nil
	case "n":
		m.setStatus(store.StatusNew)
		return m, nil
	case "x":
		m.deleteCurrent()
		return m, nil
	case "o", "enter":
		if rec, ok := m.current(); ok {
			openURL(rec.Job.URL)
		}
		return m, nil
	}

	// Forward other keys (pgup/pgdn/home/end) to the viewport.
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m reviewModel) current() (store.Record, bool) {
	if len(m.records) == 0 {
		return store.Record{}, false
	}
	return m.records[m.cursor], true
}

func (m *reviewModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.records)-1, 0))
	m.recalcContent()
	m.ensureCursorVisible()
}

func (m *reviewModel) setStatus(status string) {
	rec, ok := m.current()
	if !ok {
		return
	}
	if err := m.st.UpdateStatus(rec.ID, status); err != nil {
		m.notice = err.Error()
		m.noticeErr = true
	} else {
		m.notice = fmt.Sprintf("%s → %s", rec.Job.Title, status)
		m.noticeErr = false
	}
	m.reload()
}

func (m *reviewModel) deleteCurrent() {
	rec, ok := m.current()
	if !ok {
		return
	}
	if err := m.st.Delete(rec.ID); err != nil {
		m.notice = err.Error()
		m.noticeErr = true
	} else {
		m.notice = fmt.Sprintf("deleted %s", rec.Job.Title)
		m.noticeErr = false
	}
	m.reload()
}

// reload re-reads the store so derived fields (applied_at, follow_up_at)
// stay in sync after a mutation.
func (m *reviewModel) reload() {
	records, err := m.st.All()
	if err != nil {
		m.notice = err.Error()
		m.noticeErr = true
		return
	}
	m.records = records
	m.cursor = clamp(m.cursor, 0, max(len(m.records)-1, 0))
	m.recalcContent()
	m.ensureCursorVisible()
}

func (m *reviewModel) ensureCursorVisible() {
	cursorTop := m.cursor * jobItemHeight
	cursorBottom := cursorTop + jobItemHeight - 1

	if cursorTop < m.vp.YOffset {
		m.vp.SetYOffset(cursorTop)
	} else if cursorBottom >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(cursorBottom - m.vp.Height + 1)
	}
}

func (m *reviewModel) recalcLayout() {
	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	listWidth := max(m.width-2, 20)
	listHeight := max(m.height-4, 5)

	if !m.ready {
		m.vp = viewport.New(listWidth, listHeight)
		m.ready = true
	} else {
		m.vp.Width = listWidth
		m.vp.Height = listHeight
	}

	m.recalcContent()
}

func (m *reviewModel) recalcContent() {
	m.vp.SetContent(m.renderRecords())
}

func (m reviewModel) renderRecords() string {
	if len(m.records) == 0 {
		return "No jobs in the database. Run `jobhub harvest` first."
	}

	var b strings.Builder
	for i, r := range m.records {
		titleSt, subtitleSt := jobTitleStyle, jobSubtitleStyle
		prefix := "  "
		if i == m.cursor {
			titleSt, subtitleSt = selectedJobTitleStyle, selectedJobSubtitleStyle
			prefix = "> "
		}

		title := r.Job.Title
		if r.Job.Hot {
			title = hotMarkStyle.Render("● ") + titleSt.Render(title)
		} else {
			title = titleSt.Render(title)
		}
		b.WriteString(prefix)
		b.WriteString(title)
		b.WriteString("  ")
		b.WriteString(statusTagStyles[r.Status].Render("[" + r.Status + "]"))
		b.WriteByte('\n')

		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s · %s · %s",
			r.Job.Company, r.Job.Location, r.Job.Source, dates.Age(r.Job.PostedAt, m.now))))
		b.WriteByte('\n')

		if i < len(m.records)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m reviewModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := headerStyle.Render(fmt.Sprintf(" Review Jobs (%d)", len(m.records)))
	list := borderStyle.Width(m.vp.Width).Render(m.vp.View())

	statusText := " ↑/↓ cursor  s save  a applied  r reject  n new  x delete  o open  q quit"
	if m.notice != "" {
		st := noticeStyle
		if m.noticeErr {
			st = errorStyle
		}
		statusText = " " + st.Render(m.notice)
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return header + "\n" + list + "\n" + statusBar
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

// Run launches the interactive review TUI over the jobs in st.
func Run(st *store.Store) error {
	records, err := st.All()
	if err != nil {
		return fmt.Errorf("loading jobs for review: %w", err)
	}

	m := reviewModel{
		st:      st,
		records: records,
		now:     time.Now().UTC(),
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
