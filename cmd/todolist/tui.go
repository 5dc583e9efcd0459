package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/vinayprograms/syllabus/internal/config"
	"github.com/vinayprograms/syllabus/internal/content"
	"github.com/vinayprograms/syllabus/internal/todolist"
)

type ColorScheme struct {
	section   lipgloss.Style
	pending   lipgloss.Style
	completed lipgloss.Style
	title     lipgloss.Style
	parent    lipgloss.Style
	line      lipgloss.Style
	border    lipgloss.Style
	progress  lipgloss.Style
	status    lipgloss.Style
}

var colors ColorScheme

func InitializeColors(cfg *config.Config) {
	c := cfg.Colors
	colors = ColorScheme{
		section:   lipgloss.NewStyle().Foreground(lipgloss.Color(c.SectionColor)),
		pending:   lipgloss.NewStyle().Foreground(lipgloss.Color(c.PendingColor)),
		completed: lipgloss.NewStyle().Foreground(lipgloss.Color(c.CompletedColor)),
		title:     lipgloss.NewStyle().Foreground(lipgloss.Color(c.TitleColor)),
		parent:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.ParentColor)),
		line:      lipgloss.NewStyle().Foreground(lipgloss.Color(c.LineColor)),
		border:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.TableBorderColor)),
		progress:  lipgloss.NewStyle().Foreground(lipgloss.Color(c.ProgressBarColor)),
		status:    lipgloss.NewStyle().Foreground(lipgloss.Color(c.LineColor)).Italic(true),
	}
}

type taskItem struct {
	task todolist.Task
}

func (i taskItem) FilterValue() string {
	return strings.Join([]string{i.task.Section, i.task.Subsection, i.task.DisplayTitle()}, " ")
}

func (i taskItem) Title() string {
	var parts []string

	parts = append(parts, colors.line.Render(fmt.Sprintf("%5d", i.task.LineNumber+1)))
	if i.task.Completed {
		parts = append(parts, colors.completed.Render("[x]"))
	} else {
		parts = append(parts, colors.pending.Render("[ ]"))
	}

	indent := strings.Repeat("  ", i.task.Indent/2)
	if i.task.Completed {
		parts = append(parts, indent+colors.completed.Render(i.task.DisplayTitle()))
	} else {
		parts = append(parts, indent+todolist.RenderTitle(i.task.Title, colors.title, colors.parent))
	}

	heading := i.task.Section
	if i.task.Subsection != "" {
		heading += " / " + i.task.Subsection
	}
	if heading != "" {
		parts = append(parts, colors.section.Render(heading))
	}

	return strings.Join(parts, " ")
}

func (i taskItem) Description() string { return "" }

type model struct {
	list          list.Model
	tracker       *todolist.Tracker
	watcher       *fsnotify.Watcher
	logger        *zap.Logger
	showCompleted bool
	status        string
	quitting      bool
}

type fileChangedMsg struct{}

type markedMsg struct {
	line int
	ok   bool
	err  error
}

func waitForFileChange(watcher *fsnotify.Watcher, name string, logger *zap.Logger) tea.Cmd {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func() tea.Msg {
		if watcher == nil {
			return nil
		}

		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				// The directory is watched so atomic renames are seen.
				if filepath.Base(event.Name) != name {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
					return fileChangedMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Warn("watcher error", zap.String("file", name), zap.Error(err))
			}
		}
	}
}

func markCmd(tracker *todolist.Tracker, line int) tea.Cmd {
	return func() tea.Msg {
		ok, err := tracker.MarkComplete(line)
		return markedMsg{line: line, ok: ok, err: err}
	}
}

func (m model) watchCmd() tea.Cmd {
	return waitForFileChange(m.watcher, filepath.Base(m.tracker.Path()), m.logger)
}

func (m model) Init() tea.Cmd {
	return m.watchCmd()
}

func (m *model) reload() {
	tasks, err := m.tracker.Load()
	if err != nil {
		m.status = err.Error()
		return
	}
	m.list.SetItems(taskItems(tasks, m.showCompleted))
	m.list.Title = listTitle(todolist.ComputeStats(tasks))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "esc" || (msg.String() == "q" && m.list.FilterState() != list.Filtering) {
			m.quitting = true
			return m, tea.Quit
		}

		if m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "enter", "x":
				if i, ok := m.list.SelectedItem().(taskItem); ok && !i.task.Completed {
					return m, markCmd(m.tracker, i.task.LineNumber)
				}
				return m, nil
			case "c":
				m.showCompleted = !m.showCompleted
				m.reload()
				return m, nil
			}
		}
	case markedMsg:
		switch {
		case msg.err != nil:
			m.status = msg.err.Error()
		case !msg.ok:
			m.status = fmt.Sprintf("line %d has no unchecked task", msg.line+1)
		default:
			m.status = fmt.Sprintf("checked off line %d", msg.line+1)
		}
		m.reload()
		return m, nil
	case fileChangedMsg:
		m.reload()
		return m, m.watchCmd()
	case tea.WindowSizeMsg:
		m.list.SetWidth(msg.Width)
		m.list.SetHeight(msg.Height - 2)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View() + "\n" + colors.status.Render(m.status)
}

func taskItems(tasks []todolist.Task, showCompleted bool) []list.Item {
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		if t.Completed && !showCompleted {
			continue
		}
		items = append(items, taskItem{task: t})
	}
	return items
}

func listTitle(stats todolist.Stats) string {
	return fmt.Sprintf("Checklist %s %d/%d (%d%%)",
		content.ProgressBar(stats.Completed, stats.Total), stats.Completed, stats.Total, stats.Percent())
}

func (a *app) showInteractiveTUI() error {
	tasks, err := a.tracker.Load()
	if err != nil {
		return err
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)

	l := list.New(taskItems(tasks, false), delegate, 0, 0)
	l.Title = listTitle(todolist.ComputeStats(tasks))
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.KeyMap.Quit.SetKeys("esc", "ctrl+c")
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter", "x"), key.WithHelp("enter/x", "check off")),
			key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "toggle completed")),
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		a.logger.Sugar().Warnf("live reload disabled: %v", err)
		watcher = nil
	} else {
		defer watcher.Close()
		if err := watcher.Add(filepath.Dir(a.tracker.Path())); err != nil {
			a.logger.Sugar().Warnf("live reload disabled: %v", err)
		}
	}

	m := model{
		list:    l,
		tracker: a.tracker,
		watcher: watcher,
		logger:  a.logger,
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
