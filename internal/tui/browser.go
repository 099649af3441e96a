// Package tui is the interactive prompt browser: live fuzzy query over
// the loaded entries, detail pane, clipboard copy, and reload when a
// watched source file changes.
package tui

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"github.com/junhoyeo/prompthistory/internal/logging"
	"github.com/junhoyeo/prompthistory/internal/models"
	"github.com/junhoyeo/prompthistory/internal/search"
	"github.com/junhoyeo/prompthistory/internal/source"
)

var log = logging.ForComponent(logging.CompTUI)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	paneStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))
)

// Browser owns the source being browsed and the bubbletea program.
type Browser struct {
	src  source.Source
	opts models.SearchOptions
}

// NewBrowser browses one source with the given baseline filter options.
// The query field of opts is ignored; the query comes from the input box.
func NewBrowser(src source.Source, opts models.SearchOptions) *Browser {
	return &Browser{src: src, opts: opts}
}

func (b *Browser) Run() error {
	entries, err := b.src.Entries()
	if err != nil {
		return err
	}

	m := initialModel(b.src, b.opts, entries)

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if err := watchSource(watcher, b.src.Path()); err != nil {
			log.Warn("cannot watch source for changes",
				"path", b.src.Path(), "error", err.Error())
			watcher.Close()
		} else {
			m.watcher = watcher
			if info, err := os.Stat(b.src.Path()); err == nil && info.IsDir() {
				m.watchTree = true
			}
			defer watcher.Close()
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

type listItem struct {
	result models.SearchResult
}

// FilterValue is empty: filtering runs through the shared engine, not
// the list component's built-in filter.
func (i listItem) FilterValue() string { return "" }

func (i listItem) Title() string {
	line := i.result.Entry.TruncatedDisplay
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx] + " ..."
	}
	return line
}

func (i listItem) Description() string {
	entry := i.result.Entry
	desc := entry.Time().Format("2006-01-02 15:04")
	if entry.Project != "" {
		desc = fmt.Sprintf("%s | %s", desc, entry.Project)
	}
	return desc
}

// sourceChangedMsg arrives when the watched source file is rewritten.
type sourceChangedMsg struct{}

// reloadedMsg carries the re-read entries back onto the UI goroutine.
type reloadedMsg struct {
	entries []models.EnrichedEntry
	err     error
}

// watchSource registers the source with the watcher. A file source is
// watched through its parent directory; a directory source is watched
// recursively, since its session files live in subdirectories that
// fsnotify does not descend into on its own.
func watchSource(w *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return w.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		return w.Add(p)
	})
}

type model struct {
	src       source.Source
	opts      models.SearchOptions
	engine    *search.Engine
	watcher   *fsnotify.Watcher
	watchTree bool

	list     list.Model
	viewport viewport.Model
	input    textinput.Model

	selected *models.SearchResult
	width    int
	height   int
	ready    bool
	status   string
}

func initialModel(src source.Source, opts models.SearchOptions, entries []models.EnrichedEntry) model {
	input := textinput.New()
	input.Prompt = "/ "
	input.Placeholder = "type to search"
	input.CharLimit = 256
	input.Focus()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Prompts"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.Styles.Title = titleStyle

	vp := viewport.New(0, 0)

	m := model{
		src:      src,
		opts:     opts,
		engine:   search.NewEngine(entries),
		list:     l,
		viewport: vp,
		input:    input,
	}
	m.refresh()
	return m
}

// refresh re-runs the query against the engine and rebuilds the list.
func (m *model) refresh() {
	opts := m.opts
	opts.Query = m.input.Value()
	results := m.engine.Search(opts)

	items := make([]list.Item, 0, len(results))
	for _, r := range results {
		items = append(items, listItem{result: r})
	}
	m.list.SetItems(items)
	m.list.ResetSelected()
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForChange())
}

// waitForChange blocks on the watcher until the source is written, then
// wakes the UI. For a file source only events on the file itself count;
// for a directory source any write inside the tree does.
func (m model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-m.watcher.Events:
				if !ok {
					return nil
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if m.watchTree {
					// New subdirectories join the watch set so session
					// files created in them wake us later.
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						m.watcher.Add(event.Name)
						continue
					}
					return sourceChangedMsg{}
				}
				if event.Name == m.src.Path() {
					return sourceChangedMsg{}
				}
			case _, ok := <-m.watcher.Errors:
				if !ok {
					return nil
				}
			}
		}
	}
}

func (m model) reload() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.src.Entries()
		return reloadedMsg{entries: entries, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		listWidth := m.width / 2
		m.list.SetSize(listWidth-2, m.height-5)
		m.viewport.Width = m.width - listWidth - 4
		m.viewport.Height = m.height - 5
		m.input.Width = listWidth - 6

	case sourceChangedMsg:
		m.status = "source changed, reloading..."
		return m, tea.Batch(m.reload(), m.waitForChange())

	case reloadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("reload failed: %v", msg.err)
			return m, nil
		}
		m.engine = search.NewEngine(msg.entries)
		m.refresh()
		m.status = fmt.Sprintf("reloaded %d entries", m.engine.Len())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			if item, ok := m.list.SelectedItem().(listItem); ok {
				result := item.result
				m.selected = &result
				m.updateViewport()
			}
			return m, nil

		case "ctrl+y":
			if item, ok := m.list.SelectedItem().(listItem); ok {
				if err := clipboard.WriteAll(item.result.Entry.Display); err != nil {
					m.status = fmt.Sprintf("copy failed: %v", err)
				} else {
					m.status = "copied to clipboard"
				}
			}
			return m, nil

		case "up", "down", "pgup", "pgdown":
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}

		m.input, cmd = m.input.Update(msg)
		m.refresh()
		return m, cmd
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *model) updateViewport() {
	if m.selected == nil {
		m.viewport.SetContent("Select a prompt to view")
		return
	}

	entry := m.selected.Entry
	var content strings.Builder
	content.WriteString(titleStyle.Render(fmt.Sprintf("Line %d", entry.LineNumber)))
	content.WriteString("\n\n")
	content.WriteString(fmt.Sprintf("Date: %s\n", entry.Time().Format("2006-01-02 15:04:05")))
	if entry.Project != "" {
		content.WriteString(fmt.Sprintf("Project: %s\n", entry.Project))
	}
	if entry.SessionID != "" {
		content.WriteString(fmt.Sprintf("Session: %s\n", entry.SessionID))
	}
	if m.selected.Score != nil {
		content.WriteString(fmt.Sprintf("Score: %d\n", *m.selected.Score))
	}
	content.WriteString("\n" + strings.Repeat("─", 40) + "\n\n")
	content.WriteString(entry.Display)

	if len(entry.PastedContents) > 0 {
		content.WriteString(fmt.Sprintf("\n\nPasted contents: %d", len(entry.PastedContents)))
	}

	m.viewport.SetContent(content.String())
	m.viewport.GotoTop()
}

func (m model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	listWidth := m.width / 2

	left := lipgloss.JoinVertical(
		lipgloss.Left,
		m.input.View(),
		m.list.View(),
	)
	listView := paneStyle.
		Width(listWidth - 2).
		Height(m.height - 3).
		Render(left)

	contentView := paneStyle.
		Width(m.width - listWidth - 2).
		Height(m.height - 3).
		Render(m.viewport.View())

	help := helpStyle.Render("  type: search • up/down: navigate • enter: view • ctrl+y: copy • esc: quit")
	if m.status != "" {
		help += "  " + statusStyle.Render(m.status)
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		listView,
		contentView,
	) + "\n" + help
}
