package tui

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/skips/internal/config"
	"github.com/Makepad-fr/skips/internal/model"
	"github.com/Makepad-fr/skips/internal/skipapi"
	"github.com/Makepad-fr/skips/internal/store/jsonstore"
	"github.com/Makepad-fr/skips/internal/ui"
	"github.com/Makepad-fr/skips/internal/view"
)

// Options wires the screen to its collaborators.
type Options struct {
	Client   skipapi.Client
	Location config.Location
	Store    *jsonstore.Store
	Logger   *log.Logger
	Now      func() time.Time // defaults to time.Now
}

// Result is what the user did before leaving the screen.
type Result struct {
	Saved *model.Selection // nil unless the user continued with a skip
}

type loadKind int

const (
	initialLoad loadKind = iota // failures fall back to an empty list
	retryLoad                   // failures show the error panel
)

func (k loadKind) String() string {
	if k == retryLoad {
		return "retry"
	}
	return "initial"
}

type skipsLoadedMsg struct {
	gen   int
	kind  loadKind
	skips []model.Skip
	err   error
}

// skipItem adapts model.Skip to bubbles/list.Item
type skipItem struct {
	skip     model.Skip
	selected bool
}

func (i skipItem) FilterValue() string { return strconv.Itoa(i.skip.Size) + " yard" }

// Custom delegate renders every skip as a card
type skipDelegate struct{}

func (d skipDelegate) Height() int                               { return ui.CardHeight }
func (d skipDelegate) Spacing() int                              { return 0 }
func (d skipDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d skipDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(skipItem)
	if !ok {
		return
	}
	fmt.Fprint(w, ui.Card(it.skip, index == m.Index(), it.selected))
}

type modelTUI struct {
	opt Options
	vm  view.ViewModel

	list    list.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	gen      int                // bumped for every fetch; older results are dropped
	cancel   context.CancelFunc // cancels the fetch in flight
	initCmd  tea.Cmd
	width    int
	height   int
	notice   string
	saved    *model.Selection
	quitting bool
}

// newModel builds the screen in its loading state; Init starts the first fetch.
func newModel(opt Options) modelTUI {
	if opt.Logger == nil {
		opt.Logger = log.New(io.Discard)
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}

	l := list.New(nil, skipDelegate{}, ui.CardWidth, ui.CardHeight*3)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.PaginationStyle = ui.Current().Muted

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.Current().Accent

	m := modelTUI{
		opt:     opt,
		vm:      view.New(),
		list:    l,
		spinner: sp,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.initCmd = m.fetch(initialLoad)
	m.syncKeys()
	return m
}

// Run shows the screen until the user quits or continues with a skip.
func Run(opt Options) (Result, error) {
	p := tea.NewProgram(newModel(opt), tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return Result{}, err
	}
	fm, ok := finalModel.(modelTUI)
	if !ok {
		return Result{}, nil
	}
	fm.stop()
	return Result{Saved: fm.saved}, nil
}

// fetch starts a new load generation and returns the command running it.
func (m *modelTUI) fetch(kind loadKind) tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.gen++
	m.cancel = cancel

	gen, client, loc, logger := m.gen, m.opt.Client, m.opt.Location, m.opt.Logger
	logger.Debug("fetching skips", "postcode", loc.Postcode, "area", loc.Area, "load", kind, "gen", gen)
	return func() tea.Msg {
		defer cancel()
		skips, err := client.FetchSkipsByLocation(ctx, loc.Postcode, loc.Area)
		return skipsLoadedMsg{gen: gen, kind: kind, skips: skips, err: err}
	}
}

func (m *modelTUI) stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

// Update and View implement Bubble Tea's Model on modelTUI
func (m modelTUI) Init() tea.Cmd { return tea.Batch(m.initCmd, m.spinner.Tick) }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if m.vm.Phase() != view.PhaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case skipsLoadedMsg:
		m.loaded(msg)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.stop()
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload),
			m.vm.Phase() == view.PhaseError && msg.Type == tea.KeyEnter:
			cmd := m.reload()
			return m, cmd
		case key.Matches(msg, m.keys.Select):
			if it, ok := m.list.SelectedItem().(skipItem); ok {
				m.vm.Select(it.skip.ID)
				m.notice = ""
				m.refresh()
			}
			return m, nil
		case key.Matches(msg, m.keys.Back):
			m.vm.Back()
			m.notice = ""
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Continue):
			if m.continueWithSelection() {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		if m.vm.Phase() != view.PhaseReady {
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *modelTUI) loaded(msg skipsLoadedMsg) {
	logger := m.opt.Logger
	if msg.gen != m.gen {
		logger.Debug("dropping stale skips", "gen", msg.gen, "current", m.gen)
		return
	}
	switch {
	case msg.err != nil && msg.kind == retryLoad:
		logger.Error("Error fetching skips", "err", msg.err)
		m.vm.RetryFailed(msg.err)
	case msg.err != nil:
		logger.Error("Error fetching skips", "err", msg.err)
		m.vm.LoadFailed(msg.err)
	default:
		logger.Info("loaded skips", "count", len(msg.skips), "load", msg.kind)
		m.vm.Loaded(msg.skips)
	}
	m.refresh()
	m.list.Select(0)
}

// reload clears the list and fetches again through the retry path.
func (m *modelTUI) reload() tea.Cmd {
	m.vm.BeginLoad()
	m.notice = ""
	m.refresh()
	return tea.Batch(m.fetch(retryLoad), m.spinner.Tick)
}

// continueWithSelection saves the selected skip. It reports whether the
// screen is done.
func (m *modelTUI) continueWithSelection() bool {
	s, ok := m.vm.Selected()
	if !ok {
		m.notice = "Select a skip first"
		return false
	}
	if m.opt.Store == nil {
		m.notice = "Nowhere to save the selection"
		return false
	}
	sel := model.Selection{
		Postcode:   m.opt.Location.Postcode,
		Area:       m.opt.Location.Area,
		Skip:       s,
		Total:      s.DisplayTotal(),
		SelectedAt: m.opt.Now().UTC(),
	}
	if err := m.opt.Store.Save(sel); err != nil {
		m.opt.Logger.Error("save selection", "err", err, "path", m.opt.Store.Path())
		m.notice = "Could not save selection: " + err.Error()
		return false
	}
	m.opt.Logger.Info("saved selection", "id", s.ID, "size", s.Size, "total", sel.Total)
	m.saved = &sel
	return true
}

// refresh rebuilds list items, key bindings and sizes from the view model.
func (m *modelTUI) refresh() {
	selectedID, hasSelection := m.vm.SelectedID()
	skips := m.vm.Skips()
	items := make([]list.Item, 0, len(skips))
	for _, s := range skips {
		items = append(items, skipItem{skip: s, selected: hasSelection && s.ID == selectedID})
	}
	m.list.SetItems(items)
	m.syncKeys()
	m.resize()
}

func (m *modelTUI) syncKeys() {
	phase := m.vm.Phase()
	ready := phase == view.PhaseReady
	hasItems := ready && len(m.vm.Skips()) > 0
	_, hasSelection := m.vm.SelectedID()
	_, hasMatch := m.vm.Selected()

	m.keys.Up.SetEnabled(hasItems)
	m.keys.Down.SetEnabled(hasItems)
	m.keys.Select.SetEnabled(hasItems)
	m.keys.Back.SetEnabled(ready && hasSelection)
	m.keys.Continue.SetEnabled(ready && hasMatch)
	m.keys.Reload.SetEnabled(phase != view.PhaseLoading)
}

func (m *modelTUI) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	h := m.height - lipgloss.Height(ui.Header("")) - 2
	if s, ok := m.vm.Selected(); ok {
		h -= lipgloss.Height(ui.Footer(s))
	}
	if m.notice != "" {
		h--
	}
	if h < ui.CardHeight+1 {
		h = ui.CardHeight + 1
	}
	m.list.SetSize(max(m.width, ui.CardWidth), h)
}

func (m modelTUI) View() string {
	if m.quitting {
		return ""
	}
	switch m.vm.Phase() {
	case view.PhaseLoading:
		sub := m.spinner.View() + " " + ui.Current().Muted.Render("Loading available skips...")
		return lipgloss.JoinVertical(lipgloss.Left,
			ui.Header(sub),
			"",
			ui.SkeletonGrid(ui.SkeletonCount, ui.Columns(m.width)),
		)
	case view.PhaseError:
		return ui.ErrorPanel(m.vm.Err()) + "\n" + m.help.View(m.keys)
	}

	parts := []string{ui.Header(""), ""}
	if len(m.vm.Skips()) == 0 {
		parts = append(parts, ui.Empty())
	} else {
		parts = append(parts, m.list.View())
	}
	if s, ok := m.vm.Selected(); ok {
		parts = append(parts, ui.Footer(s))
	}
	if m.notice != "" {
		parts = append(parts, ui.Current().Warning.Render(m.notice))
	}
	parts = append(parts, m.help.View(m.keys))
	return strings.Join(parts, "\n")
}
