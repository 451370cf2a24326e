package tui

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/skips/internal/config"
	"github.com/Makepad-fr/skips/internal/model"
	"github.com/Makepad-fr/skips/internal/skipapi"
	"github.com/Makepad-fr/skips/internal/store/jsonstore"
	"github.com/Makepad-fr/skips/internal/view"
)

// fake client for tests
type fakeClient struct {
	skips    []model.Skip
	err      error
	calls    int
	postcode string
	area     string
}

func (f *fakeClient) FetchSkipsByLocation(ctx context.Context, postcode, area string) ([]model.Skip, error) {
	f.calls++
	f.postcode, f.area = postcode, area
	return f.skips, f.err
}

// blockingClient holds every fetch open until its context is done.
type blockingClient struct {
	started chan context.Context
}

func (b *blockingClient) FetchSkipsByLocation(ctx context.Context, postcode, area string) ([]model.Skip, error) {
	b.started <- ctx
	<-ctx.Done()
	return nil, ctx.Err()
}

func scenario() []model.Skip {
	return []model.Skip{
		{ID: 1, Size: 6, PriceBeforeVAT: decimal.NewFromInt(200), VAT: decimal.NewFromInt(20), HirePeriodDays: 14, AllowedOnRoad: true},
		{ID: 2, Size: 4, PriceBeforeVAT: decimal.NewFromInt(150), VAT: decimal.NewFromInt(20), HirePeriodDays: 14, AllowedOnRoad: false},
	}
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

type harness struct {
	client *fakeClient
	store  *jsonstore.Store
	logs   *bytes.Buffer
}

func setup(t *testing.T, client *fakeClient) (modelTUI, *harness) {
	t.Helper()
	h := &harness{
		client: client,
		store:  jsonstore.New(filepath.Join(t.TempDir(), "selection.json")),
		logs:   &bytes.Buffer{},
	}
	m := newModel(Options{
		Client:   client,
		Location: config.Location{Postcode: "NR32", Area: "Lowestoft"},
		Store:    h.store,
		Logger:   log.New(h.logs),
		Now:      func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) },
	})
	m = send(t, m, tea.WindowSizeMsg{Width: 140, Height: 60})
	return m, h
}

func send(t *testing.T, m modelTUI, msg tea.Msg) modelTUI {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(modelTUI)
	require.True(t, ok)
	return got
}

// runLoad runs the fetch inside cmd, which may be batched with a spinner
// tick, and delivers its result.
func runLoad(t *testing.T, m modelTUI, cmd tea.Cmd) modelTUI {
	t.Helper()
	require.NotNil(t, cmd)
	cmds := []tea.Cmd{cmd}
	for len(cmds) > 0 {
		c := cmds[0]
		cmds = cmds[1:]
		if c == nil {
			continue
		}
		switch msg := c().(type) {
		case skipsLoadedMsg:
			return send(t, m, msg)
		case tea.BatchMsg:
			cmds = append(cmds, msg...)
		}
	}
	t.Fatal("no fetch in command")
	return m
}

func listedIDs(m modelTUI) []int {
	var ids []int
	for _, it := range m.list.Items() {
		ids = append(ids, it.(skipItem).skip.ID)
	}
	return ids
}

func TestStartsLoading(t *testing.T) {
	m, h := setup(t, &fakeClient{skips: scenario()})

	assert.Equal(t, view.PhaseLoading, m.vm.Phase())
	assert.NotNil(t, m.Init())
	assert.Contains(t, m.View(), "Loading available skips...")
	assert.Zero(t, h.client.calls, "nothing is fetched until the command runs")
}

func TestInitialLoadSortsAndPrices(t *testing.T) {
	m, h := setup(t, &fakeClient{skips: scenario()})
	m = runLoad(t, m, m.initCmd)

	assert.Equal(t, 1, h.client.calls)
	assert.Equal(t, "NR32", h.client.postcode)
	assert.Equal(t, "Lowestoft", h.client.area)

	require.Equal(t, view.PhaseReady, m.vm.Phase())
	assert.Equal(t, []int{2, 1}, listedIDs(m))

	out := m.View()
	assert.Contains(t, out, "£180")
	assert.Contains(t, out, "£240")
	assert.Contains(t, out, "Not Allowed On The Road")
	assert.NotContains(t, out, "Selected skip")
	assert.NotContains(t, out, "Loading available skips...")
}

func TestInitialLoadFailureShowsEmptyList(t *testing.T) {
	m, h := setup(t, &fakeClient{err: errors.Wrap(skipapi.ErrFetch, "skips endpoint returned 500 Internal Server Error")})
	m = runLoad(t, m, m.initCmd)

	assert.Equal(t, view.PhaseReady, m.vm.Phase())
	assert.Empty(t, m.list.Items())
	_, selected := m.vm.SelectedID()
	assert.False(t, selected)

	out := m.View()
	assert.Contains(t, out, "No skips available")
	assert.NotContains(t, out, "Oops")
	assert.NotContains(t, out, "Loading available skips...")
	assert.Contains(t, h.logs.String(), "Error fetching skips")
}

func TestSelectAndBack(t *testing.T) {
	m, _ := setup(t, &fakeClient{skips: scenario()})
	m = runLoad(t, m, m.initCmd)

	m = send(t, m, enter)
	id, ok := m.vm.SelectedID()
	require.True(t, ok)
	assert.Equal(t, 2, id)
	assert.True(t, m.list.Items()[0].(skipItem).selected)
	assert.False(t, m.list.Items()[1].(skipItem).selected)

	out := m.View()
	assert.Contains(t, out, "Selected skip")
	assert.Contains(t, out, "4 Yard Skip")
	assert.Contains(t, out, "£180 total")

	m = send(t, m, down)
	m = send(t, m, enter)
	id, _ = m.vm.SelectedID()
	assert.Equal(t, 1, id)
	assert.Contains(t, m.View(), "Road permitted")

	m = send(t, m, esc)
	_, ok = m.vm.SelectedID()
	assert.False(t, ok)
	assert.NotContains(t, m.View(), "Selected skip")
}

func TestReloadFailureShowsErrorPanel(t *testing.T) {
	client := &fakeClient{skips: scenario()}
	m, _ := setup(t, client)
	m = runLoad(t, m, m.initCmd)
	m = send(t, m, enter)

	client.skips, client.err = nil, skipapi.ErrFetch
	next, cmd := m.Update(runes("r"))
	m = next.(modelTUI)

	assert.Equal(t, view.PhaseLoading, m.vm.Phase())
	assert.Empty(t, m.list.Items())
	_, ok := m.vm.SelectedID()
	assert.False(t, ok, "reload clears the selection first")

	m = runLoad(t, m, cmd)
	assert.Equal(t, view.PhaseError, m.vm.Phase())
	out := m.View()
	assert.Contains(t, out, "Oops! Something went wrong")
	assert.Contains(t, out, "Failed to fetch skips")

	client.skips, client.err = scenario(), nil
	next, cmd = m.Update(runes("r"))
	m = runLoad(t, next.(modelTUI), cmd)
	assert.Equal(t, view.PhaseReady, m.vm.Phase())
	assert.Equal(t, []int{2, 1}, listedIDs(m))
}

func TestEnterRetriesFromErrorPanel(t *testing.T) {
	client := &fakeClient{err: skipapi.ErrFetch}
	m, _ := setup(t, client)
	m = runLoad(t, m, m.initCmd)

	next, cmd := m.Update(runes("r"))
	m = runLoad(t, next.(modelTUI), cmd)
	require.Equal(t, view.PhaseError, m.vm.Phase())

	client.skips, client.err = scenario(), nil
	next, cmd = m.Update(enter)
	m = runLoad(t, next.(modelTUI), cmd)
	assert.Equal(t, view.PhaseReady, m.vm.Phase())
	assert.Equal(t, 3, client.calls)
}

func TestReloadReplacesList(t *testing.T) {
	client := &fakeClient{skips: scenario()}
	m, _ := setup(t, client)
	m = runLoad(t, m, m.initCmd)

	client.skips = []model.Skip{
		{ID: 9, Size: 12, PriceBeforeVAT: decimal.NewFromInt(500), VAT: decimal.NewFromInt(20), HirePeriodDays: 7, AllowedOnRoad: true},
	}
	next, cmd := m.Update(runes("r"))
	m = runLoad(t, next.(modelTUI), cmd)

	assert.Equal(t, []int{9}, listedIDs(m))
	assert.NotContains(t, m.View(), "£180")
}

func TestStaleResultIsDropped(t *testing.T) {
	client := &fakeClient{skips: scenario()}
	m, _ := setup(t, client)
	stale := m.initCmd

	// a second fetch supersedes the first before it reports back
	fresh := m.fetch(retryLoad)
	require.Equal(t, 2, m.gen)

	m = runLoad(t, m, stale)
	assert.Equal(t, view.PhaseLoading, m.vm.Phase(), "result of the first fetch is ignored")

	m = runLoad(t, m, fresh)
	assert.Equal(t, view.PhaseReady, m.vm.Phase())
	assert.Equal(t, []int{2, 1}, listedIDs(m))
}

func TestContinueSavesSelection(t *testing.T) {
	m, h := setup(t, &fakeClient{skips: scenario()})
	m = runLoad(t, m, m.initCmd)

	// nothing selected: continue is inert
	m = send(t, m, runes("c"))
	assert.Nil(t, m.saved)
	sel, err := h.store.Load()
	require.NoError(t, err)
	assert.Nil(t, sel)

	m = send(t, m, enter)
	next, cmd := m.Update(runes("c"))
	m = next.(modelTUI)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	require.NotNil(t, m.saved)
	sel, err = h.store.Load()
	require.NoError(t, err)
	require.NotNil(t, sel)
	assert.Equal(t, 2, sel.Skip.ID)
	assert.Equal(t, "180", sel.Total)
	assert.Equal(t, "NR32", sel.Postcode)
	assert.Equal(t, "Lowestoft", sel.Area)
}

func TestQuit(t *testing.T) {
	m, _ := setup(t, &fakeClient{skips: scenario()})

	next, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, next.View())
}

func TestQuitCancelsFetchInFlight(t *testing.T) {
	client := &blockingClient{started: make(chan context.Context, 1)}
	m := newModel(Options{Client: client, Location: config.Location{Postcode: "NR32", Area: "Lowestoft"}})

	done := make(chan tea.Msg, 1)
	go func() { done <- m.initCmd() }()

	var ctx context.Context
	select {
	case ctx = <-client.started:
	case <-time.After(time.Second):
		t.Fatal("fetch did not start")
	}
	require.NoError(t, ctx.Err())

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.ErrorIs(t, ctx.Err(), context.Canceled)

	select {
	case msg := <-done:
		loaded, ok := msg.(skipsLoadedMsg)
		require.True(t, ok)
		assert.Error(t, loaded.err)
	case <-time.After(time.Second):
		t.Fatal("fetch did not return after quit")
	}
}

func TestKeysIgnoredWhileLoading(t *testing.T) {
	m, h := setup(t, &fakeClient{skips: scenario()})

	next, cmd := m.Update(runes("r"))
	m = next.(modelTUI)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.gen)
	assert.Zero(t, h.client.calls)

	m = send(t, m, enter)
	_, ok := m.vm.SelectedID()
	assert.False(t, ok)
}
