package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/perch/internal/form"
	"github.com/five82/perch/internal/prefs"
	"github.com/five82/perch/internal/settings"
	"github.com/five82/perch/internal/state"
	"github.com/five82/perch/internal/wpcom"
)

// Options wires the settings screen to its data source and preferences.
type Options struct {
	Context           context.Context
	API               wpcom.SettingsAPI
	Store             *state.Store
	Features          settings.Features
	JetpackMinVersion string
	// Refresh polls once, out of schedule. Nil disables the refresh key.
	Refresh   func(context.Context) error
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
	Now       func() time.Time
}

type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeSuccess
	noticeError
)

type notice struct {
	text  string
	level noticeLevel
}

// Model is the settings screen: the mounted form, the latest poll snapshot
// and the view state around them.
type Model struct {
	// Configuration
	ctx        context.Context
	api        wpcom.SettingsAPI
	store      *state.Store
	features   settings.Features
	minVersion string
	refreshFn  func(context.Context) error
	prefsPath  string
	pollTick   time.Duration
	now        func() time.Time

	// UI state
	theme  Theme
	keys   keyMap
	width  int
	height int
	ready  bool

	// Data state
	snapshot state.Snapshot
	site     wpcom.Site
	hasSite  bool
	lastSeq  uint64

	// Form state
	form    *form.Store
	guard   *navGuard
	watch   *formWatch
	tracker *tracker
	cursor  int
	body    viewport.Model

	// Inline text editing
	editing bool
	editKey string
	input   textinput.Model

	modal    Modal
	showHelp bool
	notice   notice
}

// New builds a Model, filling in defaults for unset options.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	guard := &navGuard{}
	watch := &formWatch{}
	store := form.NewStore(settings.Schema(), form.WithGuard(guard))
	store.Subscribe(watch.observe)
	input := textinput.New()
	input.CharLimit = 200

	return Model{
		ctx:        ctx,
		api:        opts.API,
		store:      opts.Store,
		features:   opts.Features,
		minVersion: opts.JetpackMinVersion,
		refreshFn:  opts.Refresh,
		prefsPath:  prefsPath,
		pollTick:   pollTick,
		now:        now,
		theme:      GetTheme(themeName),
		keys:       DefaultKeyMap(),
		form:       store,
		guard:      guard,
		watch:      watch,
		tracker:    newTracker(),
		input:      input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model. Form changes made while handling msg reach
// the view through the store subscription.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	if nm, ok := next.(Model); ok {
		nm.syncForm()
		next = nm
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.body = viewport.New(msg.Width, m.bodyHeight())
		} else {
			m.body.Width = msg.Width
			m.body.Height = m.bodyHeight()
		}
		m.ready = true
		m.updateBody()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd(m.pollTick)}
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case saveResultMsg:
		m.handleSaveResult(msg)
		return m, nil
	}

	// Blink and other component messages go to whatever has focus.
	if m.modal != nil {
		return m.updateModal(msg)
	}
	if m.editing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.body.View())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// applySnapshot feeds a poll result into the form. Each successful poll is
// applied once; a different site ID starts a fresh form.
func (m *Model) applySnapshot(snap state.Snapshot) {
	m.snapshot = snap
	if !snap.HasSite || snap.Sequence == m.lastSeq {
		return
	}
	m.lastSeq = snap.Sequence

	if !m.hasSite || snap.Site.ID != m.site.ID {
		m.mount(snap.Site)
	}
	m.site = snap.Site
	m.form.ApplySnapshot(settings.FromRaw(snap.Settings))
}

// mount resets everything tied to the previous site.
func (m *Model) mount(site wpcom.Site) {
	m.site = site
	m.hasSite = true
	m.cursor = 0
	m.editing = false
	m.modal = nil
	m.tracker.reset()
	m.form.Initialize(settings.Defaults())
}

// layout returns the sections for the current site and values.
func (m Model) layout() settings.Layout {
	return settings.BuildLayout(settings.Env{
		Site:              m.site,
		Features:          m.features,
		JetpackMinVersion: m.minVersion,
		Now:               m.now(),
	}, m.form)
}

func (m Model) bodyHeight() int {
	// header, command bar, footer
	h := m.height - 3
	if h < 1 {
		return 1
	}
	return h
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type saveResultMsg struct {
	siteID  int64
	updated wpcom.Settings
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func refreshCmd(ctx context.Context, refresh func(context.Context) error, store *state.Store) tea.Cmd {
	return func() tea.Msg {
		_ = refresh(ctx)
		return snapshotMsg(store.Snapshot())
	}
}

func saveCmd(ctx context.Context, api wpcom.SettingsAPI, siteID int64, fields form.FieldSet) tea.Cmd {
	return func() tea.Msg {
		updated, err := api.SaveSettings(ctx, siteID, fields)
		return saveResultMsg{siteID: siteID, updated: updated, err: err}
	}
}

// Run shows the settings screen until the user quits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
