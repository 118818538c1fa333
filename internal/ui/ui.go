package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/encorelive/encore/internal/images"
	"github.com/encorelive/encore/internal/services"
	"github.com/encorelive/encore/internal/session"
	"github.com/encorelive/encore/internal/shared"
	"github.com/encorelive/encore/internal/tasks"
	"github.com/encorelive/encore/internal/tipflow"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	BrowseView ViewState = iota
	QueueView
	RequestsView
)

// queuePollInterval is the fixed cadence of the live-queue refresh.
const queuePollInterval = 5 * time.Second

// playedFirstDelay is when the played-song watcher first fires; later
// fires use the configured interval.
const playedFirstDelay = 5 * time.Second

// Deps collects everything the TUI needs from the command layer.
type Deps struct {
	Backend     services.Backend
	ProviderFor ProviderFactory
	Store       *session.Store
	Scope       *session.Scope
	Resolver    *images.Resolver
	Config      *shared.Config
	Logger      *log.Logger
	Username    string
	Admin       bool
	OpenURL     func(string) error
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	backend services.Backend
	store   *session.Store
	scope   *session.Scope
	cfg     *shared.Config
	logger  *log.Logger
	openURL func(string) error

	view      ViewState
	width     int
	height    int
	username  string
	venueName string
	admin     bool

	tipsEnabled bool
	watcher     *tasks.PlayedWatcher

	browse   browseState
	queue    queueState
	requests requestsState
	dialog   Dialog
	tip      tipDialog

	help help.Model
	keys keyMap
	err  error
}

// NewModel creates the root TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	openURL := deps.OpenURL
	if openURL == nil {
		openURL = shared.OpenBrowser
	}
	if deps.Config == nil {
		deps.Config = shared.DefaultConfig()
	}
	if deps.Logger == nil {
		deps.Logger = shared.NewLogger(nil)
	}
	if deps.Scope == nil {
		deps.Scope = session.NewScope()
	}

	return &Model{
		ctx:         ctx,
		backend:     deps.Backend,
		store:       deps.Store,
		scope:       deps.Scope,
		cfg:         deps.Config,
		logger:      deps.Logger,
		openURL:     openURL,
		view:        BrowseView,
		username:    deps.Username,
		admin:       deps.Admin,
		tipsEnabled: true,
		watcher:     tasks.NewPlayedWatcher(),
		browse:      newBrowseState(deps.Username),
		queue:       newQueueState(),
		requests:    newRequestsState(),
		tip:         newTipDialog(ctx, deps.Backend, deps.ProviderFor, deps.Resolver, deps.Config.Branding.MusicianName, openURL),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init kicks off the session check, the first fetches, and the timers.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.checkSession(),
		m.fetchVenueName(),
		m.fetchTipsEnabled(),
		m.syncLanguage(),
		m.fetchSongs(1, true),
		m.fetchRequestedIDs(),
		m.fetchUserRequests(),
		m.playedTick(playedFirstDelay),
		m.panelTick(),
	)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.browse.list.SetSize(msg.Width-4, msg.Height-10)
		m.queue.list.SetSize(msg.Width-4, msg.Height-8)
		m.requests.list.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)

	case sessionCheckedMsg:
		return m.handleSessionChecked(msg)

	case venueNameMsg:
		if msg.err != nil || msg.name == "" {
			m.venueName = "Live Requests"
		} else {
			m.venueName = msg.name
		}
		return m, nil

	case tipsEnabledMsg:
		m.tipsEnabled = msg.enabled
		return m, nil

	case songsFetchedMsg:
		if msg.err != nil {
			m.browse.loading = false
			m.dialog.Alert(msg.err.Error(), KindError, "")
			return m, nil
		}
		m.browse.setSongs(msg.songs, msg.page, msg.replace)
		return m, nil

	case queueFetchedMsg:
		if msg.err == nil {
			m.queue.setEntries(msg.entries)
		}
		if m.view == QueueView {
			return m, m.queueTick()
		}
		return m, nil

	case queueTickMsg:
		if m.view != QueueView {
			return m, nil
		}
		return m, m.fetchQueue()

	case userRequestsMsg:
		if msg.err == nil {
			m.requests.setRequests(msg.requests)
		}
		return m, nil

	case panelTickMsg:
		return m, tea.Batch(m.fetchUserRequests(), m.panelTick())

	case requestedIDsMsg:
		return m.handleRequestedIDs(msg)

	case playedTickMsg:
		return m, tea.Batch(m.fetchRequestedIDs(), m.playedTick(m.cfg.Polling.PlayedInterval()))

	case requestRemovedMsg:
		if msg.err != nil {
			m.dialog.Alert(msg.err.Error(), KindError, "")
			return m, nil
		}
		m.dialog.Alert(msg.message, KindSuccess, "")
		return m, tea.Batch(m.fetchSongs(1, true), m.fetchUserRequests(), m.fetchRequestedIDs())

	case queueEntryDeletedMsg:
		if msg.err != nil {
			m.dialog.Alert(msg.err.Error(), KindError, "")
			return m, nil
		}
		return m, m.fetchQueue()

	case outcomeMsg:
		return m, m.tip.handleOutcome(msg)

	case orderCredsMsg:
		return m, m.tip.handleCreds(msg)

	case orderCreatedMsg:
		return m, m.tip.handleOrderCreated(msg)

	case approvalOpenedMsg:
		return m, m.tip.handleApprovalOpened(msg)

	case captureMsg:
		return m, m.tip.handleCapture(msg)

	case flowTimerMsg:
		return m, m.tip.handleTimer(msg)

	case noticeExpiredMsg:
		m.tip.clearNotice()
		return m, nil

	case requestSucceededMsg:
		return m.handleRequestSucceeded(msg)

	case nudgeTimerMsg:
		return m.handleNudge()

	case errMsg:
		if msg.err != nil {
			m.dialog.Alert(msg.err.Error(), KindError, "")
		}
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	if m.dialog.Active() {
		return m.dialog.View()
	}
	if m.tip.Active() {
		return m.tip.View()
	}

	header := styles.title.Render(m.venueName)

	var body string
	switch m.view {
	case BrowseView:
		body = m.renderBrowse()
	case QueueView:
		body = m.queue.list.View()
		if m.queue.editing {
			body += "\n" + m.queue.maxInput.View()
		}
	case RequestsView:
		body = m.requests.list.View()
	}

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	return fmt.Sprintf("%s\n%s\n\n%s", header, body, helpView)
}

func (m *Model) renderBrowse() string {
	filters := fmt.Sprintf(
		"lang:%s  letter:%s  sort:%s %s",
		m.browse.params.Language, m.browse.params.Letter,
		m.browse.params.SortBy, m.browse.params.SortOrder,
	)

	out := styles.help.Render(filters) + "\n"
	if m.browse.searching {
		out += m.browse.input.View() + "\n"
	}
	return out + m.browse.list.View()
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if handled, cmd := m.dialog.Update(msg); handled {
		return m, cmd
	}
	if handled, cmd := m.tip.Update(msg); handled {
		return m, cmd
	}

	if m.browse.searching && m.view == BrowseView {
		return m.handleSearchInput(msg)
	}
	if m.queue.editing && m.view == QueueView {
		return m.handleMaxInput(msg)
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "tab":
		return m.switchView()
	}

	switch m.view {
	case BrowseView:
		return m.handleBrowseKeys(msg)
	case QueueView:
		return m.handleQueueKeys(msg)
	case RequestsView:
		return m.handleRequestsKeys(msg)
	}
	return m, nil
}

func (m *Model) switchView() (tea.Model, tea.Cmd) {
	switch m.view {
	case BrowseView:
		m.view = QueueView
		// Entering the queue view starts its poll loop.
		return m, m.fetchQueue()
	case QueueView:
		m.view = RequestsView
		return m, m.fetchUserRequests()
	default:
		m.view = BrowseView
	}
	return m, nil
}

func (m *Model) handleSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.browse.searching = false
		m.browse.input.Blur()
		m.browse.setQuery(m.browse.input.Value())
		return m, m.fetchSongs(1, true)
	case "esc":
		m.browse.searching = false
		m.browse.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.browse.input, cmd = m.browse.input.Update(msg)
	return m, cmd
}

func (m *Model) handleMaxInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.queue.editing = false
		m.queue.maxInput.Blur()
		if max, ok := m.queue.maxRequests(); ok {
			return m, m.updateMaxRequests(max)
		}
		m.dialog.Alert("Enter a positive number", KindWarning, "")
		return m, nil
	case "esc":
		m.queue.editing = false
		m.queue.maxInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.queue.maxInput, cmd = m.queue.maxInput.Update(msg)
	return m, cmd
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "/":
		m.browse.searching = true
		m.browse.input.Focus()
		return m, nil
	case "l":
		m.browse.cycleLanguage()
		return m, m.fetchSongs(1, true)
	case "f":
		m.browse.cycleLetter()
		return m, m.fetchSongs(1, true)
	case "s":
		m.browse.toggleSort()
		return m, m.fetchSongs(1, true)
	case "enter":
		song := m.browse.selected()
		if song == nil {
			return m, nil
		}
		m.tip.Open(song, m.username, m.tipsEnabled)
		return m, nil
	}

	var cmd tea.Cmd
	m.browse.list, cmd = m.browse.list.Update(msg)
	if m.browse.wantsNextPage() {
		return m, tea.Batch(cmd, m.fetchSongs(m.browse.params.Page+1, false))
	}
	return m, cmd
}

func (m *Model) handleQueueKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "x":
		if !m.admin {
			return m, nil
		}
		entry := m.queue.selected()
		if entry == nil {
			return m, nil
		}
		songID := entry.SongID
		m.dialog.ConfirmDanger(
			fmt.Sprintf("Remove %q from the queue?", entry.Title),
			func() tea.Cmd { return m.deleteQueueEntry(songID) },
			nil, "", "",
		)
		return m, nil
	case "D":
		if !m.admin {
			return m, nil
		}
		m.dialog.ConfirmDanger(
			"Remove every request from the queue?",
			func() tea.Cmd { return m.deleteAllRequests() },
			nil, "Delete all", "",
		)
		return m, nil
	case "m":
		if m.admin {
			m.queue.editing = true
			m.queue.maxInput.Focus()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.queue.list, cmd = m.queue.list.Update(msg)
	return m, cmd
}

func (m *Model) handleRequestsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "x":
		request := m.requests.selected()
		if request == nil {
			return m, nil
		}
		songID := request.SongID
		m.dialog.Confirm(
			fmt.Sprintf("Remove your request for %q?", request.Title),
			func() tea.Cmd { return m.removeRequest(songID) },
			nil, "",
		)
		return m, nil
	}

	var cmd tea.Cmd
	m.requests.list, cmd = m.requests.list.Update(msg)
	return m, cmd
}

func (m *Model) handleSessionChecked(msg sessionCheckedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// The session check is advisory; the backend will still refuse
		// stale sessions per call.
		m.logger.Warn("session check failed", "error", msg.err)
		return m, nil
	}
	if msg.status.Redirect != "" {
		m.err = shared.ErrSessionExpired
		return m, tea.Sequence(
			func() tea.Msg { return errMsg{err: m.openURL(msg.status.Redirect)} },
			tea.Quit,
		)
	}
	return m, nil
}

func (m *Model) handleRequestedIDs(msg requestedIDsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, nil
	}

	m.browse.setRequested(msg.ids)
	if err := m.store.ReplaceRequestedIDs(msg.ids); err != nil {
		m.logger.Warn("failed to cache requested ids", "error", err)
	}

	if played := m.watcher.Observe(msg.ids); len(played) > 0 {
		m.logger.Info("songs played", "count", len(played))
		return m, tea.Batch(m.fetchSongs(1, true), m.fetchUserRequests())
	}
	return m, nil
}

func (m *Model) handleRequestSucceeded(msg requestSucceededMsg) (tea.Model, tea.Cmd) {
	if msg.songID != 0 {
		m.browse.removeSong(msg.songID)
		m.browse.markRequested(msg.songID)
		if err := m.store.AddRequestedID(msg.songID); err != nil {
			m.logger.Warn("failed to cache requested id", "error", err)
		}
	}

	count := m.scope.IncrementRequestCount()
	cmds := []tea.Cmd{m.fetchUserRequests()}
	if tipflow.ShouldNudge(count, m.scope.NudgeDismissedToday()) {
		cmds = append(cmds, tea.Tick(tipflow.NudgeDelay, func(time.Time) tea.Msg {
			return nudgeTimerMsg{}
		}))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleNudge() (tea.Model, tea.Cmd) {
	if !m.tipsEnabled || m.tip.Active() || m.dialog.Active() {
		return m, nil
	}

	m.dialog.Confirm(
		"Ti sta piacendo la serata? Offri una mancia al musicista!",
		func() tea.Cmd {
			m.tip.OpenTipOnly(m.username)
			return nil
		},
		func() tea.Cmd {
			m.scope.DismissNudge()
			return nil
		},
		"Offri una mancia",
	)
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case BrowseView:
		m.browse.list, cmd = m.browse.list.Update(msg)
	case QueueView:
		m.queue.list, cmd = m.queue.list.Update(msg)
	case RequestsView:
		m.requests.list, cmd = m.requests.list.Update(msg)
	}
	return m, cmd
}

func (m *Model) checkSession() tea.Cmd {
	return func() tea.Msg {
		status, err := m.backend.CheckSession(m.ctx)
		return sessionCheckedMsg{status: status, err: err}
	}
}

func (m *Model) fetchVenueName() tea.Cmd {
	return func() tea.Msg {
		name, err := m.backend.VenueName(m.ctx)
		return venueNameMsg{name: name, err: err}
	}
}

func (m *Model) fetchTipsEnabled() tea.Cmd {
	return func() tea.Msg {
		return tipsEnabledMsg{enabled: m.backend.TipsEnabled(m.ctx)}
	}
}

// syncLanguage pushes the stored UI language to the backend session.
func (m *Model) syncLanguage() tea.Cmd {
	return func() tea.Msg {
		lang, err := m.store.Language()
		if err != nil {
			return errMsg{}
		}
		if err := m.backend.ChangeLanguage(m.ctx, lang); err != nil {
			m.logger.Warn("failed to sync language", "error", err)
		}
		return errMsg{}
	}
}

func (m *Model) fetchSongs(page int, replace bool) tea.Cmd {
	params := m.browse.params
	params.Page = page
	return func() tea.Msg {
		songs, err := m.backend.SearchSongs(m.ctx, params)
		return songsFetchedMsg{songs: songs, page: page, replace: replace, err: err}
	}
}

func (m *Model) fetchQueue() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.backend.Queue(m.ctx)
		return queueFetchedMsg{entries: entries, err: err}
	}
}

func (m *Model) fetchUserRequests() tea.Cmd {
	return func() tea.Msg {
		requests, err := m.backend.UserRequests(m.ctx)
		return userRequestsMsg{requests: requests, err: err}
	}
}

func (m *Model) fetchRequestedIDs() tea.Cmd {
	return func() tea.Msg {
		ids, err := m.backend.RequestedSongIDs(m.ctx)
		return requestedIDsMsg{ids: ids, err: err}
	}
}

func (m *Model) removeRequest(songID int) tea.Cmd {
	return func() tea.Msg {
		message, err := m.backend.DeleteRequest(m.ctx, songID, m.username)
		return requestRemovedMsg{message: message, err: err}
	}
}

func (m *Model) deleteQueueEntry(songID int) tea.Cmd {
	return func() tea.Msg {
		return queueEntryDeletedMsg{err: m.backend.DeleteSong(m.ctx, songID)}
	}
}

func (m *Model) deleteAllRequests() tea.Cmd {
	return func() tea.Msg {
		return queueEntryDeletedMsg{err: m.backend.DeleteAllRequests(m.ctx)}
	}
}

func (m *Model) updateMaxRequests(max int) tea.Cmd {
	return func() tea.Msg {
		return errMsg{err: m.backend.UpdateMaxRequests(m.ctx, max)}
	}
}

func (m *Model) queueTick() tea.Cmd {
	return tea.Tick(queuePollInterval, func(t time.Time) tea.Msg {
		return queueTickMsg(t)
	})
}

func (m *Model) playedTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return playedTickMsg(t)
	})
}

func (m *Model) panelTick() tea.Cmd {
	return tea.Tick(m.cfg.Polling.RequestListInterval(), func(t time.Time) tea.Msg {
		return panelTickMsg(t)
	})
}
