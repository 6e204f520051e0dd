package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"

	"github.com/five82/reclamos/internal/backend"
	"github.com/five82/reclamos/internal/dashboard"
	"github.com/five82/reclamos/internal/logging"
	"github.com/five82/reclamos/internal/notify"
	"github.com/five82/reclamos/internal/prefs"
	"github.com/five82/reclamos/internal/status"
)

// View represents the current active view.
type View int

const (
	ViewComplaints View = iota
	ViewNotifications
	ViewDrivers
	ViewVehicles
	ViewLogs
	viewCount
)

// Title is the pane title for the view.
func (v View) Title() string {
	switch v {
	case ViewNotifications:
		return "Notificaciones"
	case ViewDrivers:
		return "Choferes"
	case ViewVehicles:
		return "Vehículos"
	case ViewLogs:
		return "Registro"
	default:
		return "Reclamos"
	}
}

// Options configures the UI. Screens may be nil; their views then show a
// placeholder.
type Options struct {
	Context    context.Context
	Complaints *dashboard.Complaints
	Drivers    *dashboard.Drivers
	Vehicles   *dashboard.Vehicles
	Events     *notify.Store
	Waker      *Waker
	Prefs      prefs.Prefs
	PrefsPath  string
	LogPath    string
	Operator   string
	Tick       time.Duration
	Logger     *log.Logger
	Clock      func() time.Time
}

// notice is the transient message shown under the header after an action.
type notice struct {
	text string
	err  bool
	at   time.Time
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	complaints *dashboard.Complaints
	drivers    *dashboard.Drivers
	vehicles   *dashboard.Vehicles
	events     *notify.Store
	prefs      prefs.Prefs
	prefsPath  string
	logPath    string
	operator   string
	tick       time.Duration
	logger     *log.Entry
	now        func() time.Time

	// UI state
	keys     keyMap
	theme    Theme
	view     View
	width    int
	height   int
	ready    bool
	showHelp bool
	selected [viewCount]int
	notice   notice
	detail   backend.Complaint // last complaint opened with enter

	// Notification state
	inbox  []notify.Event
	unread int

	// Log state
	logLevel    string
	logEntries  int
	logErr      error
	logViewport viewport.Model
}

// New creates the root model and applies saved filters to the complaints
// screen.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = DefaultUIInterval
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	m := Model{
		ctx:        ctx,
		complaints: opts.Complaints,
		drivers:    opts.Drivers,
		vehicles:   opts.Vehicles,
		events:     opts.Events,
		prefs:      opts.Prefs,
		prefsPath:  prefsPath,
		logPath:    opts.LogPath,
		operator:   opts.Operator,
		tick:       tick,
		logger:     logging.OrDiscard(opts.Logger).WithField("component", "ui"),
		now:        now,
		keys:       DefaultKeyMap(),
		theme:      GetTheme(opts.Prefs.Theme),
		view:       ViewComplaints,
		logLevel:   "info",
	}
	if m.events != nil {
		m.setInbox(m.events.List())
	}
	if m.complaints != nil {
		f := m.complaints.Filter()
		f.Status = opts.Prefs.Status()
		f.Sector = opts.Prefs.Sector
		m.complaints.SetFilter(f)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.logViewport = viewport.New(m.width-2, m.contentHeight()-2)
		} else {
			m.logViewport.Width = m.width - 2
			m.logViewport.Height = m.contentHeight() - 2
		}
		m.ready = true
		m.clampSelection()
		return m, nil

	case tickMsg:
		if !m.notice.at.IsZero() && m.now().Sub(m.notice.at) > NoticeTTL {
			m.notice = notice{}
		}
		cmds := []tea.Cmd{tickCmd(m.tick)}
		if m.view == ViewLogs {
			cmds = append(cmds, loadLogsCmd(m.logPath, m.logLevel))
		}
		return m, tea.Batch(cmds...)

	case wakeMsg:
		m.clampSelection()
		return m, nil

	case eventsMsg:
		m.setInbox(msg)
		m.clampSelection()
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.notice = notice{text: msg.err.Error(), err: true, at: m.now()}
			m.logger.WithError(msg.err).Warn("action failed")
		} else if msg.text != "" {
			m.notice = notice{text: msg.text, at: m.now()}
		}
		m.clampSelection()
		return m, nil

	case detailMsg:
		if msg.err != nil {
			m.notice = notice{text: msg.err.Error(), err: true, at: m.now()}
			return m, nil
		}
		m.detail = msg.complaint
		return m, nil

	case logsMsg:
		m.handleLogs(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Cargando..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.view {
	case ViewNotifications:
		return m.renderNotifications()
	case ViewDrivers:
		return m.renderDrivers()
	case ViewVehicles:
		return m.renderVehicles()
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderComplaints()
	}
}

// contentHeight is the space left under the header and command bar.
func (m Model) contentHeight() int {
	return max(m.height-2, 3)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, k.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil
	case key.Matches(msg, k.Tab):
		return m.switchView(View((int(m.view) + 1) % int(viewCount)))
	case key.Matches(msg, k.ShiftTab):
		return m.switchView(View((int(m.view) + int(viewCount) - 1) % int(viewCount)))
	case key.Matches(msg, k.Escape), key.Matches(msg, k.ViewComplaints):
		return m.switchView(ViewComplaints)
	case key.Matches(msg, k.ViewNotifications):
		return m.switchView(ViewNotifications)
	case key.Matches(msg, k.ViewDrivers):
		return m.switchView(ViewDrivers)
	case key.Matches(msg, k.ViewVehicles):
		return m.switchView(ViewVehicles)
	case key.Matches(msg, k.ViewLogs):
		return m.switchView(ViewLogs)
	case key.Matches(msg, k.Refresh):
		return m, m.refreshCmd()
	case key.Matches(msg, k.Up):
		m.moveSelection(-1)
		return m, nil
	case key.Matches(msg, k.Down):
		m.moveSelection(1)
		return m, nil
	case key.Matches(msg, k.Top):
		m.selected[m.view] = 0
		if m.view == ViewLogs {
			m.logViewport.GotoTop()
		}
		return m, nil
	case key.Matches(msg, k.Bottom):
		m.selected[m.view] = max(m.rowCount()-1, 0)
		if m.view == ViewLogs {
			m.logViewport.GotoBottom()
		}
		return m, nil
	}

	switch m.view {
	case ViewComplaints:
		return m.handleComplaintsKey(msg)
	case ViewNotifications:
		return m.handleNotificationsKey(msg)
	case ViewLogs:
		if key.Matches(msg, k.CycleLevel) {
			m.logLevel = nextLogLevel(m.logLevel)
			return m, loadLogsCmd(m.logPath, m.logLevel)
		}
	}
	return m, nil
}

func (m Model) switchView(v View) (tea.Model, tea.Cmd) {
	m.view = v
	m.clampSelection()
	if v == ViewLogs {
		return m, loadLogsCmd(m.logPath, m.logLevel)
	}
	return m, nil
}

func (m Model) handleComplaintsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.complaints == nil {
		return m, nil
	}
	k := m.keys
	switch {
	case key.Matches(msg, k.Open):
		return m, m.detailCmd()
	case key.Matches(msg, k.SetUrgent):
		return m, m.changeStatusCmd(status.Urgent)
	case key.Matches(msg, k.SetWaiting):
		return m, m.changeStatusCmd(status.Waiting)
	case key.Matches(msg, k.SetInProgress):
		return m, m.changeStatusCmd(status.InProgress)
	case key.Matches(msg, k.SetDone):
		return m, m.changeStatusCmd(status.Done)
	case key.Matches(msg, k.CycleStatus):
		f := m.complaints.Filter()
		f.Status = nextStatusFilter(f.Status)
		m.applyFilter(f)
	case key.Matches(msg, k.CycleSector):
		f := m.complaints.Filter()
		f.Sector = nextOption(m.complaints.Sectors(), f.Sector)
		m.applyFilter(f)
	case key.Matches(msg, k.CycleTaskType):
		f := m.complaints.Filter()
		f.TaskType = nextOption(m.complaints.TaskTypes(), f.TaskType)
		m.applyFilter(f)
	case key.Matches(msg, k.ToggleToday):
		f := m.complaints.Filter()
		if f.Day.IsZero() {
			f.Day = m.now()
		} else {
			f.Day = time.Time{}
		}
		m.applyFilter(f)
	case key.Matches(msg, k.ClearFilters):
		m.applyFilter(dashboard.Filter{})
	}
	return m, nil
}

func (m Model) handleNotificationsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.events == nil {
		return m, nil
	}
	k := m.keys
	events := m.events
	switch {
	case key.Matches(msg, k.MarkRead):
		ev, ok := m.selectedEvent()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			events.MarkRead(ev.ID)
			return nil
		}
	case key.Matches(msg, k.MarkAllRead):
		return m, func() tea.Msg {
			events.MarkAllRead()
			return actionMsg{text: "Notificaciones marcadas como leídas"}
		}
	case key.Matches(msg, k.ClearAll):
		return m, func() tea.Msg {
			events.ClearAll()
			return actionMsg{text: "Notificaciones borradas"}
		}
	}
	return m, nil
}

// applyFilter sets the complaints filter, resets the selection and
// remembers status and sector for the next session.
func (m *Model) applyFilter(f dashboard.Filter) {
	m.complaints.SetFilter(f)
	m.selected[ViewComplaints] = 0
	m.prefs.StatusFilter = string(f.Status)
	m.prefs.Sector = f.Sector
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.WithError(err).Warn("save prefs failed")
	}
}

// changeStatusCmd runs the status change off the event loop; the store
// listener and screen callbacks send messages back into the program.
func (m Model) changeStatusCmd(next status.Status) tea.Cmd {
	c, ok := m.selectedComplaint()
	if !ok {
		return nil
	}
	screen := m.complaints
	ctx := m.ctx
	return func() tea.Msg {
		if err := screen.ChangeStatus(ctx, c.ID, next); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{text: fmt.Sprintf("%s → %s", c.Label(), next.Label())}
	}
}

// detailCmd loads the selected complaint with its observations.
func (m Model) detailCmd() tea.Cmd {
	c, ok := m.selectedComplaint()
	if !ok {
		return nil
	}
	screen := m.complaints
	ctx := m.ctx
	return func() tea.Msg {
		detail, err := screen.Detail(ctx, c.ID)
		return detailMsg{complaint: detail, err: err}
	}
}

func (m Model) refreshCmd() tea.Cmd {
	ctx := m.ctx
	var refresh func(context.Context) error
	switch m.view {
	case ViewComplaints:
		if m.complaints != nil {
			refresh = m.complaints.Refresh
		}
	case ViewDrivers:
		if m.drivers != nil {
			refresh = m.drivers.Refresh
		}
	case ViewVehicles:
		if m.vehicles != nil {
			refresh = m.vehicles.Refresh
		}
	case ViewLogs:
		return loadLogsCmd(m.logPath, m.logLevel)
	}
	if refresh == nil {
		return nil
	}
	return func() tea.Msg {
		if err := refresh(ctx); err != nil {
			return actionMsg{err: fmt.Errorf("actualizar: %w", err)}
		}
		return actionMsg{text: "Actualizado"}
	}
}

func (m *Model) setInbox(events []notify.Event) {
	m.inbox = events
	m.unread = 0
	for _, ev := range events {
		if !ev.Read {
			m.unread++
		}
	}
}

func (m *Model) moveSelection(delta int) {
	if m.view == ViewLogs {
		if delta < 0 {
			m.logViewport.LineUp(-delta)
		} else {
			m.logViewport.LineDown(delta)
		}
		return
	}
	n := m.rowCount()
	if n == 0 {
		m.selected[m.view] = 0
		return
	}
	m.selected[m.view] = min(max(m.selected[m.view]+delta, 0), n-1)
}

func (m *Model) clampSelection() {
	for v := View(0); v < viewCount; v++ {
		n := m.rowCountFor(v)
		if m.selected[v] >= n {
			m.selected[v] = max(n-1, 0)
		}
	}
}

func (m Model) rowCount() int { return m.rowCountFor(m.view) }

func (m Model) rowCountFor(v View) int {
	switch v {
	case ViewComplaints:
		return len(m.complaintRows())
	case ViewNotifications:
		return len(m.inbox)
	case ViewDrivers:
		if m.drivers != nil {
			return len(m.drivers.Snapshot().Items)
		}
	case ViewVehicles:
		if m.vehicles != nil {
			return len(m.vehicles.Snapshot().Items)
		}
	}
	return 0
}

// complaintRows is the visible list in display order: grouped by day,
// newest first.
func (m Model) complaintRows() []backend.Complaint {
	if m.complaints == nil {
		return nil
	}
	var rows []backend.Complaint
	for _, g := range m.complaints.Grouped() {
		rows = append(rows, g.Complaints...)
	}
	return rows
}

func (m Model) selectedComplaint() (backend.Complaint, bool) {
	rows := m.complaintRows()
	i := m.selected[ViewComplaints]
	if i < 0 || i >= len(rows) {
		return backend.Complaint{}, false
	}
	return rows[i], true
}

func (m Model) selectedEvent() (notify.Event, bool) {
	i := m.selected[ViewNotifications]
	if i < 0 || i >= len(m.inbox) {
		return notify.Event{}, false
	}
	return m.inbox[i], true
}

func nextStatusFilter(current status.Status) status.Status {
	if current == "" {
		return status.All()[0]
	}
	if current == status.Done || !current.Valid() {
		return ""
	}
	return current.Next()
}

// nextOption cycles "" → options[0] → ... → "".
func nextOption(options []string, current string) string {
	if current == "" {
		if len(options) == 0 {
			return ""
		}
		return options[0]
	}
	for i, o := range options {
		if strings.EqualFold(o, current) {
			if i+1 < len(options) {
				return options[i+1]
			}
			return ""
		}
	}
	return ""
}

// Messages

type tickMsg time.Time

type wakeMsg struct{}

type eventsMsg []notify.Event

type actionMsg struct {
	text string
	err  error
}

type detailMsg struct {
	complaint backend.Complaint
	err       error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Waker lets background pollers nudge the program to redraw. Wake is a
// no-op until Run attaches a program.
type Waker struct {
	mu      sync.RWMutex
	program *tea.Program
}

// NewWaker returns a detached Waker.
func NewWaker() *Waker { return &Waker{} }

// Wake asks the program to redraw.
func (w *Waker) Wake() {
	if w == nil {
		return
	}
	w.mu.RLock()
	p := w.program
	w.mu.RUnlock()
	if p != nil {
		p.Send(wakeMsg{})
	}
}

func (w *Waker) attach(p *tea.Program) {
	w.mu.Lock()
	w.program = p
	w.mu.Unlock()
}

// Run starts the Bubble Tea program. The notification store is subscribed
// for the lifetime of the program.
func Run(opts Options) error {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	opts.Context = ctx

	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	if opts.Waker != nil {
		opts.Waker.attach(p)
		defer opts.Waker.attach(nil)
	}
	if opts.Events != nil {
		unsubscribe := opts.Events.Subscribe(func(events []notify.Event) {
			p.Send(eventsMsg(events))
		})
		defer unsubscribe()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
