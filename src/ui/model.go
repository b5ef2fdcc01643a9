// Package ui is the terminal dashboard. All state lives in Model and is
// only changed from Update; pollers and maintenance workers reach it
// through messages sent to the program.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/clarechu/sys-assistant/src/history"
	"github.com/clarechu/sys-assistant/src/maintenance"
	"github.com/clarechu/sys-assistant/src/models"
	"github.com/clarechu/sys-assistant/src/poller"
)

// Tab identifies which tab is currently active.
type Tab int

const (
	TabDashboard Tab = iota
	TabSystem
	TabDisks
	TabMaintenance
	tabCount
)

var tabNames = map[Tab]string{
	TabDashboard:   "Dashboard",
	TabSystem:      "System",
	TabDisks:       "Disks",
	TabMaintenance: "Maintenance",
}

const (
	// DefaultRefreshInterval is how often host, CPU and disk facts are reread.
	DefaultRefreshInterval = 5 * time.Second
	maxLogLines            = 2000
)

// SystemInfo is satisfied by *sysinfo.Provider.
type SystemInfo interface {
	HostInfo(ctx context.Context) (*models.HostInfo, error)
	CPUInfo(ctx context.Context) (*models.CPUInfo, error)
	DiskPartitions(ctx context.Context) ([]*models.DiskPartitionInfo, error)
}

// Maintenance is satisfied by *maintenance.Orchestrator.
type Maintenance interface {
	Busy() bool
	Operations() []maintenance.Operation
	Start(ctx context.Context, name string) error
}

type Options struct {
	Context         context.Context
	System          SystemInfo
	Maintenance     Maintenance
	RefreshInterval time.Duration
	HistorySize     int
}

type notice struct {
	title string
	body  string
	err   bool
}

// Model is the top-level bubbletea model.
type Model struct {
	ctx             context.Context
	system          SystemInfo
	maintenance     Maintenance
	refreshInterval time.Duration
	historySize     int
	titles          map[string]string

	keys      keyMap
	help      help.Model
	activeTab Tab
	width     int
	height    int
	ready     bool

	cpuBar progress.Model
	memBar progress.Model
	log    viewport.Model

	snapshot    poller.Snapshot
	hasSample   bool
	lastUpdated time.Time
	pollErr     error

	host     *models.HostInfo
	cpu      *models.CPUInfo
	disks    []*models.DiskPartitionInfo
	fetchErr error

	busy     bool
	running  string
	logLines []string
	notice   *notice
}

func NewModel(opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.HistorySize <= 0 {
		opts.HistorySize = history.DefaultCapacity
	}
	m := Model{
		ctx:             opts.Context,
		system:          opts.System,
		maintenance:     opts.Maintenance,
		refreshInterval: opts.RefreshInterval,
		historySize:     opts.HistorySize,
		titles:          map[string]string{},
		keys:            defaultKeys(),
		help:            help.New(),
		cpuBar:          progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(40)),
		memBar:          progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage(), progress.WithWidth(40)),
		log:             viewport.New(80, 10),
	}
	if opts.Maintenance != nil {
		for _, op := range opts.Maintenance.Operations() {
			m.titles[op.Name] = op.Title
		}
		if opts.Maintenance.Busy() {
			m.busy = true
			m.keys.setTriggersEnabled(false)
		}
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchHost(), m.fetchCPU(), m.fetchDisks(), m.scheduleRefresh())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()

	case SampleMsg:
		m.snapshot = msg.Snapshot
		m.hasSample = true
		m.lastUpdated = msg.Snapshot.Sample.Timestamp
		m.pollErr = nil

	case PollErrorMsg:
		m.pollErr = msg.Err

	case hostInfoMsg:
		m.fetchErr = msg.err
		if msg.info != nil {
			m.host = msg.info
		}

	case cpuInfoMsg:
		m.fetchErr = msg.err
		if msg.info != nil {
			m.cpu = msg.info
		}

	case disksMsg:
		m.fetchErr = msg.err
		if msg.err == nil {
			m.disks = msg.disks
		}

	case refreshTickMsg:
		return m, tea.Batch(m.fetchHost(), m.fetchCPU(), m.fetchDisks(), m.scheduleRefresh())

	case OperationEventMsg:
		m.applyEvent(msg.Event)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	// the notice is modal
	if m.notice != nil {
		if key.Matches(msg, m.keys.Dismiss) {
			m.notice = nil
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.NextTab):
		m.activeTab = (m.activeTab + 1) % tabCount
	case key.Matches(msg, m.keys.PrevTab):
		m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
	case key.Matches(msg, m.keys.Tab1):
		m.activeTab = TabDashboard
	case key.Matches(msg, m.keys.Tab2):
		m.activeTab = TabSystem
	case key.Matches(msg, m.keys.Tab3):
		m.activeTab = TabDisks
	case key.Matches(msg, m.keys.Tab4):
		m.activeTab = TabMaintenance
	case key.Matches(msg, m.keys.Update):
		m.startOperation(maintenance.OperationUpdate)
	case key.Matches(msg, m.keys.Cleanup):
		m.startOperation(maintenance.OperationCleanup)
	case key.Matches(msg, m.keys.ScrollUp):
		m.log.ScrollUp(1)
	case key.Matches(msg, m.keys.ScrollDown):
		m.log.ScrollDown(1)
	}
	return m, nil
}

func (m *Model) startOperation(name string) {
	if m.busy || m.maintenance == nil {
		return
	}
	m.activeTab = TabMaintenance
	err := m.maintenance.Start(m.ctx, name)
	switch {
	case err == nil:
		m.setBusy(name)
	case errors.Is(err, maintenance.ErrBusy):
		m.notice = &notice{title: "Busy", body: "Another maintenance operation is already running.", err: true}
	default:
		m.notice = &notice{title: "Error", body: err.Error(), err: true}
	}
}

func (m *Model) setBusy(name string) {
	m.busy = true
	m.running = name
	m.keys.setTriggersEnabled(false)
}

func (m *Model) applyEvent(ev maintenance.Event) {
	switch ev.Type {
	case maintenance.EventStarted:
		m.setBusy(ev.Operation)
		if len(m.logLines) > 0 {
			m.appendLog("")
		}
	case maintenance.EventLine:
		m.appendLog(ev.Line)
	case maintenance.EventFinished:
		m.busy = false
		m.running = ""
		m.keys.setTriggersEnabled(true)
		if ev.Result != nil {
			m.notice = m.noticeFor(*ev.Result)
		}
	}
}

func (m *Model) appendLog(line string) {
	m.logLines = append(m.logLines, line)
	if over := len(m.logLines) - maxLogLines; over > 0 {
		m.logLines = append(m.logLines[:0], m.logLines[over:]...)
	}
	m.syncLog()
}

func (m *Model) syncLog() {
	m.log.SetContent(strings.Join(m.logLines, "\n"))
	m.log.GotoBottom()
}

func (m Model) noticeFor(result models.MaintenanceResult) *notice {
	title := m.titles[result.Operation]
	if title == "" {
		title = result.Operation
	}
	switch {
	case result.Succeeded:
		return &notice{title: "Success", body: title + " completed successfully!"}
	case result.PermissionDenied:
		return &notice{title: "Permission denied", body: maintenance.PermissionMessage, err: true}
	case result.FailedStep != "":
		return &notice{
			title: "Error",
			body:  fmt.Sprintf("%s failed at step %s (exit code %d).", title, result.FailedStep, result.ExitCode),
			err:   true,
		}
	default:
		return &notice{title: "Error", body: fmt.Sprintf("%s failed: %s", title, result.Error), err: true}
	}
}

func (m *Model) resize() {
	barWidth := m.width - 30
	if barWidth > 60 {
		barWidth = 60
	}
	if barWidth < 10 {
		barWidth = 10
	}
	m.cpuBar.Width = barWidth
	m.memBar.Width = barWidth

	m.log.Width = max(m.width-8, 20)
	m.log.Height = max(m.height-14, 3)
	m.syncLog()
}

func (m Model) fetchHost() tea.Cmd {
	if m.system == nil {
		return nil
	}
	return func() tea.Msg {
		info, err := m.system.HostInfo(m.ctx)
		return hostInfoMsg{info: info, err: err}
	}
}

func (m Model) fetchCPU() tea.Cmd {
	if m.system == nil {
		return nil
	}
	return func() tea.Msg {
		info, err := m.system.CPUInfo(m.ctx)
		return cpuInfoMsg{info: info, err: err}
	}
}

func (m Model) fetchDisks() tea.Cmd {
	if m.system == nil {
		return nil
	}
	return func() tea.Msg {
		disks, err := m.system.DiskPartitions(m.ctx)
		return disksMsg{disks: disks, err: err}
	}
}

func (m Model) scheduleRefresh() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}
