// Package tui implements the interactive approval inbox on Bubble Tea.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/flowdeck/flowdeck/internal/gateway"
)

// TaskService is the slice of the gateway client the inbox needs.
type TaskService interface {
	ListTasks(ctx context.Context, params gateway.TaskListParams) (*gateway.TaskList, error)
	DecideTask(ctx context.Context, id, action, comment string) (*gateway.Task, error)
}

// Tab identifies which task list is displayed
type Tab int

// Inbox tabs
const (
	// TabPending shows tasks awaiting a decision
	TabPending Tab = iota
	// TabCompleted shows decided and expired tasks
	TabCompleted
)

// viewType represents the current inbox screen
type viewType int

const (
	viewList viewType = iota
	viewDetail
	viewDecision
)

const taskPageLimit = 100

// Messages for inbox events

// tasksLoadedMsg delivers a fresh task list
type tasksLoadedMsg struct {
	tasks []gateway.Task
}

// taskDecidedMsg delivers the task state after a decision
type taskDecidedMsg struct {
	task gateway.Task
}

// inboxErrMsg delivers a failed fetch or decision
type inboxErrMsg struct {
	err error
}

// openSearchMsg focuses the search input. Filtering is driven by this
// message rather than by synthesizing key events, so any component can
// open the search programmatically.
type openSearchMsg struct{}

// OpenSearch returns the command that focuses the inbox search input.
func OpenSearch() tea.Msg {
	return openSearchMsg{}
}

// InboxModel is the Bubble Tea model for the approval inbox
type InboxModel struct {
	svc TaskService
	ctx context.Context

	// Task state
	tasks    []gateway.Task
	tab      Tab
	filter   string
	selected *gateway.Task

	// Decision state
	decisionAction string
	comment        textinput.Model

	// UI state
	view      viewType
	table     table.Model
	search    textinput.Model
	searching bool
	loading   bool
	lastError string
	width     int
	height    int
	ready     bool
	quitting  bool

	styles Styles
}

// NewInboxModel creates the inbox model
func NewInboxModel(ctx context.Context, svc TaskService) InboxModel {
	search := textinput.New()
	search.Placeholder = "Search..."
	search.CharLimit = 64

	comment := textinput.New()
	comment.Placeholder = "Optional comment"
	comment.CharLimit = 256

	tbl := table.New(
		table.WithColumns(inboxColumns()),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	return InboxModel{
		svc:     svc,
		ctx:     ctx,
		tab:     TabPending,
		view:    viewList,
		table:   tbl,
		search:  search,
		comment: comment,
		loading: true,
		styles:  DefaultStyles(),
	}
}

func inboxColumns() []table.Column {
	return []table.Column{
		{Title: "Title", Width: 28},
		{Title: "Workflow", Width: 24},
		{Title: "Status", Width: 10},
		{Title: "Expires", Width: 10},
	}
}

// Init initializes the inbox model (required by Bubble Tea)
func (m InboxModel) Init() tea.Cmd {
	return m.loadTasks()
}

// loadTasks fetches the task list from the gateway
func (m InboxModel) loadTasks() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		list, err := svc.ListTasks(ctx, gateway.TaskListParams{Limit: taskPageLimit})
		if err != nil {
			return inboxErrMsg{err: err}
		}
		return tasksLoadedMsg{tasks: list.Tasks}
	}
}

// decideTask submits the pending decision
func (m InboxModel) decideTask(id, action, comment string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		task, err := svc.DecideTask(ctx, id, action, comment)
		if err != nil {
			return inboxErrMsg{err: err}
		}
		return taskDecidedMsg{task: *task}
	}
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m InboxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(4, msg.Height-10))
		m.ready = true
		return m, nil

	case tasksLoadedMsg:
		m.tasks = msg.tasks
		m.loading = false
		m.lastError = ""
		m.refreshRows()
		return m, nil

	case taskDecidedMsg:
		for i := range m.tasks {
			if m.tasks[i].ID == msg.task.ID {
				m.tasks[i] = msg.task
			}
		}
		m.selected = &msg.task
		m.view = viewDetail
		m.lastError = ""
		m.refreshRows()
		return m, nil

	case inboxErrMsg:
		m.loading = false
		m.lastError = msg.err.Error()
		if m.view == viewDecision {
			m.view = viewDetail
		}
		return m, nil

	case openSearchMsg:
		m.searching = true
		m.view = viewList
		return m, m.search.Focus()
	}

	return m, nil
}

// handleKeyPress handles keyboard input
func (m InboxModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits
	if msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch m.view {
	case viewDecision:
		return m.handleDecisionKey(msg)
	case viewDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m InboxModel) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.filter = ""
		m.search.SetValue("")
		m.search.Blur()
		m.refreshRows()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.filter = m.search.Value()
	m.refreshRows()
	return m, cmd
}

func (m InboxModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		if m.tab == TabPending {
			m.tab = TabCompleted
		} else {
			m.tab = TabPending
		}
		m.refreshRows()
		return m, nil

	case "/":
		return m, func() tea.Msg { return openSearchMsg{} }

	case "r":
		m.loading = true
		return m, m.loadTasks()

	case "enter":
		visible := m.visibleTasks()
		if cursor := m.table.Cursor(); cursor >= 0 && cursor < len(visible) {
			task := visible[cursor]
			m.selected = &task
			m.view = viewDetail
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m InboxModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.selected = nil
		m.view = viewList
		return m, nil

	case "a":
		if m.selected != nil && m.selected.Pending() {
			return m.startDecision(gateway.DecisionApprove)
		}

	case "r":
		if m.selected != nil && m.selected.Pending() {
			return m.startDecision(gateway.DecisionReject)
		}
	}
	return m, nil
}

func (m InboxModel) startDecision(action string) (tea.Model, tea.Cmd) {
	m.decisionAction = action
	m.comment.SetValue("")
	m.view = viewDecision
	return m, m.comment.Focus()
}

func (m InboxModel) handleDecisionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.comment.Blur()
		return m, m.decideTask(m.selected.ID, m.decisionAction, m.comment.Value())

	case "esc":
		m.comment.Blur()
		m.view = viewDetail
		return m, nil
	}

	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)
	return m, cmd
}

// visibleTasks applies the tab and search filter
func (m InboxModel) visibleTasks() []gateway.Task {
	needle := strings.ToLower(strings.TrimSpace(m.filter))

	var out []gateway.Task
	for _, t := range m.tasks {
		if m.tab == TabPending && !t.Pending() {
			continue
		}
		if m.tab == TabCompleted && t.Pending() {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(t.Title), needle) &&
			!strings.Contains(strings.ToLower(t.WorkflowID), needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func (m *InboxModel) refreshRows() {
	visible := m.visibleTasks()
	rows := make([]table.Row, 0, len(visible))
	now := time.Now()
	for _, t := range visible {
		rows = append(rows, table.Row{
			t.Title,
			t.WorkflowID,
			t.Status,
			expiryLabel(t, now),
		})
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

// expiryLabel renders time remaining the way the inbox list shows it
func expiryLabel(t gateway.Task, now time.Time) string {
	if !t.Pending() {
		return "-"
	}
	remaining := t.TimeRemaining(now)
	if remaining == 0 {
		return "Expired"
	}
	hours := int(remaining.Hours())
	minutes := int(remaining.Minutes()) % 60
	if hours > 0 {
		return formatHM(hours, minutes)
	}
	return formatM(minutes)
}

// RunInbox starts the approval inbox TUI and blocks until it exits.
func RunInbox(ctx context.Context, svc TaskService) error {
	model := NewInboxModel(ctx, svc)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
