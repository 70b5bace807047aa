package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/geoflow/internal/events"
)

// TaskState tracks one pool task's lifecycle and any output lines it has
// produced by shelling out to an external tool.
type TaskState struct {
	Name      string
	Status    string // "waiting", "running", "completed", "aborted", "failed"
	Output    []string
	StartTime time.Time
}

// TaskPaneModel lists known pool tasks and shows the selected one's
// captured subprocess output.
type TaskPaneModel struct {
	tasks       map[string]*TaskState
	taskOrder   []string
	selectedIdx int
	viewport    viewport.Model
	width       int
	height      int
	focused     bool
	updateTag   int
}

// NewTaskPaneModel creates a new task pane model.
func NewTaskPaneModel() TaskPaneModel {
	vp := viewport.New(0, 0)
	return TaskPaneModel{
		tasks:    make(map[string]*TaskState),
		viewport: vp,
	}
}

type tickMsg struct {
	tag int
}

// Update handles messages for the task pane.
func (m TaskPaneModel) Update(msg tea.Msg) (TaskPaneModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()

	case tea.KeyMsg:
		if !m.focused {
			break
		}
		switch msg.String() {
		case KeyJ, KeyDown:
			if m.selectedIdx < len(m.taskOrder)-1 {
				m.selectedIdx++
				m.updateViewportContent()
			}
		case KeyK, KeyUp:
			if m.selectedIdx > 0 {
				m.selectedIdx--
				m.updateViewportContent()
			}
		default:
			m.viewport, cmd = m.viewport.Update(msg)
		}

	case events.TaskEvent:
		m.applyTaskEvent(msg)

	case events.TaskOutputEvent:
		if task, exists := m.tasks[msg.Name]; exists {
			task.Output = append(task.Output, msg.Line)
			if m.getSelectedTaskName() == msg.Name {
				m.updateTag++
				tag := m.updateTag
				return m, tea.Tick(50*time.Millisecond, func(time.Time) tea.Msg {
					return tickMsg{tag: tag}
				})
			}
		}

	case tickMsg:
		if msg.tag == m.updateTag {
			m.updateViewportContent()
		}
	}

	return m, cmd
}

func (m *TaskPaneModel) applyTaskEvent(ev events.TaskEvent) {
	task, exists := m.tasks[ev.Name]
	if !exists {
		task = &TaskState{Name: ev.Name, Status: "waiting"}
		m.tasks[ev.Name] = task
		m.taskOrder = append(m.taskOrder, ev.Name)
		if len(m.taskOrder) == 1 {
			m.selectedIdx = 0
			m.updateViewportContent()
		}
	}

	switch ev.Kind {
	case events.TaskStarted:
		task.Status = "running"
		task.StartTime = ev.Timestamp
	case events.TaskCompleted:
		task.Status = "completed"
		task.Output = append(task.Output, "\n[completed]")
	case events.TaskFailed:
		task.Status = "failed"
		task.Output = append(task.Output, fmt.Sprintf("\n[failed: %v]", ev.Err))
	case events.TaskAborted:
		task.Status = "aborted"
		task.Output = append(task.Output, "\n[aborted]")
	}

	if m.getSelectedTaskName() == ev.Name {
		m.updateViewportContent()
	}
}

// View renders the task pane.
func (m TaskPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	listWidth := 25
	viewportWidth := m.width - listWidth - 4

	listContent := m.renderTaskList(listWidth)
	viewportContent := m.viewport.View()

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		listContent,
		lipgloss.NewStyle().
			Width(viewportWidth).
			Height(m.height-2).
			Render(viewportContent),
	)

	style := StyleUnfocusedBorder
	if m.focused {
		style = StyleFocusedBorder
	}

	return style.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(content)
}

func (m TaskPaneModel) renderTaskList(width int) string {
	var b strings.Builder

	title := StyleTitle.Render("Tasks")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", min(width, lipgloss.Width(title))))
	b.WriteString("\n\n")

	if len(m.taskOrder) == 0 {
		b.WriteString(StyleStatusPending.Render("Waiting..."))
	} else {
		for i, name := range m.taskOrder {
			task := m.tasks[name]
			icon := m.StatusIcon(task.Status)
			label := name
			if len(label) > width-6 {
				label = label[:width-9] + "..."
			}

			line := fmt.Sprintf("%s %s", icon, label)
			if i == m.selectedIdx {
				line = lipgloss.NewStyle().
					Background(lipgloss.Color("62")).
					Foreground(lipgloss.Color("0")).
					Render(line)
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(m.height - 2).
		Render(b.String())
}

// StatusIcon returns a styled status indicator.
func (m TaskPaneModel) StatusIcon(status string) string {
	switch status {
	case "running":
		return StyleStatusRunning.Render("●")
	case "completed":
		return StyleStatusComplete.Render("✓")
	case "failed", "aborted":
		return StyleStatusFailed.Render("✗")
	default:
		return StyleStatusPending.Render("○")
	}
}

func (m TaskPaneModel) getSelectedTaskName() string {
	if m.selectedIdx >= 0 && m.selectedIdx < len(m.taskOrder) {
		return m.taskOrder[m.selectedIdx]
	}
	return ""
}

func (m *TaskPaneModel) updateViewportContent() {
	name := m.getSelectedTaskName()
	if name == "" {
		m.viewport.SetContent("Waiting for tasks...")
		return
	}

	task, exists := m.tasks[name]
	if !exists {
		m.viewport.SetContent("Waiting for tasks...")
		return
	}

	content := strings.Join(task.Output, "\n")
	if content == "" {
		content = fmt.Sprintf("[%s]", task.Status)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m *TaskPaneModel) resizeViewport() {
	listWidth := 25
	viewportWidth := m.width - listWidth - 4
	viewportHeight := m.height - 4

	if viewportWidth < 10 {
		viewportWidth = 10
	}
	if viewportHeight < 5 {
		viewportHeight = 5
	}

	m.viewport.Width = viewportWidth
	m.viewport.Height = viewportHeight
}

// SetSize updates the pane dimensions.
func (m *TaskPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.resizeViewport()
}

// SetFocused updates the focus state.
func (m *TaskPaneModel) SetFocused(focused bool) {
	m.focused = focused
}
