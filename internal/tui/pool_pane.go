package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aristath/geoflow/internal/events"
)

// PoolPaneModel represents the pool occupancy display pane.
type PoolPaneModel struct {
	total     int
	completed int
	running   int
	aborted   int
	waiting   int
	ready     int
	width     int
	height    int
	focused   bool
}

// NewPoolPaneModel creates a new pool pane model.
func NewPoolPaneModel() PoolPaneModel {
	return PoolPaneModel{}
}

// Update handles messages for the pool pane.
func (m PoolPaneModel) Update(msg tea.Msg) (PoolPaneModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case events.PoolProgressEvent:
		m.total = msg.Total
		m.completed = msg.Completed
		m.running = msg.Running
		m.aborted = msg.Aborted
		m.waiting = msg.Waiting
		m.ready = msg.Ready
	}

	return m, nil
}

// View renders the pool pane.
func (m PoolPaneModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	var b strings.Builder

	title := StyleTitle.Render("Pool Progress")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("=", lipgloss.Width(title)))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Total:     %d\n", m.total))
	b.WriteString(fmt.Sprintf("Completed: %s\n", StyleStatusComplete.Render(fmt.Sprintf("%d", m.completed))))
	b.WriteString(fmt.Sprintf("Running:   %s\n", StyleStatusRunning.Render(fmt.Sprintf("%d", m.running))))
	b.WriteString(fmt.Sprintf("Aborted:   %s\n", StyleStatusFailed.Render(fmt.Sprintf("%d", m.aborted))))
	b.WriteString(fmt.Sprintf("Waiting:   %s\n", StyleStatusPending.Render(fmt.Sprintf("%d", m.waiting))))
	b.WriteString(fmt.Sprintf("Ready:     %s\n", StyleStatusPending.Render(fmt.Sprintf("%d", m.ready))))

	b.WriteString("\n")

	if m.total > 0 {
		barWidth := min(m.width-4, 40)
		completedWidth := (m.completed * barWidth) / m.total
		abortedWidth := (m.aborted * barWidth) / m.total
		runningWidth := (m.running * barWidth) / m.total
		pendingWidth := barWidth - completedWidth - abortedWidth - runningWidth

		bar := StyleStatusComplete.Render(strings.Repeat("=", max(0, completedWidth)))
		bar += StyleStatusFailed.Render(strings.Repeat("!", max(0, abortedWidth)))
		bar += StyleStatusRunning.Render(strings.Repeat("-", max(0, runningWidth)))
		bar += StyleStatusPending.Render(strings.Repeat(".", max(0, pendingWidth)))

		b.WriteString(fmt.Sprintf("[%s]  %d/%d\n", bar, m.completed, m.total))
	}

	content := b.String()

	style := StyleUnfocusedBorder
	if m.focused {
		style = StyleFocusedBorder
	}

	return style.
		Width(m.width - 2).
		Height(m.height - 2).
		Render(content)
}

// SetSize updates the pane dimensions.
func (m *PoolPaneModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused updates the focus state.
func (m *PoolPaneModel) SetFocused(focused bool) {
	m.focused = focused
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
