package tui

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// View renders the inbox (required by Bubble Tea)
func (m InboxModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	if m.quitting {
		return ""
	}

	switch m.view {
	case viewDetail:
		return m.renderDetail()
	case viewDecision:
		return m.renderDecision()
	default:
		return m.renderList()
	}
}

// renderList renders the task list with tabs and search
func (m InboxModel) renderList() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("📥 Approvals"))
	b.WriteString("\n\n")

	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if m.searching || m.filter != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n\n")
	}

	if m.loading {
		b.WriteString(m.styles.Muted.Render("Loading tasks..."))
	} else if len(m.visibleTasks()) == 0 {
		b.WriteString(m.styles.Muted.Render("No tasks"))
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")

	if m.lastError != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("Error: ") + m.lastError)
		b.WriteString("\n")
	}

	b.WriteString(m.renderListHelp())
	return b.String()
}

func (m InboxModel) renderTabs() string {
	pending := 0
	for _, t := range m.tasks {
		if t.Pending() {
			pending++
		}
	}

	pendingLabel := fmt.Sprintf("Pending (%d)", pending)
	completedLabel := "Completed"

	if m.tab == TabPending {
		return m.styles.ActiveTab.Render(pendingLabel) + " " + m.styles.InactiveTab.Render(completedLabel)
	}
	return m.styles.InactiveTab.Render(pendingLabel) + " " + m.styles.ActiveTab.Render(completedLabel)
}

// renderDetail renders the selected task
func (m InboxModel) renderDetail() string {
	t := m.selected
	if t == nil {
		return m.renderList()
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render(t.Title))
	b.WriteString("\n")
	if t.Description != "" {
		b.WriteString(m.styles.Subtitle.Render(t.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	fields := [][2]string{
		{"Workflow", t.WorkflowID},
		{"Run ID", t.WorkflowRunID},
		{"Status", t.Status},
		{"Created", t.CreatedAt.Local().Format(time.RFC822)},
	}
	if t.Pending() {
		fields = append(fields, [2]string{"Expires", expiryLabel(*t, time.Now())})
	}
	for _, f := range fields {
		b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%-10s", f[0])))
		b.WriteString(" " + f[1])
		b.WriteString("\n")
	}

	if len(t.Data) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("Data"))
		b.WriteString("\n")
		pretty, err := json.MarshalIndent(t.Data, "", "  ")
		if err == nil {
			b.WriteString(m.styles.Border.Render(string(pretty)))
		}
		b.WriteString("\n")
	}

	if t.Decision != nil {
		b.WriteString("\n")
		b.WriteString(m.styles.Muted.Render("Decision"))
		b.WriteString("\n")
		line := t.Decision.Action
		if t.Decision.Comment != "" {
			line += ": " + t.Decision.Comment
		}
		if t.Decision.DecidedAt != nil {
			line += m.styles.Muted.Render(" at " + t.Decision.DecidedAt.Local().Format(time.RFC822))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.lastError != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("Error: ") + m.lastError)
		b.WriteString("\n")
	}

	b.WriteString(m.renderDetailHelp(t.Pending()))
	return b.String()
}

// renderDecision renders the approve/reject confirmation
func (m InboxModel) renderDecision() string {
	var b strings.Builder

	verb := "Approve"
	style := m.styles.Success
	if m.decisionAction == "reject" {
		verb = "Reject"
		style = m.styles.Error
	}

	b.WriteString(style.Render(fmt.Sprintf("%s task?", verb)))
	b.WriteString("\n")
	if m.selected != nil {
		b.WriteString(m.styles.Subtitle.Render(m.selected.Title))
		b.WriteString("\n")
	}
	b.WriteString(m.styles.Muted.Render("This action cannot be undone."))
	b.WriteString("\n\n")

	b.WriteString(m.comment.View())
	b.WriteString("\n\n")

	confirm := m.styles.Key.Render("[Enter]") + " " + m.styles.KeyDesc.Render("confirm")
	cancel := m.styles.Key.Render("[Esc]") + " " + m.styles.KeyDesc.Render("cancel")
	b.WriteString(confirm + "  " + cancel)

	return b.String()
}

func (m InboxModel) renderListHelp() string {
	items := []string{
		m.styles.Key.Render("enter") + " open",
		m.styles.Key.Render("tab") + " switch tab",
		m.styles.Key.Render("/") + " search",
		m.styles.Key.Render("r") + " refresh",
		m.styles.Key.Render("q") + " quit",
	}
	return m.styles.Help.Render(strings.Join(items, " • "))
}

func (m InboxModel) renderDetailHelp(pending bool) string {
	items := []string{m.styles.Key.Render("esc") + " back"}
	if pending {
		items = append([]string{
			m.styles.Key.Render("a") + " approve",
			m.styles.Key.Render("r") + " reject",
		}, items...)
	}
	return m.styles.Help.Render(strings.Join(items, " • "))
}

func formatHM(hours, minutes int) string {
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

func formatM(minutes int) string {
	return fmt.Sprintf("%dm", minutes)
}
