// Package graph renders a workflow's trigger/action chain as a static
// terminal tree. The render is decorative, there is no layout engine.
package graph

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/flowdeck/flowdeck/internal/gateway"
)

// NodeType classifies a node in the workflow tree.
type NodeType string

// Node types
const (
	NodeTrigger   NodeType = "trigger"
	NodeAction    NodeType = "action"
	NodeCondition NodeType = "condition"
	NodeEnd       NodeType = "end"
)

// Node is a single box in the workflow tree. A condition node carries
// two labeled branches; every other node has at most one child.
type Node struct {
	Type        NodeType
	Label       string
	Description string
	Next        *Node
	Branches    [2]*Branch
}

// Branch is one arm of a condition node.
type Branch struct {
	Label string
	Head  *Node
}

var badgeLabels = map[NodeType]string{
	NodeTrigger:   "TRIGGER",
	NodeAction:    "DO THIS",
	NodeCondition: "IF / ELSE",
	NodeEnd:       "END",
}

// Styles contains the lipgloss styles for the tree render.
type Styles struct {
	Trigger   lipgloss.Style
	Action    lipgloss.Style
	Condition lipgloss.Style
	End       lipgloss.Style
	Badge     lipgloss.Style
	Desc      lipgloss.Style
	Connector lipgloss.Style
}

// DefaultStyles returns the default node styles.
func DefaultStyles() Styles {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 2).
		Width(36)

	return Styles{
		Trigger:   box.BorderForeground(lipgloss.Color("203")), // Red
		Action:    box.BorderForeground(lipgloss.Color("214")), // Amber
		Condition: box.BorderForeground(lipgloss.Color("135")), // Violet
		End:       box.BorderForeground(lipgloss.Color("241")), // Gray
		Badge: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("241")),
		Desc: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Connector: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
	}
}

// PlainStyles returns styles without color or borders for no-color output.
func PlainStyles() Styles {
	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Padding(0, 2).
		Width(36)

	return Styles{
		Trigger:   box,
		Action:    box,
		Condition: box,
		End:       box,
		Badge:     lipgloss.NewStyle(),
		Desc:      lipgloss.NewStyle(),
		Connector: lipgloss.NewStyle(),
	}
}

// Renderer draws workflow trees.
type Renderer struct {
	styles Styles
}

// NewRenderer creates a renderer with the given styles.
func NewRenderer(styles Styles) *Renderer {
	return &Renderer{styles: styles}
}

// Render draws the tree rooted at node, one box per node joined by
// vertical connectors. Condition branches render side by side.
func (r *Renderer) Render(node *Node) string {
	var sections []string
	for n := node; n != nil; {
		sections = append(sections, r.renderNode(n))

		if n.Type == NodeCondition && (n.Branches[0] != nil || n.Branches[1] != nil) {
			sections = append(sections, r.renderBranches(n))
			break
		}

		if n.Next != nil {
			sections = append(sections, r.connector())
		}
		n = n.Next
	}
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (r *Renderer) renderNode(n *Node) string {
	var b strings.Builder
	b.WriteString(r.styles.Badge.Render(badgeLabels[n.Type]))
	b.WriteString("\n")
	b.WriteString(n.Label)
	if n.Description != "" {
		b.WriteString("\n")
		b.WriteString(r.styles.Desc.Render(n.Description))
	}
	return r.boxStyle(n.Type).Render(b.String())
}

func (r *Renderer) renderBranches(n *Node) string {
	var arms []string
	for _, br := range n.Branches {
		if br == nil {
			continue
		}
		label := r.styles.Desc.Render(br.Label)
		arm := lipgloss.JoinVertical(lipgloss.Center, r.connector(), label, r.connector(), r.Render(br.Head))
		arms = append(arms, arm)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, arms...)
}

func (r *Renderer) connector() string {
	return r.styles.Connector.Render("│\n●")
}

func (r *Renderer) boxStyle(t NodeType) lipgloss.Style {
	switch t {
	case NodeTrigger:
		return r.styles.Trigger
	case NodeAction:
		return r.styles.Action
	case NodeCondition:
		return r.styles.Condition
	default:
		return r.styles.End
	}
}

// FromWorkflow builds the canonical tree for a deployed workflow:
// its trigger, the workflow body, and an end node.
func FromWorkflow(wf *gateway.Workflow) *Node {
	end := &Node{Type: NodeEnd, Label: "Complete"}
	body := &Node{
		Type:        NodeAction,
		Label:       wf.Name,
		Description: fmt.Sprintf("queue: %s", wf.TaskQueue),
		Next:        end,
	}
	return &Node{
		Type:        NodeTrigger,
		Label:       triggerLabel(wf.TriggerType),
		Description: fmt.Sprintf("namespace: %s", wf.Namespace),
		Next:        body,
	}
}

func triggerLabel(triggerType string) string {
	switch triggerType {
	case "schedule":
		return "On schedule"
	case "webhook":
		return "On webhook"
	case "event":
		return "On event"
	case "manual":
		return "Manual start"
	default:
		if triggerType == "" {
			return "Manual start"
		}
		return triggerType
	}
}
