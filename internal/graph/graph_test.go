package graph

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowdeck/flowdeck/internal/gateway"
)

func TestFromWorkflow(t *testing.T) {
	wf := &gateway.Workflow{
		Name:        "orderProcessingWorkflow",
		Namespace:   "orders",
		TaskQueue:   "orders-queue",
		TriggerType: "webhook",
	}

	root := FromWorkflow(wf)
	assert.Equal(t, NodeTrigger, root.Type)
	assert.Equal(t, "On webhook", root.Label)
	assert.Contains(t, root.Description, "orders")

	body := root.Next
	assert.Equal(t, NodeAction, body.Type)
	assert.Equal(t, "orderProcessingWorkflow", body.Label)

	end := body.Next
	assert.Equal(t, NodeEnd, end.Type)
	assert.Nil(t, end.Next)
}

func TestTriggerLabel(t *testing.T) {
	tests := []struct {
		triggerType string
		want        string
	}{
		{"schedule", "On schedule"},
		{"webhook", "On webhook"},
		{"event", "On event"},
		{"manual", "Manual start"},
		{"", "Manual start"},
		{"custom", "custom"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, triggerLabel(tt.triggerType), tt.triggerType)
	}
}

func TestRenderChain(t *testing.T) {
	wf := &gateway.Workflow{
		Name:        "dailyReportGenerator",
		Namespace:   "reports",
		TaskQueue:   "reports-queue",
		TriggerType: "schedule",
	}

	out := NewRenderer(PlainStyles()).Render(FromWorkflow(wf))

	assert.Contains(t, out, "TRIGGER")
	assert.Contains(t, out, "DO THIS")
	assert.Contains(t, out, "END")
	assert.Contains(t, out, "On schedule")
	assert.Contains(t, out, "dailyReportGenerator")
	assert.Contains(t, out, "reports-queue")
	// Connectors between the three boxes
	assert.Equal(t, 2, strings.Count(out, "●"))
}

func TestRenderConditionBranches(t *testing.T) {
	root := &Node{
		Type:  NodeCondition,
		Label: "Amount over limit?",
		Branches: [2]*Branch{
			{Label: "yes", Head: &Node{Type: NodeAction, Label: "Escalate"}},
			{Label: "no", Head: &Node{Type: NodeEnd, Label: "Complete"}},
		},
	}

	out := NewRenderer(PlainStyles()).Render(root)

	assert.Contains(t, out, "IF / ELSE")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "no")
	assert.Contains(t, out, "Escalate")
	assert.Contains(t, out, "Complete")
}
