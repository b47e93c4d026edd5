package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Task is a human-in-the-loop approval request awaiting a decision.
type Task struct {
	ID            string                 `json:"id"`
	WorkflowID    string                 `json:"workflowId"`
	WorkflowRunID string                 `json:"workflowRunId"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Status        string                 `json:"status"`
	Data          map[string]interface{} `json:"data"`
	ExpiresAt     time.Time              `json:"expiresAt"`
	CreatedAt     time.Time              `json:"createdAt"`
	Decision      *Decision              `json:"decision,omitempty"`
}

// Task status values
const (
	TaskStatusPending  = "pending"
	TaskStatusApproved = "approved"
	TaskStatusRejected = "rejected"
	TaskStatusExpired  = "expired"
)

// Decision actions
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// Decision records how a task was resolved.
type Decision struct {
	Action    string     `json:"action"`
	Comment   string     `json:"comment,omitempty"`
	DecidedAt *time.Time `json:"decidedAt,omitempty"`
}

// Pending reports whether the task still awaits a decision.
func (t Task) Pending() bool {
	return t.Status == TaskStatusPending
}

// TimeRemaining returns how long until the task expires, zero when it
// already has.
func (t Task) TimeRemaining(now time.Time) time.Duration {
	if d := t.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// TaskListParams filters and paginates the task inbox.
type TaskListParams struct {
	Page   int
	Limit  int
	Status string
}

func (p TaskListParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	return q
}

// TaskList is a page of tasks.
type TaskList struct {
	Tasks      []Task `json:"tasks"`
	Pagination struct {
		Total int `json:"total"`
		Page  int `json:"page"`
		Limit int `json:"limit"`
	} `json:"pagination"`
}

// TaskStats summarizes the inbox by status.
type TaskStats struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
	Expired  int `json:"expired"`
	Total    int `json:"total"`
}

// ListTasks retrieves approval tasks, optionally filtered by status
func (c *Client) ListTasks(ctx context.Context, params TaskListParams) (*TaskList, error) {
	var list TaskList
	if err := c.do(ctx, "GET", "/hitl/tasks", params.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// ListPendingTasks retrieves only tasks awaiting a decision
func (c *Client) ListPendingTasks(ctx context.Context, page, limit int) (*TaskList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var list TaskList
	if err := c.do(ctx, "GET", "/hitl/tasks/pending", q, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetTaskStats retrieves inbox counters by status
func (c *Client) GetTaskStats(ctx context.Context) (*TaskStats, error) {
	var stats TaskStats
	if err := c.do(ctx, "GET", "/hitl/tasks/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// GetTask retrieves a single task by ID
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	var result struct {
		Task Task `json:"task"`
	}
	if err := c.do(ctx, "GET", "/hitl/tasks/"+url.PathEscape(id), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result.Task, nil
}

// DecideTask resolves a pending task with approve or reject. The backend
// owns the task state machine; deciding an expired or already-decided
// task comes back as an API error.
func (c *Client) DecideTask(ctx context.Context, id, action, comment string) (*Task, error) {
	if action != DecisionApprove && action != DecisionReject {
		return nil, fmt.Errorf("invalid decision action: %s", action)
	}

	req := struct {
		Action  string `json:"action"`
		Comment string `json:"comment,omitempty"`
	}{Action: action, Comment: comment}

	var result struct {
		Task Task `json:"task"`
	}
	path := fmt.Sprintf("/hitl/tasks/%s/decision", url.PathEscape(id))
	if err := c.do(ctx, "POST", path, nil, req, &result); err != nil {
		return nil, err
	}
	return &result.Task, nil
}
