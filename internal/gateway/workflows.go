package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Workflow is a deployed workflow definition in the catalog.
type Workflow struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Namespace   string     `json:"namespace"`
	TaskQueue   string     `json:"taskQueue"`
	Version     string     `json:"version"`
	Status      string     `json:"status"`
	TriggerType string     `json:"triggerType"`
	DeployedAt  time.Time  `json:"deployedAt"`
	LastRun     *time.Time `json:"lastRun,omitempty"`
}

// Workflow status values
const (
	WorkflowStatusActive   = "active"
	WorkflowStatusInactive = "inactive"
)

// WorkflowListParams filters and paginates the workflow catalog.
type WorkflowListParams struct {
	Page      int
	Limit     int
	Namespace string
	Name      string
}

func (p WorkflowListParams) query() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Namespace != "" {
		q.Set("namespace", p.Namespace)
	}
	if p.Name != "" {
		q.Set("name", p.Name)
	}
	return q
}

// WorkflowList is a page of the workflow catalog.
type WorkflowList struct {
	Workflows []Workflow `json:"workflows"`
	Total     int        `json:"total"`
}

// ListWorkflows retrieves the workflow catalog
func (c *Client) ListWorkflows(ctx context.Context, params WorkflowListParams) (*WorkflowList, error) {
	var list WorkflowList
	if err := c.do(ctx, "GET", "/workflows", params.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetWorkflow retrieves a workflow by ID
func (c *Client) GetWorkflow(ctx context.Context, id string) (*Workflow, error) {
	var result struct {
		Workflow Workflow `json:"workflow"`
	}
	if err := c.do(ctx, "GET", "/workflows/"+url.PathEscape(id), nil, nil, &result); err != nil {
		return nil, err
	}
	return &result.Workflow, nil
}

// GetWorkflowByName retrieves the latest workflow version by name
func (c *Client) GetWorkflowByName(ctx context.Context, name string) (*Workflow, error) {
	var result struct {
		Workflow Workflow `json:"workflow"`
	}
	path := fmt.Sprintf("/workflows/name/%s", url.PathEscape(name))
	if err := c.do(ctx, "GET", path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result.Workflow, nil
}

// GetWorkflowVersions lists all deployed versions of a named workflow
func (c *Client) GetWorkflowVersions(ctx context.Context, name string) ([]Workflow, error) {
	var result struct {
		Versions []Workflow `json:"versions"`
	}
	path := fmt.Sprintf("/workflows/name/%s/versions", url.PathEscape(name))
	if err := c.do(ctx, "GET", path, nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Versions, nil
}

// GetNamespaces lists the namespaces with deployed workflows
func (c *Client) GetNamespaces(ctx context.Context) ([]string, error) {
	var result struct {
		Namespaces []string `json:"namespaces"`
	}
	if err := c.do(ctx, "GET", "/workflows/namespaces", nil, nil, &result); err != nil {
		return nil, err
	}
	return result.Namespaces, nil
}

// DeactivateWorkflow marks a workflow inactive so new runs cannot start
func (c *Client) DeactivateWorkflow(ctx context.Context, id string) (*Workflow, error) {
	var result struct {
		Workflow Workflow `json:"workflow"`
	}
	path := fmt.Sprintf("/workflows/%s/deactivate", url.PathEscape(id))
	if err := c.do(ctx, "PATCH", path, nil, nil, &result); err != nil {
		return nil, err
	}
	return &result.Workflow, nil
}
