package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Execution is one run of a workflow.
type Execution struct {
	WorkflowID    string     `json:"workflowId"`
	RunID         string     `json:"runId"`
	WorkflowType  string     `json:"workflowType"`
	Status        string     `json:"status"`
	StartTime     time.Time  `json:"startTime"`
	CloseTime     *time.Time `json:"closeTime,omitempty"`
	ExecutionTime int64      `json:"executionTime,omitempty"`
	TaskQueue     string     `json:"taskQueue"`
	HistoryLength int        `json:"historyLength,omitempty"`
}

// Execution status values as reported by the engine.
const (
	ExecutionStatusRunning    = "Running"
	ExecutionStatusCompleted  = "Completed"
	ExecutionStatusFailed     = "Failed"
	ExecutionStatusCanceled   = "Canceled"
	ExecutionStatusTerminated = "Terminated"
	ExecutionStatusTimedOut   = "TimedOut"
)

// HistoryEvent is one entry in an execution's event history.
type HistoryEvent struct {
	EventID    string                 `json:"eventId"`
	EventTime  time.Time              `json:"eventTime"`
	EventType  string                 `json:"eventType"`
	TaskID     string                 `json:"taskId,omitempty"`
	Attributes map[string]interface{} `json:"attributes"`
}

// ExecutionListParams filters the execution list.
type ExecutionListParams struct {
	WorkflowID   string
	WorkflowType string
	Status       string
	Namespace    string
	PageSize     int
}

func (p ExecutionListParams) query() url.Values {
	q := url.Values{}
	if p.WorkflowID != "" {
		q.Set("workflowId", p.WorkflowID)
	}
	if p.WorkflowType != "" {
		q.Set("workflowType", p.WorkflowType)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.Namespace != "" {
		q.Set("namespace", p.Namespace)
	}
	if p.PageSize > 0 {
		q.Set("pageSize", strconv.Itoa(p.PageSize))
	}
	return q
}

// ExecutionList is a page of executions.
type ExecutionList struct {
	Executions []Execution `json:"executions"`
	HasMore    bool        `json:"hasMore"`
}

// ListExecutions retrieves executions matching the filters
func (c *Client) ListExecutions(ctx context.Context, params ExecutionListParams) (*ExecutionList, error) {
	var list ExecutionList
	if err := c.do(ctx, "GET", "/executions", params.query(), nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetExecution describes a single execution. runID is optional; without
// it the backend resolves the latest run.
func (c *Client) GetExecution(ctx context.Context, workflowID, runID string) (*Execution, error) {
	var result struct {
		Execution Execution `json:"execution"`
	}
	path := "/executions/" + url.PathEscape(workflowID)
	if err := c.do(ctx, "GET", path, runQuery(runID), nil, &result); err != nil {
		return nil, err
	}
	return &result.Execution, nil
}

// GetExecutionHistory retrieves the event history of an execution
func (c *Client) GetExecutionHistory(ctx context.Context, workflowID, runID string) ([]HistoryEvent, error) {
	var result struct {
		Events []HistoryEvent `json:"events"`
	}
	path := fmt.Sprintf("/executions/%s/history", url.PathEscape(workflowID))
	if err := c.do(ctx, "GET", path, runQuery(runID), nil, &result); err != nil {
		return nil, err
	}
	return result.Events, nil
}

// GetExecutionResult retrieves the result payload of a closed execution
func (c *Client) GetExecutionResult(ctx context.Context, workflowID, runID string) (json.RawMessage, error) {
	var result struct {
		Result json.RawMessage `json:"result"`
	}
	path := fmt.Sprintf("/executions/%s/result", url.PathEscape(workflowID))
	if err := c.do(ctx, "GET", path, runQuery(runID), nil, &result); err != nil {
		return nil, err
	}
	return result.Result, nil
}

// QueryExecution runs a synchronous query handler against a running
// execution and returns its raw answer
func (c *Client) QueryExecution(ctx context.Context, workflowID, runID, queryType string, args []interface{}) (json.RawMessage, error) {
	req := struct {
		QueryType string        `json:"queryType"`
		Args      []interface{} `json:"args,omitempty"`
	}{QueryType: queryType, Args: args}

	var result struct {
		Result json.RawMessage `json:"result"`
	}
	path := fmt.Sprintf("/executions/%s/query", url.PathEscape(workflowID))
	if err := c.do(ctx, "POST", path, runQuery(runID), req, &result); err != nil {
		return nil, err
	}
	return result.Result, nil
}

// SignalExecution delivers a signal to a running execution
func (c *Client) SignalExecution(ctx context.Context, workflowID, runID, signalName string, args []interface{}) error {
	req := struct {
		SignalName string        `json:"signalName"`
		Args       []interface{} `json:"args,omitempty"`
	}{SignalName: signalName, Args: args}

	path := fmt.Sprintf("/executions/%s/signal", url.PathEscape(workflowID))
	return c.do(ctx, "POST", path, runQuery(runID), req, nil)
}

// CancelExecution requests cooperative cancellation of an execution
func (c *Client) CancelExecution(ctx context.Context, workflowID, runID string) error {
	path := fmt.Sprintf("/executions/%s/cancel", url.PathEscape(workflowID))
	return c.do(ctx, "POST", path, runQuery(runID), struct{}{}, nil)
}

// TerminateExecution forcibly stops an execution
func (c *Client) TerminateExecution(ctx context.Context, workflowID, runID, reason string) error {
	req := struct {
		Reason string `json:"reason,omitempty"`
	}{Reason: reason}

	path := fmt.Sprintf("/executions/%s/terminate", url.PathEscape(workflowID))
	return c.do(ctx, "POST", path, runQuery(runID), req, nil)
}
