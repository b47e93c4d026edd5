package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdeck/flowdeck/internal/session"
)

func TestLogin(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "user@example.com", req.Email)
		assert.Equal(t, "hunter22", req.Password)

		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"token":    "tok-new",
			"user":     map[string]any{"_id": "u1", "email": req.Email, "name": "User", "role": "owner", "isActive": true},
			"tenant":   map[string]any{"id": "t1", "tenantId": "tenant-1", "name": "Acme"},
			"isMaster": false,
		}})
	}))

	client := NewClient(server.URL, staticTokens(""))
	result, err := client.Login(context.Background(), "user@example.com", "hunter22")
	require.NoError(t, err)

	assert.Equal(t, "tok-new", result.Token)
	assert.Equal(t, "u1", result.User.ID)
	assert.Equal(t, session.RoleOwner, result.User.Role)
	require.NotNil(t, result.Tenant)
	assert.Equal(t, "Acme", result.Tenant.Name)
	assert.False(t, result.IsMaster)
}

func TestRegisterWithWorkspace(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/register", r.URL.Path)

		var req RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "New Co", req.TenantName)

		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"token":  "tok-reg",
			"user":   map[string]any{"_id": "u2", "email": req.Email, "name": req.Name, "role": "owner", "isActive": true},
			"tenant": map[string]any{"id": "t2", "tenantId": "tenant-2", "name": req.TenantName},
		}})
	}))

	client := NewClient(server.URL, staticTokens(""))
	result, err := client.Register(context.Background(), RegisterRequest{
		Email:      "new@example.com",
		Password:   "hunter22",
		Name:       "New User",
		TenantName: "New Co",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-reg", result.Token)
	require.NotNil(t, result.Tenant)
	assert.Equal(t, "New Co", result.Tenant.Name)
}

func TestListWorkflowsQuery(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "25", q.Get("limit"))
		assert.Equal(t, "reports", q.Get("namespace"))
		assert.Equal(t, "daily", q.Get("name"))

		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"workflows": []map[string]any{{
				"id": "wf1", "name": "dailyReportGenerator", "namespace": "reports",
				"taskQueue": "reports-queue", "version": "2024.01.10-001",
				"status": "inactive", "triggerType": "schedule",
				"deployedAt": "2024-01-10T08:00:00Z",
			}},
			"total": 1,
		}})
	}))

	client := NewClient(server.URL, staticTokens("tok1"))
	list, err := client.ListWorkflows(context.Background(), WorkflowListParams{
		Page: 2, Limit: 25, Namespace: "reports", Name: "daily",
	})
	require.NoError(t, err)
	require.Len(t, list.Workflows, 1)
	assert.Equal(t, "dailyReportGenerator", list.Workflows[0].Name)
	assert.Equal(t, WorkflowStatusInactive, list.Workflows[0].Status)
	assert.Equal(t, 1, list.Total)
}

func TestExecutionEndpoints(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/executions/order-123/history":
			assert.Equal(t, "run-1", r.URL.Query().Get("runId"))
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
				"events": []map[string]any{{
					"eventId": "1", "eventTime": "2024-01-15T10:30:00Z",
					"eventType":  "WorkflowExecutionStarted",
					"attributes": map[string]any{"input": "order"},
				}},
			}})
		case "/executions/order-123/signal":
			var req struct {
				SignalName string `json:"signalName"`
				Args       []any  `json:"args"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "approve", req.SignalName)
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
		case "/executions/order-123/terminate":
			var req struct {
				Reason string `json:"reason"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "stuck", req.Reason)
			_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	client := NewClient(server.URL, staticTokens("tok1"))
	ctx := context.Background()

	events, err := client.GetExecutionHistory(ctx, "order-123", "run-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "WorkflowExecutionStarted", events[0].EventType)

	require.NoError(t, client.SignalExecution(ctx, "order-123", "", "approve", nil))
	require.NoError(t, client.TerminateExecution(ctx, "order-123", "", "stuck"))
}

func TestDecideTask(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/hitl/tasks/task-1/decision", r.URL.Path)

		var req struct {
			Action  string `json:"action"`
			Comment string `json:"comment"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DecisionApprove, req.Action)
		assert.Equal(t, "looks good", req.Comment)

		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"task": map[string]any{
				"id": "task-1", "workflowId": "orderProcessingWorkflow",
				"title": "Approve Large Order", "status": "approved",
				"expiresAt": "2024-01-16T10:30:00Z", "createdAt": "2024-01-15T10:30:00Z",
				"decision": map[string]any{"action": "approve", "comment": "looks good"},
			},
		}})
	}))

	client := NewClient(server.URL, staticTokens("tok1"))
	task, err := client.DecideTask(context.Background(), "task-1", DecisionApprove, "looks good")
	require.NoError(t, err)
	assert.Equal(t, TaskStatusApproved, task.Status)
	require.NotNil(t, task.Decision)
	assert.Equal(t, DecisionApprove, task.Decision.Action)
}

func TestDecideTaskInvalidAction(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", staticTokens("tok1"))
	_, err := client.DecideTask(context.Background(), "task-1", "maybe", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid decision action")
}

func TestInviteMemberRejectsOwnerRole(t *testing.T) {
	client := NewClient("http://127.0.0.1:0", staticTokens("tok1"))
	_, err := client.InviteMember(context.Background(), "a@b.c", "A", session.RoleOwner)
	require.Error(t, err)

	_, err = client.InviteMember(context.Background(), "a@b.c", "A", session.Role("superuser"))
	require.Error(t, err)
}

func TestTaskTimeRemaining(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	task := Task{ExpiresAt: now.Add(90 * time.Minute)}
	assert.Equal(t, 90*time.Minute, task.TimeRemaining(now))

	expired := Task{ExpiresAt: now.Add(-time.Minute)}
	assert.Equal(t, time.Duration(0), expired.TimeRemaining(now))
}

func TestGetPreferences(t *testing.T) {
	server := newTestServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/settings/preferences", r.URL.Path)

		_ = json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"preferences": map[string]any{"theme": "dark", "emailDigest": true},
		}})
	}))

	client := NewClient(server.URL, staticTokens("tok1"))
	prefs, err := client.GetPreferences(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "dark", prefs["theme"])
	assert.Equal(t, true, prefs["emailDigest"])
}
