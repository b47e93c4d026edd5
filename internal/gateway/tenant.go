package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/flowdeck/flowdeck/internal/session"
)

// Workspace is the tenant record with its descriptive fields.
type Workspace struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenantId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Member is a workspace membership entry.
type Member struct {
	ID       string       `json:"_id"`
	Email    string       `json:"email"`
	Name     string       `json:"name"`
	Role     session.Role `json:"role"`
	JoinedAt time.Time    `json:"joinedAt"`
}

// MemberList is a page of workspace members.
type MemberList struct {
	Members    []Member `json:"members"`
	Pagination struct {
		Total int `json:"total"`
		Page  int `json:"page"`
		Limit int `json:"limit"`
	} `json:"pagination"`
}

// WorkspaceStats is the dashboard counter set for a workspace.
type WorkspaceStats struct {
	ActiveWorkflows  int `json:"activeWorkflows"`
	PendingApprovals int `json:"pendingApprovals"`
	ExecutionsToday  int `json:"executionsToday"`
	Members          int `json:"members"`
}

// GetTenant retrieves the active workspace
func (c *Client) GetTenant(ctx context.Context) (*Workspace, error) {
	var result struct {
		Tenant Workspace `json:"tenant"`
	}
	if err := c.do(ctx, "GET", "/tenant", nil, nil, &result); err != nil {
		return nil, err
	}
	return &result.Tenant, nil
}

// CreateTenant creates a workspace owned by the current user
func (c *Client) CreateTenant(ctx context.Context, name, description string) (*Workspace, error) {
	req := struct {
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
	}{Name: name, Description: description}

	var result struct {
		Tenant Workspace `json:"tenant"`
	}
	if err := c.do(ctx, "POST", "/tenant", nil, req, &result); err != nil {
		return nil, err
	}
	return &result.Tenant, nil
}

// UpdateTenant patches the workspace name and/or description. Empty
// fields are omitted and left unchanged.
func (c *Client) UpdateTenant(ctx context.Context, name, description string) (*Workspace, error) {
	req := struct {
		Name        string `json:"name,omitempty"`
		Description string `json:"description,omitempty"`
	}{Name: name, Description: description}

	var result struct {
		Tenant Workspace `json:"tenant"`
	}
	if err := c.do(ctx, "PATCH", "/tenant", nil, req, &result); err != nil {
		return nil, err
	}
	return &result.Tenant, nil
}

// ListMembers retrieves workspace members
func (c *Client) ListMembers(ctx context.Context, page, limit int) (*MemberList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var list MemberList
	if err := c.do(ctx, "GET", "/tenant/members", q, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// InviteMember invites a user to the workspace. The owner role cannot be
// granted by invitation.
func (c *Client) InviteMember(ctx context.Context, email, name string, role session.Role) (*Member, error) {
	if role == session.RoleOwner || !role.Valid() {
		return nil, fmt.Errorf("invalid invite role: %s", role)
	}

	req := struct {
		Email string       `json:"email"`
		Name  string       `json:"name"`
		Role  session.Role `json:"role"`
	}{Email: email, Name: name, Role: role}

	var result struct {
		Member Member `json:"member"`
	}
	if err := c.do(ctx, "POST", "/tenant/members/invite", nil, req, &result); err != nil {
		return nil, err
	}
	return &result.Member, nil
}

// UpdateMemberRole changes a member's role
func (c *Client) UpdateMemberRole(ctx context.Context, memberID string, role session.Role) (*Member, error) {
	if role == session.RoleOwner || !role.Valid() {
		return nil, fmt.Errorf("invalid member role: %s", role)
	}

	req := struct {
		Role session.Role `json:"role"`
	}{Role: role}

	var result struct {
		Member Member `json:"member"`
	}
	path := fmt.Sprintf("/tenant/members/%s/role", url.PathEscape(memberID))
	if err := c.do(ctx, "PATCH", path, nil, req, &result); err != nil {
		return nil, err
	}
	return &result.Member, nil
}

// RemoveMember removes a member from the workspace
func (c *Client) RemoveMember(ctx context.Context, memberID string) error {
	return c.do(ctx, "DELETE", "/tenant/members/"+url.PathEscape(memberID), nil, nil, nil)
}

// GetTenantStats retrieves the workspace dashboard counters
func (c *Client) GetTenantStats(ctx context.Context) (*WorkspaceStats, error) {
	var stats WorkspaceStats
	if err := c.do(ctx, "GET", "/tenant/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
