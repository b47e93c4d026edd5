// Package session holds the authenticated identity for the console and
// persists it across invocations. The store is constructed explicitly and
// injected into whatever needs it; durable I/O goes through the Storage
// port so the state transitions stay testable without a filesystem.
package session

// Role is a workspace membership role. The set is closed; the backend
// rejects anything else.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

// Valid reports whether the role is one of the known workspace roles.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// User is the authenticated account identity as returned by the backend.
type User struct {
	ID       string `json:"_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	IsActive bool   `json:"isActive"`
}

// Tenant identifies the active workspace.
type Tenant struct {
	ID       string `json:"id"`
	TenantID string `json:"tenantId"`
	Name     string `json:"name"`
}

// Session is the client-held record of current authentication state.
// User and Tenant are meaningful only while IsAuthenticated is true; the
// two-operation write contract (SetAuth/ClearAuth) keeps them set together
// and cleared together.
type Session struct {
	Token           string  `json:"token"`
	User            *User   `json:"user"`
	Tenant          *Tenant `json:"tenant"`
	IsMaster        bool    `json:"isMaster"`
	IsAuthenticated bool    `json:"isAuthenticated"`
}

// authenticated is the pure unauthenticated→authenticated transition.
func authenticated(token string, user User, tenant *Tenant, isMaster bool) Session {
	return Session{
		Token:           token,
		User:            &user,
		Tenant:          tenant,
		IsMaster:        isMaster,
		IsAuthenticated: true,
	}
}

// empty is the pure reset transition. It is also the startup state when no
// snapshot was persisted.
func empty() Session {
	return Session{}
}
