package domain

import "time"

// Role identifies an actor class. Immutable once assigned to a session.
type Role string

const (
	RoleCitizen       Role = "citizen"
	RoleIntakeClerk   Role = "intake_clerk"
	RoleTriageOfficer Role = "triage_officer"
	RoleCaseHandler   Role = "case_handler"
	RoleAdministrator Role = "administrator"

	// RoleSystem attributes automatic transitions (e.g. filing) in the status history.
	RoleSystem Role = "system"
)

// Resource names a logical table or capability a permission applies to.
type Resource string

const (
	ResourcePetitions Resource = "petitions"
	ResourceUsers     Resource = "users"
	ResourceReports   Resource = "reports"
)

// Action is the closed set of operations a permission entry can grant.
type Action string

const (
	ActionRead      Action = "read"
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionAccess    Action = "access"
	ActionDashboard Action = "dashboard"
)

// PermissionEntry is a single (role, resource, action) grant. The permission set
// for a session is fixed at login time and ordered as granted.
type PermissionEntry struct {
	Role     Role     `json:"role"`
	Resource Resource `json:"resource"`
	Action   Action   `json:"action"`
}

// Actor is the authenticated identity behind a session.
type Actor struct {
	ID          string `json:"id"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name,omitempty"`
}

// SystemActor attributes transitions performed by the portal itself.
var SystemActor = Actor{ID: "system", Role: RoleSystem, DisplayName: "Portal"}

// Session holds the authenticated state for one connected client. Handle is the
// opaque identifier the browser presents; Token is the collaborator bearer token.
// Sessions are created and mutated only by the session manager; everyone else
// reads them.
type Session struct {
	Handle      string            `json:"-"`
	Token       string            `json:"-"`
	IssuedAt    time.Time         `json:"issued_at"`
	RenewEvery  time.Duration     `json:"-"`
	Actor       Actor             `json:"actor"`
	Permissions []PermissionEntry `json:"permissions"`
}

// Can reports whether the session holds the exact (resource, action) tuple.
// There is no wildcard or partial matching. A nil session or an empty permission
// list authorizes nothing.
func (s *Session) Can(resource Resource, action Action) bool {
	if s == nil {
		return false
	}
	for _, p := range s.Permissions {
		if p.Resource == resource && p.Action == action {
			return true
		}
	}
	return false
}

// Dashboards returns every resource the session holds a dashboard grant for,
// preserving the order granted at login. The first entry is the default landing
// destination after login; an empty result means the caller must route to a
// neutral landing page.
func (s *Session) Dashboards() []Resource {
	if s == nil {
		return nil
	}
	var out []Resource
	seen := make(map[Resource]struct{}, len(s.Permissions))
	for _, p := range s.Permissions {
		if p.Action != ActionDashboard {
			continue
		}
		if _, dup := seen[p.Resource]; dup {
			continue
		}
		seen[p.Resource] = struct{}{}
		out = append(out, p.Resource)
	}
	return out
}
