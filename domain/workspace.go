package domain

import "time"

// Workspace is an organization owning members, projects and records.
type Workspace struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	InviteCode string    `json:"inviteCode"`
	UserID     string    `json:"userId"`
	CreatedAt  time.Time `json:"createdAt"`
}

// WorkspaceInfo is the public part of a workspace shown on the join page.
type WorkspaceInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Info returns the public summary of w.
func (w Workspace) Info() WorkspaceInfo {
	return WorkspaceInfo{ID: w.ID, Name: w.Name, ImageURL: w.ImageURL}
}

// MemberRole is the authorization level of a member inside a workspace.
type MemberRole string

const (
	RoleAdmin  MemberRole = "ADMIN"
	RoleMember MemberRole = "MEMBER"
)

// Valid reports whether r is a known role.
func (r MemberRole) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Member links a user (or an employee without a login) to a workspace.
type Member struct {
	ID          string     `json:"id"`
	WorkspaceID string     `json:"workspaceId"`
	UserID      string     `json:"userId"`
	Role        MemberRole `json:"role"`
	Name        string     `json:"name,omitempty"`
	Email       string     `json:"email,omitempty"`
	JobTitle    string     `json:"jobTitle,omitempty"`
	Dept        string     `json:"dept,omitempty"`
	MonthYear   string     `json:"monthYear,omitempty"`
	ManagerName string     `json:"managerName,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// IsAdmin reports whether the member may administer the workspace.
func (m Member) IsAdmin() bool { return m.Role == RoleAdmin }

// DisplayName falls back to the local part of the email when no name is set.
func (m Member) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	for i := 0; i < len(m.Email); i++ {
		if m.Email[i] == '@' {
			if i > 0 {
				return m.Email[:i]
			}
			break
		}
	}
	return m.Email
}

// Project groups records inside a workspace. The UI calls projects "terms".
type Project struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Name        string    `json:"name"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
