package api

import (
	"context"

	"workroll/domain"
	"workroll/storage"
)

// Storage abstracts persistence for handlers.
type Storage interface {
	CreateWorkspace(ctx context.Context, w domain.Workspace, owner domain.Member) error
	GetWorkspace(ctx context.Context, id string) (domain.Workspace, error)
	ListWorkspaces(ctx context.Context, userID string) ([]domain.Workspace, error)
	UpdateWorkspace(ctx context.Context, w domain.Workspace) error
	DeleteWorkspace(ctx context.Context, id string) error

	ListMembers(ctx context.Context, workspaceID string) ([]domain.Member, error)
	GetMember(ctx context.Context, workspaceID, id string) (domain.Member, error)
	GetMemberByUser(ctx context.Context, workspaceID, userID string) (domain.Member, error)
	CreateMember(ctx context.Context, m domain.Member) error
	UpdateMemberRole(ctx context.Context, workspaceID, id string, role domain.MemberRole) error
	DeleteMember(ctx context.Context, workspaceID, id string) error

	CreateProject(ctx context.Context, p domain.Project) error
	GetProject(ctx context.Context, workspaceID, id string) (domain.Project, error)
	ListProjects(ctx context.Context, workspaceID string) ([]domain.Project, error)
	UpdateProject(ctx context.Context, p domain.Project) error
	DeleteProject(ctx context.Context, workspaceID, id string) error

	CreateRecord(ctx context.Context, r domain.Record) error
	GetRecord(ctx context.Context, workspaceID, id string) (domain.Record, error)
	ListRecords(ctx context.Context, workspaceID string, f domain.RecordFilter) ([]domain.Record, error)
	UpdateRecord(ctx context.Context, workspaceID, id string, p domain.RecordPatch) (domain.Record, error)
	DeleteRecord(ctx context.Context, workspaceID, id string) error
	LowestPosition(ctx context.Context, workspaceID string) (int, bool, error)
	ApplyPositions(ctx context.Context, workspaceID string, updates []domain.PositionUpdate) error
	CountRecords(ctx context.Context, q domain.CountQuery) (int, error)

	CreateAbsence(ctx context.Context, a domain.Absence) error
	GetAbsence(ctx context.Context, workspaceID, id string) (domain.Absence, error)
	ListAbsences(ctx context.Context, workspaceID string, f storage.AbsenceFilter) ([]domain.Absence, error)
	UpdateAbsence(ctx context.Context, a domain.Absence) error
	DeleteAbsence(ctx context.Context, workspaceID, id string) error

	PublishActivity(ctx context.Context, a domain.Activity) error
}

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Name   string
	Email  string
}

// Authenticator is implemented by types able to identify callers from headers.
type Authenticator interface {
	PrincipalFromAuthHeader(string) (Principal, error)
}

// Deduper prevents processing of duplicate requests.
type Deduper interface {
	// Add records the idempotency key and returns true if it was newly added.
	Add(ctx context.Context, scope, key string) (bool, error)
	// Remove deletes a previously added key, used when downstream processing fails.
	Remove(ctx context.Context, scope, key string) error
}

// Subscriber hands out live activity feeds per workspace.
type Subscriber interface {
	Subscribe(workspaceID string) (<-chan []byte, func())
}
