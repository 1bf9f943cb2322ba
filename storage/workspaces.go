package storage

import (
	"context"
	"slices"

	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"golang.org/x/sync/errgroup"

	"workroll/domain"
)

// CreateWorkspace stores a workspace together with its first member.
func (s *Storage) CreateWorkspace(ctx context.Context, w domain.Workspace, owner domain.Member) error {
	if err := addEntity(ctx, s.workspaces, newWorkspaceEntity(w)); err != nil {
		return err
	}
	if err := addEntity(ctx, s.members, newMemberEntity(owner)); err != nil {
		_ = deleteEntity(ctx, s.workspaces, w.ID, w.ID)
		return err
	}
	return nil
}

// GetWorkspace returns the workspace with the given id.
func (s *Storage) GetWorkspace(ctx context.Context, id string) (domain.Workspace, error) {
	ent, err := getEntity[workspaceEntity](ctx, s.workspaces, id, id)
	if err != nil {
		return domain.Workspace{}, err
	}
	return ent.workspace(), nil
}

// ListWorkspaces returns the workspaces userID belongs to, newest first.
func (s *Storage) ListWorkspaces(ctx context.Context, userID string) ([]domain.Workspace, error) {
	memberships, err := s.ListMemberships(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Workspace, len(memberships))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, m := range memberships {
		g.Go(func() error {
			w, err := s.GetWorkspace(gctx, m.WorkspaceID)
			if err != nil {
				return err
			}
			out[i] = w
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(out, func(a, b domain.Workspace) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// UpdateWorkspace merges name, image and invite code into the stored row.
func (s *Storage) UpdateWorkspace(ctx context.Context, w domain.Workspace) error {
	ent := newWorkspaceEntity(w)
	return mergeEntity(ctx, s.workspaces, struct {
		tableEntity
		Name       string `json:"Name"`
		ImageURL   string `json:"ImageURL"`
		InviteCode string `json:"InviteCode"`
	}{ent.tableEntity, ent.Name, ent.ImageURL, ent.InviteCode})
}

// DeleteWorkspace removes the workspace and everything partitioned under it.
func (s *Storage) DeleteWorkspace(ctx context.Context, id string) error {
	var f filter
	f.eq("PartitionKey", id)
	for _, c := range []*aztables.Client{s.absences, s.records, s.projects, s.members} {
		if err := deleteWhere(ctx, c, f); err != nil {
			return err
		}
	}
	return deleteEntity(ctx, s.workspaces, id, id)
}
