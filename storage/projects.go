package storage

import (
	"context"
	"slices"

	"workroll/domain"
)

// CreateProject inserts a project row.
func (s *Storage) CreateProject(ctx context.Context, p domain.Project) error {
	return addEntity(ctx, s.projects, newProjectEntity(p))
}

// GetProject returns a project by id.
func (s *Storage) GetProject(ctx context.Context, workspaceID, id string) (domain.Project, error) {
	ent, err := getEntity[projectEntity](ctx, s.projects, workspaceID, id)
	if err != nil {
		return domain.Project{}, err
	}
	return ent.project(), nil
}

// ListProjects returns the projects of a workspace, newest first.
func (s *Storage) ListProjects(ctx context.Context, workspaceID string) ([]domain.Project, error) {
	var f filter
	f.eq("PartitionKey", workspaceID)
	ents, err := listEntities[projectEntity](ctx, s.projects, f, nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Project, 0, len(ents))
	for _, e := range ents {
		out = append(out, e.project())
	}
	slices.SortFunc(out, func(a, b domain.Project) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

// UpdateProject merges name and image into the stored row.
func (s *Storage) UpdateProject(ctx context.Context, p domain.Project) error {
	return mergeEntity(ctx, s.projects, struct {
		tableEntity
		Name     string `json:"Name"`
		ImageURL string `json:"ImageURL"`
	}{tableEntity{PartitionKey: p.WorkspaceID, RowKey: p.ID}, p.Name, p.ImageURL})
}

// DeleteProject removes a project with its records and absences.
func (s *Storage) DeleteProject(ctx context.Context, workspaceID, id string) error {
	var f filter
	f.eq("PartitionKey", workspaceID)
	f.eq("ProjectID", id)
	if err := deleteWhere(ctx, s.records, f); err != nil {
		return err
	}
	if err := deleteWhere(ctx, s.absences, f); err != nil {
		return err
	}
	return deleteEntity(ctx, s.projects, workspaceID, id)
}
