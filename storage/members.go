package storage

import (
	"context"
	"fmt"
	"slices"

	"workroll/domain"
)

// ListMemberships returns every membership of userID across workspaces.
func (s *Storage) ListMemberships(ctx context.Context, userID string) ([]domain.Member, error) {
	var f filter
	f.eq("UserID", userID)
	return s.listMembers(ctx, f)
}

// ListMembers returns the members of a workspace, oldest first.
func (s *Storage) ListMembers(ctx context.Context, workspaceID string) ([]domain.Member, error) {
	var f filter
	f.eq("PartitionKey", workspaceID)
	members, err := s.listMembers(ctx, f)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(members, func(a, b domain.Member) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return members, nil
}

func (s *Storage) listMembers(ctx context.Context, f filter) ([]domain.Member, error) {
	ents, err := listEntities[memberEntity](ctx, s.members, f, nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Member, 0, len(ents))
	for _, e := range ents {
		out = append(out, e.member())
	}
	return out, nil
}

// GetMember returns a member by id.
func (s *Storage) GetMember(ctx context.Context, workspaceID, id string) (domain.Member, error) {
	ent, err := getEntity[memberEntity](ctx, s.members, workspaceID, id)
	if err != nil {
		return domain.Member{}, err
	}
	return ent.member(), nil
}

// GetMemberByUser returns the membership of userID in a workspace.
func (s *Storage) GetMemberByUser(ctx context.Context, workspaceID, userID string) (domain.Member, error) {
	var f filter
	f.eq("PartitionKey", workspaceID)
	f.eq("UserID", userID)
	members, err := s.listMembers(ctx, f)
	if err != nil {
		return domain.Member{}, err
	}
	if len(members) == 0 {
		return domain.Member{}, fmt.Errorf("member %s: %w", userID, domain.ErrNotFound)
	}
	return members[0], nil
}

// CreateMember inserts a member row.
func (s *Storage) CreateMember(ctx context.Context, m domain.Member) error {
	return addEntity(ctx, s.members, newMemberEntity(m))
}

// UpdateMemberRole changes the role of a member.
func (s *Storage) UpdateMemberRole(ctx context.Context, workspaceID, id string, role domain.MemberRole) error {
	return mergeEntity(ctx, s.members, struct {
		tableEntity
		Role string `json:"Role"`
	}{tableEntity{PartitionKey: workspaceID, RowKey: id}, string(role)})
}

// DeleteMember removes a member row.
func (s *Storage) DeleteMember(ctx context.Context, workspaceID, id string) error {
	return deleteEntity(ctx, s.members, workspaceID, id)
}
