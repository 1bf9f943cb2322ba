package storage

import (
	"context"
	"slices"
	"strings"

	"workroll/domain"
)

// CreateRecord inserts a record row.
func (s *Storage) CreateRecord(ctx context.Context, r domain.Record) error {
	return addEntity(ctx, s.records, newRecordEntity(r))
}

// GetRecord returns a record by id.
func (s *Storage) GetRecord(ctx context.Context, workspaceID, id string) (domain.Record, error) {
	ent, err := getEntity[recordEntity](ctx, s.records, workspaceID, id)
	if err != nil {
		return domain.Record{}, err
	}
	return ent.record(), nil
}

// ListRecords returns the records of a workspace matching f, newest first.
// Search is not applied here since it matches joined project and member names.
func (s *Storage) ListRecords(ctx context.Context, workspaceID string, f domain.RecordFilter) ([]domain.Record, error) {
	ents, err := listEntities[recordEntity](ctx, s.records, recordFilter(workspaceID, f), nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Record, 0, len(ents))
	for _, e := range ents {
		out = append(out, e.record())
	}
	slices.SortFunc(out, func(a, b domain.Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func recordFilter(workspaceID string, rf domain.RecordFilter) filter {
	var f filter
	f.eq("PartitionKey", workspaceID)
	if rf.ProjectID != "" {
		f.eq("ProjectID", rf.ProjectID)
	}
	if rf.AssigneeID != "" {
		f.eq("AssigneeID", rf.AssigneeID)
	}
	if rf.Status != "" {
		f.eq("Status", string(rf.Status))
	}
	if rf.DueDate != "" {
		f.eq("DueDate", rf.DueDate)
	}
	if rf.Week != 0 {
		f.int32("Week", rf.Week)
	}
	return f
}

// UpdateRecord merges p into a record and returns the stored result.
func (s *Storage) UpdateRecord(ctx context.Context, workspaceID, id string, p domain.RecordPatch) (domain.Record, error) {
	if !p.Empty() {
		if err := mergeEntity(ctx, s.records, newRecordUpdate(workspaceID, id, p)); err != nil {
			return domain.Record{}, err
		}
	}
	return s.GetRecord(ctx, workspaceID, id)
}

// DeleteRecord removes a record row.
func (s *Storage) DeleteRecord(ctx context.Context, workspaceID, id string) error {
	return deleteEntity(ctx, s.records, workspaceID, id)
}

// LowestPosition returns the smallest position in the workspace and false
// when it has no records.
func (s *Storage) LowestPosition(ctx context.Context, workspaceID string) (int, bool, error) {
	var f filter
	f.eq("PartitionKey", workspaceID)
	sel := "PartitionKey,RowKey,Position"
	ents, err := listEntities[recordEntity](ctx, s.records, f, &sel)
	if err != nil || len(ents) == 0 {
		return 0, false, err
	}
	lowest := ents[0].Position
	for _, e := range ents[1:] {
		lowest = min(lowest, e.Position)
	}
	return lowest, true, nil
}

// ApplyPositions writes status and position for every update in one or more
// table transactions. Missing records fail the batch they belong to.
func (s *Storage) ApplyPositions(ctx context.Context, workspaceID string, updates []domain.PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	rows := make([]recordUpdate, 0, len(updates))
	for _, u := range updates {
		rows = append(rows, newPositionUpdate(workspaceID, u))
	}
	return mergeBatch(ctx, s.records, rows)
}

// CountRecords counts the records selected by q.
func (s *Storage) CountRecords(ctx context.Context, q domain.CountQuery) (int, error) {
	sel := "RowKey"
	ents, err := listEntities[tableEntity](ctx, s.records, countFilter(q), &sel)
	if err != nil {
		return 0, err
	}
	return len(ents), nil
}

func countFilter(q domain.CountQuery) filter {
	var f filter
	f.eq("PartitionKey", q.Scope.WorkspaceID)
	if q.Scope.ProjectID != "" {
		f.eq("ProjectID", q.Scope.ProjectID)
	}
	f.int64("CreatedAt", "ge", millis(q.Window.Start))
	f.int64("CreatedAt", "le", millis(q.Window.End))
	if q.AssigneeID != "" {
		f.eq("AssigneeID", q.AssigneeID)
	}
	if q.Done != nil {
		if *q.Done {
			f.eq("Status", string(domain.StatusDone))
		} else {
			f.ne("Status", string(domain.StatusDone))
		}
	}
	if !q.OverdueAt.IsZero() {
		f.str("DueDate", "lt", formatDate(q.OverdueAt))
	}
	return f
}
