package storage

import (
	"context"
	"slices"

	"workroll/domain"
)

// AbsenceFilter narrows absence listings. Zero values mean "any".
type AbsenceFilter struct {
	ProjectID  string
	AssigneeID string
	StartDate  string
	// On selects absences covering this yyyy-mm-dd day.
	On string
}

// CreateAbsence inserts an absence row.
func (s *Storage) CreateAbsence(ctx context.Context, a domain.Absence) error {
	return addEntity(ctx, s.absences, newAbsenceEntity(a))
}

// GetAbsence returns an absence by id.
func (s *Storage) GetAbsence(ctx context.Context, workspaceID, id string) (domain.Absence, error) {
	ent, err := getEntity[absenceEntity](ctx, s.absences, workspaceID, id)
	if err != nil {
		return domain.Absence{}, err
	}
	return ent.absence(), nil
}

// ListAbsences returns the absences of a workspace matching af, newest first.
func (s *Storage) ListAbsences(ctx context.Context, workspaceID string, af AbsenceFilter) ([]domain.Absence, error) {
	ents, err := listEntities[absenceEntity](ctx, s.absences, absenceFilter(workspaceID, af), nil)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Absence, 0, len(ents))
	for _, e := range ents {
		out = append(out, e.absence())
	}
	slices.SortFunc(out, func(a, b domain.Absence) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func absenceFilter(workspaceID string, af AbsenceFilter) filter {
	var f filter
	f.eq("PartitionKey", workspaceID)
	if af.ProjectID != "" {
		f.eq("ProjectID", af.ProjectID)
	}
	if af.AssigneeID != "" {
		f.eq("AssigneeID", af.AssigneeID)
	}
	if af.StartDate != "" {
		f.eq("StartDate", af.StartDate)
	}
	if af.On != "" {
		f.str("StartDate", "le", af.On)
		f.str("EndDate", "ge", af.On)
	}
	return f
}

// UpdateAbsence replaces the mutable fields of an absence.
func (s *Storage) UpdateAbsence(ctx context.Context, a domain.Absence) error {
	ent := newAbsenceEntity(a)
	return mergeEntity(ctx, s.absences, struct {
		tableEntity
		ProjectID  string `json:"ProjectID"`
		AssigneeID string `json:"AssigneeID"`
		StartDate  string `json:"StartDate"`
		EndDate    string `json:"EndDate"`
		Reason     string `json:"Reason"`
	}{ent.tableEntity, ent.ProjectID, ent.AssigneeID, ent.StartDate, ent.EndDate, ent.Reason})
}

// DeleteAbsence removes an absence row.
func (s *Storage) DeleteAbsence(ctx context.Context, workspaceID, id string) error {
	return deleteEntity(ctx, s.absences, workspaceID, id)
}
