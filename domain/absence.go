package domain

import "time"

// Absence is a leave period for a member within a project.
type Absence struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	ProjectID   string    `json:"projectId"`
	AssigneeID  string    `json:"assigneeId"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Covers reports whether day falls inside the absence, bounds included.
func (a Absence) Covers(day time.Time) bool {
	return !day.Before(a.StartDate) && !day.After(a.EndDate)
}

// PopulatedAbsence is an absence joined with its project and assignee.
type PopulatedAbsence struct {
	Absence
	Project  *Project `json:"project,omitempty"`
	Assignee *Member  `json:"assignee,omitempty"`
}
