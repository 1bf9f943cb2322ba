package domain

import "time"

// Record is one attendance entry. Records double as board items, so they
// carry a status column and an ordering position.
type Record struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	ProjectID   string    `json:"projectId"`
	AssigneeID  string    `json:"assigneeId"`
	Status      Status    `json:"status"`
	Position    int       `json:"position"`
	Week        int       `json:"week"`
	DueDate     time.Time `json:"dueDate"`
	InTime      string    `json:"inTime"`
	OutTime     string    `json:"outTime"`
	BreakTime   string    `json:"break"`
	HrsWorked   float64   `json:"hrsWorked"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RecordPatch carries the optional fields of a record update.
type RecordPatch struct {
	ProjectID  *string
	AssigneeID *string
	Status     *Status
	Week       *int
	DueDate    *time.Time
	InTime     *string
	OutTime    *string
	BreakTime  *string
	HrsWorked  *float64
}

// Empty reports whether the patch changes nothing.
func (p RecordPatch) Empty() bool {
	return p.ProjectID == nil && p.AssigneeID == nil && p.Status == nil && p.Week == nil &&
		p.DueDate == nil && p.InTime == nil && p.OutTime == nil && p.BreakTime == nil && p.HrsWorked == nil
}

// TouchesTime reports whether the patch changes any field hours worked depends on.
func (p RecordPatch) TouchesTime() bool {
	return p.InTime != nil || p.OutTime != nil || p.BreakTime != nil
}

// RecordFilter narrows record listings. Zero values mean "any".
type RecordFilter struct {
	ProjectID  string
	AssigneeID string
	Status     Status
	DueDate    string
	Search     string
	Week       int
}

// PopulatedRecord is a record joined with its project and assignee.
type PopulatedRecord struct {
	Record
	Project  *Project `json:"project,omitempty"`
	Assignee *Member  `json:"assignee,omitempty"`
}

// PositionUpdate moves one record to a column and position.
type PositionUpdate struct {
	ID       string `json:"id"`
	Status   Status `json:"status"`
	Position int    `json:"position"`
}
