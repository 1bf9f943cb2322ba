package storage

import (
	"workroll/domain"
)

type workspaceEntity struct {
	tableEntity
	Name          string `json:"Name"`
	ImageURL      string `json:"ImageURL"`
	InviteCode    string `json:"InviteCode"`
	UserID        string `json:"UserID"`
	CreatedAt     int64  `json:"CreatedAt,string"`
	CreatedAtType string `json:"CreatedAt@odata.type,omitempty"`
}

func newWorkspaceEntity(w domain.Workspace) workspaceEntity {
	return workspaceEntity{
		tableEntity:   tableEntity{PartitionKey: w.ID, RowKey: w.ID},
		Name:          w.Name,
		ImageURL:      w.ImageURL,
		InviteCode:    w.InviteCode,
		UserID:        w.UserID,
		CreatedAt:     millis(w.CreatedAt),
		CreatedAtType: edmInt64,
	}
}

func (e workspaceEntity) workspace() domain.Workspace {
	return domain.Workspace{
		ID:         e.RowKey,
		Name:       e.Name,
		ImageURL:   e.ImageURL,
		InviteCode: e.InviteCode,
		UserID:     e.UserID,
		CreatedAt:  fromMillis(e.CreatedAt),
	}
}

type memberEntity struct {
	tableEntity
	UserID        string `json:"UserID"`
	Role          string `json:"Role"`
	Name          string `json:"Name"`
	Email         string `json:"Email"`
	JobTitle      string `json:"JobTitle"`
	Dept          string `json:"Dept"`
	MonthYear     string `json:"MonthYear"`
	ManagerName   string `json:"ManagerName"`
	CreatedAt     int64  `json:"CreatedAt,string"`
	CreatedAtType string `json:"CreatedAt@odata.type,omitempty"`
}

func newMemberEntity(m domain.Member) memberEntity {
	return memberEntity{
		tableEntity:   tableEntity{PartitionKey: m.WorkspaceID, RowKey: m.ID},
		UserID:        m.UserID,
		Role:          string(m.Role),
		Name:          m.Name,
		Email:         m.Email,
		JobTitle:      m.JobTitle,
		Dept:          m.Dept,
		MonthYear:     m.MonthYear,
		ManagerName:   m.ManagerName,
		CreatedAt:     millis(m.CreatedAt),
		CreatedAtType: edmInt64,
	}
}

func (e memberEntity) member() domain.Member {
	return domain.Member{
		ID:          e.RowKey,
		WorkspaceID: e.PartitionKey,
		UserID:      e.UserID,
		Role:        domain.MemberRole(e.Role),
		Name:        e.Name,
		Email:       e.Email,
		JobTitle:    e.JobTitle,
		Dept:        e.Dept,
		MonthYear:   e.MonthYear,
		ManagerName: e.ManagerName,
		CreatedAt:   fromMillis(e.CreatedAt),
	}
}

type projectEntity struct {
	tableEntity
	Name          string `json:"Name"`
	ImageURL      string `json:"ImageURL"`
	CreatedAt     int64  `json:"CreatedAt,string"`
	CreatedAtType string `json:"CreatedAt@odata.type,omitempty"`
}

func newProjectEntity(p domain.Project) projectEntity {
	return projectEntity{
		tableEntity:   tableEntity{PartitionKey: p.WorkspaceID, RowKey: p.ID},
		Name:          p.Name,
		ImageURL:      p.ImageURL,
		CreatedAt:     millis(p.CreatedAt),
		CreatedAtType: edmInt64,
	}
}

func (e projectEntity) project() domain.Project {
	return domain.Project{
		ID:          e.RowKey,
		WorkspaceID: e.PartitionKey,
		Name:        e.Name,
		ImageURL:    e.ImageURL,
		CreatedAt:   fromMillis(e.CreatedAt),
	}
}

type recordEntity struct {
	tableEntity
	ProjectID     string  `json:"ProjectID"`
	AssigneeID    string  `json:"AssigneeID"`
	Status        string  `json:"Status"`
	Position      int     `json:"Position"`
	Week          int     `json:"Week"`
	DueDate       string  `json:"DueDate"`
	InTime        string  `json:"InTime"`
	OutTime       string  `json:"OutTime"`
	Break         string  `json:"Break"`
	HrsWorked     float64 `json:"HrsWorked"`
	HrsWorkedType string  `json:"HrsWorked@odata.type,omitempty"`
	CreatedAt     int64   `json:"CreatedAt,string"`
	CreatedAtType string  `json:"CreatedAt@odata.type,omitempty"`
}

func newRecordEntity(r domain.Record) recordEntity {
	return recordEntity{
		tableEntity:   tableEntity{PartitionKey: r.WorkspaceID, RowKey: r.ID},
		ProjectID:     r.ProjectID,
		AssigneeID:    r.AssigneeID,
		Status:        string(r.Status),
		Position:      r.Position,
		Week:          r.Week,
		DueDate:       formatDate(r.DueDate),
		InTime:        r.InTime,
		OutTime:       r.OutTime,
		Break:         r.BreakTime,
		HrsWorked:     r.HrsWorked,
		HrsWorkedType: edmDouble,
		CreatedAt:     millis(r.CreatedAt),
		CreatedAtType: edmInt64,
	}
}

func (e recordEntity) record() domain.Record {
	return domain.Record{
		ID:          e.RowKey,
		WorkspaceID: e.PartitionKey,
		ProjectID:   e.ProjectID,
		AssigneeID:  e.AssigneeID,
		Status:      domain.Status(e.Status),
		Position:    e.Position,
		Week:        e.Week,
		DueDate:     parseDate(e.DueDate),
		InTime:      e.InTime,
		OutTime:     e.OutTime,
		BreakTime:   e.Break,
		HrsWorked:   e.HrsWorked,
		CreatedAt:   fromMillis(e.CreatedAt),
	}
}

// recordUpdate is merged into an existing row; nil fields are left alone.
type recordUpdate struct {
	tableEntity
	ProjectID     *string  `json:"ProjectID,omitempty"`
	AssigneeID    *string  `json:"AssigneeID,omitempty"`
	Status        *string  `json:"Status,omitempty"`
	Position      *int     `json:"Position,omitempty"`
	Week          *int     `json:"Week,omitempty"`
	DueDate       *string  `json:"DueDate,omitempty"`
	InTime        *string  `json:"InTime,omitempty"`
	OutTime       *string  `json:"OutTime,omitempty"`
	Break         *string  `json:"Break,omitempty"`
	HrsWorked     *float64 `json:"HrsWorked,omitempty"`
	HrsWorkedType *string  `json:"HrsWorked@odata.type,omitempty"`
}

func newRecordUpdate(workspaceID, id string, p domain.RecordPatch) recordUpdate {
	u := recordUpdate{
		tableEntity: tableEntity{PartitionKey: workspaceID, RowKey: id},
		ProjectID:   p.ProjectID,
		AssigneeID:  p.AssigneeID,
		Week:        p.Week,
		InTime:      p.InTime,
		OutTime:     p.OutTime,
		Break:       p.BreakTime,
		HrsWorked:   p.HrsWorked,
	}
	if p.Status != nil {
		s := string(*p.Status)
		u.Status = &s
	}
	if p.DueDate != nil {
		d := formatDate(*p.DueDate)
		u.DueDate = &d
	}
	if p.HrsWorked != nil {
		t := edmDouble
		u.HrsWorkedType = &t
	}
	return u
}

func newPositionUpdate(workspaceID string, p domain.PositionUpdate) recordUpdate {
	status := string(p.Status)
	position := p.Position
	return recordUpdate{
		tableEntity: tableEntity{PartitionKey: workspaceID, RowKey: p.ID},
		Status:      &status,
		Position:    &position,
	}
}

type absenceEntity struct {
	tableEntity
	ProjectID     string `json:"ProjectID"`
	AssigneeID    string `json:"AssigneeID"`
	StartDate     string `json:"StartDate"`
	EndDate       string `json:"EndDate"`
	Reason        string `json:"Reason"`
	CreatedAt     int64  `json:"CreatedAt,string"`
	CreatedAtType string `json:"CreatedAt@odata.type,omitempty"`
}

func newAbsenceEntity(a domain.Absence) absenceEntity {
	return absenceEntity{
		tableEntity:   tableEntity{PartitionKey: a.WorkspaceID, RowKey: a.ID},
		ProjectID:     a.ProjectID,
		AssigneeID:    a.AssigneeID,
		StartDate:     formatDate(a.StartDate),
		EndDate:       formatDate(a.EndDate),
		Reason:        a.Reason,
		CreatedAt:     millis(a.CreatedAt),
		CreatedAtType: edmInt64,
	}
}

func (e absenceEntity) absence() domain.Absence {
	return domain.Absence{
		ID:          e.RowKey,
		WorkspaceID: e.PartitionKey,
		ProjectID:   e.ProjectID,
		AssigneeID:  e.AssigneeID,
		StartDate:   parseDate(e.StartDate),
		EndDate:     parseDate(e.EndDate),
		Reason:      e.Reason,
		CreatedAt:   fromMillis(e.CreatedAt),
	}
}
