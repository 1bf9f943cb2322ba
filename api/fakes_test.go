package api

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"workroll/domain"
	"workroll/storage"
)

// memStore is an in-memory Storage keyed by workspace and row id.
type memStore struct {
	mu         sync.Mutex
	workspaces map[string]domain.Workspace
	members    map[string]domain.Member
	projects   map[string]domain.Project
	records    map[string]domain.Record
	absences   map[string]domain.Absence
	activity   []domain.Activity
	counts     []domain.CountQuery

	applyErr   error
	publishErr error
}

func newMemStore() *memStore {
	return &memStore{
		workspaces: map[string]domain.Workspace{},
		members:    map[string]domain.Member{},
		projects:   map[string]domain.Project{},
		records:    map[string]domain.Record{},
		absences:   map[string]domain.Absence{},
	}
}

func key(ws, id string) string { return ws + "/" + id }

func (m *memStore) CreateWorkspace(_ context.Context, w domain.Workspace, owner domain.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workspaces[w.ID]; ok {
		return domain.ErrConflict
	}
	m.workspaces[w.ID] = w
	m.members[key(w.ID, owner.ID)] = owner
	return nil
}

func (m *memStore) GetWorkspace(_ context.Context, id string) (domain.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workspaces[id]
	if !ok {
		return domain.Workspace{}, domain.ErrNotFound
	}
	return w, nil
}

func (m *memStore) ListWorkspaces(_ context.Context, userID string) ([]domain.Workspace, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Workspace
	for _, mem := range m.members {
		if mem.UserID == userID {
			out = append(out, m.workspaces[mem.WorkspaceID])
		}
	}
	return out, nil
}

func (m *memStore) UpdateWorkspace(_ context.Context, w domain.Workspace) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workspaces[w.ID] = w
	return nil
}

func (m *memStore) DeleteWorkspace(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.workspaces, id)
	for k, v := range m.members {
		if v.WorkspaceID == id {
			delete(m.members, k)
		}
	}
	return nil
}

func (m *memStore) ListMembers(_ context.Context, ws string) ([]domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Member
	for _, v := range m.members {
		if v.WorkspaceID == ws {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b domain.Member) int { return a.CreatedAt.Compare(b.CreatedAt) })
	return out, nil
}

func (m *memStore) GetMember(_ context.Context, ws, id string) (domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.members[key(ws, id)]
	if !ok {
		return domain.Member{}, domain.ErrNotFound
	}
	return v, nil
}

func (m *memStore) GetMemberByUser(_ context.Context, ws, userID string) (domain.Member, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.members {
		if v.WorkspaceID == ws && v.UserID == userID {
			return v, nil
		}
	}
	return domain.Member{}, domain.ErrNotFound
}

func (m *memStore) CreateMember(_ context.Context, v domain.Member) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[key(v.WorkspaceID, v.ID)] = v
	return nil
}

func (m *memStore) UpdateMemberRole(_ context.Context, ws, id string, role domain.MemberRole) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.members[key(ws, id)]
	if !ok {
		return domain.ErrNotFound
	}
	v.Role = role
	m.members[key(ws, id)] = v
	return nil
}

func (m *memStore) DeleteMember(_ context.Context, ws, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.members, key(ws, id))
	return nil
}

func (m *memStore) CreateProject(_ context.Context, p domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[key(p.WorkspaceID, p.ID)] = p
	return nil
}

func (m *memStore) GetProject(_ context.Context, ws, id string) (domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.projects[key(ws, id)]
	if !ok {
		return domain.Project{}, domain.ErrNotFound
	}
	return p, nil
}

func (m *memStore) ListProjects(_ context.Context, ws string) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Project
	for _, p := range m.projects {
		if p.WorkspaceID == ws {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) UpdateProject(_ context.Context, p domain.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[key(p.WorkspaceID, p.ID)] = p
	return nil
}

func (m *memStore) DeleteProject(_ context.Context, ws, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.projects, key(ws, id))
	for k, r := range m.records {
		if r.WorkspaceID == ws && r.ProjectID == id {
			delete(m.records, k)
		}
	}
	return nil
}

func (m *memStore) CreateRecord(_ context.Context, r domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key(r.WorkspaceID, r.ID)] = r
	return nil
}

func (m *memStore) GetRecord(_ context.Context, ws, id string) (domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[key(ws, id)]
	if !ok {
		return domain.Record{}, domain.ErrNotFound
	}
	return r, nil
}

func (m *memStore) ListRecords(_ context.Context, ws string, f domain.RecordFilter) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Record
	for _, r := range m.records {
		if r.WorkspaceID != ws {
			continue
		}
		if f.ProjectID != "" && r.ProjectID != f.ProjectID {
			continue
		}
		if f.AssigneeID != "" && r.AssigneeID != f.AssigneeID {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b domain.Record) int { return a.Position - b.Position })
	return out, nil
}

func (m *memStore) UpdateRecord(_ context.Context, ws, id string, p domain.RecordPatch) (domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[key(ws, id)]
	if !ok {
		return domain.Record{}, domain.ErrNotFound
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.InTime != nil {
		r.InTime = *p.InTime
	}
	if p.OutTime != nil {
		r.OutTime = *p.OutTime
	}
	if p.BreakTime != nil {
		r.BreakTime = *p.BreakTime
	}
	if p.HrsWorked != nil {
		r.HrsWorked = *p.HrsWorked
	}
	m.records[key(ws, id)] = r
	return r, nil
}

func (m *memStore) DeleteRecord(_ context.Context, ws, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key(ws, id))
	return nil
}

func (m *memStore) LowestPosition(_ context.Context, ws string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lowest, found := 0, false
	for _, r := range m.records {
		if r.WorkspaceID == ws && (!found || r.Position < lowest) {
			lowest, found = r.Position, true
		}
	}
	return lowest, found, nil
}

func (m *memStore) ApplyPositions(_ context.Context, ws string, updates []domain.PositionUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.applyErr != nil {
		return m.applyErr
	}
	for _, u := range updates {
		r := m.records[key(ws, u.ID)]
		r.Status, r.Position = u.Status, u.Position
		m.records[key(ws, u.ID)] = r
	}
	return nil
}

func (m *memStore) CountRecords(_ context.Context, q domain.CountQuery) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts = append(m.counts, q)
	n := 0
	for _, r := range m.records {
		if r.WorkspaceID != q.Scope.WorkspaceID {
			continue
		}
		if q.Scope.ProjectID != "" && r.ProjectID != q.Scope.ProjectID {
			continue
		}
		if r.CreatedAt.Before(q.Window.Start) || r.CreatedAt.After(q.Window.End) {
			continue
		}
		if q.AssigneeID != "" && r.AssigneeID != q.AssigneeID {
			continue
		}
		if q.Done != nil && (r.Status == domain.StatusDone) != *q.Done {
			continue
		}
		if !q.OverdueAt.IsZero() && !r.DueDate.Before(q.OverdueAt) {
			continue
		}
		n++
	}
	return n, nil
}

func (m *memStore) CreateAbsence(_ context.Context, a domain.Absence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.absences[key(a.WorkspaceID, a.ID)] = a
	return nil
}

func (m *memStore) GetAbsence(_ context.Context, ws, id string) (domain.Absence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.absences[key(ws, id)]
	if !ok {
		return domain.Absence{}, domain.ErrNotFound
	}
	return a, nil
}

func (m *memStore) ListAbsences(_ context.Context, ws string, f storage.AbsenceFilter) ([]domain.Absence, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Absence
	for _, a := range m.absences {
		if a.WorkspaceID != ws {
			continue
		}
		if f.ProjectID != "" && a.ProjectID != f.ProjectID {
			continue
		}
		if f.AssigneeID != "" && a.AssigneeID != f.AssigneeID {
			continue
		}
		if f.On != "" {
			day, _ := time.Parse(dayLayout, f.On)
			if !a.Covers(day) {
				continue
			}
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memStore) UpdateAbsence(_ context.Context, a domain.Absence) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.absences[key(a.WorkspaceID, a.ID)] = a
	return nil
}

func (m *memStore) DeleteAbsence(_ context.Context, ws, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.absences, key(ws, id))
	return nil
}

func (m *memStore) PublishActivity(_ context.Context, a domain.Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return m.publishErr
	}
	m.activity = append(m.activity, a)
	return nil
}

func (m *memStore) published() []domain.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.activity)
}

// headerAuth treats the bearer value as the user id.
type headerAuth struct{}

func (headerAuth) PrincipalFromAuthHeader(h string) (Principal, error) {
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || token == "" {
		return Principal{}, errMissingAuthorization
	}
	return Principal{UserID: token, Name: token}, nil
}

type memDeduper struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (d *memDeduper) Add(_ context.Context, scope, k string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	if d.seen[scope+k] {
		return false, nil
	}
	d.seen[scope+k] = true
	return true, nil
}

func (d *memDeduper) Remove(_ context.Context, scope, k string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, scope+k)
	return nil
}

func domainWorkspace(id string) domain.Workspace {
	return domain.Workspace{ID: id, Name: id, InviteCode: "CODE01", CreatedAt: testNow}
}

func memberFor(ws, id, user string) domain.Member {
	return domain.Member{ID: id, WorkspaceID: ws, UserID: user, Role: domain.RoleMember, CreatedAt: testNow}
}
