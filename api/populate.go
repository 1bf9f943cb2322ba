package api

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"workroll/domain"
)

// lookup joins records and absences with their project and assignee.
type lookup struct {
	projects map[string]domain.Project
	members  map[string]domain.Member
}

func (h *handlers) lookup(ctx context.Context, workspaceID string) (lookup, error) {
	var projects []domain.Project
	var members []domain.Member
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		projects, err = h.store.ListProjects(gctx, workspaceID)
		return err
	})
	g.Go(func() (err error) {
		members, err = h.store.ListMembers(gctx, workspaceID)
		return err
	})
	if err := g.Wait(); err != nil {
		return lookup{}, err
	}
	l := lookup{
		projects: make(map[string]domain.Project, len(projects)),
		members:  make(map[string]domain.Member, len(members)),
	}
	for _, p := range projects {
		l.projects[p.ID] = p
	}
	for _, m := range members {
		l.members[m.ID] = m
	}
	return l, nil
}

func (l lookup) join(projectID, assigneeID string) (*domain.Project, *domain.Member) {
	var project *domain.Project
	var assignee *domain.Member
	if p, ok := l.projects[projectID]; ok {
		project = &p
	}
	if m, ok := l.members[assigneeID]; ok {
		assignee = &m
	}
	return project, assignee
}

func (l lookup) records(records []domain.Record, search string) []domain.PopulatedRecord {
	out := make([]domain.PopulatedRecord, 0, len(records))
	for _, r := range records {
		project, assignee := l.join(r.ProjectID, r.AssigneeID)
		if !matchesSearch(search, project, assignee) {
			continue
		}
		out = append(out, domain.PopulatedRecord{Record: r, Project: project, Assignee: assignee})
	}
	return out
}

func (l lookup) absences(absences []domain.Absence, search string) []domain.PopulatedAbsence {
	out := make([]domain.PopulatedAbsence, 0, len(absences))
	for _, a := range absences {
		project, assignee := l.join(a.ProjectID, a.AssigneeID)
		if !matchesSearch(search, project, assignee) {
			continue
		}
		out = append(out, domain.PopulatedAbsence{Absence: a, Project: project, Assignee: assignee})
	}
	return out
}

// matchesSearch compares case-insensitively against the project name and the
// assignee's display name.
func matchesSearch(search string, project *domain.Project, assignee *domain.Member) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if project != nil && strings.Contains(strings.ToLower(project.Name), needle) {
		return true
	}
	return assignee != nil && strings.Contains(strings.ToLower(assignee.DisplayName()), needle)
}
