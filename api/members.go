package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"workroll/domain"
	"workroll/storage"
)

type createMemberRequest struct {
	Name        string            `json:"name" validate:"required,max=256"`
	Email       string            `json:"email" validate:"omitempty,email"`
	JobTitle    string            `json:"jobTitle" validate:"max=256"`
	Dept        string            `json:"dept" validate:"max=256"`
	MonthYear   string            `json:"monthYear" validate:"max=64"`
	ManagerName string            `json:"managerName" validate:"max=256"`
	Role        domain.MemberRole `json:"role" validate:"omitempty,oneof=ADMIN MEMBER"`
}

type updateMemberRequest struct {
	Role domain.MemberRole `json:"role" validate:"required,oneof=ADMIN MEMBER"`
}

// listMembers returns all members. With both projectId and date, members
// absent from that project on that day are left out.
func (h *handlers) listMembers(c echo.Context) error {
	ctx := c.Request().Context()
	wsID := c.Param("ws")
	members, err := h.store.ListMembers(ctx, wsID)
	if err != nil {
		return fail(c, "storage", err)
	}
	projectID, date := c.QueryParam("projectId"), c.QueryParam("date")
	if projectID == "" || date == "" {
		return ok(c, http.StatusOK, members)
	}
	day, err := parseDay(date)
	if err != nil {
		return fail(c, "decode", err)
	}
	absences, err := h.store.ListAbsences(ctx, wsID, storage.AbsenceFilter{ProjectID: projectID, On: day.Format(dayLayout)})
	if err != nil {
		return fail(c, "storage", err)
	}
	absent := make(map[string]struct{}, len(absences))
	for _, a := range absences {
		if a.Covers(day) {
			absent[a.AssigneeID] = struct{}{}
		}
	}
	present := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if _, skip := absent[m.ID]; !skip {
			present = append(present, m)
		}
	}
	return ok(c, http.StatusOK, present)
}

// createMember adds an employee that has no login of its own.
func (h *handlers) createMember(c echo.Context) error {
	var req createMemberRequest
	if err := decode(c, &req); err != nil {
		return fail(c, "decode", err)
	}
	role := req.Role
	if role == "" {
		role = domain.RoleMember
	}
	id := uuid.NewString()
	m := domain.Member{
		ID:          id,
		WorkspaceID: c.Param("ws"),
		UserID:      "employee:" + id,
		Role:        role,
		Name:        req.Name,
		Email:       req.Email,
		JobTitle:    req.JobTitle,
		Dept:        req.Dept,
		MonthYear:   req.MonthYear,
		ManagerName: req.ManagerName,
		CreatedAt:   h.now().UTC(),
	}
	if err := h.store.CreateMember(c.Request().Context(), m); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, m.WorkspaceID, domain.EntityMember, domain.ActivityCreated, m.ID)
	return ok(c, http.StatusCreated, m)
}

func (h *handlers) updateMember(c echo.Context) error {
	var req updateMemberRequest
	if err := decode(c, &req); err != nil {
		return fail(c, "decode", err)
	}
	ctx := c.Request().Context()
	wsID := c.Param("ws")
	target, err := h.store.GetMember(ctx, wsID, c.Param("id"))
	if err != nil {
		return fail(c, "storage", err)
	}
	members, err := h.store.ListMembers(ctx, wsID)
	if err != nil {
		return fail(c, "storage", err)
	}
	if len(members) <= 1 {
		return fail(c, "last_member", domain.ErrLastMember)
	}
	if err := h.store.UpdateMemberRole(ctx, wsID, target.ID, req.Role); err != nil {
		return fail(c, "storage", err)
	}
	target.Role = req.Role
	h.publish(c, wsID, domain.EntityMember, domain.ActivityUpdated, target.ID)
	return ok(c, http.StatusOK, target)
}

// deleteMember lets members leave and admins remove anyone, as long as the
// workspace keeps at least one member.
func (h *handlers) deleteMember(c echo.Context) error {
	ctx := c.Request().Context()
	wsID := c.Param("ws")
	target, err := h.store.GetMember(ctx, wsID, c.Param("id"))
	if err != nil {
		return fail(c, "storage", err)
	}
	caller := memberFrom(c)
	if caller.ID != target.ID && !caller.IsAdmin() {
		return fail(c, "membership", domain.ErrForbidden)
	}
	members, err := h.store.ListMembers(ctx, wsID)
	if err != nil {
		return fail(c, "storage", err)
	}
	if len(members) <= 1 {
		return fail(c, "last_member", domain.ErrLastMember)
	}
	if err := h.store.DeleteMember(ctx, wsID, target.ID); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, wsID, domain.EntityMember, domain.ActivityDeleted, target.ID)
	return ok(c, http.StatusOK, map[string]string{"id": target.ID})
}
