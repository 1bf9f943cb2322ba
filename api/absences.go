package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"workroll/domain"
	"workroll/storage"
)

type absenceRequest struct {
	ProjectID  string `json:"projectId" validate:"required"`
	AssigneeID string `json:"assigneeId" validate:"required"`
	StartDate  string `json:"startDate" validate:"required"`
	EndDate    string `json:"endDate" validate:"required"`
	Reason     string `json:"reason" validate:"max=1024"`
}

type updateAbsenceRequest struct {
	ProjectID  *string `json:"projectId" validate:"omitempty,min=1"`
	AssigneeID *string `json:"assigneeId" validate:"omitempty,min=1"`
	StartDate  *string `json:"startDate"`
	EndDate    *string `json:"endDate"`
	Reason     *string `json:"reason" validate:"omitempty,max=1024"`
}

func (h *handlers) listAbsences(c echo.Context) error {
	f := storage.AbsenceFilter{
		ProjectID:  c.QueryParam("projectId"),
		AssigneeID: c.QueryParam("assigneeId"),
	}
	if raw := c.QueryParam("date"); raw != "" {
		day, err := parseDay(raw)
		if err != nil {
			return fail(c, "decode", err)
		}
		f.On = day.Format(dayLayout)
	}
	ctx := c.Request().Context()
	wsID := c.Param("ws")
	absences, err := h.store.ListAbsences(ctx, wsID, f)
	if err != nil {
		return fail(c, "storage", err)
	}
	l, err := h.lookup(ctx, wsID)
	if err != nil {
		return fail(c, "storage", err)
	}
	return ok(c, http.StatusOK, l.absences(absences, c.QueryParam("search")))
}

func (h *handlers) createAbsence(c echo.Context) error {
	var req absenceRequest
	if err := decode(c, &req); err != nil {
		return fail(c, "decode", err)
	}
	a := domain.Absence{
		ID:          uuid.NewString(),
		WorkspaceID: c.Param("ws"),
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		Reason:      req.Reason,
		CreatedAt:   h.now().UTC(),
	}
	var err error
	if a.StartDate, err = parseDay(req.StartDate); err != nil {
		return fail(c, "decode", err)
	}
	if a.EndDate, err = parseDay(req.EndDate); err != nil {
		return fail(c, "decode", err)
	}
	if a.EndDate.Before(a.StartDate) {
		return fail(c, "decode", domain.ErrInvalidDateRange)
	}
	ctx := c.Request().Context()
	if err := h.checkRefs(ctx, a.WorkspaceID, a.ProjectID, a.AssigneeID); err != nil {
		return fail(c, "references", err)
	}
	if err := h.store.CreateAbsence(ctx, a); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, a.WorkspaceID, domain.EntityAbsence, domain.ActivityCreated, a.ID)
	return ok(c, http.StatusCreated, a)
}

func (h *handlers) getAbsence(c echo.Context) error {
	ctx := c.Request().Context()
	wsID := c.Param("ws")
	a, err := h.store.GetAbsence(ctx, wsID, c.Param("id"))
	if err != nil {
		return fail(c, "storage", err)
	}
	l, err := h.lookup(ctx, wsID)
	if err != nil {
		return fail(c, "storage", err)
	}
	return ok(c, http.StatusOK, l.absences([]domain.Absence{a}, "")[0])
}

func (h *handlers) updateAbsence(c echo.Context) error {
	var req updateAbsenceRequest
	if err := decode(c, &req); err != nil {
		return fail(c, "decode", err)
	}
	ctx := c.Request().Context()
	wsID := c.Param("ws")
	a, err := h.store.GetAbsence(ctx, wsID, c.Param("id"))
	if err != nil {
		return fail(c, "storage", err)
	}
	if req.ProjectID != nil {
		a.ProjectID = *req.ProjectID
	}
	if req.AssigneeID != nil {
		a.AssigneeID = *req.AssigneeID
	}
	if req.Reason != nil {
		a.Reason = *req.Reason
	}
	if req.StartDate != nil {
		if a.StartDate, err = parseDay(*req.StartDate); err != nil {
			return fail(c, "decode", err)
		}
	}
	if req.EndDate != nil {
		if a.EndDate, err = parseDay(*req.EndDate); err != nil {
			return fail(c, "decode", err)
		}
	}
	if a.EndDate.Before(a.StartDate) {
		return fail(c, "decode", domain.ErrInvalidDateRange)
	}
	if err := h.checkRefs(ctx, wsID, deref(req.ProjectID), deref(req.AssigneeID)); err != nil {
		return fail(c, "references", err)
	}
	if err := h.store.UpdateAbsence(ctx, a); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, wsID, domain.EntityAbsence, domain.ActivityUpdated, a.ID)
	return ok(c, http.StatusOK, a)
}

func (h *handlers) deleteAbsence(c echo.Context) error {
	ctx := c.Request().Context()
	wsID := c.Param("ws")
	a, err := h.store.GetAbsence(ctx, wsID, c.Param("id"))
	if err != nil {
		return fail(c, "storage", err)
	}
	if err := h.store.DeleteAbsence(ctx, wsID, a.ID); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, wsID, domain.EntityAbsence, domain.ActivityDeleted, a.ID)
	return ok(c, http.StatusOK, map[string]string{"id": a.ID})
}
