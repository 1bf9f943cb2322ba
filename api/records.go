package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"workroll/board"
	"workroll/domain"
	"workroll/storage"
)

type createRecordRequest struct {
	ProjectID  string        `json:"projectId" validate:"required"`
	AssigneeID string        `json:"assigneeId" validate:"required"`
	Week       int           `json:"week" validate:"min=1,max=53"`
	DueDate    string        `json:"dueDate" validate:"required"`
	InTime     string        `json:"inTime" validate:"required"`
	OutTime    string        `json:"outTime" validate:"required"`
	BreakTime  string        `json:"breakTime"`
	Status     domain.Status `json:"status"`
}

type updateRecordRequest struct {
	ProjectID  *string        `json:"projectId" validate:"omitempty,min=1"`
	AssigneeID *string        `json:"assigneeId" validate:"omitempty,min=1"`
	Week       *int           `json:"week" validate:"omitempty,min=1,max=53"`
	DueDate    *string        `json:"dueDate"`
	InTime     *string        `json:"inTime"`
	OutTime    *string        `json:"outTime"`
	BreakTime  *string        `json:"breakTime"`
	Status     *domain.Status `json:"status"`
}

type recordsResponse struct {
	Records  []domain.PopulatedRecord  `json:"records"`
	Absences []domain.PopulatedAbsence `json:"absences"`
	Total    int                       `json:"total"`
}

func (h *handlers) listRecords(c echo.Context) error {
	f, err := recordFilterFrom(c)
	if err != nil {
		return fail(c, "decode", err)
	}
	resp, err := h.populatedRecords(c.Request().Context(), c.Param("ws"), f)
	if err != nil {
		return fail(c, "storage", err)
	}
	return ok(c, http.StatusOK, resp)
}

// populatedRecords lists records and the absences matching the same project,
// assignee and day, joined with their projects and assignees.
func (h *handlers) populatedRecords(ctx context.Context, wsID string, f domain.RecordFilter) (recordsResponse, error) {
	records, err := h.store.ListRecords(ctx, wsID, f)
	if err != nil {
		return recordsResponse{}, err
	}
	absences, err := h.store.ListAbsences(ctx, wsID, storage.AbsenceFilter{
		ProjectID:  f.ProjectID,
		AssigneeID: f.AssigneeID,
		StartDate:  f.DueDate,
	})
	if err != nil {
		return recordsResponse{}, err
	}
	l, err := h.lookup(ctx, wsID)
	if err != nil {
		return recordsResponse{}, err
	}
	resp := recordsResponse{
		Records:  l.records(records, f.Search),
		Absences: l.absences(absences, f.Search),
	}
	resp.Total = len(resp.Records)
	return resp, nil
}

func (h *handlers) createRecord(c echo.Context) error {
	var req createRecordRequest
	if err := decode(c, &req); err != nil {
		return fail(c, "decode", err)
	}
	status := req.Status
	if status == "" {
		status = domain.StatusTodo
	}
	if !status.Valid() {
		return fail(c, "decode", fmt.Errorf("%w: unknown status %q", errInvalidRequest, status))
	}
	due, err := parseDay(req.DueDate)
	if err != nil {
		return fail(c, "decode", err)
	}
	hours, err := domain.HoursWorked(req.InTime, req.OutTime, req.BreakTime)
	if err != nil {
		return fail(c, "hours", err)
	}

	ctx := c.Request().Context()
	wsID := c.Param("ws")
	if err := h.checkRefs(ctx, wsID, req.ProjectID, req.AssigneeID); err != nil {
		return fail(c, "references", err)
	}
	lowest, found, err := h.store.LowestPosition(ctx, wsID)
	if err != nil {
		return fail(c, "storage", err)
	}
	position := board.PositionStep
	if found {
		position = min(lowest+board.PositionStep, board.MaxPosition)
	}

	r := domain.Record{
		ID:          uuid.NewString(),
		WorkspaceID: wsID,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		Status:      status,
		Position:    position,
		Week:        req.Week,
		DueDate:     due,
		InTime:      req.InTime,
		OutTime:     req.OutTime,
		BreakTime:   req.BreakTime,
		HrsWorked:   hours,
		CreatedAt:   h.now().UTC(),
	}
	if err := h.store.CreateRecord(ctx, r); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, wsID, domain.EntityRecord, domain.ActivityCreated, r.ID)
	return ok(c, http.StatusCreated, r)
}

// checkRefs verifies that the project and assignee exist in the workspace.
func (h *handlers) checkRefs(ctx context.Context, wsID, projectID, assigneeID string) error {
	if projectID != "" {
		if _, err := h.store.GetProject(ctx, wsID, projectID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: unknown project %q", errInvalidRequest, projectID)
			}
			return err
		}
	}
	if assigneeID != "" {
		if _, err := h.store.GetMember(ctx, wsID, assigneeID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: unknown assignee %q", errInvalidRequest, assigneeID)
			}
			return err
		}
	}
	return nil
}

func (h *handlers) getRecord(c echo.Context) error {
	ctx := c.Request().Context()
	wsID := c.Param("ws")
	r, err := h.store.GetRecord(ctx, wsID, c.Param("id"))
	if err != nil {
		return fail(c, "storage", err)
	}
	l, err := h.lookup(ctx, wsID)
	if err != nil {
		return fail(c, "storage", err)
	}
	return ok(c, http.StatusOK, l.records([]domain.Record{r}, "")[0])
}

func (h *handlers) updateRecord(c echo.Context) error {
	var req updateRecordRequest
	if err := decode(c, &req); err != nil {
		return fail(c, "decode", err)
	}
	patch := domain.RecordPatch{
		ProjectID:  req.ProjectID,
		AssigneeID: req.AssigneeID,
		Status:     req.Status,
		Week:       req.Week,
		InTime:     req.InTime,
		OutTime:    req.OutTime,
		BreakTime:  req.BreakTime,
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return fail(c, "decode", fmt.Errorf("%w: unknown status %q", errInvalidRequest, *patch.Status))
	}
	if req.DueDate != nil {
		due, err := parseDay(*req.DueDate)
		if err != nil {
			return fail(c, "decode", err)
		}
		patch.DueDate = &due
	}

	ctx := c.Request().Context()
	wsID := c.Param("ws")
	current, err := h.store.GetRecord(ctx, wsID, c.Param("id"))
	if err != nil {
		return fail(c, "storage", err)
	}
	if err := h.checkRefs(ctx, wsID, deref(patch.ProjectID), deref(patch.AssigneeID)); err != nil {
		return fail(c, "references", err)
	}
	if patch.TouchesTime() {
		hours, err := domain.HoursWorked(
			valueOr(patch.InTime, current.InTime),
			valueOr(patch.OutTime, current.OutTime),
			valueOr(patch.BreakTime, current.BreakTime),
		)
		if err != nil {
			return fail(c, "hours", err)
		}
		patch.HrsWorked = &hours
	}

	updated, err := h.store.UpdateRecord(ctx, wsID, current.ID, patch)
	if err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, wsID, domain.EntityRecord, domain.ActivityUpdated, updated.ID)
	return ok(c, http.StatusOK, updated)
}

func (h *handlers) deleteRecord(c echo.Context) error {
	ctx := c.Request().Context()
	wsID := c.Param("ws")
	r, err := h.store.GetRecord(ctx, wsID, c.Param("id"))
	if err != nil {
		return fail(c, "storage", err)
	}
	if err := h.store.DeleteRecord(ctx, wsID, r.ID); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, wsID, domain.EntityRecord, domain.ActivityDeleted, r.ID)
	return ok(c, http.StatusOK, map[string]string{"id": r.ID})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
