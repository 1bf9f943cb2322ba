package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"workroll/domain"
)

type createWorkspaceRequest struct {
	Name     string `json:"name" validate:"required,max=256"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
}

type updateWorkspaceRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=256"`
	ImageURL *string `json:"imageUrl" validate:"omitempty"`
}

type joinWorkspaceRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *handlers) listWorkspaces(c echo.Context) error {
	workspaces, err := h.store.ListWorkspaces(c.Request().Context(), principalFrom(c).UserID)
	if err != nil {
		return fail(c, "storage", err)
	}
	return ok(c, http.StatusOK, workspaces)
}

func (h *handlers) createWorkspace(c echo.Context) error {
	var req createWorkspaceRequest
	if err := decode(c, &req); err != nil {
		return fail(c, "decode", err)
	}
	code, err := domain.GenerateInviteCode(domain.InviteCodeLength)
	if err != nil {
		return fail(c, "invite_code", err)
	}
	p := principalFrom(c)
	now := h.now().UTC()
	w := domain.Workspace{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		ImageURL:   req.ImageURL,
		InviteCode: code,
		UserID:     p.UserID,
		CreatedAt:  now,
	}
	owner := domain.Member{
		ID:          uuid.NewString(),
		WorkspaceID: w.ID,
		UserID:      p.UserID,
		Role:        domain.RoleAdmin,
		Name:        p.Name,
		Email:       p.Email,
		CreatedAt:   now,
	}
	if err := h.store.CreateWorkspace(c.Request().Context(), w, owner); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, w.ID, domain.EntityWorkspace, domain.ActivityCreated, w.ID)
	return ok(c, http.StatusCreated, w)
}

func (h *handlers) getWorkspace(c echo.Context) error {
	w, err := h.store.GetWorkspace(c.Request().Context(), c.Param("ws"))
	if err != nil {
		return fail(c, "storage", err)
	}
	return ok(c, http.StatusOK, w)
}

func (h *handlers) workspaceInfo(c echo.Context) error {
	w, err := h.store.GetWorkspace(c.Request().Context(), c.Param("ws"))
	if err != nil {
		return fail(c, "storage", err)
	}
	return ok(c, http.StatusOK, w.Info())
}

func (h *handlers) updateWorkspace(c echo.Context) error {
	var req updateWorkspaceRequest
	if err := decode(c, &req); err != nil {
		return fail(c, "decode", err)
	}
	ctx := c.Request().Context()
	w, err := h.store.GetWorkspace(ctx, c.Param("ws"))
	if err != nil {
		return fail(c, "storage", err)
	}
	if req.Name != nil {
		w.Name = strings.TrimSpace(*req.Name)
	}
	if req.ImageURL != nil {
		w.ImageURL = *req.ImageURL
	}
	if err := h.store.UpdateWorkspace(ctx, w); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, w.ID, domain.EntityWorkspace, domain.ActivityUpdated, w.ID)
	return ok(c, http.StatusOK, w)
}

func (h *handlers) deleteWorkspace(c echo.Context) error {
	id := c.Param("ws")
	if err := h.store.DeleteWorkspace(c.Request().Context(), id); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, id, domain.EntityWorkspace, domain.ActivityDeleted, id)
	return ok(c, http.StatusOK, map[string]string{"id": id})
}

func (h *handlers) resetInviteCode(c echo.Context) error {
	ctx := c.Request().Context()
	w, err := h.store.GetWorkspace(ctx, c.Param("ws"))
	if err != nil {
		return fail(c, "storage", err)
	}
	if w.InviteCode, err = domain.GenerateInviteCode(domain.InviteCodeLength); err != nil {
		return fail(c, "invite_code", err)
	}
	if err := h.store.UpdateWorkspace(ctx, w); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, w.ID, domain.EntityWorkspace, domain.ActivityUpdated, w.ID)
	return ok(c, http.StatusOK, w)
}

func (h *handlers) joinWorkspace(c echo.Context) error {
	var req joinWorkspaceRequest
	if err := decode(c, &req); err != nil {
		return fail(c, "decode", err)
	}
	ctx := c.Request().Context()
	p := principalFrom(c)
	w, err := h.store.GetWorkspace(ctx, c.Param("ws"))
	if err != nil {
		return fail(c, "storage", err)
	}
	if _, err := h.store.GetMemberByUser(ctx, w.ID, p.UserID); err == nil {
		return fail(c, "join", domain.ErrAlreadyMember)
	} else if errorStatus(err) != http.StatusNotFound {
		return fail(c, "storage", err)
	}
	if strings.TrimSpace(req.Code) != w.InviteCode {
		return fail(c, "join", domain.ErrInvalidInviteCode)
	}
	m := domain.Member{
		ID:          uuid.NewString(),
		WorkspaceID: w.ID,
		UserID:      p.UserID,
		Role:        domain.RoleMember,
		Name:        p.Name,
		Email:       p.Email,
		CreatedAt:   h.now().UTC(),
	}
	if err := h.store.CreateMember(ctx, m); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, w.ID, domain.EntityMember, domain.ActivityCreated, m.ID)
	return ok(c, http.StatusOK, w)
}
