package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"workroll/domain"
)

type projectRequest struct {
	Name     string `json:"name" validate:"required,max=256"`
	ImageURL string `json:"imageUrl" validate:"omitempty,url"`
}

type updateProjectRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=256"`
	ImageURL *string `json:"imageUrl"`
}

func (h *handlers) listProjects(c echo.Context) error {
	projects, err := h.store.ListProjects(c.Request().Context(), c.Param("ws"))
	if err != nil {
		return fail(c, "storage", err)
	}
	return ok(c, http.StatusOK, projects)
}

func (h *handlers) createProject(c echo.Context) error {
	var req projectRequest
	if err := decode(c, &req); err != nil {
		return fail(c, "decode", err)
	}
	p := domain.Project{
		ID:          uuid.NewString(),
		WorkspaceID: c.Param("ws"),
		Name:        strings.TrimSpace(req.Name),
		ImageURL:    req.ImageURL,
		CreatedAt:   h.now().UTC(),
	}
	if err := h.store.CreateProject(c.Request().Context(), p); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, p.WorkspaceID, domain.EntityProject, domain.ActivityCreated, p.ID)
	return ok(c, http.StatusCreated, p)
}

func (h *handlers) getProject(c echo.Context) error {
	p, err := h.store.GetProject(c.Request().Context(), c.Param("ws"), c.Param("id"))
	if err != nil {
		return fail(c, "storage", err)
	}
	return ok(c, http.StatusOK, p)
}

func (h *handlers) updateProject(c echo.Context) error {
	var req updateProjectRequest
	if err := decode(c, &req); err != nil {
		return fail(c, "decode", err)
	}
	ctx := c.Request().Context()
	p, err := h.store.GetProject(ctx, c.Param("ws"), c.Param("id"))
	if err != nil {
		return fail(c, "storage", err)
	}
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.ImageURL != nil {
		p.ImageURL = *req.ImageURL
	}
	if err := h.store.UpdateProject(ctx, p); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, p.WorkspaceID, domain.EntityProject, domain.ActivityUpdated, p.ID)
	return ok(c, http.StatusOK, p)
}

func (h *handlers) deleteProject(c echo.Context) error {
	ctx := c.Request().Context()
	wsID := c.Param("ws")
	p, err := h.store.GetProject(ctx, wsID, c.Param("id"))
	if err != nil {
		return fail(c, "storage", err)
	}
	if err := h.store.DeleteProject(ctx, wsID, p.ID); err != nil {
		return fail(c, "storage", err)
	}
	h.publish(c, wsID, domain.EntityProject, domain.ActivityDeleted, p.ID)
	return ok(c, http.StatusOK, map[string]string{"id": p.ID})
}
