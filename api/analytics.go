package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"workroll/domain"
)

func (h *handlers) workspaceAnalytics(c echo.Context) error {
	scope := domain.AnalyticsScope{WorkspaceID: c.Param("ws")}
	a, err := h.analytics(c.Request().Context(), scope, memberFrom(c).ID)
	if err != nil {
		return fail(c, "storage", err)
	}
	return ok(c, http.StatusOK, a)
}

func (h *handlers) projectAnalytics(c echo.Context) error {
	ctx := c.Request().Context()
	p, err := h.store.GetProject(ctx, c.Param("ws"), c.Param("id"))
	if err != nil {
		return fail(c, "storage", err)
	}
	a, err := h.analytics(ctx, domain.AnalyticsScope{WorkspaceID: p.WorkspaceID, ProjectID: p.ID}, memberFrom(c).ID)
	if err != nil {
		return fail(c, "storage", err)
	}
	return ok(c, http.StatusOK, a)
}

// analytics compares this calendar month with the previous one. All ten
// counts run concurrently.
func (h *handlers) analytics(ctx context.Context, scope domain.AnalyticsScope, memberID string) (domain.Analytics, error) {
	now := h.now().UTC()
	current, previous := domain.MonthWindows(now)
	done, open := true, false

	queries := func(w domain.Window) []domain.CountQuery {
		return []domain.CountQuery{
			{Scope: scope, Window: w},
			{Scope: scope, Window: w, AssigneeID: memberID},
			{Scope: scope, Window: w, Done: &open},
			{Scope: scope, Window: w, Done: &done},
			{Scope: scope, Window: w, Done: &open, OverdueAt: now},
		}
	}
	cur, prev := queries(current), queries(previous)
	all := append(cur, prev...)
	counts := make([]int, len(all))

	g, gctx := errgroup.WithContext(ctx)
	for i, q := range all {
		g.Go(func() (err error) {
			counts[i], err = h.store.CountRecords(gctx, q)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Analytics{}, err
	}

	n := len(cur)
	metric := func(i int) domain.Metric { return domain.NewMetric(counts[i], counts[n+i]) }
	return domain.Analytics{
		Total:      metric(0),
		Assigned:   metric(1),
		Incomplete: metric(2),
		Complete:   metric(3),
		Overdue:    metric(4),
	}, nil
}
