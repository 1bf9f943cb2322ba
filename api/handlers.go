package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"workroll/domain"
)

// Deps are the collaborators of the HTTP handlers. Deduper and Hub are
// optional; without them idempotency keys are ignored and the stream
// endpoint is unavailable.
type Deps struct {
	Store   Storage
	Auth    Authenticator
	Deduper Deduper
	Hub     Subscriber
	Logger  *log.Logger
	Now     func() time.Time
}

type handlers struct {
	store  Storage
	dedupe Deduper
	hub    Subscriber
	log    *log.Logger
	now    func() time.Time
}

// Register wires up all API routes on the provided Echo instance.
func Register(e *echo.Echo, deps Deps) {
	if deps.Logger == nil {
		deps.Logger = log.StandardLogger()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &handlers{store: deps.Store, dedupe: deps.Deduper, hub: deps.Hub, log: deps.Logger, now: deps.Now}

	e.Validator = newRequestValidator()
	e.Use(RequestMetrics(deps.Logger))
	e.GET("/healthz", healthz)

	g := e.Group("/api", GzipRequestMiddleware(), Authenticate(deps.Auth))
	g.GET("/workspaces", h.listWorkspaces)
	g.POST("/workspaces", h.createWorkspace)
	g.GET("/workspaces/:ws/info", h.workspaceInfo)
	g.POST("/workspaces/:ws/join", h.joinWorkspace)

	ws := g.Group("/workspaces/:ws", requireMember(deps.Store))
	ws.GET("", h.getWorkspace)
	ws.PATCH("", h.updateWorkspace, requireAdmin)
	ws.DELETE("", h.deleteWorkspace, requireAdmin)
	ws.POST("/reset-invite-code", h.resetInviteCode, requireAdmin)
	ws.GET("/analytics", h.workspaceAnalytics)
	ws.GET("/stream", h.stream)

	ws.GET("/members", h.listMembers)
	ws.POST("/members", h.createMember)
	ws.PATCH("/members/:id", h.updateMember, requireAdmin)
	ws.DELETE("/members/:id", h.deleteMember)

	ws.GET("/projects", h.listProjects)
	ws.POST("/projects", h.createProject)
	ws.GET("/projects/:id", h.getProject)
	ws.PATCH("/projects/:id", h.updateProject)
	ws.DELETE("/projects/:id", h.deleteProject)
	ws.GET("/projects/:id/analytics", h.projectAnalytics)

	ws.GET("/records", h.listRecords)
	ws.POST("/records", h.createRecord)
	ws.GET("/records/export", h.exportRecords)
	ws.POST("/records/bulk-update", h.bulkUpdateRecords)
	ws.GET("/records/:id", h.getRecord)
	ws.PATCH("/records/:id", h.updateRecord)
	ws.DELETE("/records/:id", h.deleteRecord)
	ws.POST("/board/moves", h.moveRecord)

	ws.GET("/absences", h.listAbsences)
	ws.POST("/absences", h.createAbsence)
	ws.GET("/absences/:id", h.getAbsence)
	ws.PATCH("/absences/:id", h.updateAbsence)
	ws.DELETE("/absences/:id", h.deleteAbsence)
}

func healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// publish queues an activity event. Failures are logged, not returned: the
// write already succeeded and live views recover on their next refresh.
func (h *handlers) publish(c echo.Context, workspaceID, entity, typ string, ids ...string) {
	a := domain.Activity{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Entity:      entity,
		Type:        typ,
		EntityIDs:   ids,
		UserID:      principalFrom(c).UserID,
		Time:        h.now().UnixMilli(),
	}
	if err := h.store.PublishActivity(c.Request().Context(), a); err != nil {
		h.log.WithError(err).WithFields(log.Fields{
			"workspace_id": workspaceID,
			"entity":       entity,
			"type":         typ,
		}).Warn("publish activity failed")
	}
}
