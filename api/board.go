package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"workroll/board"
	"workroll/domain"
)

const idempotencyHeader = "Idempotency-Key"

// recordBoard exposes a workspace's records as board items.
type recordBoard struct {
	store       Storage
	workspaceID string
}

func (b recordBoard) BoardItems(ctx context.Context) ([]board.Item, error) {
	records, err := b.store.ListRecords(ctx, b.workspaceID, domain.RecordFilter{})
	if err != nil {
		return nil, err
	}
	items := make([]board.Item, 0, len(records))
	for _, r := range records {
		items = append(items, board.Item{ID: r.ID, Bucket: r.Status, Position: r.Position})
	}
	return items, nil
}

func (b recordBoard) CommitPositions(ctx context.Context, changes []board.Change) error {
	return b.store.ApplyPositions(ctx, b.workspaceID, changes)
}

type bulkUpdateItem struct {
	ID       string        `json:"id" validate:"required"`
	Status   domain.Status `json:"status" validate:"required"`
	Position int           `json:"position" validate:"min=1000,max=1000000"`
}

type bulkUpdateRequest struct {
	Tasks []bulkUpdateItem `json:"tasks" validate:"required,min=1,dive"`
}

type bulkUpdateResponse struct {
	Updated   []domain.PositionUpdate `json:"updated"`
	Duplicate bool                    `json:"duplicate,omitempty"`
}

// bulkUpdateRecords persists a change set computed by the client. Every id
// must belong to the workspace.
func (h *handlers) bulkUpdateRecords(c echo.Context) error {
	var req bulkUpdateRequest
	if err := decode(c, &req); err != nil {
		return fail(c, "decode", err)
	}
	updates := make([]domain.PositionUpdate, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		if !t.Status.Valid() {
			return fail(c, "decode", fmt.Errorf("%w: unknown status %q", errInvalidRequest, t.Status))
		}
		updates = append(updates, domain.PositionUpdate{ID: t.ID, Status: t.Status, Position: t.Position})
	}

	ctx := c.Request().Context()
	wsID := c.Param("ws")
	key := strings.TrimSpace(c.Request().Header.Get(idempotencyHeader))
	if key != "" && h.dedupe != nil {
		added, err := h.dedupe.Add(ctx, wsID, key)
		if err != nil {
			return fail(c, "dedupe", err)
		}
		if !added {
			return ok(c, http.StatusOK, bulkUpdateResponse{Updated: []domain.PositionUpdate{}, Duplicate: true})
		}
	}

	if err := h.applyBulk(ctx, wsID, updates); err != nil {
		if key != "" && h.dedupe != nil {
			if rerr := h.dedupe.Remove(ctx, wsID, key); rerr != nil {
				h.log.WithError(rerr).WithField("idempotency_key", key).Warn("unable to release idempotency key")
			}
		}
		return fail(c, "apply", err)
	}
	h.publish(c, wsID, domain.EntityRecord, domain.ActivityReordered, ids(updates)...)
	return ok(c, http.StatusOK, bulkUpdateResponse{Updated: updates})
}

func (h *handlers) applyBulk(ctx context.Context, wsID string, updates []domain.PositionUpdate) error {
	records, err := h.store.ListRecords(ctx, wsID, domain.RecordFilter{})
	if err != nil {
		return err
	}
	known := make(map[string]struct{}, len(records))
	for _, r := range records {
		known[r.ID] = struct{}{}
	}
	for _, u := range updates {
		if _, ok := known[u.ID]; !ok {
			return fmt.Errorf("%w: record %s", domain.ErrMixedWorkspaces, u.ID)
		}
	}
	return h.store.ApplyPositions(ctx, wsID, updates)
}

type slotRequest struct {
	Bucket domain.Status `json:"bucket" validate:"required"`
	Index  int           `json:"index"`
}

type moveRequest struct {
	Source      slotRequest  `json:"source" validate:"required"`
	Destination *slotRequest `json:"destination"`
}

type moveResponse struct {
	Outcome string         `json:"outcome"`
	Applied bool           `json:"applied"`
	Reason  string         `json:"reason,omitempty"`
	Moved   *board.Item    `json:"moved,omitempty"`
	Changes []board.Change `json:"changes"`
}

// moveRecord reconciles a drag gesture against the stored board and commits
// the resulting change set. Moves that do not match the stored board are
// answered with an empty change set; the client refreshes and retries.
func (h *handlers) moveRecord(c echo.Context) error {
	var req moveRequest
	if err := decode(c, &req); err != nil {
		return fail(c, "decode", err)
	}
	m := board.Move{Source: board.Slot{Bucket: req.Source.Bucket, Index: req.Source.Index}}
	if req.Destination != nil {
		m.Destination = &board.Slot{Bucket: req.Destination.Bucket, Index: req.Destination.Index}
	}

	ctx := c.Request().Context()
	wsID := c.Param("ws")
	rb := recordBoard{store: h.store, workspaceID: wsID}
	session := board.NewSession(rb, rb, h.log)
	if err := session.Refresh(ctx); err != nil {
		return fail(c, "load_board", err)
	}
	result, changes, err := session.Move(m)
	if err != nil {
		return fail(c, "move", err)
	}
	resp := moveResponse{Outcome: result.Outcome.String(), Reason: result.Reason, Changes: changes}
	if resp.Changes == nil {
		resp.Changes = []board.Change{}
	}
	if result.Outcome != board.OutcomeApplied {
		return ok(c, http.StatusOK, resp)
	}
	if err := session.Commit(ctx, changes); err != nil {
		return fail(c, "commit", fmt.Errorf("%w: %w", errUpstream, err))
	}
	moved := result.Moved
	resp.Applied = true
	resp.Moved = &moved
	h.publish(c, wsID, domain.EntityRecord, domain.ActivityReordered, ids(changes)...)
	return ok(c, http.StatusOK, resp)
}

func ids(updates []domain.PositionUpdate) []string {
	out := make([]string, len(updates))
	for i, u := range updates {
		out[i] = u.ID
	}
	return out
}
