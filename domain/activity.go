package domain

// Entity names used on activity events.
const (
	EntityWorkspace = "workspace"
	EntityMember    = "member"
	EntityProject   = "project"
	EntityRecord    = "record"
	EntityAbsence   = "absence"
)

// Activity types.
const (
	ActivityCreated   = "created"
	ActivityUpdated   = "updated"
	ActivityDeleted   = "deleted"
	ActivityReordered = "reordered"
)

// Activity describes a change inside a workspace. It is queued after every
// successful write and fanned out to live subscribers.
type Activity struct {
	ID          string   `json:"id"`
	WorkspaceID string   `json:"workspaceId"`
	Entity      string   `json:"entity"`
	Type        string   `json:"type"`
	EntityIDs   []string `json:"entityIds,omitempty"`
	UserID      string   `json:"userId,omitempty"`
	Time        int64    `json:"time"`
}
