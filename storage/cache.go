package storage

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"workroll/domain"
)

// Backend is the full persistence surface of the service.
type Backend interface {
	CreateWorkspace(ctx context.Context, w domain.Workspace, owner domain.Member) error
	GetWorkspace(ctx context.Context, id string) (domain.Workspace, error)
	ListWorkspaces(ctx context.Context, userID string) ([]domain.Workspace, error)
	UpdateWorkspace(ctx context.Context, w domain.Workspace) error
	DeleteWorkspace(ctx context.Context, id string) error

	ListMemberships(ctx context.Context, userID string) ([]domain.Member, error)
	ListMembers(ctx context.Context, workspaceID string) ([]domain.Member, error)
	GetMember(ctx context.Context, workspaceID, id string) (domain.Member, error)
	GetMemberByUser(ctx context.Context, workspaceID, userID string) (domain.Member, error)
	CreateMember(ctx context.Context, m domain.Member) error
	UpdateMemberRole(ctx context.Context, workspaceID, id string, role domain.MemberRole) error
	DeleteMember(ctx context.Context, workspaceID, id string) error

	CreateProject(ctx context.Context, p domain.Project) error
	GetProject(ctx context.Context, workspaceID, id string) (domain.Project, error)
	ListProjects(ctx context.Context, workspaceID string) ([]domain.Project, error)
	UpdateProject(ctx context.Context, p domain.Project) error
	DeleteProject(ctx context.Context, workspaceID, id string) error

	CreateRecord(ctx context.Context, r domain.Record) error
	GetRecord(ctx context.Context, workspaceID, id string) (domain.Record, error)
	ListRecords(ctx context.Context, workspaceID string, f domain.RecordFilter) ([]domain.Record, error)
	UpdateRecord(ctx context.Context, workspaceID, id string, p domain.RecordPatch) (domain.Record, error)
	DeleteRecord(ctx context.Context, workspaceID, id string) error
	LowestPosition(ctx context.Context, workspaceID string) (int, bool, error)
	ApplyPositions(ctx context.Context, workspaceID string, updates []domain.PositionUpdate) error
	CountRecords(ctx context.Context, q domain.CountQuery) (int, error)

	CreateAbsence(ctx context.Context, a domain.Absence) error
	GetAbsence(ctx context.Context, workspaceID, id string) (domain.Absence, error)
	ListAbsences(ctx context.Context, workspaceID string, f AbsenceFilter) ([]domain.Absence, error)
	UpdateAbsence(ctx context.Context, a domain.Absence) error
	DeleteAbsence(ctx context.Context, workspaceID, id string) error

	PublishActivity(ctx context.Context, a domain.Activity) error
	DequeueActivity(ctx context.Context) (*azqueue.DequeuedMessage, error)
	DeleteActivity(ctx context.Context, id, receipt string) error
}

var _ Backend = (*Storage)(nil)

// Cache wraps a Backend with Redis-backed caching of the unfiltered record
// and member listings of a workspace. Writes evict the affected keys.
type Cache struct {
	Backend
	redis *redis.Client
	ttl   time.Duration
}

// NewCache creates a caching wrapper using the provided Redis client and TTL.
func NewCache(base Backend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("storage.NewCache: base storage is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{Backend: base, redis: client, ttl: ttl}
}

func (c *Cache) ListRecords(ctx context.Context, workspaceID string, f domain.RecordFilter) ([]domain.Record, error) {
	if f != (domain.RecordFilter{}) {
		return c.Backend.ListRecords(ctx, workspaceID, f)
	}
	key := recordsCacheKey(workspaceID)
	var records []domain.Record
	if c.load(ctx, key, &records) {
		return records, nil
	}
	records, err := c.Backend.ListRecords(ctx, workspaceID, f)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, records)
	return records, nil
}

func (c *Cache) ListMembers(ctx context.Context, workspaceID string) ([]domain.Member, error) {
	key := membersCacheKey(workspaceID)
	var members []domain.Member
	if c.load(ctx, key, &members) {
		return members, nil
	}
	members, err := c.Backend.ListMembers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, members)
	return members, nil
}

func (c *Cache) CreateRecord(ctx context.Context, r domain.Record) error {
	return c.evictAfter(ctx, c.Backend.CreateRecord(ctx, r), recordsCacheKey(r.WorkspaceID))
}

func (c *Cache) UpdateRecord(ctx context.Context, workspaceID, id string, p domain.RecordPatch) (domain.Record, error) {
	r, err := c.Backend.UpdateRecord(ctx, workspaceID, id, p)
	return r, c.evictAfter(ctx, err, recordsCacheKey(workspaceID))
}

func (c *Cache) DeleteRecord(ctx context.Context, workspaceID, id string) error {
	return c.evictAfter(ctx, c.Backend.DeleteRecord(ctx, workspaceID, id), recordsCacheKey(workspaceID))
}

func (c *Cache) ApplyPositions(ctx context.Context, workspaceID string, updates []domain.PositionUpdate) error {
	// A failed batch may have committed earlier chunks, so evict either way.
	err := c.Backend.ApplyPositions(ctx, workspaceID, updates)
	c.Evict(ctx, workspaceID)
	return err
}

func (c *Cache) CreateMember(ctx context.Context, m domain.Member) error {
	return c.evictAfter(ctx, c.Backend.CreateMember(ctx, m), membersCacheKey(m.WorkspaceID))
}

func (c *Cache) UpdateMemberRole(ctx context.Context, workspaceID, id string, role domain.MemberRole) error {
	return c.evictAfter(ctx, c.Backend.UpdateMemberRole(ctx, workspaceID, id, role), membersCacheKey(workspaceID))
}

func (c *Cache) DeleteMember(ctx context.Context, workspaceID, id string) error {
	return c.evictAfter(ctx, c.Backend.DeleteMember(ctx, workspaceID, id), membersCacheKey(workspaceID))
}

func (c *Cache) DeleteProject(ctx context.Context, workspaceID, id string) error {
	err := c.Backend.DeleteProject(ctx, workspaceID, id)
	c.Evict(ctx, workspaceID)
	return err
}

func (c *Cache) DeleteWorkspace(ctx context.Context, id string) error {
	err := c.Backend.DeleteWorkspace(ctx, id)
	c.Evict(ctx, id)
	return err
}

// Evict drops every cached listing of a workspace.
func (c *Cache) Evict(ctx context.Context, workspaceID string) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, recordsCacheKey(workspaceID), membersCacheKey(workspaceID)).Result()
}

func (c *Cache) evictAfter(ctx context.Context, err error, key string) error {
	if err != nil {
		return err
	}
	if c.redis != nil {
		_ = c.redis.Del(ctx, key).Err()
	}
	return nil
}

func (c *Cache) load(ctx context.Context, key string, v any) bool {
	if c.redis == nil {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			// On redis errors fall back to the backing storage without failing.
			_ = c.redis.Del(ctx, key).Err()
		}
		return false
	}
	if err := sonic.Unmarshal(data, v); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *Cache) store(ctx context.Context, key string, v any) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(v)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}

func recordsCacheKey(workspaceID string) string {
	return "records:" + workspaceID
}

func membersCacheKey(workspaceID string) string {
	return "members:" + workspaceID
}
