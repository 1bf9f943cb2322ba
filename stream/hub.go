// Package stream fans workspace activity out to live subscribers.
package stream

import (
	"context"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"workroll/domain"
)

// subscriberBuffer bounds the backlog of a slow subscriber; further messages
// are dropped for that subscriber only.
const subscriberBuffer = 16

// Hub tracks SSE subscribers per workspace.
type Hub struct {
	logger *log.Logger

	mu   sync.Mutex
	subs map[string]map[chan []byte]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Hub{logger: logger, subs: make(map[string]map[chan []byte]struct{})}
}

// Subscribe registers a subscriber for a workspace. The returned function
// must be called to release it.
func (h *Hub) Subscribe(workspaceID string) (<-chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)
	h.mu.Lock()
	set, ok := h.subs[workspaceID]
	if !ok {
		set = make(map[chan []byte]struct{})
		h.subs[workspaceID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, workspaceID)
			}
			h.mu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscribers of a workspace.
func (h *Hub) Subscribers(workspaceID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[workspaceID])
}

// Broadcast delivers data to every subscriber of a workspace without blocking.
func (h *Hub) Broadcast(workspaceID string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[workspaceID] {
		select {
		case ch <- data:
		default:
			h.logger.WithField("workspace_id", workspaceID).Warn("stream subscriber lagging; dropping activity")
		}
	}
}

// Run listens on a Redis channel for activity and broadcasts it until ctx is
// cancelled, resubscribing when the subscription drops.
func (h *Hub) Run(ctx context.Context, rc *redis.Client, channel string) {
	for {
		sub := rc.Subscribe(ctx, channel)
		h.consume(ctx, sub.Channel())
		_ = sub.Close()
		if ctx.Err() != nil {
			return
		}
		h.logger.WithField("channel", channel).Error("pubsub channel closed, reconnecting")
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

func (h *Hub) consume(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var a domain.Activity
			if err := sonic.UnmarshalString(msg.Payload, &a); err != nil {
				h.logger.WithError(err).Error("unable to parse activity")
				continue
			}
			if a.WorkspaceID == "" {
				h.logger.Warn("activity without workspace id - ignoring it")
				continue
			}
			h.Broadcast(a.WorkspaceID, []byte(msg.Payload))
		}
	}
}

// Publish sends an activity to the channel the hubs listen on.
func Publish(ctx context.Context, rc *redis.Client, channel string, a domain.Activity) error {
	data, err := sonic.Marshal(a)
	if err != nil {
		return err
	}
	return rc.Publish(ctx, channel, data).Err()
}
