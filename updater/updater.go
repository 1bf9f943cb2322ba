// Package updater drains the activity queue, invalidates cached workspace
// listings and relays each activity to live subscribers.
package updater

import (
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"workroll/domain"
	"workroll/stream"
)

// Queue is the activity queue consumed by the updater.
type Queue interface {
	DequeueActivity(ctx context.Context) (*azqueue.DequeuedMessage, error)
	DeleteActivity(ctx context.Context, id, receipt string) error
}

// Evictor drops cached listings of a workspace.
type Evictor interface {
	Evict(ctx context.Context, workspaceID string)
}

// Updater processes queued activity one message at a time.
type Updater struct {
	queue   Queue
	cache   Evictor
	rc      *redis.Client
	channel string
	poll    time.Duration
	logger  *log.Logger
}

// New creates an Updater. cache may be nil when caching is disabled.
func New(queue Queue, cache Evictor, rc *redis.Client, channel string, poll time.Duration, logger *log.Logger) *Updater {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if poll <= 0 {
		poll = time.Second
	}
	return &Updater{queue: queue, cache: cache, rc: rc, channel: channel, poll: poll, logger: logger}
}

// Run polls the queue until ctx is cancelled.
func (u *Updater) Run(ctx context.Context) {
	u.logger.WithField("channel", u.channel).Info("activity updater starting")
	for ctx.Err() == nil {
		handled, err := u.Step(ctx)
		if err != nil {
			u.logger.WithError(err).Error("receive activity")
		}
		if handled && err == nil {
			continue
		}
		select {
		case <-ctx.Done():
		case <-time.After(u.poll):
		}
	}
}

// Step handles at most one message and reports whether one was found.
func (u *Updater) Step(ctx context.Context) (bool, error) {
	msg, err := u.queue.DequeueActivity(ctx)
	if err != nil || msg == nil {
		return false, err
	}
	if msg.MessageText != nil {
		u.process(ctx, *msg.MessageText)
	}
	if msg.MessageID != nil && msg.PopReceipt != nil {
		if err := u.queue.DeleteActivity(ctx, *msg.MessageID, *msg.PopReceipt); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (u *Updater) process(ctx context.Context, payload string) {
	var a domain.Activity
	if err := sonic.UnmarshalString(payload, &a); err != nil || a.WorkspaceID == "" {
		u.logger.WithField("payload", payload).Warn("dropping malformed activity")
		return
	}
	entry := u.logger.WithFields(log.Fields{
		"workspace_id": a.WorkspaceID,
		"entity":       a.Entity,
		"type":         a.Type,
	})
	if u.cache != nil {
		u.cache.Evict(ctx, a.WorkspaceID)
	}
	if u.rc == nil {
		return
	}
	if err := stream.Publish(ctx, u.rc, u.channel, a); err != nil {
		entry.WithError(err).Error("unable to publish activity")
		return
	}
	entry.Debug("activity relayed")
}
