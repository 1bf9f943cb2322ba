package storage

import (
	"context"
	"encoding/json"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"

	"workroll/domain"
)

// PublishActivity enqueues an activity event for the updater.
func (s *Storage) PublishActivity(ctx context.Context, a domain.Activity) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	_, err = s.activity.EnqueueMessage(ctx, string(data), nil)
	return err
}

// DequeueActivity retrieves a single message from the activity queue, or nil
// when the queue is empty.
func (s *Storage) DequeueActivity(ctx context.Context) (*azqueue.DequeuedMessage, error) {
	resp, err := s.activity.DequeueMessage(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(resp.Messages) == 0 {
		return nil, nil
	}
	return resp.Messages[0], nil
}

// DeleteActivity removes a processed message from the queue.
func (s *Storage) DeleteActivity(ctx context.Context, id, receipt string) error {
	_, err := s.activity.DeleteMessage(ctx, id, receipt, nil)
	return err
}
