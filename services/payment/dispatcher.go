package payment

import (
	"context"
	"fmt"

	"roamly/models"
	"roamly/services/tasks"

	"github.com/hibiken/asynq"
)

// QueueRefundDispatcher enqueues refund requests for the side-effect worker.
// The queue owns retries; the cancellation that produced the request has
// already committed.
type QueueRefundDispatcher struct {
	client *asynq.Client
}

func NewQueueRefundDispatcher(client *asynq.Client) *QueueRefundDispatcher {
	return &QueueRefundDispatcher{client: client}
}

func (d *QueueRefundDispatcher) Dispatch(ctx context.Context, req models.RefundRequest) error {
	task, opts, err := tasks.NewRefundRequestTask(req)
	if err != nil {
		return fmt.Errorf("failed to build refund request task: %w", err)
	}
	if _, err := d.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue refund request: %w", err)
	}
	return nil
}
