package notification

import (
	"context"
	"fmt"

	"roamly/models"
	"roamly/services/tasks"

	"github.com/hibiken/asynq"
)

// QueueEventEmitter enqueues events onto the side-effect queue, where the
// worker retries delivery independently of the request that produced them.
type QueueEventEmitter struct {
	client *asynq.Client
}

func NewQueueEventEmitter(client *asynq.Client) *QueueEventEmitter {
	return &QueueEventEmitter{client: client}
}

func (e *QueueEventEmitter) Emit(ctx context.Context, event string, payload models.BookingEventPayload) error {
	payload.Event = event
	task, opts, err := tasks.NewBookingEventTask(payload)
	if err != nil {
		return fmt.Errorf("failed to build booking event task: %w", err)
	}
	if _, err := e.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue booking event: %w", err)
	}
	return nil
}
