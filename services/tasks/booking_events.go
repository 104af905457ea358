package tasks

import (
	"encoding/json"

	"roamly/models"

	"github.com/hibiken/asynq"
)

const TypeBookingEvent = "booking:event"

// NewBookingEventTask wraps a booking lifecycle event for the side-effect
// queue.
func NewBookingEventTask(payload models.BookingEventPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingEvent, b)
	opts := []asynq.Option{asynq.MaxRetry(5)}

	return task, opts, nil
}
