package notification

import (
	"context"

	"roamly/models"
)

// EventEmitter dispatches booking lifecycle events to downstream notification
// and email collaborators. Emission is best-effort from the booking core's
// perspective: callers log failures and move on.
type EventEmitter interface {
	Emit(ctx context.Context, event string, payload models.BookingEventPayload) error
}
